package db

import (
	"database/sql"
	"fmt"
	"log"
	"net/url"

	// Imports postgresql driver for database/sql
	_ "github.com/lib/pq"
)

// SQLDatabase is a Database interface backed by postgresql.
type SQLDatabase struct {
	cfg  Config  // Configuration to define the DB connection.
	conn *sql.DB // The database connection.
}

func getConnectionString(cfg Config) string {
	connectionString := fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable",
		url.PathEscape(cfg.DbUsername),
		url.PathEscape(cfg.DbPass),
		url.PathEscape(cfg.DbHost),
		url.PathEscape(cfg.DbName))
	return connectionString
}

// InitSQLDatabase creates a DB connection based on information in a Config, and
// returns a pointer to the resulting SQLDatabase object. If connection fails,
// returns an error.
func InitSQLDatabase(cfg Config) (*SQLDatabase, error) {
	connectionString := getConnectionString(cfg)
	log.Printf("Connecting to Postgres DB ...\n")
	conn, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, err
	}
	return &SQLDatabase{cfg: cfg, conn: conn}, nil
}

// GetSubscriberStatus retrieves the status for an email address. A
// missing row reads as StatusUnknown.
func (db *SQLDatabase) GetSubscriberStatus(email string) (SubscriberStatus, error) {
	var status SubscriberStatus
	err := db.conn.QueryRow("SELECT status FROM subscribers WHERE email=$1",
		email).Scan(&status)
	if err == sql.ErrNoRows {
		return StatusUnknown, nil
	}
	if err != nil {
		return StatusUnknown, err
	}
	return status, nil
}

// AddPendingSubscriber inserts a not_confirmed row for email. The
// insert is conditional on no row existing, so racing writes can't
// regress a confirmed subscriber back to pending.
func (db *SQLDatabase) AddPendingSubscriber(email string) error {
	_, err := db.conn.Exec(`INSERT INTO subscribers(email, status, last_updated)
		VALUES($1, $2, NOW()) ON CONFLICT (email) DO NOTHING`,
		email, StatusNotConfirmed)
	return err
}

// ConfirmSubscriber upserts a confirmed row for email, whatever its
// prior state.
func (db *SQLDatabase) ConfirmSubscriber(email string) error {
	_, err := db.conn.Exec(`INSERT INTO subscribers(email, status, last_updated)
		VALUES($1, $2, NOW())
		ON CONFLICT (email) DO UPDATE SET status=$2, last_updated=NOW()`,
		email, StatusConfirmed)
	return err
}

// ClearSubscribers clears the subscribers table.
func (db *SQLDatabase) ClearSubscribers() error {
	_, err := db.conn.Exec("DELETE FROM subscribers")
	return err
}
