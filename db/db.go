package db

import (
	"flag"
	"os"
	"time"
)

///////////////////////////////////////
//  *****   DATABASE SCHEMA   *****  //
///////////////////////////////////////

// SubscriberStatus represents the confirmation state of a single email
// address.
type SubscriberStatus string

// Possible values for SubscriberStatus.
const (
	StatusUnknown      SubscriberStatus = "unknown"       // E-mail was never submitted, so we don't know.
	StatusNotConfirmed SubscriberStatus = "not_confirmed" // Confirmation e-mail sent, link not yet clicked.
	StatusConfirmed    SubscriberStatus = "confirmed"     // Double opt-in completed.
)

// Subscriber mirrors a row of the subscribers table.
type Subscriber struct {
	Email       string           `json:"email"`
	Status      SubscriberStatus `json:"status"`
	LastUpdated time.Time        `json:"last_updated"`
}

// Database interface: These are the things that the Database should be
// able to do. E-mail addresses are keys exactly as received; callers
// must not normalize them.
type Database interface {
	// Retrieves the status of a subscriber. Unsubmitted e-mails
	// map to StatusUnknown rather than an error.
	GetSubscriberStatus(email string) (SubscriberStatus, error)
	// Inserts a subscriber as not_confirmed, only if no row exists
	// yet for this e-mail. An existing row is left untouched, so a
	// slow subscribe can never knock a confirmed subscriber back to
	// pending.
	AddPendingSubscriber(email string) error
	// Upserts a subscriber to confirmed. Re-confirming is harmless.
	ConfirmSubscriber(email string) error
	ClearSubscribers() error
}

// Config is a configuration struct for a Database.
type Config struct {
	Port       string
	DbHost     string
	DbName     string
	DbUsername string
	DbPass     string
}

// Default configuration values. Can be overwritten by env vars of the same name.
var configDefaults = map[string]string{
	"PORT":         "8080",
	"DB_HOST":      "localhost",
	"DB_NAME":      "newsletter",
	"DB_USERNAME":  "postgres",
	"DB_PASSWORD":  "postgres",
	"TEST_DB_NAME": "newsletter_test",
}

func getEnvOrDefault(varName string) string {
	envVar := os.Getenv(varName)
	if len(envVar) == 0 {
		envVar = configDefaults[varName]
	}
	return envVar
}

// LoadEnvironmentVariables loads relevant environment variables into a
// Config object.
func LoadEnvironmentVariables() (Config, error) {
	config := Config{
		Port:       getEnvOrDefault("PORT"),
		DbHost:     getEnvOrDefault("DB_HOST"),
		DbName:     getEnvOrDefault("DB_NAME"),
		DbUsername: getEnvOrDefault("DB_USERNAME"),
		DbPass:     getEnvOrDefault("DB_PASSWORD"),
	}
	if flag.Lookup("test.v") != nil {
		// Avoid accidentally wiping the default db during tests.
		config.DbName = getEnvOrDefault("TEST_DB_NAME")
	}
	return config, nil
}
