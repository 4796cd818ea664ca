package db

import (
	"sync"
	"time"
)

// MemDatabase is a straw-man in-memory database (for testing!). The
// mutex is there because API tests drive it through a live
// httptest.Server.
type MemDatabase struct {
	cfg         Config
	mu          sync.Mutex
	subscribers map[string]Subscriber
}

// InitMemDatabase returns an empty MemDatabase.
func InitMemDatabase(cfg Config) *MemDatabase {
	return &MemDatabase{
		cfg:         cfg,
		subscribers: make(map[string]Subscriber),
	}
}

func (db *MemDatabase) GetSubscriberStatus(email string) (SubscriberStatus, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	sub, ok := db.subscribers[email]
	if !ok {
		return StatusUnknown, nil
	}
	return sub.Status, nil
}

func (db *MemDatabase) AddPendingSubscriber(email string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	// Insert-if-absent, matching the SQL ON CONFLICT DO NOTHING.
	if _, ok := db.subscribers[email]; ok {
		return nil
	}
	db.subscribers[email] = Subscriber{
		Email:       email,
		Status:      StatusNotConfirmed,
		LastUpdated: time.Now(),
	}
	return nil
}

func (db *MemDatabase) ConfirmSubscriber(email string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.subscribers[email] = Subscriber{
		Email:       email,
		Status:      StatusConfirmed,
		LastUpdated: time.Now(),
	}
	return nil
}

func (db *MemDatabase) ClearSubscribers() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.subscribers = make(map[string]Subscriber)
	return nil
}
