package db

import (
	"testing"
)

func TestStatusForUnknownEmail(t *testing.T) {
	database := InitMemDatabase(Config{})
	status, err := database.GetSubscriberStatus("nobody@example.com")
	if err != nil {
		t.Fatalf("GetSubscriberStatus failed: %v", err)
	}
	if status != StatusUnknown {
		t.Errorf("Expected unsubmitted email to read as %s, got %s", StatusUnknown, status)
	}
}

func TestAddPendingSubscriber(t *testing.T) {
	database := InitMemDatabase(Config{})
	if err := database.AddPendingSubscriber("me@example.com"); err != nil {
		t.Fatalf("AddPendingSubscriber failed: %v", err)
	}
	status, _ := database.GetSubscriberStatus("me@example.com")
	if status != StatusNotConfirmed {
		t.Errorf("Expected status %s, got %s", StatusNotConfirmed, status)
	}
}

func TestPendingWriteDoesNotRegressConfirmed(t *testing.T) {
	database := InitMemDatabase(Config{})
	if err := database.ConfirmSubscriber("me@example.com"); err != nil {
		t.Fatalf("ConfirmSubscriber failed: %v", err)
	}
	// A slow subscribe finishing after a confirm must not clobber it.
	if err := database.AddPendingSubscriber("me@example.com"); err != nil {
		t.Fatalf("AddPendingSubscriber failed: %v", err)
	}
	status, _ := database.GetSubscriberStatus("me@example.com")
	if status != StatusConfirmed {
		t.Errorf("Pending write regressed confirmed subscriber to %s", status)
	}
}

func TestConfirmIsIdempotentAndStateIndependent(t *testing.T) {
	database := InitMemDatabase(Config{})
	// Confirming an email we've never seen still lands on confirmed.
	database.ConfirmSubscriber("me@example.com")
	database.ConfirmSubscriber("me@example.com")
	status, _ := database.GetSubscriberStatus("me@example.com")
	if status != StatusConfirmed {
		t.Errorf("Expected status %s, got %s", StatusConfirmed, status)
	}
}

func TestEmailKeysAreCaseSensitive(t *testing.T) {
	database := InitMemDatabase(Config{})
	database.AddPendingSubscriber("Me@Example.com")
	status, _ := database.GetSubscriberStatus("me@example.com")
	if status != StatusUnknown {
		t.Errorf("Lookups should be case-sensitive, got %s", status)
	}
}
