package models

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/gatekeeper-page/newsletter-backend/db"
)

// User-facing failures of the subscription flow. The API layer maps
// these onto wire error codes.
var (
	// ErrNoEmail indicates a subscribe request without an email address.
	ErrNoEmail = errors.New("no email address provided")
	// ErrAlreadySubscribed indicates an email we already hold a record
	// for. Both not_confirmed and confirmed count as subscribed.
	ErrAlreadySubscribed = errors.New("email is already subscribed")
	// ErrInvalidCode indicates a confirmation code that doesn't verify
	// against the given email, including malformed codes.
	ErrInvalidCode = errors.New("invalid confirmation code")
)

// DeliveryError wraps a failure from the email provider. The operation
// it interrupted was not persisted, so the caller can retry it.
type DeliveryError struct {
	Err error
}

func (e DeliveryError) Error() string {
	return fmt.Sprintf("email provider request failed: %v", e.Err)
}

// subscriberStore is a simple interface for reading and writing
// subscriber statuses.
type subscriberStore interface {
	GetSubscriberStatus(string) (db.SubscriberStatus, error)
	AddPendingSubscriber(string) error
	ConfirmSubscriber(string) error
}

// emailSender wraps the transactional-email provider.
type emailSender interface {
	// SendConfirmation sends the confirmation email for an address,
	// with confirmLink embedded in the message template.
	SendConfirmation(address string, confirmLink string) error
	// UpsertContact adds an address to the configured contact list.
	UpsertContact(address string) error
}

// ConfirmLink builds the link a subscriber clicks to complete the
// double opt-in, pointing back at the /confirm endpoint on host.
func ConfirmLink(host string, email string, code string) string {
	return fmt.Sprintf("https://%s/confirm?email=%s&code=%s",
		host, url.QueryEscape(email), url.QueryEscape(code))
}

// RequestSubscription starts the double opt-in for email: signs a
// confirmation code, mails the confirm link for host, then records the
// subscriber as not_confirmed.
//
// The email goes out before the pending row is written. If the
// provider fails (or we crash in between) nothing is persisted, so the
// subscriber isn't locked behind ErrAlreadySubscribed for a
// confirmation mail that never arrived.
func RequestSubscription(email string, host string, store subscriberStore, emailer emailSender, signer *Signer) error {
	if email == "" {
		return ErrNoEmail
	}
	status, err := store.GetSubscriberStatus(email)
	if err != nil {
		return err
	}
	// Any existing record counts, pending or confirmed.
	if status != db.StatusUnknown {
		return ErrAlreadySubscribed
	}
	link := ConfirmLink(host, email, signer.Sign(email))
	if err := emailer.SendConfirmation(email, link); err != nil {
		return DeliveryError{Err: err}
	}
	return store.AddPendingSubscriber(email)
}

// ConfirmSubscription completes the double opt-in for email, given the
// code from its confirmation link. A valid code confirms the
// subscriber whatever their stored status, even absent: code validity
// is a pure function of (secret, email) and carries no state binding.
//
// The contact upsert happens before the confirmed write. Codes never
// expire, so on provider failure the confirmed write is withheld and
// the same link can be retried.
func ConfirmSubscription(email string, code string, store subscriberStore, emailer emailSender, signer *Signer) error {
	if !signer.Verify(email, code) {
		return ErrInvalidCode
	}
	if err := emailer.UpsertContact(email); err != nil {
		return DeliveryError{Err: err}
	}
	return store.ConfirmSubscriber(email)
}
