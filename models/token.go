package models

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// Signer produces and verifies confirmation codes for email addresses.
// A code is the base64 encoding of an HMAC-SHA256 over the raw bytes of
// the address, so its validity is a pure function of (secret, email):
// nothing is stored and nothing expires.
type Signer struct {
	secret []byte
}

// NewSigner wraps the shared secret in a Signer. The secret is held in
// one place and passed by reference; there is no package-level key.
func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret)}
}

// Sign returns the confirmation code for an email address.
// Deterministic: the same address and secret always produce the same
// code.
func (s *Signer) Sign(email string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(email))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Verify reports whether code is a valid confirmation code for email.
// Malformed base64 counts as a failed verification rather than an
// error. hmac.Equal compares in constant time.
func (s *Signer) Verify(email string, code string) bool {
	given, err := base64.StdEncoding.DecodeString(code)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(email))
	return hmac.Equal(given, mac.Sum(nil))
}
