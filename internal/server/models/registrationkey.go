package models

import "time"

// RegistrationKey gates sign-up. It is usable by any number of sign-ups
// until ExpiresAt.
type RegistrationKey struct {
	Key           string
	CreatorUserID string
	ExpiresAt     time.Time
	CreatedAt     time.Time
}

// Valid reports whether the key can still be used at now.
func (k *RegistrationKey) Valid(now time.Time) bool {
	return now.Before(k.ExpiresAt)
}
