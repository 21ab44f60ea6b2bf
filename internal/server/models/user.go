// Package models defines the server-side entities persisted by the stores
// and exchanged between services and transports.
package models

import "time"

// User is an identity record. Immutable after sign-up.
type User struct {
	ID        string
	UserName  string
	CreatedAt time.Time
}

// Credential is the one-to-one password record of a User.
type Credential struct {
	UserID       string
	PasswordHash string
}

// Identity is what the access guard places into the request context.
type Identity struct {
	UserID   string
	UserName string
}
