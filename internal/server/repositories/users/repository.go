// Package users declares the credential store: user identities and their
// password hashes.
package users

import (
	"context"

	"github.com/dmitrijs2005/gatekeeper/internal/server/models"
)

// Repository persists users and credentials. Implementations return
// common.ErrorNotFound for missing rows and common.ErrorConflict when the
// username is already taken.
type Repository interface {
	// Create inserts the user and its credential. Run it inside a transaction
	// to get all-or-nothing semantics.
	Create(ctx context.Context, user *models.User, passwordHash string) (*models.User, error)

	// GetCredentialsByUsername returns the user and its password hash.
	GetCredentialsByUsername(ctx context.Context, userName string) (*models.User, *models.Credential, error)

	// GetByID returns the user with the given id.
	GetByID(ctx context.Context, id string) (*models.User, error)

	// Exists reports whether userName is taken.
	Exists(ctx context.Context, userName string) (bool, error)
}
