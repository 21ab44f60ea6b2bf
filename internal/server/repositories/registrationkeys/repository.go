// Package registrationkeys declares the invitation store.
package registrationkeys

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gatekeeper/internal/server/models"
)

type Repository interface {
	// Create stores the key; CreatedAt is filled from the database.
	Create(ctx context.Context, key *models.RegistrationKey) error

	// GetExpiration returns the expiry of key or common.ErrorNotFound.
	GetExpiration(ctx context.Context, key string) (time.Time, error)
}
