// Package sessions declares the session store: one refresh-token record per
// (user, device) pair.
package sessions

import (
	"context"

	"github.com/dmitrijs2005/gatekeeper/internal/server/models"
)

// Repository defines operations on session rows.
type Repository interface {
	// Upsert creates the (UserID, DeviceKey) row or replaces its refresh token.
	Upsert(ctx context.Context, s *models.Session) error

	// FindByToken returns the row holding exactly this refresh token.
	FindByToken(ctx context.Context, refreshToken string) (*models.Session, error)

	// FindByUserDevice returns the row for the (userID, deviceKey) pair.
	FindByUserDevice(ctx context.Context, userID, deviceKey string) (*models.Session, error)

	// ReplaceToken swaps currentToken for newToken in a single statement.
	// It returns common.ErrorNotFound when no row holds currentToken anymore,
	// which is how a lost renewal race is detected.
	ReplaceToken(ctx context.Context, currentToken, newToken string) error

	// Delete removes the (userID, deviceKey) row, or returns common.ErrorNotFound.
	Delete(ctx context.Context, userID, deviceKey string) error
}
