package registrationkeys

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"github.com/dmitrijs2005/gatekeeper/internal/dbx"
	"github.com/dmitrijs2005/gatekeeper/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, key *models.RegistrationKey) error {
	query := `
		INSERT INTO registration_keys (key, creator_user_id, expires_at)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query, key.Key, key.CreatorUserID, key.ExpiresAt).Scan(&key.CreatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrorConflict
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetExpiration(ctx context.Context, key string) (time.Time, error) {
	query := `
		SELECT expires_at
		FROM registration_keys
		WHERE key = $1
	`
	var expiresAt time.Time
	if err := r.db.QueryRowContext(ctx, query, key).Scan(&expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, common.ErrorNotFound
		}
		return time.Time{}, fmt.Errorf("db error: %w", err)
	}
	return expiresAt, nil
}
