package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"github.com/dmitrijs2005/gatekeeper/internal/dbx"
	"github.com/dmitrijs2005/gatekeeper/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, s *models.Session) error {
	query := `
		INSERT INTO sessions (user_id, device_key, refresh_token, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id, device_key)
		DO UPDATE SET refresh_token = EXCLUDED.refresh_token, updated_at = now()
	`
	if _, err := r.db.ExecContext(ctx, query, s.UserID, s.DeviceKey, s.RefreshToken); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) scanOne(ctx context.Context, query string, args ...any) (*models.Session, error) {
	s := &models.Session{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&s.UserID, &s.DeviceKey, &s.RefreshToken, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) FindByToken(ctx context.Context, refreshToken string) (*models.Session, error) {
	query := `
		SELECT user_id, device_key, refresh_token, updated_at
		FROM sessions
		WHERE refresh_token = $1
	`
	return r.scanOne(ctx, query, refreshToken)
}

func (r *PostgresRepository) FindByUserDevice(ctx context.Context, userID, deviceKey string) (*models.Session, error) {
	query := `
		SELECT user_id, device_key, refresh_token, updated_at
		FROM sessions
		WHERE user_id = $1 AND device_key = $2
	`
	return r.scanOne(ctx, query, userID, deviceKey)
}

func affectedOrNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) ReplaceToken(ctx context.Context, currentToken, newToken string) error {
	query := `
		UPDATE sessions
		SET refresh_token = $2, updated_at = now()
		WHERE refresh_token = $1
	`
	res, err := r.db.ExecContext(ctx, query, currentToken, newToken)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return affectedOrNotFound(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, deviceKey string) error {
	query := `
		DELETE FROM sessions
		WHERE user_id = $1 AND device_key = $2
	`
	res, err := r.db.ExecContext(ctx, query, userID, deviceKey)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return affectedOrNotFound(res)
}
