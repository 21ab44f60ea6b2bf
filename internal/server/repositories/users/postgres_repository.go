package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

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

func (r *PostgresRepository) Create(ctx context.Context, user *models.User, passwordHash string) (*models.User, error) {

	query :=
		`INSERT INTO users (id, username)
		 VALUES ($1, $2)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query, user.ID, user.UserName).Scan(&user.CreatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	query =
		`INSERT INTO credentials (user_id, password_hash)
		 VALUES ($1, $2)
		 `

	if _, err := r.db.ExecContext(ctx, query, user.ID, passwordHash); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetCredentialsByUsername(ctx context.Context, userName string) (*models.User, *models.Credential, error) {
	query :=
		`SELECT u.id, u.username, u.created_at, c.password_hash
		 FROM users u
		 JOIN credentials c ON c.user_id = u.id
		 WHERE u.username = $1
		 `

	user := &models.User{}
	cred := &models.Credential{}
	err := r.db.QueryRowContext(ctx, query, userName).Scan(&user.ID, &user.UserName, &user.CreatedAt, &cred.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, common.ErrorNotFound
		}
		return nil, nil, fmt.Errorf("db error: %w", err)
	}
	cred.UserID = user.ID

	return user, cred, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query :=
		`SELECT id, username, created_at FROM users
		 WHERE id = $1
		 `

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&user.ID, &user.UserName, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, userName string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userName).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return exists, nil
}
