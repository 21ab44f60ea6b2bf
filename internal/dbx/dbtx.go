// Package dbx holds the database plumbing shared by the repositories: the
// DBTX handle that lets one repository run on a pool or inside a
// transaction, the transaction runner, and PostgreSQL error classification.
package dbx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx runs fn inside one transaction. It commits when fn succeeds and
// rolls back when fn fails or panics; panics are rethrown.
//
// A unique violation escaping fn or surfacing at commit is reported as
// common.ErrorConflict, with the driver error still in the chain.
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		} else if cerr := tx.Commit(); cerr != nil {
			err = fmt.Errorf("commit tx: %w", cerr)
		}
		err = asConflict(err)
	}()

	return fn(ctx, tx)
}

func asConflict(err error) error {
	if IsUniqueViolation(err) && !errors.Is(err, common.ErrorConflict) {
		return fmt.Errorf("%w: %w", common.ErrorConflict, err)
	}
	return err
}
