package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gatekeeper/internal/dbx"
	"github.com/dmitrijs2005/gatekeeper/internal/server/repositories/registrationkeys"
	"github.com/dmitrijs2005/gatekeeper/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/gatekeeper/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to either the pool or an open
// transaction, so services can group writes with dbx.WithTx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	RegistrationKeys(db dbx.DBTX) registrationkeys.Repository
}
