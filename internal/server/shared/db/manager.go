// Package db wires the concrete repositories behind a single manager so
// the application can swap Postgres for an in-memory store in tests.
package db

import (
	"context"
	"database/sql"

	"github.com/wtg/vaultsync/internal/server/audit"
	"github.com/wtg/vaultsync/internal/server/credentials"
	"github.com/wtg/vaultsync/internal/server/customers"
	"github.com/wtg/vaultsync/internal/server/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Users() users.Repository
	Customers() customers.Repository
	Credentials() credentials.Repository
	Audit() audit.Repository
}
