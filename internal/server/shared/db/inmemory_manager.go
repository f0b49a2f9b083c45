package db

import (
	"context"
	"database/sql"

	"github.com/wtg/vaultsync/internal/server/audit"
	"github.com/wtg/vaultsync/internal/server/credentials"
	"github.com/wtg/vaultsync/internal/server/customers"
	"github.com/wtg/vaultsync/internal/server/users"
)

type InMemoryRepositoryManager struct {
	users       users.Repository
	customers   customers.Repository
	credentials credentials.Repository
	audit       audit.Repository
}

func (m InMemoryRepositoryManager) Conn() *sql.DB {
	return nil
}

func (m InMemoryRepositoryManager) RunMigrations(ctx context.Context) error {
	return nil
}

func (m InMemoryRepositoryManager) Users() users.Repository {
	return m.users
}

func (m InMemoryRepositoryManager) Customers() customers.Repository {
	return m.customers
}

func (m InMemoryRepositoryManager) Credentials() credentials.Repository {
	return m.credentials
}

func (m InMemoryRepositoryManager) Audit() audit.Repository {
	return m.audit
}

func NewInMemoryRepositoryManager() RepositoryManager {
	return InMemoryRepositoryManager{
		users:       users.NewInMemoryRepository(),
		customers:   customers.NewInMemoryRepository(),
		credentials: credentials.NewInMemoryRepository(),
		audit:       audit.NewInMemoryRepository(),
	}
}
