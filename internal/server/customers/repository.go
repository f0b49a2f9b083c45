// Package customers provides storage and the mutation service for the
// server's customer records.
package customers

import (
	"context"

	"github.com/wtg/vaultsync/internal/server/models"
)

// Repository is the customer storage contract. Get returns tombstoned rows
// too; List filters them out. Missing rows map to common.ErrNotFound.
type Repository interface {
	List(ctx context.Context) ([]models.Customer, error)
	Get(ctx context.Context, id string) (models.Customer, error)
	Create(ctx context.Context, c models.Customer) error
	Update(ctx context.Context, c models.Customer) error
	UpdatedSince(ctx context.Context, since int64) ([]models.Customer, error)
}
