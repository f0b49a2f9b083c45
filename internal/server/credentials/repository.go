// Package credentials provides storage and the mutation service for the
// server's credential records. Secrets arrive already encrypted; the
// server stores the ciphertext and IV verbatim.
package credentials

import (
	"context"

	"github.com/wtg/vaultsync/internal/server/models"
)

// Repository is the credential storage contract. Get returns tombstoned
// rows too; List filters them out. Missing rows map to common.ErrNotFound.
type Repository interface {
	List(ctx context.Context) ([]models.Credential, error)
	Get(ctx context.Context, id string) (models.Credential, error)
	Create(ctx context.Context, c models.Credential) error
	Update(ctx context.Context, c models.Credential) error
	UpdatedSince(ctx context.Context, since int64) ([]models.Credential, error)
}
