// Package audit stores the append-only mutation trail. Entries are
// informational: sync logic never consults them.
package audit

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/wtg/vaultsync/internal/common"
	"github.com/wtg/vaultsync/internal/server/models"
)

// ListLimit bounds how many entries a list call returns, newest first.
const ListLimit = 200

type Repository interface {
	Append(ctx context.Context, entry models.AuditLog) error
	List(ctx context.Context, limit int) ([]models.AuditLog, error)
}

// Service assigns ids and timestamps and delegates to the repository.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Record appends an entry attributed to userID (empty for system actions).
func (s *Service) Record(ctx context.Context, entityType, entityID, action, details, userID string) error {
	entry := models.AuditLog{
		ID:         uuid.NewString(),
		EntityID:   entityID,
		EntityType: entityType,
		Action:     action,
		Details:    details,
		UserID:     userID,
		CreatedAt:  common.NowMillis(),
	}
	if err := s.repo.Append(ctx, entry); err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

// List returns the most recent entries, newest first.
func (s *Service) List(ctx context.Context) ([]models.AuditLog, error) {
	return s.repo.List(ctx, ListLimit)
}
