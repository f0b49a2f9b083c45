package customers

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/wtg/vaultsync/internal/common"
	"github.com/wtg/vaultsync/internal/server/audit"
	"github.com/wtg/vaultsync/internal/server/models"
)

// Input is the caller-supplied payload for create and update. ID is only
// honored on create, letting clients keep their locally assigned ids.
type Input struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company,omitempty"`
}

func (in Input) validate() error {
	if in.Name == "" {
		return fmt.Errorf("%w: name is required", common.ErrValidation)
	}
	if in.Email == "" {
		return fmt.Errorf("%w: email is required", common.ErrValidation)
	}
	return nil
}

// Service implements the customer mutations. Every accepted write bumps the
// version by one and appends an audit entry attributed to the caller.
type Service struct {
	repo  Repository
	audit *audit.Service
}

func NewService(repo Repository, auditSvc *audit.Service) *Service {
	return &Service{repo: repo, audit: auditSvc}
}

// List returns the non-deleted customers, most recently updated first.
func (s *Service) List(ctx context.Context) ([]models.Customer, error) {
	return s.repo.List(ctx)
}

// Create inserts a new customer at version 1.
func (s *Service) Create(ctx context.Context, in Input, userID string) (models.Customer, error) {
	if err := in.validate(); err != nil {
		return models.Customer{}, err
	}

	id := in.ID
	if id == "" {
		id = uuid.NewString()
	}
	c := models.Customer{
		ID:          id,
		Name:        in.Name,
		Email:       in.Email,
		Company:     in.Company,
		Version:     1,
		UpdatedAt:   common.NowMillis(),
		UpdatedByID: userID,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return models.Customer{}, err
	}

	if err := s.audit.Record(ctx, "customer", c.ID, "create", "Created customer "+c.Name, userID); err != nil {
		return models.Customer{}, err
	}
	return c, nil
}

// Update replaces the editable fields of a live customer. Tombstoned or
// missing ids fail with common.ErrNotFound.
func (s *Service) Update(ctx context.Context, id string, in Input, userID string) (models.Customer, error) {
	if err := in.validate(); err != nil {
		return models.Customer{}, err
	}

	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return models.Customer{}, err
	}
	if existing.Tombstoned() {
		return models.Customer{}, common.ErrNotFound
	}

	existing.Name = in.Name
	existing.Email = in.Email
	existing.Company = in.Company
	existing.Version++
	existing.UpdatedAt = common.NowMillis()
	existing.UpdatedByID = userID

	if err := s.repo.Update(ctx, existing); err != nil {
		return models.Customer{}, err
	}
	if err := s.audit.Record(ctx, "customer", id, "update", "Updated customer "+existing.Name, userID); err != nil {
		return models.Customer{}, err
	}
	return existing, nil
}

// Delete tombstones a live customer and bumps the version.
func (s *Service) Delete(ctx context.Context, id string, userID string) (models.Customer, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return models.Customer{}, err
	}
	if existing.Tombstoned() {
		return models.Customer{}, common.ErrNotFound
	}

	now := common.NowMillis()
	existing.DeletedAt = &now
	existing.Version++
	existing.UpdatedAt = now
	existing.UpdatedByID = userID

	if err := s.repo.Update(ctx, existing); err != nil {
		return models.Customer{}, err
	}
	if err := s.audit.Record(ctx, "customer", id, "delete", "Deleted customer "+existing.Name, userID); err != nil {
		return models.Customer{}, err
	}
	return existing, nil
}
