package credentials

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/wtg/vaultsync/internal/common"
	"github.com/wtg/vaultsync/internal/server/audit"
	"github.com/wtg/vaultsync/internal/server/models"
)

// Input is the caller-supplied payload for create and update. ID is only
// honored on create. EncryptedSecret and IV are opaque to the server.
type Input struct {
	ID              string `json:"id,omitempty"`
	CustomerID      string `json:"customerId"`
	Title           string `json:"title"`
	Username        string `json:"username"`
	EncryptedSecret string `json:"encryptedSecret"`
	IV              string `json:"iv"`
	URL             string `json:"url,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

func (in Input) validate() error {
	if in.CustomerID == "" {
		return fmt.Errorf("%w: customerId is required", common.ErrValidation)
	}
	if in.Title == "" {
		return fmt.Errorf("%w: title is required", common.ErrValidation)
	}
	if in.EncryptedSecret == "" || in.IV == "" {
		return fmt.Errorf("%w: encryptedSecret and iv are required", common.ErrValidation)
	}
	return nil
}

// Service implements the credential mutations, mirroring the customer
// service: version+1 per accepted write, audit entry per mutation.
type Service struct {
	repo  Repository
	audit *audit.Service
}

func NewService(repo Repository, auditSvc *audit.Service) *Service {
	return &Service{repo: repo, audit: auditSvc}
}

func (s *Service) List(ctx context.Context) ([]models.Credential, error) {
	return s.repo.List(ctx)
}

func (s *Service) Create(ctx context.Context, in Input, userID string) (models.Credential, error) {
	if err := in.validate(); err != nil {
		return models.Credential{}, err
	}

	id := in.ID
	if id == "" {
		id = uuid.NewString()
	}
	c := models.Credential{
		ID:              id,
		CustomerID:      in.CustomerID,
		Title:           in.Title,
		Username:        in.Username,
		EncryptedSecret: in.EncryptedSecret,
		IV:              in.IV,
		URL:             in.URL,
		Notes:           in.Notes,
		Version:         1,
		UpdatedAt:       common.NowMillis(),
		UpdatedByID:     userID,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return models.Credential{}, err
	}

	if err := s.audit.Record(ctx, "credential", c.ID, "create", "Created credential "+c.Title, userID); err != nil {
		return models.Credential{}, err
	}
	return c, nil
}

func (s *Service) Update(ctx context.Context, id string, in Input, userID string) (models.Credential, error) {
	if err := in.validate(); err != nil {
		return models.Credential{}, err
	}

	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return models.Credential{}, err
	}
	if existing.Tombstoned() {
		return models.Credential{}, common.ErrNotFound
	}

	existing.CustomerID = in.CustomerID
	existing.Title = in.Title
	existing.Username = in.Username
	existing.EncryptedSecret = in.EncryptedSecret
	existing.IV = in.IV
	existing.URL = in.URL
	existing.Notes = in.Notes
	existing.Version++
	existing.UpdatedAt = common.NowMillis()
	existing.UpdatedByID = userID

	if err := s.repo.Update(ctx, existing); err != nil {
		return models.Credential{}, err
	}
	if err := s.audit.Record(ctx, "credential", id, "update", "Updated credential "+existing.Title, userID); err != nil {
		return models.Credential{}, err
	}
	return existing, nil
}

func (s *Service) Delete(ctx context.Context, id string, userID string) (models.Credential, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return models.Credential{}, err
	}
	if existing.Tombstoned() {
		return models.Credential{}, common.ErrNotFound
	}

	now := common.NowMillis()
	existing.DeletedAt = &now
	existing.Version++
	existing.UpdatedAt = now
	existing.UpdatedByID = userID

	if err := s.repo.Update(ctx, existing); err != nil {
		return models.Credential{}, err
	}
	if err := s.audit.Record(ctx, "credential", id, "delete", "Deleted credential "+existing.Title, userID); err != nil {
		return models.Credential{}, err
	}
	return existing, nil
}
