// Package services implements the client engines: local mutations with
// opportunistic remote writes, push/pull reconciliation and conflict
// resolution. All of them share the same vault store and never hold its
// lock across a network call.
package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/wtg/vaultsync/internal/client/api"
	"github.com/wtg/vaultsync/internal/client/models"
	"github.com/wtg/vaultsync/internal/client/vault"
	"github.com/wtg/vaultsync/internal/common"
	"github.com/wtg/vaultsync/internal/logging"
	"github.com/wtg/vaultsync/internal/netx"
)

// CustomerInput is the caller-supplied payload for customer mutations.
type CustomerInput struct {
	Name    string
	Email   string
	Company string
}

// CredentialInput is the caller-supplied payload for credential mutations.
// The secret arrives already encrypted: the engine never sees plaintext.
type CredentialInput struct {
	CustomerID      string
	Title           string
	Username        string
	EncryptedSecret string
	IV              string
	URL             string
	Notes           string
}

// DataService is the local mutation engine. Every mutation completes
// locally first (stamping version, timestamp and the unsynced flag,
// recording audit and a pending operation), then attempts a best-effort
// remote write whose failure is logged and left for the next sync.
type DataService struct {
	store *vault.Store
	api   api.Client
	probe netx.Probe
	log   logging.Logger
}

func NewDataService(store *vault.Store, client api.Client, probe netx.Probe, log logging.Logger) *DataService {
	return &DataService{store: store, api: client, probe: probe, log: log}
}

func newLogEntry(entityType models.EntityType, entityID string, action models.Action, details string) models.AuditLogEntry {
	return models.AuditLogEntry{
		ID:         uuid.NewString(),
		EntityID:   entityID,
		EntityType: entityType,
		Action:     action,
		Timestamp:  common.NowMillis(),
		Details:    details,
	}
}

// LocalState returns the filtered read view. Connectivity is sampled once:
// offline callers only see allowlisted customers and their credentials.
func (s *DataService) LocalState(ctx context.Context) (vault.Snapshot, error) {
	online := s.probe.Online(ctx)
	var snap vault.Snapshot
	err := s.store.View(ctx, func(v *vault.Vault) error {
		snap = v.View(online)
		return nil
	})
	return snap, err
}

// ToggleOffline adds or removes a customer from the offline allowlist.
func (s *DataService) ToggleOffline(ctx context.Context, customerID string, enabled bool) error {
	return s.store.Update(ctx, func(v *vault.Vault) error {
		v.ToggleOffline(customerID, enabled)
		return nil
	})
}

// CreateCustomer inserts a new unsynced customer at version 1 and attempts
// an immediate remote create when online. The local write never fails on
// account of the remote call.
func (s *DataService) CreateCustomer(ctx context.Context, in CustomerInput) (models.Customer, error) {
	c := models.Customer{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Email:     in.Email,
		Company:   in.Company,
		UpdatedAt: common.NowMillis(),
		Version:   1,
		Synced:    false,
	}

	err := s.store.Update(ctx, func(v *vault.Vault) error {
		v.UpsertCustomer(c)
		v.AppendLog(newLogEntry(models.EntityCustomer, c.ID, models.ActionCreate, "Created customer "+c.Name))
		v.SetPending(models.PendingOperation{ID: c.ID, EntityType: models.EntityCustomer, Action: models.ActionCreate})
		return nil
	})
	if err != nil {
		return models.Customer{}, err
	}

	if s.probe.Online(ctx) {
		s.remoteWriteCustomer(ctx, c.ID, func() (api.ServerCustomer, error) {
			return s.api.CreateCustomer(ctx, api.CustomerPayload{
				ID: c.ID, Name: in.Name, Email: in.Email, Company: in.Company,
			})
		})
	}
	return c, nil
}

// UpdateCustomer merges the payload onto an existing customer, bumping the
// version and clearing the synced flag. A missing id is silently ignored.
func (s *DataService) UpdateCustomer(ctx context.Context, id string, in CustomerInput) error {
	found := false
	err := s.store.Update(ctx, func(v *vault.Vault) error {
		existing, ok := v.FindCustomer(id)
		if !ok {
			return nil
		}
		found = true
		existing.Name = in.Name
		existing.Email = in.Email
		existing.Company = in.Company
		existing.UpdatedAt = common.NowMillis()
		existing.Version++
		existing.Synced = false
		v.UpsertCustomer(existing)
		v.AppendLog(newLogEntry(models.EntityCustomer, id, models.ActionUpdate, "Updated customer "+existing.Name))
		v.SetPending(models.PendingOperation{ID: id, EntityType: models.EntityCustomer, Action: models.ActionUpdate})
		return nil
	})
	if err != nil || !found {
		return err
	}

	if s.probe.Online(ctx) {
		s.remoteWriteCustomer(ctx, id, func() (api.ServerCustomer, error) {
			return s.api.UpdateCustomer(ctx, id, api.CustomerPayload{
				Name: in.Name, Email: in.Email, Company: in.Company,
			})
		})
	}
	return nil
}

// DeleteCustomer tombstones a customer. The tombstone is itself a
// synchronized mutation: version bump, pending op, opportunistic remote
// delete. A missing id is silently ignored.
func (s *DataService) DeleteCustomer(ctx context.Context, id string) error {
	found := false
	err := s.store.Update(ctx, func(v *vault.Vault) error {
		existing, ok := v.FindCustomer(id)
		if !ok {
			return nil
		}
		found = true
		existing.Deleted = true
		existing.UpdatedAt = common.NowMillis()
		existing.Version++
		existing.Synced = false
		v.UpsertCustomer(existing)
		v.AppendLog(newLogEntry(models.EntityCustomer, id, models.ActionDelete, "Deleted customer "+existing.Name))
		v.SetPending(models.PendingOperation{ID: id, EntityType: models.EntityCustomer, Action: models.ActionDelete})
		return nil
	})
	if err != nil || !found {
		return err
	}

	if s.probe.Online(ctx) {
		s.remoteWriteCustomer(ctx, id, func() (api.ServerCustomer, error) {
			return s.api.DeleteCustomer(ctx, id)
		})
	}
	return nil
}

// remoteWriteCustomer runs a best-effort remote call and, on success,
// adopts the server's copy and clears the pending operation. Failures are
// logged and left for the next reconciliation pass.
func (s *DataService) remoteWriteCustomer(ctx context.Context, id string, call func() (api.ServerCustomer, error)) {
	server, err := call()
	if err != nil {
		s.log.Warn(ctx, "remote customer write failed, queued for sync", "id", id, "error", err.Error())
		return
	}
	err = s.store.Update(ctx, func(v *vault.Vault) error {
		v.UpsertCustomer(server.ToModel())
		v.RemovePending(models.EntityCustomer, id)
		return nil
	})
	if err != nil {
		s.log.Error(ctx, "failed to apply server customer copy", "id", id, "error", err.Error())
	}
}

// CreateCredential inserts a new unsynced credential at version 1.
func (s *DataService) CreateCredential(ctx context.Context, in CredentialInput) (models.Credential, error) {
	c := models.Credential{
		ID:              uuid.NewString(),
		CustomerID:      in.CustomerID,
		Title:           in.Title,
		Username:        in.Username,
		EncryptedSecret: in.EncryptedSecret,
		IV:              in.IV,
		URL:             in.URL,
		Notes:           in.Notes,
		UpdatedAt:       common.NowMillis(),
		Version:         1,
		Synced:          false,
	}

	err := s.store.Update(ctx, func(v *vault.Vault) error {
		v.UpsertCredential(c)
		v.AppendLog(newLogEntry(models.EntityCredential, c.ID, models.ActionCreate, "Created credential "+c.Title))
		v.SetPending(models.PendingOperation{ID: c.ID, EntityType: models.EntityCredential, Action: models.ActionCreate})
		return nil
	})
	if err != nil {
		return models.Credential{}, err
	}

	if s.probe.Online(ctx) {
		s.remoteWriteCredential(ctx, c.ID, func() (api.ServerCredential, error) {
			return s.api.CreateCredential(ctx, credentialPayload(c.ID, in))
		})
	}
	return c, nil
}

// UpdateCredential merges the payload onto an existing credential.
func (s *DataService) UpdateCredential(ctx context.Context, id string, in CredentialInput) error {
	found := false
	err := s.store.Update(ctx, func(v *vault.Vault) error {
		existing, ok := v.FindCredential(id)
		if !ok {
			return nil
		}
		found = true
		existing.CustomerID = in.CustomerID
		existing.Title = in.Title
		existing.Username = in.Username
		existing.EncryptedSecret = in.EncryptedSecret
		existing.IV = in.IV
		existing.URL = in.URL
		existing.Notes = in.Notes
		existing.UpdatedAt = common.NowMillis()
		existing.Version++
		existing.Synced = false
		v.UpsertCredential(existing)
		v.AppendLog(newLogEntry(models.EntityCredential, id, models.ActionUpdate, "Updated credential "+existing.Title))
		v.SetPending(models.PendingOperation{ID: id, EntityType: models.EntityCredential, Action: models.ActionUpdate})
		return nil
	})
	if err != nil || !found {
		return err
	}

	if s.probe.Online(ctx) {
		s.remoteWriteCredential(ctx, id, func() (api.ServerCredential, error) {
			return s.api.UpdateCredential(ctx, id, credentialPayload("", in))
		})
	}
	return nil
}

// DeleteCredential tombstones a credential.
func (s *DataService) DeleteCredential(ctx context.Context, id string) error {
	found := false
	err := s.store.Update(ctx, func(v *vault.Vault) error {
		existing, ok := v.FindCredential(id)
		if !ok {
			return nil
		}
		found = true
		existing.Deleted = true
		existing.UpdatedAt = common.NowMillis()
		existing.Version++
		existing.Synced = false
		v.UpsertCredential(existing)
		v.AppendLog(newLogEntry(models.EntityCredential, id, models.ActionDelete, "Deleted credential "+existing.Title))
		v.SetPending(models.PendingOperation{ID: id, EntityType: models.EntityCredential, Action: models.ActionDelete})
		return nil
	})
	if err != nil || !found {
		return err
	}

	if s.probe.Online(ctx) {
		s.remoteWriteCredential(ctx, id, func() (api.ServerCredential, error) {
			return s.api.DeleteCredential(ctx, id)
		})
	}
	return nil
}

func (s *DataService) remoteWriteCredential(ctx context.Context, id string, call func() (api.ServerCredential, error)) {
	server, err := call()
	if err != nil {
		s.log.Warn(ctx, "remote credential write failed, queued for sync", "id", id, "error", err.Error())
		return
	}
	err = s.store.Update(ctx, func(v *vault.Vault) error {
		v.UpsertCredential(server.ToModel())
		v.RemovePending(models.EntityCredential, id)
		return nil
	})
	if err != nil {
		s.log.Error(ctx, "failed to apply server credential copy", "id", id, "error", err.Error())
	}
}

func credentialPayload(id string, in CredentialInput) api.CredentialPayload {
	return api.CredentialPayload{
		ID:              id,
		CustomerID:      in.CustomerID,
		Title:           in.Title,
		Username:        in.Username,
		EncryptedSecret: in.EncryptedSecret,
		IV:              in.IV,
		URL:             in.URL,
		Notes:           in.Notes,
	}
}
