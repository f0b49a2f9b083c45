package services

import (
	"context"
	"fmt"

	"github.com/wtg/vaultsync/internal/client/api"
	"github.com/wtg/vaultsync/internal/client/models"
	"github.com/wtg/vaultsync/internal/client/vault"
	"github.com/wtg/vaultsync/internal/common"
	"github.com/wtg/vaultsync/internal/logging"
	"github.com/wtg/vaultsync/internal/netx"
)

// SyncResult reports the state left after a reconciliation pass.
type SyncResult struct {
	Conflicts    []models.ConflictRecord
	PendingCount int
}

// SyncService is the reconciliation engine: an explicit "sync now" runs a
// push of every unsynced record followed by a pull of records updated since
// the last watermark. Transport failures in either phase are logged and
// swallowed; the still-present pending operations drive the retry on the
// next pass.
type SyncService struct {
	store *vault.Store
	api   api.Client
	probe netx.Probe
	log   logging.Logger
}

func NewSyncService(store *vault.Store, client api.Client, probe netx.Probe, log logging.Logger) *SyncService {
	return &SyncService{store: store, api: client, probe: probe, log: log}
}

// SyncNow runs the two-phase reconciliation. Callers must not run it
// concurrently with itself; the store lock keeps each phase's
// load-mutate-save atomic.
func (s *SyncService) SyncNow(ctx context.Context) (SyncResult, error) {
	if !s.probe.Online(ctx) {
		return s.result(ctx)
	}
	s.push(ctx)
	s.pull(ctx)
	return s.result(ctx)
}

func (s *SyncService) result(ctx context.Context) (SyncResult, error) {
	var res SyncResult
	err := s.store.View(ctx, func(v *vault.Vault) error {
		res.Conflicts = append([]models.ConflictRecord(nil), v.Conflicts...)
		res.PendingCount = len(v.Pending)
		return nil
	})
	return res, err
}

// push sends every unsynced record, adopts the server copies of applied
// ones, and materializes conflict records for rejected ones. The pending
// operation of a conflicted key deliberately stays queued: the local edit
// is still unresolved.
func (s *SyncService) push(ctx context.Context) {
	req := api.PushRequest{Customers: []api.PushCustomer{}, Credentials: []api.PushCredential{}}
	err := s.store.View(ctx, func(v *vault.Vault) error {
		for _, c := range v.UnsyncedCustomers() {
			req.Customers = append(req.Customers, api.PushCustomerFrom(c))
		}
		for _, c := range v.UnsyncedCredentials() {
			req.Credentials = append(req.Credentials, api.PushCredentialFrom(c))
		}
		return nil
	})
	if err != nil {
		s.log.Error(ctx, "failed to collect unsynced records", "error", err.Error())
		return
	}
	if len(req.Customers) == 0 && len(req.Credentials) == 0 {
		return
	}

	resp, err := s.api.Push(ctx, req)
	if err != nil {
		s.log.Warn(ctx, "sync push failed", "error", err.Error())
		return
	}

	err = s.store.Update(ctx, func(v *vault.Vault) error {
		for _, sc := range resp.Applied.Customers {
			v.UpsertCustomer(sc.ToModel())
			v.RemovePending(models.EntityCustomer, sc.ID)
		}
		for _, sc := range resp.Applied.Credentials {
			v.UpsertCredential(sc.ToModel())
			v.RemovePending(models.EntityCredential, sc.ID)
		}

		// The conflict set is rebuilt from this response. Every conflicted
		// record is still unsynced, so it is re-pushed (and re-reported)
		// on each pass until resolved; rebuilding therefore keeps exactly
		// one conflict per key.
		var conflicts []models.ConflictRecord
		for _, sc := range resp.Conflicts.Customers {
			local, ok := v.FindCustomer(sc.ID)
			if !ok {
				continue
			}
			conflicts = append(conflicts, models.ConflictRecord{
				ID:         sc.ID,
				EntityType: models.EntityCustomer,
				Customer:   &models.CustomerConflict{Local: local, Server: sc.ToModel()},
			})
		}
		for _, sc := range resp.Conflicts.Credentials {
			local, ok := v.FindCredential(sc.ID)
			if !ok {
				continue
			}
			conflicts = append(conflicts, models.ConflictRecord{
				ID:         sc.ID,
				EntityType: models.EntityCredential,
				Credential: &models.CredentialConflict{Local: local, Server: sc.ToModel()},
			})
		}
		v.Conflicts = conflicts

		if resp.ServerTime != 0 {
			v.LastSyncAt = resp.ServerTime
		} else {
			v.LastSyncAt = common.NowMillis()
		}
		return nil
	})
	if err != nil {
		s.log.Error(ctx, "failed to apply push response", "error", err.Error())
	}
}

// pull fetches records updated after the watermark and merges them under
// the unsynced-wins rule.
func (s *SyncService) pull(ctx context.Context) {
	var since int64
	err := s.store.View(ctx, func(v *vault.Vault) error {
		since = v.LastSyncAt
		return nil
	})
	if err != nil {
		s.log.Error(ctx, "failed to read sync watermark", "error", err.Error())
		return
	}

	resp, err := s.api.Pull(ctx, since)
	if err != nil {
		s.log.Warn(ctx, "sync pull failed", "error", err.Error())
		return
	}

	err = s.store.Update(ctx, func(v *vault.Vault) error {
		customers := make([]models.Customer, 0, len(resp.Customers))
		for _, sc := range resp.Customers {
			customers = append(customers, sc.ToModel())
		}
		credentials := make([]models.Credential, 0, len(resp.Credentials))
		for _, sc := range resp.Credentials {
			credentials = append(credentials, sc.ToModel())
		}
		v.MergeServerCustomers(customers)
		v.MergeServerCredentials(credentials)

		if resp.ServerTime != 0 {
			v.LastSyncAt = resp.ServerTime
		} else {
			v.LastSyncAt = common.NowMillis()
		}
		return nil
	})
	if err != nil {
		s.log.Error(ctx, "failed to apply pull response", "error", err.Error())
	}
}

// Refresh replaces the local view with the server's full state (records
// merged under the unsynced-wins rule, audit log adopted verbatim).
func (s *SyncService) Refresh(ctx context.Context) error {
	serverCustomers, err := s.api.Customers(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch customers: %w", err)
	}
	serverCredentials, err := s.api.Credentials(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch credentials: %w", err)
	}
	serverLogs, err := s.api.AuditLogs(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch audit logs: %w", err)
	}

	return s.store.Update(ctx, func(v *vault.Vault) error {
		customers := make([]models.Customer, 0, len(serverCustomers))
		for _, sc := range serverCustomers {
			customers = append(customers, sc.ToModel())
		}
		credentials := make([]models.Credential, 0, len(serverCredentials))
		for _, sc := range serverCredentials {
			credentials = append(credentials, sc.ToModel())
		}
		logs := make([]models.AuditLogEntry, 0, len(serverLogs))
		for _, sl := range serverLogs {
			logs = append(logs, sl.ToModel())
		}
		v.MergeServerCustomers(customers)
		v.MergeServerCredentials(credentials)
		v.Logs = logs
		return nil
	})
}

// ResolvePushLocal resolves a conflict by re-submitting the local copy with
// its version forced to server.version+1, which the push comparison always
// accepts. The push must succeed before anything is cleared. A missing
// conflict id is a no-op, so resolution is idempotent.
func (s *SyncService) ResolvePushLocal(ctx context.Context, conflictID string) error {
	var rec models.ConflictRecord
	var ok bool
	if err := s.store.View(ctx, func(v *vault.Vault) error {
		rec, ok = v.FindConflict(conflictID)
		return nil
	}); err != nil {
		return err
	}
	if !ok {
		return nil
	}

	switch rec.EntityType {
	case models.EntityCustomer:
		local := rec.Customer.Local
		local.Version = rec.Customer.Server.Version + 1
		req := api.PushRequest{
			Customers:   []api.PushCustomer{api.PushCustomerFrom(local)},
			Credentials: []api.PushCredential{},
		}
		if _, err := s.api.Push(ctx, req); err != nil {
			return fmt.Errorf("failed to push local copy: %w", err)
		}
		local.Synced = true
		return s.store.Update(ctx, func(v *vault.Vault) error {
			v.UpsertCustomer(local)
			v.RemovePendingByID(conflictID)
			v.RemoveConflictByID(conflictID)
			return nil
		})

	case models.EntityCredential:
		local := rec.Credential.Local
		local.Version = rec.Credential.Server.Version + 1
		req := api.PushRequest{
			Customers:   []api.PushCustomer{},
			Credentials: []api.PushCredential{api.PushCredentialFrom(local)},
		}
		if _, err := s.api.Push(ctx, req); err != nil {
			return fmt.Errorf("failed to push local copy: %w", err)
		}
		local.Synced = true
		return s.store.Update(ctx, func(v *vault.Vault) error {
			v.UpsertCredential(local)
			v.RemovePendingByID(conflictID)
			v.RemoveConflictByID(conflictID)
			return nil
		})

	default:
		return fmt.Errorf("unknown entity type %q", rec.EntityType)
	}
}

// ResolveUseServer resolves a conflict by discarding the local edit and
// adopting the server copy verbatim. Idempotent: a missing conflict id is
// a no-op.
func (s *SyncService) ResolveUseServer(ctx context.Context, conflictID string) error {
	return s.store.Update(ctx, func(v *vault.Vault) error {
		rec, ok := v.FindConflict(conflictID)
		if !ok {
			return nil
		}
		switch rec.EntityType {
		case models.EntityCustomer:
			server := rec.Customer.Server
			server.Synced = true
			v.UpsertCustomer(server)
		case models.EntityCredential:
			server := rec.Credential.Server
			server.Synced = true
			v.UpsertCredential(server)
		default:
			return fmt.Errorf("unknown entity type %q", rec.EntityType)
		}
		v.RemovePendingByID(conflictID)
		v.RemoveConflictByID(conflictID)
		return nil
	})
}
