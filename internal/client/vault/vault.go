// Package vault holds the client's local database snapshot and its
// persistence. The Vault type is a plain in-memory document with no I/O;
// Store owns the encrypted load/save round trip.
package vault

import "github.com/wtg/vaultsync/internal/client/models"

// Vault is the full local snapshot: records, audit log, the queue of
// not-yet-acknowledged operations, outstanding conflicts, the last sync
// watermark and the offline-availability allowlist.
type Vault struct {
	Customers          []models.Customer         `json:"customers"`
	Credentials        []models.Credential       `json:"credentials"`
	Logs               []models.AuditLogEntry    `json:"logs"`
	Pending            []models.PendingOperation `json:"pending"`
	Conflicts          []models.ConflictRecord   `json:"conflicts"`
	LastSyncAt         int64                     `json:"lastSyncAt"` // Unix milliseconds
	OfflineCustomerIDs []string                  `json:"offlineCustomerIds"`
}

// New returns an empty vault.
func New() *Vault {
	return &Vault{}
}

// FindCustomer returns the customer with the given id, if present.
func (v *Vault) FindCustomer(id string) (models.Customer, bool) {
	for _, c := range v.Customers {
		if c.ID == id {
			return c, true
		}
	}
	return models.Customer{}, false
}

// FindCredential returns the credential with the given id, if present.
func (v *Vault) FindCredential(id string) (models.Credential, bool) {
	for _, c := range v.Credentials {
		if c.ID == id {
			return c, true
		}
	}
	return models.Credential{}, false
}

// UpsertCustomer replaces the customer with the same id, or prepends the
// record when no such customer exists. There is never more than one live
// record per id.
func (v *Vault) UpsertCustomer(c models.Customer) {
	for i := range v.Customers {
		if v.Customers[i].ID == c.ID {
			v.Customers[i] = c
			return
		}
	}
	v.Customers = append([]models.Customer{c}, v.Customers...)
}

// UpsertCredential replaces the credential with the same id, or prepends it.
func (v *Vault) UpsertCredential(c models.Credential) {
	for i := range v.Credentials {
		if v.Credentials[i].ID == c.ID {
			v.Credentials[i] = c
			return
		}
	}
	v.Credentials = append([]models.Credential{c}, v.Credentials...)
}

// AppendLog prepends an audit entry (newest first).
func (v *Vault) AppendLog(e models.AuditLogEntry) {
	v.Logs = append([]models.AuditLogEntry{e}, v.Logs...)
}

// SetPending installs a pending operation for (op.ID, op.EntityType),
// replacing any older operation for the same key.
func (v *Vault) SetPending(op models.PendingOperation) {
	kept := v.Pending[:0]
	for _, p := range v.Pending {
		if !(p.ID == op.ID && p.EntityType == op.EntityType) {
			kept = append(kept, p)
		}
	}
	v.Pending = append([]models.PendingOperation{op}, kept...)
}

// RemovePending clears the pending operation for the exact key.
func (v *Vault) RemovePending(entityType models.EntityType, id string) {
	kept := v.Pending[:0]
	for _, p := range v.Pending {
		if !(p.ID == id && p.EntityType == entityType) {
			kept = append(kept, p)
		}
	}
	v.Pending = kept
}

// RemovePendingByID clears pending operations for id across both entity
// types. Conflict resolution is keyed by record id only, so it clears the
// queue the same way.
func (v *Vault) RemovePendingByID(id string) {
	kept := v.Pending[:0]
	for _, p := range v.Pending {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	v.Pending = kept
}

// FindConflict returns the conflict with the given record id, if any.
func (v *Vault) FindConflict(id string) (models.ConflictRecord, bool) {
	for _, c := range v.Conflicts {
		if c.ID == id {
			return c, true
		}
	}
	return models.ConflictRecord{}, false
}

// UpsertConflict installs a conflict for (rec.ID, rec.EntityType),
// replacing any prior conflict for the same key.
func (v *Vault) UpsertConflict(rec models.ConflictRecord) {
	for i := range v.Conflicts {
		if v.Conflicts[i].ID == rec.ID && v.Conflicts[i].EntityType == rec.EntityType {
			v.Conflicts[i] = rec
			return
		}
	}
	v.Conflicts = append(v.Conflicts, rec)
}

// RemoveConflictByID clears the conflict for the given record id.
func (v *Vault) RemoveConflictByID(id string) {
	kept := v.Conflicts[:0]
	for _, c := range v.Conflicts {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	v.Conflicts = kept
}

// UnsyncedCustomers returns customers with local changes not yet
// acknowledged by the server.
func (v *Vault) UnsyncedCustomers() []models.Customer {
	var out []models.Customer
	for _, c := range v.Customers {
		if !c.Synced {
			out = append(out, c)
		}
	}
	return out
}

// UnsyncedCredentials returns credentials with unacknowledged changes.
func (v *Vault) UnsyncedCredentials() []models.Credential {
	var out []models.Credential
	for _, c := range v.Credentials {
		if !c.Synced {
			out = append(out, c)
		}
	}
	return out
}

// MergeServerCustomers applies the pull merge rule: a server copy is
// discarded when an unsynced local record exists for the same id (the local
// edit wins until it is pushed or resolved); otherwise it replaces the
// local copy, or is inserted when the id is new.
func (v *Vault) MergeServerCustomers(server []models.Customer) {
	for _, s := range server {
		if local, ok := v.FindCustomer(s.ID); ok && !local.Synced {
			continue
		}
		v.UpsertCustomer(s)
	}
}

// MergeServerCredentials applies the same merge rule for credentials.
func (v *Vault) MergeServerCredentials(server []models.Credential) {
	for _, s := range server {
		if local, ok := v.FindCredential(s.ID); ok && !local.Synced {
			continue
		}
		v.UpsertCredential(s)
	}
}

// OfflineEnabled reports whether a customer is on the offline allowlist.
func (v *Vault) OfflineEnabled(customerID string) bool {
	for _, id := range v.OfflineCustomerIDs {
		if id == customerID {
			return true
		}
	}
	return false
}

// ToggleOffline adds or removes a customer from the offline allowlist.
// A pure local mutation: no version bump, no audit entry, no remote effect.
func (v *Vault) ToggleOffline(customerID string, enabled bool) {
	if enabled {
		if !v.OfflineEnabled(customerID) {
			v.OfflineCustomerIDs = append([]string{customerID}, v.OfflineCustomerIDs...)
		}
		return
	}
	kept := v.OfflineCustomerIDs[:0]
	for _, id := range v.OfflineCustomerIDs {
		if id != customerID {
			kept = append(kept, id)
		}
	}
	v.OfflineCustomerIDs = kept
}

// Snapshot is the read view handed to callers: tombstoned records are
// hidden, and when online==false only allowlisted customers (and their
// credentials) are visible.
type Snapshot struct {
	Customers          []models.Customer
	Credentials        []models.Credential
	Logs               []models.AuditLogEntry
	Conflicts          []models.ConflictRecord
	PendingCount       int
	OfflineCustomerIDs []string
}

// View builds the filtered read view for the given connectivity state.
func (v *Vault) View(online bool) Snapshot {
	allowed := make(map[string]struct{}, len(v.OfflineCustomerIDs))
	for _, id := range v.OfflineCustomerIDs {
		allowed[id] = struct{}{}
	}

	var customers []models.Customer
	for _, c := range v.Customers {
		if c.Deleted {
			continue
		}
		if !online {
			if _, ok := allowed[c.ID]; !ok {
				continue
			}
		}
		customers = append(customers, c)
	}

	var credentials []models.Credential
	for _, c := range v.Credentials {
		if c.Deleted {
			continue
		}
		if !online {
			if _, ok := allowed[c.CustomerID]; !ok {
				continue
			}
		}
		credentials = append(credentials, c)
	}

	return Snapshot{
		Customers:          customers,
		Credentials:        credentials,
		Logs:               v.Logs,
		Conflicts:          v.Conflicts,
		PendingCount:       len(v.Pending),
		OfflineCustomerIDs: v.OfflineCustomerIDs,
	}
}
