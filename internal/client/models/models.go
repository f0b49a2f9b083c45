// Package models defines the client-side record types kept in the local
// vault and exchanged with the sync server.
package models

// EntityType discriminates the two record variants.
type EntityType string

const (
	EntityCustomer   EntityType = "customer"
	EntityCredential EntityType = "credential"
)

// Action classifies a local mutation.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Customer is a client record. Version starts at 1 and is bumped by exactly
// one on every accepted mutation. Synced=false means the current state has
// not been acknowledged by the server. Deleted is a tombstone: records are
// never physically removed, so deletions propagate through sync.
type Customer struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Company   string `json:"company,omitempty"`
	UpdatedAt int64  `json:"updatedAt"` // Unix milliseconds
	Version   int64  `json:"version"`
	Synced    bool   `json:"synced"`
	Deleted   bool   `json:"deleted,omitempty"`
}

// Credential is a client record holding an already-encrypted secret.
// The engine never sees plaintext secrets: EncryptedSecret and IV are
// produced by the caller before the record enters the store.
type Credential struct {
	ID              string `json:"id"`
	CustomerID      string `json:"customerId"`
	Title           string `json:"title"`
	Username        string `json:"username"`
	EncryptedSecret string `json:"encryptedSecret"` // base64 AES-GCM
	IV              string `json:"iv"`              // base64 nonce
	URL             string `json:"url,omitempty"`
	Notes           string `json:"notes,omitempty"`
	UpdatedAt       int64  `json:"updatedAt"` // Unix milliseconds
	Version         int64  `json:"version"`
	Synced          bool   `json:"synced"`
	Deleted         bool   `json:"deleted,omitempty"`
}

// AuditLogEntry is an append-only informational record of a mutation.
// Sync logic never consults it.
type AuditLogEntry struct {
	ID         string     `json:"id"`
	EntityID   string     `json:"entityId"`
	EntityType EntityType `json:"entityType"`
	Action     Action     `json:"action"`
	Timestamp  int64      `json:"timestamp"` // Unix milliseconds
	Details    string     `json:"details"`
}

// PendingOperation is a durable marker that a record has a local mutation
// not yet confirmed by the server. At most one exists per (ID, EntityType):
// a newer operation replaces the older one.
type PendingOperation struct {
	ID         string     `json:"id"`
	EntityType EntityType `json:"entityType"`
	Action     Action     `json:"action"`
}

// ConflictRecord pairs the local and server copies of a record whose push
// was rejected for being based on a stale version. Exactly one of the
// variant fields is set, selected by EntityType.
type ConflictRecord struct {
	ID         string              `json:"id"`
	EntityType EntityType          `json:"entityType"`
	Customer   *CustomerConflict   `json:"customer,omitempty"`
	Credential *CredentialConflict `json:"credential,omitempty"`
}

// CustomerConflict is the customer variant of a conflict pair.
type CustomerConflict struct {
	Local  Customer `json:"local"`
	Server Customer `json:"server"`
}

// CredentialConflict is the credential variant of a conflict pair.
type CredentialConflict struct {
	Local  Credential `json:"local"`
	Server Credential `json:"server"`
}
