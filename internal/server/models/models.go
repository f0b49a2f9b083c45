// Package models defines the server-side row types. Timestamps are Unix
// milliseconds; deletion is a tombstone timestamp, never a row removal.
package models

// Role gates access to user administration.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// User is a server account. PasswordHash is a bcrypt hash; Active=false
// blocks login without destroying audit attribution.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
	Active       bool   `json:"active"`
	CreatedAt    int64  `json:"createdAt"`
}

// Customer is the server's authoritative copy of a customer record.
// Version increments by one on every accepted mutation, except on create,
// where the client-supplied version is adopted as-is.
type Customer struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Company     string `json:"company,omitempty"`
	Version     int64  `json:"version"`
	UpdatedAt   int64  `json:"updatedAt"`
	DeletedAt   *int64 `json:"deletedAt,omitempty"`
	UpdatedByID string `json:"-"`
}

// Credential is the server's authoritative copy of a credential record.
// The secret is opaque ciphertext; the server never decrypts it.
type Credential struct {
	ID              string `json:"id"`
	CustomerID      string `json:"customerId"`
	Title           string `json:"title"`
	Username        string `json:"username"`
	EncryptedSecret string `json:"encryptedSecret"`
	IV              string `json:"iv"`
	URL             string `json:"url,omitempty"`
	Notes           string `json:"notes,omitempty"`
	Version         int64  `json:"version"`
	UpdatedAt       int64  `json:"updatedAt"`
	DeletedAt       *int64 `json:"deletedAt,omitempty"`
	UpdatedByID     string `json:"-"`
}

// Tombstoned reports whether the record has been soft deleted.
func (c Customer) Tombstoned() bool   { return c.DeletedAt != nil }
func (c Credential) Tombstoned() bool { return c.DeletedAt != nil }

// AuditLog is an append-only record of a server-side mutation.
type AuditLog struct {
	ID         string `json:"id"`
	EntityID   string `json:"entityId"`
	EntityType string `json:"entityType"`
	Action     string `json:"action"`
	Details    string `json:"details"`
	UserID     string `json:"userId,omitempty"`
	CreatedAt  int64  `json:"createdAt"`
}
