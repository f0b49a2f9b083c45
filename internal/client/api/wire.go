package api

import "github.com/wtg/vaultsync/internal/client/models"

// ServerCustomer is the server's JSON representation of a customer.
// Deletion is expressed as a deletedAt timestamp rather than a flag.
type ServerCustomer struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Company   string `json:"company,omitempty"`
	Version   int64  `json:"version"`
	UpdatedAt int64  `json:"updatedAt"`
	DeletedAt *int64 `json:"deletedAt,omitempty"`
}

// ServerCredential is the server's JSON representation of a credential.
type ServerCredential struct {
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
}

// ServerAuditLog is the server's JSON representation of an audit entry.
type ServerAuditLog struct {
	ID         string `json:"id"`
	EntityID   string `json:"entityId"`
	EntityType string `json:"entityType"`
	Action     string `json:"action"`
	Details    string `json:"details"`
	CreatedAt  int64  `json:"createdAt"`
}

// CustomerPayload is the body of customer create/update calls. ID is only
// honored on create, letting the client keep its locally assigned id.
type CustomerPayload struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company,omitempty"`
}

// CredentialPayload is the body of credential create/update calls.
type CredentialPayload struct {
	ID              string `json:"id,omitempty"`
	CustomerID      string `json:"customerId"`
	Title           string `json:"title"`
	Username        string `json:"username"`
	EncryptedSecret string `json:"encryptedSecret"`
	IV              string `json:"iv"`
	URL             string `json:"url,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

// PushCustomer carries a customer through the push endpoint with the
// client's believed version and tombstone flag.
type PushCustomer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company,omitempty"`
	Version int64  `json:"version"`
	Deleted bool   `json:"deleted"`
}

// PushCredential carries a credential through the push endpoint.
type PushCredential struct {
	ID              string `json:"id"`
	CustomerID      string `json:"customerId"`
	Title           string `json:"title"`
	Username        string `json:"username"`
	EncryptedSecret string `json:"encryptedSecret"`
	IV              string `json:"iv"`
	URL             string `json:"url,omitempty"`
	Notes           string `json:"notes,omitempty"`
	Version         int64  `json:"version"`
	Deleted         bool   `json:"deleted"`
}

// PushRequest is the POST /sync/push body.
type PushRequest struct {
	Customers   []PushCustomer   `json:"customers"`
	Credentials []PushCredential `json:"credentials"`
}

// PushRecordSet groups per-entity record lists in a push response.
type PushRecordSet struct {
	Customers   []ServerCustomer   `json:"customers"`
	Credentials []ServerCredential `json:"credentials"`
}

// PushResponse is the POST /sync/push result: records the server accepted,
// the server's current copies of rejected records, and the server clock.
type PushResponse struct {
	Applied    PushRecordSet `json:"applied"`
	Conflicts  PushRecordSet `json:"conflicts"`
	ServerTime int64         `json:"serverTime"`
}

// PullResponse is the GET /sync/pull result.
type PullResponse struct {
	Customers   []ServerCustomer   `json:"customers"`
	Credentials []ServerCredential `json:"credentials"`
	ServerTime  int64              `json:"serverTime"`
}

// AuthUser identifies the authenticated caller.
type AuthUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// ToModel converts a server customer into the local record form, marked as
// acknowledged by the server.
func (s ServerCustomer) ToModel() models.Customer {
	return models.Customer{
		ID:        s.ID,
		Name:      s.Name,
		Email:     s.Email,
		Company:   s.Company,
		UpdatedAt: s.UpdatedAt,
		Version:   s.Version,
		Synced:    true,
		Deleted:   s.DeletedAt != nil,
	}
}

// ToModel converts a server credential into the local record form.
func (s ServerCredential) ToModel() models.Credential {
	return models.Credential{
		ID:              s.ID,
		CustomerID:      s.CustomerID,
		Title:           s.Title,
		Username:        s.Username,
		EncryptedSecret: s.EncryptedSecret,
		IV:              s.IV,
		URL:             s.URL,
		Notes:           s.Notes,
		UpdatedAt:       s.UpdatedAt,
		Version:         s.Version,
		Synced:          true,
		Deleted:         s.DeletedAt != nil,
	}
}

// ToModel converts a server audit entry into the local form.
func (s ServerAuditLog) ToModel() models.AuditLogEntry {
	return models.AuditLogEntry{
		ID:         s.ID,
		EntityID:   s.EntityID,
		EntityType: models.EntityType(s.EntityType),
		Action:     models.Action(s.Action),
		Timestamp:  s.CreatedAt,
		Details:    s.Details,
	}
}

// PushCustomerFrom builds the push form of a local customer record.
func PushCustomerFrom(c models.Customer) PushCustomer {
	return PushCustomer{
		ID:      c.ID,
		Name:    c.Name,
		Email:   c.Email,
		Company: c.Company,
		Version: c.Version,
		Deleted: c.Deleted,
	}
}

// PushCredentialFrom builds the push form of a local credential record.
func PushCredentialFrom(c models.Credential) PushCredential {
	return PushCredential{
		ID:              c.ID,
		CustomerID:      c.CustomerID,
		Title:           c.Title,
		Username:        c.Username,
		EncryptedSecret: c.EncryptedSecret,
		IV:              c.IV,
		URL:             c.URL,
		Notes:           c.Notes,
		Version:         c.Version,
		Deleted:         c.Deleted,
	}
}
