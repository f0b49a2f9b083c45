package sync

import "github.com/wtg/vaultsync/internal/server/models"

// IncomingCustomer is the client's push form of a customer: the record
// fields plus the version the client believes is current and a tombstone
// flag.
type IncomingCustomer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company,omitempty"`
	Version int64  `json:"version"`
	Deleted bool   `json:"deleted"`
}

// IncomingCredential is the client's push form of a credential.
type IncomingCredential struct {
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
	Customers   []IncomingCustomer   `json:"customers"`
	Credentials []IncomingCredential `json:"credentials"`
}

// RecordSet groups per-entity record lists. Slices are initialized empty
// so responses always carry arrays, never nulls.
type RecordSet struct {
	Customers   []models.Customer   `json:"customers"`
	Credentials []models.Credential `json:"credentials"`
}

func newRecordSet() RecordSet {
	return RecordSet{Customers: []models.Customer{}, Credentials: []models.Credential{}}
}

// PushResponse reports what the server accepted, its current copies of the
// records it rejected, and the server clock for the client's watermark.
type PushResponse struct {
	Applied    RecordSet `json:"applied"`
	Conflicts  RecordSet `json:"conflicts"`
	ServerTime int64     `json:"serverTime"`
}

// PullResponse carries every record updated since the client's watermark.
type PullResponse struct {
	Customers   []models.Customer   `json:"customers"`
	Credentials []models.Credential `json:"credentials"`
	ServerTime  int64               `json:"serverTime"`
}
