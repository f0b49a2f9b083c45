// Package sync implements the server side of push/pull reconciliation.
//
// Push applies each incoming record independently under optimistic version
// comparison: records the server has never seen are created with the
// client's version, stale records are rejected and answered with the
// server's current copy, everything else is applied at the server version
// plus one. Pull returns every record updated after the client's watermark.
package sync

import (
	"context"
	"errors"

	"github.com/wtg/vaultsync/internal/common"
	"github.com/wtg/vaultsync/internal/server/audit"
	"github.com/wtg/vaultsync/internal/server/credentials"
	"github.com/wtg/vaultsync/internal/server/customers"
	"github.com/wtg/vaultsync/internal/server/models"
)

type Service struct {
	customers   customers.Repository
	credentials credentials.Repository
	audit       *audit.Service
}

func NewService(customerRepo customers.Repository, credentialRepo credentials.Repository, auditSvc *audit.Service) *Service {
	return &Service{customers: customerRepo, credentials: credentialRepo, audit: auditSvc}
}

// Push reconciles the batch. A failing record aborts the call; everything
// applied before it stays applied, and the client's pending queue keeps the
// rest for a later push.
func (s *Service) Push(ctx context.Context, req PushRequest, userID string) (PushResponse, error) {
	resp := PushResponse{Applied: newRecordSet(), Conflicts: newRecordSet()}

	for _, in := range req.Customers {
		applied, conflict, err := s.pushCustomer(ctx, in, userID)
		if err != nil {
			return PushResponse{}, err
		}
		if conflict != nil {
			resp.Conflicts.Customers = append(resp.Conflicts.Customers, *conflict)
			continue
		}
		resp.Applied.Customers = append(resp.Applied.Customers, *applied)
	}

	for _, in := range req.Credentials {
		applied, conflict, err := s.pushCredential(ctx, in, userID)
		if err != nil {
			return PushResponse{}, err
		}
		if conflict != nil {
			resp.Conflicts.Credentials = append(resp.Conflicts.Credentials, *conflict)
			continue
		}
		resp.Applied.Credentials = append(resp.Applied.Credentials, *applied)
	}

	resp.ServerTime = common.NowMillis()
	return resp, nil
}

func (s *Service) pushCustomer(ctx context.Context, in IncomingCustomer, userID string) (applied, conflict *models.Customer, err error) {
	existing, err := s.customers.Get(ctx, in.ID)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			return nil, nil, err
		}
		c := models.Customer{
			ID:          in.ID,
			Name:        in.Name,
			Email:       in.Email,
			Company:     in.Company,
			Version:     in.Version,
			UpdatedAt:   common.NowMillis(),
			UpdatedByID: userID,
		}
		if in.Deleted {
			c.DeletedAt = &c.UpdatedAt
		}
		if err := s.customers.Create(ctx, c); err != nil {
			return nil, nil, err
		}
		if err := s.audit.Record(ctx, "customer", c.ID, "create", "Sync create customer "+c.Name, userID); err != nil {
			return nil, nil, err
		}
		return &c, nil, nil
	}

	if in.Version < existing.Version {
		return nil, &existing, nil
	}

	now := common.NowMillis()
	existing.Name = in.Name
	existing.Email = in.Email
	existing.Company = in.Company
	existing.Version++
	existing.UpdatedAt = now
	existing.UpdatedByID = userID
	if in.Deleted {
		existing.DeletedAt = &now
	} else {
		existing.DeletedAt = nil
	}
	if err := s.customers.Update(ctx, existing); err != nil {
		return nil, nil, err
	}

	action := "update"
	if in.Deleted {
		action = "delete"
	}
	if err := s.audit.Record(ctx, "customer", existing.ID, action, "Sync update customer "+existing.Name, userID); err != nil {
		return nil, nil, err
	}
	return &existing, nil, nil
}

func (s *Service) pushCredential(ctx context.Context, in IncomingCredential, userID string) (applied, conflict *models.Credential, err error) {
	existing, err := s.credentials.Get(ctx, in.ID)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			return nil, nil, err
		}
		c := models.Credential{
			ID:              in.ID,
			CustomerID:      in.CustomerID,
			Title:           in.Title,
			Username:        in.Username,
			EncryptedSecret: in.EncryptedSecret,
			IV:              in.IV,
			URL:             in.URL,
			Notes:           in.Notes,
			Version:         in.Version,
			UpdatedAt:       common.NowMillis(),
			UpdatedByID:     userID,
		}
		if in.Deleted {
			c.DeletedAt = &c.UpdatedAt
		}
		if err := s.credentials.Create(ctx, c); err != nil {
			return nil, nil, err
		}
		if err := s.audit.Record(ctx, "credential", c.ID, "create", "Sync create credential "+c.Title, userID); err != nil {
			return nil, nil, err
		}
		return &c, nil, nil
	}

	if in.Version < existing.Version {
		return nil, &existing, nil
	}

	now := common.NowMillis()
	existing.CustomerID = in.CustomerID
	existing.Title = in.Title
	existing.Username = in.Username
	existing.EncryptedSecret = in.EncryptedSecret
	existing.IV = in.IV
	existing.URL = in.URL
	existing.Notes = in.Notes
	existing.Version++
	existing.UpdatedAt = now
	existing.UpdatedByID = userID
	if in.Deleted {
		existing.DeletedAt = &now
	} else {
		existing.DeletedAt = nil
	}
	if err := s.credentials.Update(ctx, existing); err != nil {
		return nil, nil, err
	}

	action := "update"
	if in.Deleted {
		action = "delete"
	}
	if err := s.audit.Record(ctx, "credential", existing.ID, action, "Sync update credential "+existing.Title, userID); err != nil {
		return nil, nil, err
	}
	return &existing, nil, nil
}

// Pull returns every record (tombstones included) updated after since,
// oldest first, plus the server clock for the next watermark.
func (s *Service) Pull(ctx context.Context, since int64) (PullResponse, error) {
	custs, err := s.customers.UpdatedSince(ctx, since)
	if err != nil {
		return PullResponse{}, err
	}
	creds, err := s.credentials.UpdatedSince(ctx, since)
	if err != nil {
		return PullResponse{}, err
	}
	if custs == nil {
		custs = []models.Customer{}
	}
	if creds == nil {
		creds = []models.Credential{}
	}
	return PullResponse{Customers: custs, Credentials: creds, ServerTime: common.NowMillis()}, nil
}
