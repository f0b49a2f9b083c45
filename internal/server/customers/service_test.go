package customers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wtg/vaultsync/internal/common"
	"github.com/wtg/vaultsync/internal/server/audit"
)

func newTestService() (*Service, *audit.Service) {
	auditSvc := audit.NewService(audit.NewInMemoryRepository())
	return NewService(NewInMemoryRepository(), auditSvc), auditSvc
}

func TestCreate_AssignsIDAndVersion(t *testing.T) {
	svc, auditSvc := newTestService()

	c, err := svc.Create(context.Background(), Input{Name: "Acme", Email: "ops@acme.test"}, "u1")
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, int64(1), c.Version)
	assert.Equal(t, "u1", c.UpdatedByID)

	logs, err := auditSvc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "create", logs[0].Action)
	assert.Equal(t, "Created customer Acme", logs[0].Details)
	assert.Equal(t, c.ID, logs[0].EntityID)
}

func TestCreate_KeepsClientID(t *testing.T) {
	svc, _ := newTestService()

	c, err := svc.Create(context.Background(), Input{ID: "cust-1", Name: "Acme", Email: "ops@acme.test"}, "u1")
	require.NoError(t, err)
	assert.Equal(t, "cust-1", c.ID)
}

func TestCreate_Validation(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), Input{Email: "ops@acme.test"}, "u1")
	assert.True(t, errors.Is(err, common.ErrValidation))

	_, err = svc.Create(context.Background(), Input{Name: "Acme"}, "u1")
	assert.True(t, errors.Is(err, common.ErrValidation))
}

func TestUpdate_BumpsVersion(t *testing.T) {
	svc, auditSvc := newTestService()

	c, err := svc.Create(context.Background(), Input{Name: "Acme", Email: "ops@acme.test"}, "u1")
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), c.ID, Input{Name: "Acme Corp", Email: "ops@acme.test"}, "u2")
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.Version)
	assert.Equal(t, "Acme Corp", updated.Name)
	assert.Equal(t, "u2", updated.UpdatedByID)

	logs, err := auditSvc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, logs, 2)
}

func TestUpdate_MissingReturnsNotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Update(context.Background(), "nope", Input{Name: "X", Email: "x@x.test"}, "u1")
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestUpdate_TombstonedReturnsNotFound(t *testing.T) {
	svc, _ := newTestService()

	c, err := svc.Create(context.Background(), Input{Name: "Acme", Email: "ops@acme.test"}, "u1")
	require.NoError(t, err)
	_, err = svc.Delete(context.Background(), c.ID, "u1")
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), c.ID, Input{Name: "X", Email: "x@x.test"}, "u1")
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestDelete_TombstonesAndHidesFromList(t *testing.T) {
	svc, auditSvc := newTestService()

	c, err := svc.Create(context.Background(), Input{Name: "Acme", Email: "ops@acme.test"}, "u1")
	require.NoError(t, err)

	deleted, err := svc.Delete(context.Background(), c.ID, "u1")
	require.NoError(t, err)
	require.NotNil(t, deleted.DeletedAt)
	assert.Equal(t, int64(2), deleted.Version)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)

	logs, err := auditSvc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, logs, 2)

	var details []string
	for _, l := range logs {
		details = append(details, l.Details)
	}
	assert.Contains(t, details, "Deleted customer Acme")
}

func TestDelete_TwiceReturnsNotFound(t *testing.T) {
	svc, _ := newTestService()

	c, err := svc.Create(context.Background(), Input{Name: "Acme", Email: "ops@acme.test"}, "u1")
	require.NoError(t, err)
	_, err = svc.Delete(context.Background(), c.ID, "u1")
	require.NoError(t, err)

	_, err = svc.Delete(context.Background(), c.ID, "u1")
	assert.True(t, errors.Is(err, common.ErrNotFound))
}
