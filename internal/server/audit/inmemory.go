package audit

import (
	"context"
	"sort"
	"sync"

	"github.com/wtg/vaultsync/internal/server/models"
)

// InMemoryRepository keeps audit entries in a slice, newest appended last.
type InMemoryRepository struct {
	mu   sync.RWMutex
	rows []models.AuditLog
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

func (r *InMemoryRepository) Append(ctx context.Context, entry models.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, entry)
	return nil
}

func (r *InMemoryRepository) List(ctx context.Context, limit int) ([]models.AuditLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := append([]models.AuditLog(nil), r.rows...)
	sort.SliceStable(result, func(i, j int) bool { return result[i].CreatedAt > result[j].CreatedAt })
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
