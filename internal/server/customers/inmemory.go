package customers

import (
	"context"
	"sort"
	"sync"

	"github.com/wtg/vaultsync/internal/common"
	"github.com/wtg/vaultsync/internal/server/models"
)

// InMemoryRepository keeps customers in a map. Used by tests and the
// in-memory repository manager.
type InMemoryRepository struct {
	mu   sync.RWMutex
	rows map[string]models.Customer
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{rows: make(map[string]models.Customer)}
}

func (r *InMemoryRepository) List(ctx context.Context) ([]models.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []models.Customer
	for _, c := range r.rows {
		if c.Tombstoned() {
			continue
		}
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UpdatedAt > result[j].UpdatedAt })
	return result, nil
}

func (r *InMemoryRepository) UpdatedSince(ctx context.Context, since int64) ([]models.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []models.Customer
	for _, c := range r.rows {
		if c.UpdatedAt > since {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UpdatedAt < result[j].UpdatedAt })
	return result, nil
}

func (r *InMemoryRepository) Get(ctx context.Context, id string) (models.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.rows[id]
	if !ok {
		return models.Customer{}, common.ErrNotFound
	}
	return c, nil
}

func (r *InMemoryRepository) Create(ctx context.Context, c models.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[c.ID]; ok {
		return common.ErrAlreadyExists
	}
	r.rows[c.ID] = c
	return nil
}

func (r *InMemoryRepository) Update(ctx context.Context, c models.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[c.ID]; !ok {
		return common.ErrNotFound
	}
	r.rows[c.ID] = c
	return nil
}
