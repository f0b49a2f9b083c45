package users

import (
	"context"
	"sort"
	"sync"

	"github.com/wtg/vaultsync/internal/common"
	"github.com/wtg/vaultsync/internal/server/models"
)

// InMemoryRepository keeps accounts in a map keyed by id. Used by tests
// and the in-memory repository manager.
type InMemoryRepository struct {
	mu   sync.RWMutex
	rows map[string]models.User
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{rows: make(map[string]models.User)}
}

func (r *InMemoryRepository) List(ctx context.Context) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]models.User, 0, len(r.rows))
	for _, u := range r.rows {
		result = append(result, u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt < result[j].CreatedAt })
	return result, nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.rows[id]
	if !ok {
		return models.User{}, common.ErrNotFound
	}
	return u, nil
}

func (r *InMemoryRepository) GetByUsername(ctx context.Context, username string) (models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.rows {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, common.ErrNotFound
}

func (r *InMemoryRepository) Create(ctx context.Context, u models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[u.ID]; ok {
		return common.ErrAlreadyExists
	}
	for _, existing := range r.rows {
		if existing.Username == u.Username {
			return common.ErrAlreadyExists
		}
	}
	r.rows[u.ID] = u
	return nil
}

func (r *InMemoryRepository) Update(ctx context.Context, u models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[u.ID]; !ok {
		return common.ErrNotFound
	}
	r.rows[u.ID] = u
	return nil
}

func (r *InMemoryRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rows), nil
}
