package repositories

import (
	"context"
	"sync"

	"github.com/sbilibin2017/gw-user-store/internal/models"
)

// MemoryUserRepository holds the user collection in process memory.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users []models.UserRecord
}

// NewMemoryUserRepository creates a new MemoryUserRepository holding users.
func NewMemoryUserRepository(users ...models.UserRecord) *MemoryUserRepository {
	return &MemoryUserRepository{users: cloneUsers(users)}
}

// LoadAll returns a copy of the stored users.
func (r *MemoryUserRepository) LoadAll(ctx context.Context) ([]models.UserRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneUsers(r.users), nil
}

// SaveAll replaces the stored users with a copy of users.
func (r *MemoryUserRepository) SaveAll(ctx context.Context, users []models.UserRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = cloneUsers(users)
	return nil
}
