package locations

import (
	"context"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Deployments use FileRepository or
// PostgresRepository.
type InMemoryRepository struct {
	mu   sync.RWMutex
	list []SavedLocation
	// corrupt simulates an unparsable document for recovery tests.
	corrupt bool
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

// NewCorruptRepository creates a repository whose first Load fails with
// ErrCorruptData, for exercising the recovery path.
func NewCorruptRepository() *InMemoryRepository {
	return &InMemoryRepository{corrupt: true}
}

// Load returns a copy of the stored list.
func (r *InMemoryRepository) Load(_ context.Context) ([]SavedLocation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.corrupt {
		return nil, ErrCorruptData
	}

	cpy := make([]SavedLocation, len(r.list))
	copy(cpy, r.list)
	return cpy, nil
}

// Save replaces the stored list.
func (r *InMemoryRepository) Save(_ context.Context, list []SavedLocation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.corrupt = false
	r.list = make([]SavedLocation, len(list))
	copy(r.list, list)
	return nil
}

// Clear drops the stored list.
func (r *InMemoryRepository) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.corrupt = false
	r.list = nil
	return nil
}

// Ensure InMemoryRepository implements Repository.
var _ Repository = (*InMemoryRepository)(nil)
