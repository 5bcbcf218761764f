package session

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/ppiankov/staycheck/internal/model"
)

// MemoryStore keeps sessions in process memory with expiry
type MemoryStore struct {
	cache *gocache.Cache
}

// NewMemoryStore creates a memory store
func NewMemoryStore(ttl time.Duration, cleanupInterval time.Duration) *MemoryStore {
	return &MemoryStore{
		cache: gocache.New(ttl, cleanupInterval),
	}
}

// Load returns a copy of the stored history
func (s *MemoryStore) Load(ctx context.Context, id string) ([]model.Message, bool, error) {
	key, err := Key(id)
	if err != nil {
		return nil, false, err
	}
	if val, found := s.cache.Get(key); found {
		return clone(val.([]model.Message)), true, nil
	}
	return nil, false, nil
}

// Save stores a copy of history with the default TTL
func (s *MemoryStore) Save(ctx context.Context, id string, history []model.Message) error {
	key, err := Key(id)
	if err != nil {
		return err
	}
	s.cache.Set(key, clone(history), gocache.DefaultExpiration)
	return nil
}

// Delete removes a session
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	key, err := Key(id)
	if err != nil {
		return err
	}
	s.cache.Delete(key)
	return nil
}

// Close drops every session
func (s *MemoryStore) Close() error {
	s.cache.Flush()
	return nil
}
