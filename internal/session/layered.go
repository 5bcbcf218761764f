package session

import (
	"context"
	"errors"
	"time"

	"github.com/ppiankov/staycheck/internal/model"
)

// LayeredStore serves sessions from memory and writes through to disk
type LayeredStore struct {
	memory Store
	disk   Store
}

// NewLayeredStore creates a memory store over a disk store in dir
func NewLayeredStore(ttl time.Duration, dir string) *LayeredStore {
	return &LayeredStore{
		memory: NewMemoryStore(ttl, 10*time.Minute),
		disk:   NewDiskStore(dir, ttl),
	}
}

// Load checks memory first, then disk
func (s *LayeredStore) Load(ctx context.Context, id string) ([]model.Message, bool, error) {
	if history, found, err := s.memory.Load(ctx, id); err != nil || found {
		return history, found, err
	}

	history, found, err := s.disk.Load(ctx, id)
	if err != nil || !found {
		return nil, false, err
	}

	// Promote to memory
	if err := s.memory.Save(ctx, id, history); err != nil {
		return nil, false, err
	}
	return history, true, nil
}

// Save writes to both layers
func (s *LayeredStore) Save(ctx context.Context, id string, history []model.Message) error {
	if err := s.memory.Save(ctx, id, history); err != nil {
		return err
	}
	return s.disk.Save(ctx, id, history)
}

// Delete removes the session from both layers
func (s *LayeredStore) Delete(ctx context.Context, id string) error {
	return errors.Join(s.memory.Delete(ctx, id), s.disk.Delete(ctx, id))
}

// Close closes both layers
func (s *LayeredStore) Close() error {
	return errors.Join(s.memory.Close(), s.disk.Close())
}
