package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/ppiankov/staycheck/internal/model"
)

// DiskStore persists sessions as JSON files so they survive restarts
type DiskStore struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

// NewDiskStore creates a disk store under dir
func NewDiskStore(dir string, ttl time.Duration) *DiskStore {
	return &DiskStore{
		dir: dir,
		ttl: ttl,
		now: time.Now,
	}
}

type diskEntry struct {
	History   []model.Message `json:"history"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// Load reads a session file. Expired files are removed.
func (s *DiskStore) Load(ctx context.Context, id string) ([]model.Message, bool, error) {
	path, err := s.path(id)
	if err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read session: %w", err)
	}

	var entry diskEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		// A torn write leaves garbage; treat it as a fresh session
		_ = os.Remove(path)
		return nil, false, nil
	}

	if s.now().After(entry.ExpiresAt) {
		_ = os.Remove(path)
		return nil, false, nil
	}

	return entry.History, true, nil
}

// Save writes a session file atomically
func (s *DiskStore) Save(ctx context.Context, id string, history []model.Message) error {
	path, err := s.path(id)
	if err != nil {
		return err
	}

	data, err := json.Marshal(diskEntry{History: history, ExpiresAt: s.now().Add(s.ttl)})
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	// Each writer gets its own temp file so concurrent saves never share one
	tmp, err := os.CreateTemp(s.dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create session temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close session file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}

// Delete removes a session file. Unknown sessions are not an error.
func (s *DiskStore) Delete(ctx context.Context, id string) error {
	path, err := s.path(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Close is a no-op; files stay on disk until they expire
func (s *DiskStore) Close() error {
	return nil
}

func (s *DiskStore) path(id string) (string, error) {
	key, err := Key(id)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.dir, fileName(key)), nil
}
