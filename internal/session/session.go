// Package session stores conversation history between turns for the
// transports. The verification pipeline itself is stateless.
package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/staycheck/internal/model"
)

// ErrInvalidID is returned for empty or oversized session IDs
var ErrInvalidID = errors.New("invalid session id")

const maxIDLength = 128

// Store persists the history of a conversation keyed by session ID
type Store interface {
	// Load returns the stored history, or false if the session is unknown
	// or expired
	Load(ctx context.Context, id string) ([]model.Message, bool, error)

	// Save replaces the history of a session and refreshes its TTL
	Save(ctx context.Context, id string, history []model.Message) error

	Delete(ctx context.Context, id string) error
	Close() error
}

// Key returns the storage key of a session
func Key(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" || len(id) > maxIDLength {
		return "", ErrInvalidID
	}
	return "staycheck:session:v1:" + id, nil
}

// fileName maps a key to a file name safe for any session ID
func fileName(key string) string {
	hash := sha256.Sum256([]byte(key))
	return hex.EncodeToString(hash[:]) + ".json"
}

// New builds the store selected by cfg
func New(cfg model.SessionConfig) (Store, error) {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	dir := cfg.Dir
	if dir == "" {
		dir = filepath.Join(".staycheck", "sessions")
	}

	switch strings.ToLower(cfg.Backend) {
	case "memory", "":
		return NewMemoryStore(ttl, 10*time.Minute), nil
	case "disk":
		return NewDiskStore(dir, ttl), nil
	case "layered":
		return NewLayeredStore(ttl, dir), nil
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("redis session backend requires redis_addr")
		}
		return NewRedisStore(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, ttl), nil
	default:
		return nil, fmt.Errorf("unsupported session backend: %s (supported: memory, disk, layered, redis)", cfg.Backend)
	}
}

func clone(history []model.Message) []model.Message {
	out := make([]model.Message, len(history))
	copy(out, history)
	return out
}
