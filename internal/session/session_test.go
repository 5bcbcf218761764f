package session

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ppiankov/staycheck/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleHistory() []model.Message {
	return []model.Message{
		{Role: model.RoleUser, Content: "hotels in Paris"},
		{Role: model.RoleAssistant, Content: "Here are three options."},
	}
}

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, found, err := store.Load(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Save(ctx, "abc", sampleHistory()))

	got, found, err := store.Load(ctx, "abc")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, sampleHistory(), got)

	require.NoError(t, store.Delete(ctx, "abc"))
	_, found, err = store.Load(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, found)

	// Deleting an unknown session is fine
	require.NoError(t, store.Delete(ctx, "missing"))

	_, _, err = store.Load(ctx, "  ")
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore(time.Minute, time.Minute)
	defer store.Close()
	exerciseStore(t, store)
}

func TestMemoryStore_CopiesHistory(t *testing.T) {
	store := NewMemoryStore(time.Minute, time.Minute)
	ctx := context.Background()

	history := sampleHistory()
	require.NoError(t, store.Save(ctx, "abc", history))
	history[0].Content = "mutated"

	got, _, err := store.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "hotels in Paris", got[0].Content)

	got[1].Content = "mutated again"
	again, _, err := store.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "Here are three options.", again[1].Content)
}

func TestDiskStore(t *testing.T) {
	exerciseStore(t, NewDiskStore(t.TempDir(), time.Minute))
}

func TestDiskStore_Expiry(t *testing.T) {
	dir := t.TempDir()
	store := NewDiskStore(dir, time.Minute)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "abc", sampleHistory()))

	now = now.Add(2 * time.Minute)
	_, found, err := store.Load(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, found)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "expired session file should be removed")
}

func TestDiskStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	store := NewDiskStore(dir, time.Minute)
	key, err := Key("abc")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, fileName(key)), []byte("{not json"), 0o600))

	_, found, err := store.Load(context.Background(), "abc")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDiskStore_ConcurrentSaves(t *testing.T) {
	dir := t.TempDir()
	store := NewDiskStore(dir, time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- store.Save(ctx, "abc", sampleHistory())
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	history, ok, err := store.Load(ctx, "abc")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sampleHistory(), history)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, strings.HasSuffix(entries[0].Name(), ".tmp"), entries[0].Name())
}

func TestLayeredStore(t *testing.T) {
	exerciseStore(t, NewLayeredStore(time.Minute, t.TempDir()))
}

func TestLayeredStore_PromotesFromDisk(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	// Written by a previous process
	require.NoError(t, NewDiskStore(dir, time.Minute).Save(ctx, "abc", sampleHistory()))

	store := NewLayeredStore(time.Minute, dir)
	got, found, err := store.Load(ctx, "abc")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, sampleHistory(), got)

	_, found, err = store.memory.Load(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, found, "disk hit should be promoted to memory")
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	store := NewRedisStore(mr.Addr(), "", 0, time.Minute)
	defer store.Close()

	require.NoError(t, store.Ping(context.Background()))
	exerciseStore(t, store)
}

func TestRedisStore_TTL(t *testing.T) {
	mr := miniredis.RunT(t)
	store := NewRedisStore(mr.Addr(), "", 0, time.Minute)
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "abc", sampleHistory()))
	key, err := Key("abc")
	require.NoError(t, err)
	assert.Equal(t, time.Minute, mr.TTL(key))

	mr.FastForward(2 * time.Minute)
	_, found, err := store.Load(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisStore_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	store := NewRedisStore(addr, "", 0, time.Minute)
	defer store.Close()

	_, _, err := store.Load(context.Background(), "abc")
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     model.SessionConfig
		wantErr bool
	}{
		{name: "default is memory", cfg: model.SessionConfig{}},
		{name: "memory", cfg: model.SessionConfig{Backend: "memory"}},
		{name: "disk", cfg: model.SessionConfig{Backend: "disk", Dir: t.TempDir()}},
		{name: "layered", cfg: model.SessionConfig{Backend: "Layered", Dir: t.TempDir()}},
		{name: "redis", cfg: model.SessionConfig{Backend: "redis", RedisAddr: "127.0.0.1:6379"}},
		{name: "redis without addr", cfg: model.SessionConfig{Backend: "redis"}, wantErr: true},
		{name: "unknown", cfg: model.SessionConfig{Backend: "etcd"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, store.Close())
		})
	}
}

func TestKey(t *testing.T) {
	key, err := Key(" abc ")
	require.NoError(t, err)
	assert.Equal(t, "staycheck:session:v1:abc", key)

	_, err = Key(string(make([]byte, maxIDLength+1)))
	assert.ErrorIs(t, err, ErrInvalidID)
}
