package bindings

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aichannel/pkg/config"
	"aichannel/pkg/logger"
)

func TestNewSelectsFileBackend(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Store.FilePath = filepath.Join(t.TempDir(), "nested", "bindings.json")

	store, err := New(context.Background(), logger.NewNop(), cfg)
	require.NoError(t, err)
	defer store.Close()

	fs, ok := store.(*FileStore)
	require.True(t, ok)
	assert.Equal(t, cfg.Store.FilePath, fs.Path())
}

func TestNewUnknownBackend(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Store.Backend = "etcd"

	_, err := New(context.Background(), logger.NewNop(), cfg)
	assert.ErrorContains(t, err, "unknown backend type")
}

func TestLogStoreReadyCountsBindings(t *testing.T) {
	ctx := context.Background()
	store := newTestFileStore(t, false)
	require.NoError(t, store.Set(ctx, "1", "10"))
	require.NoError(t, store.Set(ctx, "2", "20"))

	assert.Equal(t, 2, logStoreReady(ctx, logger.NewNop(), "file", store))
}

func TestLogStoreReadyToleratesBackendErrors(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(logger.NewNop(), &FileStoreConfig{FilePath: dir})
	require.NoError(t, err)

	assert.Equal(t, -1, logStoreReady(context.Background(), logger.NewNop(), "file", store))
}
