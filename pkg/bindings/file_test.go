package bindings

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aichannel/pkg/logger"
)

func newTestFileStore(t *testing.T, atomic bool) *FileStore {
	t.Helper()
	store, err := NewFileStore(logger.NewNop(), &FileStoreConfig{
		FilePath:    filepath.Join(t.TempDir(), "channel_config.json"),
		AtomicWrite: atomic,
	})
	require.NoError(t, err)
	return store
}

func readFile(t *testing.T, path string) map[string]string {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var out map[string]string
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestFileStoreRoundTrip(t *testing.T) {
	for _, atomic := range []bool{false, true} {
		store := newTestFileStore(t, atomic)
		ctx := context.Background()

		_, ok, err := store.Get(ctx, "100")
		require.NoError(t, err)
		assert.False(t, ok, "missing file reads as empty")

		require.NoError(t, store.Set(ctx, "100", "200"))

		got, ok, err := store.Get(ctx, "100")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "200", got)
		assert.Equal(t, map[string]string{"100": "200"}, readFile(t, store.Path()))
	}
}

func TestFileStoreBindIsIdempotent(t *testing.T) {
	store := newTestFileStore(t, false)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "100", "200"))
	require.NoError(t, store.Set(ctx, "100", "200"))

	assert.Equal(t, map[string]string{"100": "200"}, readFile(t, store.Path()))
}

func TestFileStoreOverwrite(t *testing.T) {
	store := newTestFileStore(t, false)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "100", "200"))
	require.NoError(t, store.Set(ctx, "100", "300"))

	got, _, err := store.Get(ctx, "100")
	require.NoError(t, err)
	assert.Equal(t, "300", got)
}

func TestFileStoreIsolation(t *testing.T) {
	store := newTestFileStore(t, false)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "1", "10"))
	_, ok, err := store.Get(ctx, "2")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "2", "20"))
	got, _, _ := store.Get(ctx, "1")
	assert.Equal(t, "10", got)
}

func TestFileStoreRemove(t *testing.T) {
	store := newTestFileStore(t, false)
	ctx := context.Background()

	removed, err := store.Remove(ctx, "100")
	require.NoError(t, err)
	assert.False(t, removed)
	_, statErr := os.Stat(store.Path())
	assert.True(t, os.IsNotExist(statErr), "remove of an absent key must not write")

	require.NoError(t, store.Set(ctx, "100", "200"))
	removed, err = store.Remove(ctx, "100")
	require.NoError(t, err)
	assert.True(t, removed)

	_, ok, _ := store.Get(ctx, "100")
	assert.False(t, ok)
	assert.Empty(t, readFile(t, store.Path()))

	removed, err = store.Remove(ctx, "100")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestFileStoreMalformedFileReadsEmpty(t *testing.T) {
	for _, content := range []string{
		`{"100": "2`, `not json`, `[1,2]`, `null`, ``,
		`{"100": "200"}garbage`, `{"100": "200"}}`, `{"100": "200"} {"x":1}`,
	} {
		store := newTestFileStore(t, false)
		require.NoError(t, os.WriteFile(store.Path(), []byte(content), 0644))

		_, ok, err := store.Get(context.Background(), "100")
		require.NoError(t, err, "content %q", content)
		assert.False(t, ok, "content %q", content)
	}
}

func TestFileStoreTrailingDataIsNotRewritten(t *testing.T) {
	store := newTestFileStore(t, false)
	content := []byte(`{"100": "200"}garbage`)
	require.NoError(t, os.WriteFile(store.Path(), content, 0644))

	removed, err := store.Remove(context.Background(), "100")
	require.NoError(t, err)
	assert.False(t, removed)

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, content, raw)
}

func TestFileStoreTrailingWhitespaceIsValid(t *testing.T) {
	store := newTestFileStore(t, false)
	require.NoError(t, os.WriteFile(store.Path(), []byte("{\"100\": \"200\"}\n\n"), 0644))

	channel, ok, err := store.Get(context.Background(), "100")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "200", channel)
}

func TestFileStoreMalformedFileIsReplacedOnSet(t *testing.T) {
	store := newTestFileStore(t, false)
	require.NoError(t, os.WriteFile(store.Path(), []byte(`{{{`), 0644))

	require.NoError(t, store.Set(context.Background(), "1", "2"))
	assert.Equal(t, map[string]string{"1": "2"}, readFile(t, store.Path()))
}

func TestFileStoreReadsNumericChannelIDs(t *testing.T) {
	store := newTestFileStore(t, false)
	require.NoError(t, os.WriteFile(store.Path(),
		[]byte(`{"123456789012345678": 987654321098765432, "5": {"x": 1}}`), 0644))
	ctx := context.Background()

	got, ok, err := store.Get(ctx, "123456789012345678")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "987654321098765432", got)

	_, ok, _ = store.Get(ctx, "5")
	assert.False(t, ok)

	// Unrelated entries survive a rewrite untouched.
	require.NoError(t, store.Set(ctx, "7", "8"))
	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"123456789012345678": 987654321098765432`)
	assert.Contains(t, string(raw), `"x": 1`)
}

func TestFileStoreWritesTwoSpaceIndent(t *testing.T) {
	store := newTestFileStore(t, false)
	require.NoError(t, store.Set(context.Background(), "100", "200"))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"100\": \"200\"\n}", string(raw))
}

func TestFileStoreAll(t *testing.T) {
	store := newTestFileStore(t, false)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "1", "10"))
	require.NoError(t, store.Set(ctx, "2", "20"))

	all, err := store.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"1": "10", "2": "20"}, all)
}

func TestFileStoreRejectsEmptyIDs(t *testing.T) {
	store := newTestFileStore(t, false)
	assert.ErrorIs(t, store.Set(context.Background(), "", "1"), ErrInvalidID)
	assert.ErrorIs(t, store.Set(context.Background(), "1", " "), ErrInvalidID)
}

func TestFileStoreConcurrentWritersInProcess(t *testing.T) {
	store := newTestFileStore(t, true)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := string(rune('a' + i))
			assert.NoError(t, store.Set(ctx, id, id))
		}(i)
	}
	wg.Wait()

	all, err := store.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 20)
}

func TestFileStoreUnreadableFileErrors(t *testing.T) {
	dir := t.TempDir()
	// A directory at the file path cannot be read as a file.
	path := filepath.Join(dir, "bindings")
	require.NoError(t, os.Mkdir(path, 0755))

	store, err := NewFileStore(logger.NewNop(), &FileStoreConfig{FilePath: path})
	require.NoError(t, err)

	_, _, err = store.Get(context.Background(), "1")
	assert.Error(t, err)
	assert.Error(t, store.Set(context.Background(), "1", "2"))
}
