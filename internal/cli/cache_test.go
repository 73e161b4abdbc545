package cli

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/boxplan/pkg/cache"
)

func TestCachePathCommand(t *testing.T) {
	c, out := testCLI(t)
	require.NoError(t, execute(t, c, "cache", "path"))

	want, err := cacheDir()
	require.NoError(t, err)
	assert.Equal(t, want, strings.TrimSpace(out.String()))
}

func TestCacheClearCommand(t *testing.T) {
	c, out := testCLI(t)
	dir, err := cacheDir()
	require.NoError(t, err)

	fc, err := cache.NewFileCache(dir)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, fc.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, fc.Set(ctx, "b", []byte("2"), 0))

	require.NoError(t, execute(t, c, "cache", "clear"))
	assert.Contains(t, out.String(), "Cleared 2 cached entries")

	_, hit, err := fc.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, hit)

	out.Reset()
	require.NoError(t, execute(t, c, "cache", "clear"))
	assert.Contains(t, out.String(), "Cache is empty")
}

func TestOpenCacheDefaultsToFileCache(t *testing.T) {
	c, _ := testCLI(t)
	ctx := context.Background()

	store, err := c.openCache(ctx, "", false)
	require.NoError(t, err)
	fc, ok := store.(*cache.FileCache)
	require.True(t, ok, "got %T", store)
	dir, _ := cacheDir()
	assert.Equal(t, dir, fc.Dir())

	store, err = c.openCache(ctx, filepath.Join(t.TempDir(), "x"), true)
	require.NoError(t, err)
	_, ok = store.(*cache.NullCache)
	assert.True(t, ok)
}
