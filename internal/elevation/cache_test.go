package elevation

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printforge/terraprint/pkg/geo"
)

func testBounds() geo.Bounds {
	return geo.Bounds{North: 46.01, South: 46.0, East: 7.01, West: 7.0}
}

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := OpenCache(filepath.Join(t.TempDir(), "cache", "elevation.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCacheRoundTrip(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()
	b := testBounds()

	samples := [][]float64{
		{100, 110, 120},
		{105, 115, 125},
	}
	require.NoError(t, c.Put(ctx, b, 30, "google", samples))

	got, ok, err := c.Get(ctx, b, 30, "google")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, samples, got)
}

func TestCacheMissOnDifferentKey(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()
	b := testBounds()

	require.NoError(t, c.Put(ctx, b, 30, "google", [][]float64{{1, 2}, {3, 4}}))

	// Different resolution and different source are distinct entries.
	_, ok, err := c.Get(ctx, b, 60, "google")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = c.Get(ctx, b, 30, "open_elevation")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCacheReplace(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()
	b := testBounds()

	require.NoError(t, c.Put(ctx, b, 30, "google", [][]float64{{1, 2}, {3, 4}}))
	require.NoError(t, c.Put(ctx, b, 30, "google", [][]float64{{5, 6}, {7, 8}}))

	got, ok, err := c.Get(ctx, b, 30, "google")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, [][]float64{{5, 6}, {7, 8}}, got)

	info, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, info.Entries)
}

func TestCacheStatsAndClear(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, testBounds(), 30, "google", [][]float64{{1, 2}, {3, 4}}))
	require.NoError(t, c.Put(ctx, geo.Bounds{North: 1, South: 0, East: 1, West: 0},
		30, "google", [][]float64{{1, 2}, {3, 4}}))

	info, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, info.Entries)
	assert.EqualValues(t, 2*4*8, info.Bytes)

	require.NoError(t, c.Clear(ctx))
	info, err = c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, info.Entries)
	assert.EqualValues(t, 0, info.Bytes)
}

func TestCacheCorruptEntryIsDropped(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()
	b := testBounds()

	key := cacheKey(b, 30, "google")
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO elevation_grids (key, source, rows, cols, samples) VALUES (?, ?, ?, ?, ?)`,
		key, "google", 2, 2, []byte{1, 2, 3})
	require.NoError(t, err)

	_, ok, err := c.Get(ctx, b, 30, "google")
	require.NoError(t, err)
	assert.False(t, ok)

	info, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, info.Entries)
}
