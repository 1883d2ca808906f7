package elevation

import (
	"bytes"
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/printforge/terraprint/pkg/geo"
)

// Cache is a read-through store for fetched elevation grids, keyed by
// bounds, resolution and API source. Re-running the same location skips
// the network entirely.
type Cache struct {
	db   *sqlx.DB
	path string
}

const cacheSchema = `
CREATE TABLE IF NOT EXISTS elevation_grids (
	key        TEXT PRIMARY KEY,
	source     TEXT NOT NULL,
	rows       INTEGER NOT NULL,
	cols       INTEGER NOT NULL,
	samples    BLOB NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

// OpenCache opens or creates the sqlite cache at path.
func OpenCache(path string) (*Cache, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache directory %s: %w", dir, err)
		}
	}

	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening elevation cache %s: %w", path, err)
	}
	if _, err := db.Exec(cacheSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}

	return &Cache{db: db, path: path}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error { return c.db.Close() }

// cacheKey hashes everything that determines a grid's content.
func cacheKey(b geo.Bounds, resolutionMeters float64, source string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%v_%v_%v_%v_%v_%s",
		b.North, b.South, b.East, b.West, resolutionMeters, source)))
	return fmt.Sprintf("%x", sum)
}

// Get returns the cached sample grid for the given parameters, or ok false
// on a miss. A corrupt entry is dropped and treated as a miss.
func (c *Cache) Get(ctx context.Context, b geo.Bounds, resolutionMeters float64, source string) ([][]float64, bool, error) {
	key := cacheKey(b, resolutionMeters, source)

	var row struct {
		Rows    int    `db:"rows"`
		Cols    int    `db:"cols"`
		Samples []byte `db:"samples"`
	}
	err := c.db.GetContext(ctx, &row,
		`SELECT rows, cols, samples FROM elevation_grids WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cache entry: %w", err)
	}

	samples, err := decodeSamples(row.Rows, row.Cols, row.Samples)
	if err != nil {
		c.db.ExecContext(ctx, `DELETE FROM elevation_grids WHERE key = ?`, key)
		return nil, false, nil
	}
	return samples, true, nil
}

// Put stores a fetched sample grid, replacing any previous entry for the
// same parameters.
func (c *Cache) Put(ctx context.Context, b geo.Bounds, resolutionMeters float64, source string, samples [][]float64) error {
	key := cacheKey(b, resolutionMeters, source)
	rows := len(samples)
	cols := 0
	if rows > 0 {
		cols = len(samples[0])
	}

	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO elevation_grids (key, source, rows, cols, samples)
		 VALUES (?, ?, ?, ?, ?)`,
		key, source, rows, cols, encodeSamples(samples))
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// Info summarizes the cache contents.
type Info struct {
	Path    string
	Entries int
	Bytes   int64
}

// Stats returns entry count and stored sample bytes.
func (c *Cache) Stats(ctx context.Context) (Info, error) {
	var row struct {
		Entries int           `db:"entries"`
		Bytes   sql.NullInt64 `db:"bytes"`
	}
	err := c.db.GetContext(ctx, &row,
		`SELECT COUNT(*) AS entries, SUM(LENGTH(samples)) AS bytes FROM elevation_grids`)
	if err != nil {
		return Info{}, fmt.Errorf("reading cache stats: %w", err)
	}
	return Info{Path: c.path, Entries: row.Entries, Bytes: row.Bytes.Int64}, nil
}

// Clear removes every cached grid.
func (c *Cache) Clear(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM elevation_grids`); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	return nil
}

// encodeSamples packs a grid row-major as little-endian float64s.
func encodeSamples(samples [][]float64) []byte {
	var buf bytes.Buffer
	for _, row := range samples {
		binary.Write(&buf, binary.LittleEndian, row)
	}
	return buf.Bytes()
}

func decodeSamples(rows, cols int, data []byte) ([][]float64, error) {
	if rows < 1 || cols < 1 || len(data) != rows*cols*8 {
		return nil, fmt.Errorf("cache entry size mismatch: %d bytes for %dx%d grid",
			len(data), rows, cols)
	}

	r := bytes.NewReader(data)
	samples := make([][]float64, rows)
	for i := range samples {
		samples[i] = make([]float64, cols)
		if err := binary.Read(r, binary.LittleEndian, samples[i]); err != nil {
			return nil, err
		}
	}
	return samples, nil
}
