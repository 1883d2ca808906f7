// Package elevation fetches elevation sample grids for a bounding box,
// backed by a sqlite read-through cache. With a Google API key configured
// it queries the Google Elevation API; otherwise it falls back to the free
// open-elevation service.
package elevation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/printforge/terraprint/internal/logger"
	"github.com/printforge/terraprint/internal/terrain"
	"github.com/printforge/terraprint/pkg/geo"
)

const (
	googleElevationURL = "https://maps.googleapis.com/maps/api/elevation/json"
	openElevationURL   = "https://api.open-elevation.com/api/v1/lookup"

	// googleBatchSize stays under the API's 512 location limit and its
	// URL length cap.
	googleBatchSize = 200
	// openElevationBatchSize matches what the free service tolerates.
	openElevationBatchSize = 100
)

// Fetcher retrieves elevation grids. A nil cache disables caching.
type Fetcher struct {
	client    *http.Client
	apiKey    string
	cache     *Cache
	googleURL string
	openURL   string
}

// NewFetcher returns a fetcher using the Google Elevation API when apiKey
// is non-empty and open-elevation otherwise.
func NewFetcher(apiKey string, cache *Cache) *Fetcher {
	return &Fetcher{
		client:    &http.Client{Timeout: 60 * time.Second},
		apiKey:    apiKey,
		cache:     cache,
		googleURL: googleElevationURL,
		openURL:   openElevationURL,
	}
}

// Source names the API the fetcher will use.
func (f *Fetcher) Source() string {
	if f.apiKey != "" {
		return "google"
	}
	return "open_elevation"
}

// point is one grid sample position.
type point struct {
	lat, lon float64
}

// FetchGrid returns the elevation grid covering bounds at the requested
// resolution, from cache when possible. Grid spacing follows the bounds'
// physical extent, minimum two samples per axis.
func (f *Fetcher) FetchGrid(ctx context.Context, b geo.Bounds, resolutionMeters float64) (*terrain.Grid, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	source := f.Source()
	if f.cache != nil {
		samples, ok, err := f.cache.Get(ctx, b, resolutionMeters, source)
		if err != nil {
			return nil, err
		}
		if ok {
			logger.Log.Info("using cached elevation grid",
				zap.String("source", source),
				zap.Int("rows", len(samples)))
			return terrain.NewGrid(samples, b)
		}
	}

	rows, cols := b.GridSteps(resolutionMeters)
	logger.Log.Info("fetching elevation grid",
		zap.String("source", source),
		zap.Int("rows", rows),
		zap.Int("cols", cols))

	points := make([]point, 0, rows*cols)
	for r := 0; r < rows; r++ {
		lat := b.South + (b.North-b.South)*float64(r)/float64(rows-1)
		for c := 0; c < cols; c++ {
			lon := b.West + (b.East-b.West)*float64(c)/float64(cols-1)
			points = append(points, point{lat: lat, lon: lon})
		}
	}

	var (
		heights []float64
		err     error
	)
	if f.apiKey != "" {
		heights, err = f.fetchGoogle(ctx, points)
	} else {
		heights, err = f.fetchOpenElevation(ctx, points)
	}
	if err != nil {
		return nil, fmt.Errorf("fetching elevations from %s: %w", source, err)
	}

	samples := make([][]float64, rows)
	for r := range samples {
		samples[r] = heights[r*cols : (r+1)*cols]
	}

	if f.cache != nil {
		if err := f.cache.Put(ctx, b, resolutionMeters, source, samples); err != nil {
			logger.Log.Warn("caching elevation grid failed", zap.Error(err))
		}
	}

	return terrain.NewGrid(samples, b)
}

type googleResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Elevation float64 `json:"elevation"`
	} `json:"results"`
}

func (f *Fetcher) fetchGoogle(ctx context.Context, points []point) ([]float64, error) {
	heights := make([]float64, 0, len(points))

	for start := 0; start < len(points); start += googleBatchSize {
		end := start + googleBatchSize
		if end > len(points) {
			end = len(points)
		}
		batch := points[start:end]

		var locs strings.Builder
		for i, p := range batch {
			if i > 0 {
				locs.WriteByte('|')
			}
			fmt.Fprintf(&locs, "%.6f,%.6f", p.lat, p.lon)
		}

		q := url.Values{}
		q.Set("locations", locs.String())
		q.Set("key", f.apiKey)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet,
			f.googleURL+"?"+q.Encode(), nil)
		if err != nil {
			return nil, err
		}

		var resp googleResponse
		if err := f.doJSON(req, &resp); err != nil {
			return nil, err
		}
		if resp.Status != "OK" {
			return nil, fmt.Errorf("elevation API status %q", resp.Status)
		}
		if len(resp.Results) != len(batch) {
			return nil, fmt.Errorf("got %d elevations for %d locations",
				len(resp.Results), len(batch))
		}
		for _, r := range resp.Results {
			heights = append(heights, r.Elevation)
		}
	}

	return heights, nil
}

type openElevationRequest struct {
	Locations []openElevationLocation `json:"locations"`
}

type openElevationLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type openElevationResponse struct {
	Results []struct {
		Elevation float64 `json:"elevation"`
	} `json:"results"`
}

func (f *Fetcher) fetchOpenElevation(ctx context.Context, points []point) ([]float64, error) {
	heights := make([]float64, 0, len(points))

	for start := 0; start < len(points); start += openElevationBatchSize {
		end := start + openElevationBatchSize
		if end > len(points) {
			end = len(points)
		}
		batch := points[start:end]

		body := openElevationRequest{
			Locations: make([]openElevationLocation, len(batch)),
		}
		for i, p := range batch {
			body.Locations[i] = openElevationLocation{Latitude: p.lat, Longitude: p.lon}
		}
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			f.openURL, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		var resp openElevationResponse
		if err := f.doJSON(req, &resp); err != nil {
			return nil, err
		}
		if len(resp.Results) != len(batch) {
			return nil, fmt.Errorf("got %d elevations for %d locations",
				len(resp.Results), len(batch))
		}
		for _, r := range resp.Results {
			heights = append(heights, r.Elevation)
		}
	}

	return heights, nil
}

func (f *Fetcher) doJSON(req *http.Request, out any) error {
	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected HTTP status %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
