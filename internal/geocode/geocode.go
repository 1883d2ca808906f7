// Package geocode resolves street addresses to coordinates and bounding
// boxes through the Google Geocoding API.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/printforge/terraprint/internal/logger"
	"github.com/printforge/terraprint/pkg/geo"
)

const geocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"

// ErrNoResults means the API answered but found nothing for the address.
var ErrNoResults = errors.New("no geocoding results")

// Client calls the Google Geocoding API.
type Client struct {
	client  *http.Client
	apiKey  string
	baseURL string
}

// NewClient returns a geocoding client for the given API key.
func NewClient(apiKey string) *Client {
	return &Client{
		client:  &http.Client{Timeout: 30 * time.Second},
		apiKey:  apiKey,
		baseURL: geocodeURL,
	}
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Locate resolves an address to its coordinates.
func (c *Client) Locate(ctx context.Context, address string) (lat, lon float64, err error) {
	q := url.Values{}
	q.Set("address", address)
	q.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return 0, 0, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("geocoding %q: %w", address, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("geocoding %q: unexpected HTTP status %s", address, resp.Status)
	}

	var body geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, 0, fmt.Errorf("geocoding %q: decoding response: %w", address, err)
	}

	switch body.Status {
	case "OK":
	case "ZERO_RESULTS":
		return 0, 0, fmt.Errorf("geocoding %q: %w", address, ErrNoResults)
	default:
		return 0, 0, fmt.Errorf("geocoding %q: API status %q", address, body.Status)
	}
	if len(body.Results) == 0 {
		return 0, 0, fmt.Errorf("geocoding %q: %w", address, ErrNoResults)
	}

	loc := body.Results[0].Geometry.Location
	logger.Log.Info("geocoded address",
		zap.String("address", address),
		zap.Float64("lat", loc.Lat),
		zap.Float64("lon", loc.Lng))
	return loc.Lat, loc.Lng, nil
}

// Bounds resolves an address and pads it into a square bounding box with
// the given radius.
func (c *Client) Bounds(ctx context.Context, address string, radiusKM float64) (geo.Bounds, error) {
	lat, lon, err := c.Locate(ctx, address)
	if err != nil {
		return geo.Bounds{}, err
	}
	return geo.FromCenter(lat, lon, radiusKM), nil
}
