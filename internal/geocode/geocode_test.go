package geocode

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubServer(t *testing.T, status string, lat, lng float64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.NotEmpty(t, r.URL.Query().Get("address"))

		resp := geocodeResponse{Status: status}
		if status == "OK" {
			resp.Results = make([]struct {
				Geometry struct {
					Location struct {
						Lat float64 `json:"lat"`
						Lng float64 `json:"lng"`
					} `json:"location"`
				} `json:"geometry"`
			}, 1)
			resp.Results[0].Geometry.Location.Lat = lat
			resp.Results[0].Geometry.Location.Lng = lng
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestLocate(t *testing.T) {
	srv := stubServer(t, "OK", 46.5197, 6.6323)
	defer srv.Close()

	c := NewClient("test-key")
	c.baseURL = srv.URL

	lat, lon, err := c.Locate(context.Background(), "Lausanne, Switzerland")
	require.NoError(t, err)
	assert.InDelta(t, 46.5197, lat, 1e-9)
	assert.InDelta(t, 6.6323, lon, 1e-9)
}

func TestLocateZeroResults(t *testing.T) {
	srv := stubServer(t, "ZERO_RESULTS", 0, 0)
	defer srv.Close()

	c := NewClient("test-key")
	c.baseURL = srv.URL

	_, _, err := c.Locate(context.Background(), "nowhere at all")
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestLocateAPIError(t *testing.T) {
	srv := stubServer(t, "REQUEST_DENIED", 0, 0)
	defer srv.Close()

	c := NewClient("test-key")
	c.baseURL = srv.URL

	_, _, err := c.Locate(context.Background(), "Lausanne")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REQUEST_DENIED")
}

func TestBoundsCenterOnAddress(t *testing.T) {
	srv := stubServer(t, "OK", 46.0, 7.0)
	defer srv.Close()

	c := NewClient("test-key")
	c.baseURL = srv.URL

	b, err := c.Bounds(context.Background(), "somewhere", 2)
	require.NoError(t, err)
	require.NoError(t, b.Validate())

	lat, lon := b.Center()
	assert.InDelta(t, 46.0, lat, 1e-9)
	assert.InDelta(t, 7.0, lon, 1e-9)
	assert.Greater(t, b.North, b.South)
}
