package maps

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gmaps "googlemaps.github.io/maps"
)

func newTestProvider(t *testing.T, body string) *GoogleMapsProvider {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	provider, err := NewGoogleMapsProvider("test-key", "ke", gmaps.WithBaseURL(server.URL))
	require.NoError(t, err)
	return provider
}

func TestGoogleMapsProvider_Geocode(t *testing.T) {
	provider := newTestProvider(t, `{
		"status": "OK",
		"results": [{
			"place_id": "abc",
			"formatted_address": "Mlolongo, Kenya",
			"types": ["locality"],
			"geometry": {"location": {"lat": -1.452, "lng": 36.955}}
		}]
	}`)

	result, err := provider.Geocode(context.Background(), "Mlolongo")
	require.NoError(t, err)

	assert.Equal(t, "abc", result.PlaceID)
	assert.InDelta(t, -1.452, result.Coordinates.Latitude, 1e-9)
	assert.InDelta(t, 36.955, result.Coordinates.Longitude, 1e-9)
}

func TestGoogleMapsProvider_GeocodeZeroResults(t *testing.T) {
	provider := newTestProvider(t, `{"status": "ZERO_RESULTS", "results": []}`)

	_, err := provider.Geocode(context.Background(), "nowhere")
	assert.ErrorIs(t, err, ErrNoResults)
}
