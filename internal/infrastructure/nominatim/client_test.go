package nominatim_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/report-microservice/internal/config"
	"github.com/report-microservice/internal/infrastructure/nominatim"
)

func TestReverseGeocode(t *testing.T) {
	t.Run("full address assembled from parts", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/reverse", r.URL.Path)
			assert.Equal(t, "json", r.URL.Query().Get("format"))
			assert.Equal(t, "18", r.URL.Query().Get("zoom"))
			assert.Equal(t, "road-reporter-test", r.Header.Get("User-Agent"))

			w.Write([]byte(`{
				"display_name": "Siddheshwar Road, North Solapur, Solapur, Maharashtra, India",
				"address": {
					"road": "Siddheshwar Road",
					"suburb": "North Solapur",
					"city": "Solapur",
					"state": "Maharashtra"
				}
			}`))
		}))
		defer server.Close()

		c := nominatim.NewClient(&config.GeocoderConfig{
			BaseURL:   server.URL,
			UserAgent: "road-reporter-test",
		}, zap.NewNop())

		loc, err := c.ReverseGeocode(context.Background(), 17.6599, 75.9064)
		require.NoError(t, err)

		assert.Equal(t, 17.6599, loc.Latitude)
		assert.Equal(t, 75.9064, loc.Longitude)
		assert.Equal(t, "Siddheshwar Road", loc.RoadName)
		assert.Equal(t, "North Solapur", loc.Area)
		assert.Equal(t, "Siddheshwar Road, North Solapur, Solapur, Maharashtra", loc.Address)
	})

	t.Run("pedestrian and neighbourhood fallbacks", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{
				"address": {
					"pedestrian": "Station Footpath",
					"neighbourhood": "Railway Lines"
				}
			}`))
		}))
		defer server.Close()

		c := nominatim.NewClient(&config.GeocoderConfig{BaseURL: server.URL}, zap.NewNop())
		loc, err := c.ReverseGeocode(context.Background(), 17.66, 75.91)
		require.NoError(t, err)

		assert.Equal(t, "Station Footpath", loc.RoadName)
		assert.Equal(t, "Railway Lines", loc.Area)
	})

	t.Run("display_name fallback when no parts", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"display_name": "Somewhere in Solapur", "address": {}}`))
		}))
		defer server.Close()

		c := nominatim.NewClient(&config.GeocoderConfig{BaseURL: server.URL}, zap.NewNop())
		loc, err := c.ReverseGeocode(context.Background(), 17.66, 75.91)
		require.NoError(t, err)
		assert.Equal(t, "Somewhere in Solapur", loc.Address)
	})

	t.Run("http error wraps geocoder error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		c := nominatim.NewClient(&config.GeocoderConfig{BaseURL: server.URL}, zap.NewNop())
		_, err := c.ReverseGeocode(context.Background(), 17.66, 75.91)
		assert.Error(t, err)
	})
}
