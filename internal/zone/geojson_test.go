package zone_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/report-microservice/internal/zone"
)

func writeZonesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "zones.geojson")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadZones(t *testing.T) {
	t.Run("parses features and drops closing vertex", func(t *testing.T) {
		path := writeZonesFile(t, `{
			"type": "FeatureCollection",
			"features": [{
				"type": "Feature",
				"properties": {"id": "zone1", "name": "North"},
				"geometry": {
					"type": "Polygon",
					"coordinates": [[
						[75.88, 17.70],
						[75.94, 17.70],
						[75.94, 17.64],
						[75.88, 17.64],
						[75.88, 17.70]
					]]
				}
			}]
		}`)

		zones, err := zone.LoadZones(path)
		require.NoError(t, err)
		require.Len(t, zones, 1)

		z := zones[0]
		assert.Equal(t, "zone1", z.ID)
		assert.Equal(t, "North", z.Name)
		// Замыкающая вершина выброшена: 4 вершины, не 5
		require.Len(t, z.Boundaries, 4)
		// [lon, lat] -> Latitude/Longitude
		assert.Equal(t, 17.70, z.Boundaries[0].Latitude)
		assert.Equal(t, 75.88, z.Boundaries[0].Longitude)

		c := z.Centroid()
		assert.InDelta(t, 17.67, c.Latitude, 1e-9)
		assert.InDelta(t, 75.91, c.Longitude, 1e-9)
	})

	t.Run("name falls back to id", func(t *testing.T) {
		path := writeZonesFile(t, `{
			"type": "FeatureCollection",
			"features": [{
				"type": "Feature",
				"properties": {"id": "zone9"},
				"geometry": {
					"type": "Polygon",
					"coordinates": [[[75.88, 17.70], [75.94, 17.70], [75.88, 17.64], [75.88, 17.70]]]
				}
			}]
		}`)

		zones, err := zone.LoadZones(path)
		require.NoError(t, err)
		assert.Equal(t, "zone9", zones[0].Name)
	})

	t.Run("missing id property fails", func(t *testing.T) {
		path := writeZonesFile(t, `{
			"type": "FeatureCollection",
			"features": [{
				"type": "Feature",
				"properties": {"name": "anonymous"},
				"geometry": {
					"type": "Polygon",
					"coordinates": [[[75.88, 17.70], [75.94, 17.70], [75.88, 17.64], [75.88, 17.70]]]
				}
			}]
		}`)

		_, err := zone.LoadZones(path)
		assert.Error(t, err)
	})

	t.Run("empty collection fails", func(t *testing.T) {
		path := writeZonesFile(t, `{"type": "FeatureCollection", "features": []}`)

		_, err := zone.LoadZones(path)
		assert.Error(t, err)
	})

	t.Run("missing file fails", func(t *testing.T) {
		_, err := zone.LoadZones(filepath.Join(t.TempDir(), "nope.geojson"))
		assert.Error(t, err)
	})

	t.Run("default config file loads", func(t *testing.T) {
		zones, err := zone.LoadZones("../../config/zones.geojson")
		require.NoError(t, err)
		require.Len(t, zones, 3)
		assert.Equal(t, "zone1", zones[0].ID)
		assert.Equal(t, "zone4", zones[1].ID)
		assert.Equal(t, "zone8", zones[2].ID)
	})
}
