package zone

import (
	"fmt"
	"os"

	geojson "github.com/paulmach/go.geojson"

	"github.com/report-microservice/internal/domain"
)

// LoadZones читает зоны из GeoJSON FeatureCollection.
// Каждая feature - полигон зоны; id и name берутся из properties.
// Для MultiPolygon и полигонов с дырками используется только внешнее
// кольцо первого полигона - центроиду больше не нужно.
func LoadZones(path string) ([]domain.Zone, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read zones file: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse zones geojson: %w", err)
	}

	zones := make([]domain.Zone, 0, len(fc.Features))
	for i, f := range fc.Features {
		id, err := f.PropertyString("id")
		if err != nil || id == "" {
			return nil, fmt.Errorf("zone feature %d: missing id property", i)
		}

		name, err := f.PropertyString("name")
		if err != nil {
			name = id
		}

		ring, err := outerRing(f.Geometry)
		if err != nil {
			return nil, fmt.Errorf("zone %s: %w", id, err)
		}

		// GeoJSON-кольца замкнуты (первая вершина повторена в конце);
		// дубликат выбрасываем, иначе он сместил бы вершинный центроид
		if len(ring) > 1 {
			first, last := ring[0], ring[len(ring)-1]
			if len(first) >= 2 && len(last) >= 2 && first[0] == last[0] && first[1] == last[1] {
				ring = ring[:len(ring)-1]
			}
		}

		boundaries := make([]domain.Coordinate, 0, len(ring))
		for _, pt := range ring {
			// GeoJSON хранит координаты как [lon, lat]
			boundaries = append(boundaries, domain.Coordinate{
				Latitude:  pt[1],
				Longitude: pt[0],
			})
		}

		zones = append(zones, domain.Zone{
			ID:         id,
			Name:       name,
			Boundaries: boundaries,
		})
	}

	if len(zones) == 0 {
		return nil, fmt.Errorf("zones file %s contains no features", path)
	}

	return zones, nil
}

func outerRing(g *geojson.Geometry) ([][]float64, error) {
	switch {
	case g == nil:
		return nil, fmt.Errorf("missing geometry")
	case g.IsPolygon() && len(g.Polygon) > 0:
		return g.Polygon[0], nil
	case g.IsMultiPolygon() && len(g.MultiPolygon) > 0 && len(g.MultiPolygon[0]) > 0:
		return g.MultiPolygon[0][0], nil
	default:
		return nil, fmt.Errorf("unsupported geometry type %s", g.Type)
	}
}
