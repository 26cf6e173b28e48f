package zone_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/report-microservice/internal/domain"
	"github.com/report-microservice/internal/zone"
)

// Зоны Солапура из конфигурации по умолчанию
func solapurZones() []domain.Zone {
	return []domain.Zone{
		{
			ID:   "zone1",
			Name: "North Solapur",
			Boundaries: []domain.Coordinate{
				{Latitude: 17.70, Longitude: 75.88},
				{Latitude: 17.70, Longitude: 75.94},
				{Latitude: 17.64, Longitude: 75.94},
				{Latitude: 17.64, Longitude: 75.88},
			},
		},
		{
			ID:   "zone4",
			Name: "Central Solapur",
			Boundaries: []domain.Coordinate{
				{Latitude: 17.66, Longitude: 75.89},
				{Latitude: 17.66, Longitude: 75.93},
				{Latitude: 17.62, Longitude: 75.93},
				{Latitude: 17.62, Longitude: 75.89},
			},
		},
		{
			ID:   "zone8",
			Name: "South Solapur",
			Boundaries: []domain.Coordinate{
				{Latitude: 17.62, Longitude: 75.88},
				{Latitude: 17.62, Longitude: 75.94},
				{Latitude: 17.56, Longitude: 75.94},
				{Latitude: 17.56, Longitude: 75.88},
			},
		},
	}
}

func TestLocator_DetectZone(t *testing.T) {
	locator := zone.NewLocator(solapurZones(), "zone1")

	t.Run("point at centroid resolves to that zone", func(t *testing.T) {
		// Центроид zone4: (17.64, 75.91)
		assert.Equal(t, "zone4", locator.DetectZone(17.64, 75.91))
	})

	t.Run("northern point resolves to northern zone", func(t *testing.T) {
		assert.Equal(t, "zone1", locator.DetectZone(17.70, 75.91))
	})

	t.Run("southern point resolves to southern zone", func(t *testing.T) {
		assert.Equal(t, "zone8", locator.DetectZone(17.57, 75.91))
	})

	t.Run("far away point still resolves to a configured zone", func(t *testing.T) {
		// Мумбаи - далеко от всех центроидов, но ответ всегда
		// одна из сконфигурированных зон
		got := locator.DetectZone(19.0760, 72.8777)
		assert.True(t, locator.Exists(got))
	})

	t.Run("equidistant point picks first configured zone", func(t *testing.T) {
		two := []domain.Zone{
			{ID: "a", Name: "A", Boundaries: []domain.Coordinate{
				{Latitude: 10, Longitude: 10},
			}},
			{ID: "b", Name: "B", Boundaries: []domain.Coordinate{
				{Latitude: 10, Longitude: 20},
			}},
		}
		l := zone.NewLocator(two, "a")

		// Точка ровно посередине между центроидами
		assert.Equal(t, "a", l.DetectZone(10, 15))
	})

	t.Run("empty zone list returns default zone", func(t *testing.T) {
		l := zone.NewLocator(nil, "zone1")
		assert.Equal(t, "zone1", l.DetectZone(17.64, 75.91))
	})
}

func TestLocator_Exists(t *testing.T) {
	locator := zone.NewLocator(solapurZones(), "zone1")

	assert.True(t, locator.Exists("zone1"))
	assert.True(t, locator.Exists("zone8"))
	assert.False(t, locator.Exists("zone99"))
	assert.False(t, locator.Exists(""))
}

func TestZone_Centroid(t *testing.T) {
	z := solapurZones()[0]
	c := z.Centroid()

	assert.InDelta(t, 17.67, c.Latitude, 1e-9)
	assert.InDelta(t, 75.91, c.Longitude, 1e-9)
}
