package zone

import (
	"math"

	"github.com/report-microservice/internal/domain"
	"github.com/report-microservice/internal/pkg/utils"
)

// Locator назначает координатам ближайшую административную зону по
// расстоянию до центроида. Это nearest-centroid классификатор, а НЕ
// point-in-polygon: точка может попасть в зону, полигон которой её
// фактически не содержит. Семантика сохранена намеренно.
type Locator struct {
	zones       []domain.Zone
	defaultZone string
}

// NewLocator создаёт Locator с инжектированным списком зон.
// defaultZone возвращается, когда список зон пуст или координаты
// недоступны вызывающему коду.
func NewLocator(zones []domain.Zone, defaultZone string) *Locator {
	return &Locator{
		zones:       zones,
		defaultZone: defaultZone,
	}
}

// DetectZone возвращает id зоны с ближайшим центроидом.
// Функция чистая и тотальная над набором зон: при непустом списке всегда
// возвращается один из сконфигурированных id. При равных расстояниях
// побеждает первая зона в порядке конфигурации (сравнение строго меньше).
func (l *Locator) DetectZone(lat, lon float64) string {
	if len(l.zones) == 0 {
		return l.defaultZone
	}

	nearest := l.zones[0].ID
	minDistance := math.Inf(1)

	for _, z := range l.zones {
		c := z.Centroid()
		distance := utils.HaversineDistance(lat, lon, c.Latitude, c.Longitude)
		if distance < minDistance {
			minDistance = distance
			nearest = z.ID
		}
	}

	return nearest
}

// Zones возвращает сконфигурированный список зон (для выбора в UI)
func (l *Locator) Zones() []domain.Zone {
	return l.zones
}

// DefaultZone возвращает id зоны по умолчанию
func (l *Locator) DefaultZone() string {
	return l.defaultZone
}

// Exists проверяет, что id принадлежит сконфигурированной зоне
func (l *Locator) Exists(id string) bool {
	for _, z := range l.zones {
		if z.ID == id {
			return true
		}
	}
	return false
}
