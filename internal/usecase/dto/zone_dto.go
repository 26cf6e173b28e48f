package dto

// DetectZoneRequest - запрос на определение зоны по координатам
type DetectZoneRequest struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lon float64 `json:"lon" validate:"min=-180,max=180"`
}

// DetectZoneResponse - определённая зона
type DetectZoneResponse struct {
	Zone       string  `json:"zone"`
	Name       string  `json:"name"`
	DistanceKm float64 `json:"distance_km"`
	IsDefault  bool    `json:"is_default"`
}

// ZoneInfo - зона из каталога
type ZoneInfo struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Centroid Point64 `json:"centroid"`
}

// Point64 - пара координат
type Point64 struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ZoneListResponse - каталог зон
type ZoneListResponse struct {
	Zones       []ZoneInfo `json:"zones"`
	DefaultZone string     `json:"default_zone"`
}
