package domain

// Coordinate представляет координаты точки (WGS84)
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Location - разрешённая локация отчёта: координаты + адрес + зона
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
	RoadName  string  `json:"road_name,omitempty"`
	Area      string  `json:"area,omitempty"`
	Zone      string  `json:"zone,omitempty"`
}

// HasCoordinates проверяет наличие координат (0,0 считается "нет координат")
func (l *Location) HasCoordinates() bool {
	return l != nil && (l.Latitude != 0 || l.Longitude != 0)
}
