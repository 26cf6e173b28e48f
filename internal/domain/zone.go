package domain

// Zone - административная зона муниципалитета.
// Boundaries - упорядоченный список вершин полигона, задаётся конфигурацией
// при старте процесса и далее неизменен.
type Zone struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Boundaries []Coordinate `json:"boundaries"`
}

// Centroid возвращает среднее арифметическое вершин полигона.
// Это НЕ взвешенный по площади центроид: плотные участки вершин
// смещают результат, и это сознательное поведение зонного классификатора.
func (z *Zone) Centroid() Coordinate {
	if len(z.Boundaries) == 0 {
		return Coordinate{}
	}

	var sumLat, sumLon float64
	for _, p := range z.Boundaries {
		sumLat += p.Latitude
		sumLon += p.Longitude
	}

	n := float64(len(z.Boundaries))
	return Coordinate{
		Latitude:  sumLat / n,
		Longitude: sumLon / n,
	}
}
