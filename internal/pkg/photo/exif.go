package photo

import (
	"bytes"

	"github.com/rwcarlsen/goexif/exif"
)

// GPSFromEXIF извлекает координаты из EXIF-тегов снимка.
// Используется как подсказка локации, когда устройство не прислало
// координаты вместе с фото. Отсутствие EXIF или GPS-тегов - не ошибка.
func GPSFromEXIF(data []byte) (lat, lon float64, ok bool) {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return 0, 0, false
	}

	lat, lon, err = x.LatLong()
	if err != nil {
		return 0, 0, false
	}

	return lat, lon, true
}
