package repository

import (
	"context"

	"github.com/report-microservice/internal/domain"
)

// ClassifierRepository - внешний детектор повреждений (YOLO backend)
type ClassifierRepository interface {
	// Classify отправляет фото детектору и возвращает результат классификации
	Classify(ctx context.Context, photo *domain.Photo) (*domain.AIDetection, error)
}

// GeocoderRepository - обратное геокодирование координат в адрес
type GeocoderRepository interface {
	// ReverseGeocode возвращает адрес/улицу/район для координат.
	// Ошибка геокодера не фатальна: локация остаётся с одними координатами.
	ReverseGeocode(ctx context.Context, lat, lon float64) (*domain.Location, error)
}

// StorageRepository - объектное хранилище фотографий
type StorageRepository interface {
	// Upload загружает фото под ключом отчёта и возвращает публичный URL
	Upload(ctx context.Context, photo *domain.Photo, reportID string) (string, error)
}

// ConnectivityRepository - проверка доступности облачного бэкенда
type ConnectivityRepository interface {
	// IsReachable выполняет пробу health-эндпоинта (таймаут 5 секунд);
	// HTTP 401 считается "доступен" - сервер жив, просто требует авторизацию
	IsReachable(ctx context.Context) bool
}

// SessionRepository - текущий пользователь по токену сессии
type SessionRepository interface {
	// GetCurrentUser валидирует токен и возвращает пользователя
	GetCurrentUser(ctx context.Context, token string) (*domain.User, error)
}
