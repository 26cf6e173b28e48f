package repository

import (
	"context"

	"github.com/report-microservice/internal/domain"
)

// StatsRepository определяет методы для статистики отчётов
type StatsRepository interface {
	// GetZoneStats возвращает агрегированную статистику по зоне
	GetZoneStats(ctx context.Context, zone string) (*domain.ZoneStats, error)

	// GetReportedZones возвращает список зон, по которым есть отчёты
	GetReportedZones(ctx context.Context) ([]string, error)
}
