package repository

import (
	"context"

	"github.com/report-microservice/internal/domain"
)

// ReportRepository определяет методы для персистентности отчётов
type ReportRepository interface {
	// Save сохраняет новый отчёт. Повторное сохранение с тем же id
	// не является ошибкой (идемпотентный retry после сбоя submit).
	Save(ctx context.Context, report *domain.Report) error

	// GetByID возвращает отчёт по id
	GetByID(ctx context.Context, id string) (*domain.Report, error)

	// ListByCitizen возвращает отчёты гражданина, новые первыми
	ListByCitizen(ctx context.Context, citizenID string, limit int) ([]domain.Report, error)

	// ListByZone возвращает отчёты зоны с фильтром по статусам
	ListByZone(ctx context.Context, zone string, statuses []string, limit int) ([]domain.Report, error)

	// UpdateStatus переводит отчёт в новый статус (workflow RSO/Admin)
	UpdateStatus(ctx context.Context, id string, status domain.ReportStatus) error
}
