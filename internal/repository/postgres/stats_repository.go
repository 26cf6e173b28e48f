package postgres

import (
	"context"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/report-microservice/internal/domain"
	"github.com/report-microservice/internal/domain/repository"
	apperrors "github.com/report-microservice/internal/pkg/errors"
)

type statsRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewStatsRepository создает новый экземпляр stats repository
func NewStatsRepository(db *DB) repository.StatsRepository {
	return &statsRepository{
		db:     db,
		logger: db.logger,
	}
}

// GetZoneStats возвращает агрегированную статистику отчётов по зоне
func (r *statsRepository) GetZoneStats(ctx context.Context, zone string) (*domain.ZoneStats, error) {
	query := `
		SELECT
			COUNT(*)                                                    AS total_reports,
			COUNT(*) FILTER (WHERE status = 'pending')                  AS pending_reports,
			COUNT(*) FILTER (WHERE status = 'completed')                AS completed_reports,
			COUNT(*) FILTER (WHERE severity = 'high')                   AS high_severity,
			COUNT(*) FILTER (WHERE severity = 'medium')                 AS medium_severity,
			COUNT(*) FILTER (WHERE severity = 'low')                    AS low_severity,
			COALESCE(AVG(EXTRACT(EPOCH FROM (now() - created_at)) / 86400.0), 0) AS avg_age_days
		FROM reports
		WHERE zone = $1
	`

	stats := &domain.ZoneStats{Zone: zone}
	err := r.db.QueryRowxContext(ctx, query, zone).Scan(
		&stats.TotalReports,
		&stats.PendingReports,
		&stats.CompletedReports,
		&stats.HighSeverity,
		&stats.MediumSeverity,
		&stats.LowSeverity,
		&stats.AvgAgeDays,
	)
	if err != nil {
		r.logger.Error("Failed to get zone stats",
			zap.String("zone", zone),
			zap.Error(err))
		return nil, apperrors.ErrDatabaseError.Wrap(err)
	}

	return stats, nil
}

// GetReportedZones возвращает список зон, по которым есть отчёты
func (r *statsRepository) GetReportedZones(ctx context.Context) ([]string, error) {
	query := `SELECT COALESCE(array_agg(DISTINCT zone), '{}') FROM reports WHERE zone <> ''`

	var zones []string
	if err := r.db.QueryRowxContext(ctx, query).Scan(pq.Array(&zones)); err != nil {
		r.logger.Error("Failed to get reported zones", zap.Error(err))
		return nil, apperrors.ErrDatabaseError.Wrap(err)
	}

	return zones, nil
}
