package testhelpers

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/report-microservice/internal/domain/repository"
	"github.com/report-microservice/internal/repository/postgres"
)

// NewReportRepositoryForTest creates a report repository with test database and logger
func NewReportRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.ReportRepository {
	return postgres.NewReportRepository(postgres.NewDBForTest(db, logger))
}

// NewStatsRepositoryForTest creates a stats repository with test database and logger
func NewStatsRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.StatsRepository {
	return postgres.NewStatsRepository(postgres.NewDBForTest(db, logger))
}
