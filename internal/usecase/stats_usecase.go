package usecase

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/report-microservice/internal/domain"
	"github.com/report-microservice/internal/domain/repository"
	"github.com/report-microservice/internal/pkg/errors"
	"github.com/report-microservice/internal/usecase/dto"
	"github.com/report-microservice/internal/zone"
)

// StatsUseCase - use case аналитики Road Health Index
type StatsUseCase struct {
	statsRepo repository.StatsRepository
	cacheRepo repository.CacheRepository
	locator   *zone.Locator
	logger    *zap.Logger
	cacheTTL  time.Duration
}

// NewStatsUseCase - создание нового StatsUseCase
func NewStatsUseCase(
	statsRepo repository.StatsRepository,
	cacheRepo repository.CacheRepository,
	locator *zone.Locator,
	logger *zap.Logger,
	cacheTTL time.Duration,
) *StatsUseCase {
	return &StatsUseCase{
		statsRepo: statsRepo,
		cacheRepo: cacheRepo,
		locator:   locator,
		logger:    logger,
		cacheTTL:  cacheTTL,
	}
}

// ZoneAnalytics возвращает RHI и метрики одной зоны
func (uc *StatsUseCase) ZoneAnalytics(ctx context.Context, zoneID string) (*dto.ZoneAnalyticsResponse, error) {
	if !uc.locator.Exists(zoneID) {
		return nil, errors.ErrUnknownZone
	}

	cacheKey := "stats:zone:" + zoneID
	if cached, err := uc.cacheRepo.Get(ctx, cacheKey); err == nil && cached != nil {
		var resp dto.ZoneAnalyticsResponse
		if err := json.Unmarshal(cached, &resp); err == nil {
			return &resp, nil
		}
	}

	stats, err := uc.statsRepo.GetZoneStats(ctx, zoneID)
	if err != nil {
		uc.logger.Error("Failed to get zone stats",
			zap.String("zone", zoneID),
			zap.Error(err))
		return nil, err
	}

	score := calculateRHI(stats)
	resp := dto.NewZoneAnalyticsResponse(score)

	if data, err := json.Marshal(resp); err == nil {
		if err := uc.cacheRepo.Set(ctx, cacheKey, data, uc.cacheTTL); err != nil {
			uc.logger.Warn("Failed to cache zone analytics", zap.Error(err))
		}
	}

	return &resp, nil
}

// CityAnalytics возвращает сводку по всем зонам с отчётами
func (uc *StatsUseCase) CityAnalytics(ctx context.Context) (*dto.CityAnalyticsResponse, error) {
	zones, err := uc.statsRepo.GetReportedZones(ctx)
	if err != nil {
		uc.logger.Error("Failed to get reported zones", zap.Error(err))
		return nil, err
	}

	resp := &dto.CityAnalyticsResponse{
		Zones: make([]dto.ZoneAnalyticsResponse, 0, len(zones)),
	}

	totalScore := 0
	for _, z := range zones {
		// Зоны, выпавшие из конфигурации, в сводку не попадают
		if !uc.locator.Exists(z) {
			continue
		}
		za, err := uc.ZoneAnalytics(ctx, z)
		if err != nil {
			return nil, err
		}
		resp.Zones = append(resp.Zones, *za)
		totalScore += za.Score
		resp.TotalReports += za.Metrics.TotalReports
	}

	if len(resp.Zones) > 0 {
		resp.AverageScore = int(math.Round(float64(totalScore) / float64(len(resp.Zones))))
	} else {
		resp.AverageScore = 100
	}

	return resp, nil
}

// calculateRHI считает Road Health Index зоны: штрафы за количество,
// серьёзность, возраст и нерешённость отчётов, от базовых 100
func calculateRHI(stats *domain.ZoneStats) *domain.RHIScore {
	penalty := 2.0*float64(stats.TotalReports) +
		15.0*float64(stats.HighSeverity) +
		8.0*float64(stats.MediumSeverity) +
		3.0*float64(stats.LowSeverity) +
		0.5*stats.AvgAgeDays +
		10.0*float64(stats.PendingReports)

	score := int(math.Round(100.0 - penalty))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return &domain.RHIScore{
		Zone:           stats.Zone,
		Score:          score,
		Grade:          gradeFor(score),
		Metrics:        *stats,
		LastCalculated: time.Now(),
	}
}

// gradeFor переводит численный RHI в буквенную оценку
func gradeFor(score int) domain.RHIGrade {
	switch {
	case score >= 80:
		return domain.GradeExcellent
	case score >= 60:
		return domain.GradeGood
	case score >= 40:
		return domain.GradeFair
	case score >= 20:
		return domain.GradePoor
	default:
		return domain.GradeCritical
	}
}
