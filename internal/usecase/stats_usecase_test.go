package usecase_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/report-microservice/internal/domain"
	"github.com/report-microservice/internal/pkg/errors"
	"github.com/report-microservice/internal/usecase"
	"github.com/report-microservice/internal/usecase/dto"
	"github.com/report-microservice/internal/zone"
)

// MockStatsRepository is a mock of StatsRepository
type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) GetZoneStats(ctx context.Context, zone string) (*domain.ZoneStats, error) {
	args := m.Called(ctx, zone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ZoneStats), args.Error(1)
}

func (m *MockStatsRepository) GetReportedZones(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockCacheRepository is a mock of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func statsLocator() *zone.Locator {
	zones := []domain.Zone{
		{ID: "zone1", Name: "North", Boundaries: []domain.Coordinate{{Latitude: 17.67, Longitude: 75.91}}},
		{ID: "zone8", Name: "South", Boundaries: []domain.Coordinate{{Latitude: 17.59, Longitude: 75.91}}},
	}
	return zone.NewLocator(zones, "zone1")
}

func TestStatsUseCase_ZoneAnalytics(t *testing.T) {
	ctx := context.Background()

	t.Run("pristine zone scores 100 Excellent", func(t *testing.T) {
		statsRepo := &MockStatsRepository{}
		cacheRepo := &MockCacheRepository{}
		statsRepo.On("GetZoneStats", ctx, "zone1").Return(&domain.ZoneStats{Zone: "zone1"}, nil)
		cacheRepo.On("Get", ctx, "stats:zone:zone1").Return(nil, nil)
		cacheRepo.On("Set", ctx, "stats:zone:zone1", mock.Anything, 5*time.Minute).Return(nil)

		uc := usecase.NewStatsUseCase(statsRepo, cacheRepo, statsLocator(), zap.NewNop(), 5*time.Minute)
		resp, err := uc.ZoneAnalytics(ctx, "zone1")
		require.NoError(t, err)

		assert.Equal(t, 100, resp.Score)
		assert.Equal(t, string(domain.GradeExcellent), resp.Grade)
	})

	t.Run("penalties add up", func(t *testing.T) {
		statsRepo := &MockStatsRepository{}
		cacheRepo := &MockCacheRepository{}
		// 2*5 + 15*1 + 8*2 + 3*2 + 0.5*4 + 10*3 = 79 -> score 21, Poor
		statsRepo.On("GetZoneStats", ctx, "zone8").Return(&domain.ZoneStats{
			Zone:           "zone8",
			TotalReports:   5,
			PendingReports: 3,
			HighSeverity:   1,
			MediumSeverity: 2,
			LowSeverity:    2,
			AvgAgeDays:     4,
		}, nil)
		cacheRepo.On("Get", ctx, mock.Anything).Return(nil, nil)
		cacheRepo.On("Set", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		uc := usecase.NewStatsUseCase(statsRepo, cacheRepo, statsLocator(), zap.NewNop(), 5*time.Minute)
		resp, err := uc.ZoneAnalytics(ctx, "zone8")
		require.NoError(t, err)

		assert.Equal(t, 21, resp.Score)
		assert.Equal(t, string(domain.GradePoor), resp.Grade)
	})

	t.Run("fractional penalty rounds, not truncates", func(t *testing.T) {
		statsRepo := &MockStatsRepository{}
		cacheRepo := &MockCacheRepository{}
		// 2*1 + 0.5*1 = 2.5 -> 97.5 округляется до 98
		statsRepo.On("GetZoneStats", ctx, "zone1").Return(&domain.ZoneStats{
			Zone:         "zone1",
			TotalReports: 1,
			AvgAgeDays:   1,
		}, nil)
		cacheRepo.On("Get", ctx, mock.Anything).Return(nil, nil)
		cacheRepo.On("Set", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		uc := usecase.NewStatsUseCase(statsRepo, cacheRepo, statsLocator(), zap.NewNop(), 5*time.Minute)
		resp, err := uc.ZoneAnalytics(ctx, "zone1")
		require.NoError(t, err)

		assert.Equal(t, 98, resp.Score)
	})

	t.Run("score clamps at zero", func(t *testing.T) {
		statsRepo := &MockStatsRepository{}
		cacheRepo := &MockCacheRepository{}
		statsRepo.On("GetZoneStats", ctx, "zone1").Return(&domain.ZoneStats{
			Zone:         "zone1",
			TotalReports: 100,
			HighSeverity: 50,
		}, nil)
		cacheRepo.On("Get", ctx, mock.Anything).Return(nil, nil)
		cacheRepo.On("Set", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		uc := usecase.NewStatsUseCase(statsRepo, cacheRepo, statsLocator(), zap.NewNop(), 5*time.Minute)
		resp, err := uc.ZoneAnalytics(ctx, "zone1")
		require.NoError(t, err)

		assert.Equal(t, 0, resp.Score)
		assert.Equal(t, string(domain.GradeCritical), resp.Grade)
	})

	t.Run("cache hit skips repository", func(t *testing.T) {
		statsRepo := &MockStatsRepository{}
		cacheRepo := &MockCacheRepository{}

		cached, _ := json.Marshal(dto.ZoneAnalyticsResponse{Zone: "zone1", Score: 88, Grade: "Excellent"})
		cacheRepo.On("Get", ctx, "stats:zone:zone1").Return(cached, nil)

		uc := usecase.NewStatsUseCase(statsRepo, cacheRepo, statsLocator(), zap.NewNop(), 5*time.Minute)
		resp, err := uc.ZoneAnalytics(ctx, "zone1")
		require.NoError(t, err)

		assert.Equal(t, 88, resp.Score)
		statsRepo.AssertNotCalled(t, "GetZoneStats", mock.Anything, mock.Anything)
	})

	t.Run("unknown zone rejected", func(t *testing.T) {
		uc := usecase.NewStatsUseCase(&MockStatsRepository{}, &MockCacheRepository{}, statsLocator(), zap.NewNop(), 5*time.Minute)
		_, err := uc.ZoneAnalytics(ctx, "zone99")
		assert.ErrorIs(t, err, errors.ErrUnknownZone)
	})
}

func TestStatsUseCase_CityAnalytics(t *testing.T) {
	ctx := context.Background()

	statsRepo := &MockStatsRepository{}
	cacheRepo := &MockCacheRepository{}
	statsRepo.On("GetReportedZones", ctx).Return([]string{"zone1", "zone8", "legacy-zone"}, nil)
	statsRepo.On("GetZoneStats", ctx, "zone1").Return(&domain.ZoneStats{Zone: "zone1", TotalReports: 2, LowSeverity: 2}, nil)
	statsRepo.On("GetZoneStats", ctx, "zone8").Return(&domain.ZoneStats{Zone: "zone8"}, nil)
	cacheRepo.On("Get", ctx, mock.Anything).Return(nil, nil)
	cacheRepo.On("Set", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	uc := usecase.NewStatsUseCase(statsRepo, cacheRepo, statsLocator(), zap.NewNop(), 5*time.Minute)
	resp, err := uc.CityAnalytics(ctx)
	require.NoError(t, err)

	// Зона, выпавшая из конфигурации, в сводку не попала
	require.Len(t, resp.Zones, 2)
	assert.Equal(t, 2, resp.TotalReports)
	// zone1: 100 - (2*2 + 3*2) = 90; zone8: 100 -> среднее 95
	assert.Equal(t, 95, resp.AverageScore)
	statsRepo.AssertNotCalled(t, "GetZoneStats", ctx, "legacy-zone")
}
