package dto

import (
	"time"

	"github.com/report-microservice/internal/domain"
)

// ZoneAnalyticsResponse - RHI и метрики одной зоны
type ZoneAnalyticsResponse struct {
	Zone           string           `json:"zone"`
	Score          int              `json:"score"`
	Grade          string           `json:"grade"`
	Metrics        domain.ZoneStats `json:"metrics"`
	LastCalculated time.Time        `json:"last_calculated"`
}

// CityAnalyticsResponse - сводка по всем зонам с отчётами
type CityAnalyticsResponse struct {
	Zones        []ZoneAnalyticsResponse `json:"zones"`
	AverageScore int                     `json:"average_score"`
	TotalReports int                     `json:"total_reports"`
}

// NewZoneAnalyticsResponse собирает ответ из доменного RHI
func NewZoneAnalyticsResponse(s *domain.RHIScore) ZoneAnalyticsResponse {
	return ZoneAnalyticsResponse{
		Zone:           s.Zone,
		Score:          s.Score,
		Grade:          string(s.Grade),
		Metrics:        s.Metrics,
		LastCalculated: s.LastCalculated,
	}
}
