package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/report-microservice/internal/pkg/utils"
	"github.com/report-microservice/internal/usecase"
)

// StatsHandler - обработчик аналитики Road Health Index
type StatsHandler struct {
	statsUC *usecase.StatsUseCase
	logger  *zap.Logger
}

// NewStatsHandler - создание нового StatsHandler
func NewStatsHandler(statsUC *usecase.StatsUseCase, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{
		statsUC: statsUC,
		logger:  logger,
	}
}

// ZoneAnalytics godoc
// @Summary Аналитика зоны
// @Description Возвращает Road Health Index зоны: численная оценка 0..100, буквенная оценка и метрики отчётов. Результат кешируется.
// @Tags Analytics
// @Produce json
// @Param zone path string true "ID зоны"
// @Success 200 {object} utils.SuccessResponse{data=dto.ZoneAnalyticsResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/analytics/zones/{zone} [get]
func (h *StatsHandler) ZoneAnalytics(c *fiber.Ctx) error {
	result, err := h.statsUC.ZoneAnalytics(c.Context(), c.Params("zone"))
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}

// CityAnalytics godoc
// @Summary Сводная аналитика города
// @Description Возвращает RHI всех зон с отчётами плюс средний балл и общее количество отчётов.
// @Tags Analytics
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.CityAnalyticsResponse}
// @Security BearerAuth
// @Router /api/v1/analytics/city [get]
func (h *StatsHandler) CityAnalytics(c *fiber.Ctx) error {
	result, err := h.statsUC.CityAnalytics(c.Context())
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}
