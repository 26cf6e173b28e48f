package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/report-microservice/internal/delivery/http/middleware"
	"github.com/report-microservice/internal/pkg/errors"
	"github.com/report-microservice/internal/pkg/utils"
	"github.com/report-microservice/internal/pkg/validator"
	"github.com/report-microservice/internal/usecase"
	"github.com/report-microservice/internal/usecase/dto"
)

// ReportHandler - обработчик чтения и триажа отчётов
type ReportHandler struct {
	reportUC *usecase.ReportUseCase
	logger   *zap.Logger
}

// NewReportHandler - создание нового ReportHandler
func NewReportHandler(reportUC *usecase.ReportUseCase, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reportUC: reportUC,
		logger:   logger,
	}
}

// ListMyReports godoc
// @Summary Мои отчёты
// @Description Возвращает отчёты текущего гражданина, новые первыми.
// @Tags Reports
// @Produce json
// @Param limit query int false "Максимальное количество отчётов" default(50)
// @Success 200 {object} utils.SuccessResponse{data=dto.ReportListResponse}
// @Failure 401 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/reports/my [get]
func (h *ReportHandler) ListMyReports(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	result, err := h.reportUC.ListMyReports(c.Context(), user, c.QueryInt("limit", 0))
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{Total: result.Total})
}

// GetReport godoc
// @Summary Отчёт по id
// @Tags Reports
// @Produce json
// @Param id path string true "ID отчёта"
// @Success 200 {object} utils.SuccessResponse{data=dto.ReportResponse}
// @Failure 404 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/reports/{id} [get]
func (h *ReportHandler) GetReport(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	result, err := h.reportUC.GetReport(c.Context(), user, c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}

// ListZoneReports godoc
// @Summary Отчёты зоны (триаж)
// @Description Возвращает отчёты зоны для RSO/Admin с фильтром по статусам (comma-separated).
// @Tags Reports
// @Produce json
// @Param zone path string true "ID зоны"
// @Param statuses query string false "Фильтр статусов, например pending,in_progress"
// @Param limit query int false "Максимальное количество отчётов" default(50)
// @Success 200 {object} utils.SuccessResponse{data=dto.ReportListResponse}
// @Failure 403 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/zones/{zone}/reports [get]
func (h *ReportHandler) ListZoneReports(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	req := dto.ListZoneReportsRequest{
		Zone:  c.Params("zone"),
		Limit: c.QueryInt("limit", 0),
	}
	if raw := c.Query("statuses"); raw != "" {
		req.Statuses = strings.Split(raw, ",")
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.reportUC.ListZoneReports(c.Context(), user, req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{Total: result.Total})
}

// UpdateStatus godoc
// @Summary Сменить статус отчёта
// @Description Переводит отчёт в новый статус (pending -> in_progress -> completed). Доступно ролям rso и admin.
// @Tags Reports
// @Accept json
// @Produce json
// @Param id path string true "ID отчёта"
// @Param request body dto.UpdateStatusRequest true "Новый статус"
// @Success 200 {object} utils.SuccessResponse{data=dto.ReportResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/reports/{id}/status [patch]
func (h *ReportHandler) UpdateStatus(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.reportUC.UpdateStatus(c.Context(), user, c.Params("id"), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}
