package handler

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/report-microservice/internal/domain"
	"github.com/report-microservice/internal/pkg/errors"
	"github.com/report-microservice/internal/pkg/utils"
	"github.com/report-microservice/internal/pkg/validator"
	"github.com/report-microservice/internal/usecase"
	"github.com/report-microservice/internal/usecase/dto"

	"github.com/report-microservice/internal/delivery/http/middleware"
)

// maxPhotoSize - предел размера фото (10 MB)
const maxPhotoSize = 10 << 20

// ReportFlowHandler - обработчик визарда подачи отчёта
type ReportFlowHandler struct {
	flowUC *usecase.ReportFlowUseCase
	logger *zap.Logger
}

// NewReportFlowHandler - создание нового ReportFlowHandler
func NewReportFlowHandler(flowUC *usecase.ReportFlowUseCase, logger *zap.Logger) *ReportFlowHandler {
	return &ReportFlowHandler{
		flowUC: flowUC,
		logger: logger,
	}
}

// StartFlow godoc
// @Summary Создать черновик отчёта
// @Description Создаёт новый проход визарда подачи отчёта. Multipart-запрос с полями photo и detection выполняет быстрый вход: визард стартует сразу на шаге подтверждения.
// @Tags ReportFlow
// @Accept json,mpfd
// @Produce json
// @Param mode formData string false "Режим подачи (on-site | from-elsewhere)"
// @Success 201 {object} utils.SuccessResponse{data=dto.FlowResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/report-flows [post]
func (h *ReportFlowHandler) StartFlow(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	in := usecase.StartFlowInput{}

	if form, err := c.MultipartForm(); err == nil && form != nil {
		in.Mode = formValue(form, "mode")
		in.Lat, in.Lon = parseCoordinates(form)

		photo, err := photoFromForm(form)
		if err != nil {
			return utils.SendError(c, err)
		}
		in.Photo = photo

		if raw := formValue(form, "detection"); raw != "" {
			var detection domain.AIDetection
			if err := json.Unmarshal([]byte(raw), &detection); err != nil {
				return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{"reason": "malformed detection payload"}))
			}
			in.Detection = &detection
		}
	} else {
		var req dto.StartFlowRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return utils.SendError(c, errors.ErrInvalidRequest)
			}
			if err := validator.Validate(&req); err != nil {
				return utils.SendError(c, err)
			}
		}
		in.Mode = req.Mode
	}

	result, err := h.flowUC.StartFlow(c.Context(), user.ID, in)
	if err != nil {
		return utils.SendError(c, err)
	}

	c.Status(fiber.StatusCreated)
	return utils.SendSuccess(c, result, nil)
}

// GetFlow godoc
// @Summary Текущее состояние черновика
// @Tags ReportFlow
// @Produce json
// @Param id path string true "ID черновика"
// @Success 200 {object} utils.SuccessResponse{data=dto.FlowResponse}
// @Failure 404 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/report-flows/{id} [get]
func (h *ReportFlowHandler) GetFlow(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	result, err := h.flowUC.GetFlow(c.Context(), user.ID, c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}

// SelectMode godoc
// @Summary Выбрать режим подачи
// @Description Фиксирует режим подачи отчёта и переводит визард к шагу фото.
// @Tags ReportFlow
// @Accept json
// @Produce json
// @Param id path string true "ID черновика"
// @Param request body dto.SelectModeRequest true "Режим подачи"
// @Success 200 {object} utils.SuccessResponse{data=dto.FlowResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/report-flows/{id}/mode [post]
func (h *ReportFlowHandler) SelectMode(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req dto.SelectModeRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.flowUC.SelectMode(c.Context(), user.ID, c.Params("id"), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}

// AttachPhoto godoc
// @Summary Прикрепить фото повреждения
// @Description Сохраняет фото и переводит визард к шагу локации. Определение локации (геокодирование + зона) выполняется фоном; координаты берутся из полей lat/lon или из EXIF снимка.
// @Tags ReportFlow
// @Accept mpfd
// @Produce json
// @Param id path string true "ID черновика"
// @Param photo formData file true "Фото повреждения"
// @Param lat formData number false "Широта съёмки"
// @Param lon formData number false "Долгота съёмки"
// @Success 200 {object} utils.SuccessResponse{data=dto.FlowResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/report-flows/{id}/photo [post]
func (h *ReportFlowHandler) AttachPhoto(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	form, err := c.MultipartForm()
	if err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{"reason": "multipart form expected"}))
	}

	photo, err := photoFromForm(form)
	if err != nil {
		return utils.SendError(c, err)
	}
	if photo == nil {
		return utils.SendError(c, errors.ErrPhotoRequired)
	}
	lat, lon := parseCoordinates(form)

	result, err := h.flowUC.AttachPhoto(c.Context(), user.ID, c.Params("id"), photo, lat, lon)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}

// RefreshLocation godoc
// @Summary Обновить локацию по свежим координатам
// @Tags ReportFlow
// @Accept json
// @Produce json
// @Param id path string true "ID черновика"
// @Param request body dto.RefreshLocationRequest true "Координаты"
// @Success 200 {object} utils.SuccessResponse{data=dto.FlowResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/report-flows/{id}/location/refresh [post]
func (h *ReportFlowHandler) RefreshLocation(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req dto.RefreshLocationRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.flowUC.RefreshLocation(c.Context(), user.ID, c.Params("id"), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}

// ConfirmLocation godoc
// @Summary Подтвердить локацию
// @Description Подтверждает локацию (с опциональной ручной правкой адреса, координат и зоны) и запускает классификацию фото. В режиме from-elsewhere пустой адрес отклоняется без обращения к сети.
// @Tags ReportFlow
// @Accept json
// @Produce json
// @Param id path string true "ID черновика"
// @Param request body dto.ConfirmLocationRequest false "Правки локации"
// @Success 200 {object} utils.SuccessResponse{data=dto.FlowResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/report-flows/{id}/location/confirm [post]
func (h *ReportFlowHandler) ConfirmLocation(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req dto.ConfirmLocationRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return utils.SendError(c, errors.ErrInvalidRequest)
		}
		if err := validator.Validate(&req); err != nil {
			return utils.SendError(c, err)
		}
	}

	result, err := h.flowUC.ConfirmLocation(c.Context(), user.ID, c.Params("id"), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}

// ResolveDecision godoc
// @Summary Решение после вердикта "повреждений нет"
// @Description retake возвращает визард к шагу фото, cancel закрывает визард и уничтожает черновик.
// @Tags ReportFlow
// @Accept json
// @Produce json
// @Param id path string true "ID черновика"
// @Param request body dto.ResolveDecisionRequest true "Выбор пользователя"
// @Success 200 {object} utils.SuccessResponse{data=dto.FlowResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/report-flows/{id}/decision [post]
func (h *ReportFlowHandler) ResolveDecision(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req dto.ResolveDecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.flowUC.ResolveNoDamage(c.Context(), user.ID, c.Params("id"), req)
	if err != nil {
		return utils.SendError(c, err)
	}
	if result == nil {
		// cancel: черновик уничтожен
		return utils.SendSuccess(c, fiber.Map{"cancelled": true}, nil)
	}

	return utils.SendSuccess(c, result, nil)
}

// Submit godoc
// @Summary Отправить отчёт
// @Description Финальный пайплайн: проба доступности облака, загрузка фото, назначение зоны, сохранение отчёта и публикация события. Сбой любого шага оставляет визард на подтверждении; повторная отправка идемпотентна.
// @Tags ReportFlow
// @Produce json
// @Param id path string true "ID черновика"
// @Success 201 {object} utils.SuccessResponse{data=dto.ReportResponse}
// @Failure 409 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/report-flows/{id}/submit [post]
func (h *ReportFlowHandler) Submit(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	result, err := h.flowUC.Submit(c.Context(), user.ID, c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}

	c.Status(fiber.StatusCreated)
	return utils.SendSuccess(c, result, nil)
}

// CancelFlow godoc
// @Summary Закрыть визард
// @Tags ReportFlow
// @Produce json
// @Param id path string true "ID черновика"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/report-flows/{id} [delete]
func (h *ReportFlowHandler) CancelFlow(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	if err := h.flowUC.Cancel(c.Context(), user.ID, c.Params("id")); err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, fiber.Map{"cancelled": true}, nil)
}

// photoFromForm читает файл photo из multipart-формы; nil - если файла нет
func photoFromForm(form *multipart.Form) (*domain.Photo, error) {
	files := form.File["photo"]
	if len(files) == 0 {
		return nil, nil
	}

	header := files[0]
	if header.Size > maxPhotoSize {
		return nil, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{"reason": "photo exceeds size limit"})
	}

	f, err := header.Open()
	if err != nil {
		return nil, errors.ErrInvalidRequest.Wrap(err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.ErrInvalidRequest.Wrap(err)
	}

	return &domain.Photo{
		Data:        data,
		ContentType: header.Header.Get("Content-Type"),
		FileName:    header.Filename,
	}, nil
}

// parseCoordinates читает опциональные lat/lon из multipart-формы
func parseCoordinates(form *multipart.Form) (*float64, *float64) {
	latRaw := formValue(form, "lat")
	lonRaw := formValue(form, "lon")
	if latRaw == "" || lonRaw == "" {
		return nil, nil
	}

	lat, errLat := strconv.ParseFloat(latRaw, 64)
	lon, errLon := strconv.ParseFloat(lonRaw, 64)
	if errLat != nil || errLon != nil {
		return nil, nil
	}
	return &lat, &lon
}

func formValue(form *multipart.Form, key string) string {
	values := form.Value[key]
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
