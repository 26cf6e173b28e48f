package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/report-microservice/internal/pkg/utils"
	"github.com/report-microservice/internal/pkg/validator"
	"github.com/report-microservice/internal/usecase/dto"
	"github.com/report-microservice/internal/zone"
)

// ZoneHandler - обработчик каталога зон и определения зоны
type ZoneHandler struct {
	locator *zone.Locator
	logger  *zap.Logger
}

// NewZoneHandler - создание нового ZoneHandler
func NewZoneHandler(locator *zone.Locator, logger *zap.Logger) *ZoneHandler {
	return &ZoneHandler{
		locator: locator,
		logger:  logger,
	}
}

// ListZones godoc
// @Summary Каталог зон
// @Description Возвращает сконфигурированные зоны с центроидами (для выбора зоны в приложении).
// @Tags Zones
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.ZoneListResponse}
// @Router /api/v1/zones [get]
func (h *ZoneHandler) ListZones(c *fiber.Ctx) error {
	zones := h.locator.Zones()

	resp := dto.ZoneListResponse{
		Zones:       make([]dto.ZoneInfo, 0, len(zones)),
		DefaultZone: h.locator.DefaultZone(),
	}
	for _, z := range zones {
		centroid := z.Centroid()
		resp.Zones = append(resp.Zones, dto.ZoneInfo{
			ID:   z.ID,
			Name: z.Name,
			Centroid: dto.Point64{
				Lat: centroid.Latitude,
				Lon: centroid.Longitude,
			},
		})
	}

	return utils.SendSuccess(c, resp, &utils.Meta{Total: len(resp.Zones)})
}

// DetectZone godoc
// @Summary Определить зону по координатам
// @Description Возвращает зону с ближайшим центроидом. Всегда отвечает одной из сконфигурированных зон.
// @Tags Zones
// @Produce json
// @Param lat query number true "Широта"
// @Param lon query number true "Долгота"
// @Success 200 {object} utils.SuccessResponse{data=dto.DetectZoneResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/zones/detect [get]
func (h *ZoneHandler) DetectZone(c *fiber.Ctx) error {
	req := dto.DetectZoneRequest{
		Lat: c.QueryFloat("lat"),
		Lon: c.QueryFloat("lon"),
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	zoneID := h.locator.DetectZone(req.Lat, req.Lon)

	resp := dto.DetectZoneResponse{
		Zone:      zoneID,
		IsDefault: zoneID == h.locator.DefaultZone() && len(h.locator.Zones()) == 0,
	}
	for _, z := range h.locator.Zones() {
		if z.ID == zoneID {
			resp.Name = z.Name
			centroid := z.Centroid()
			resp.DistanceKm = utils.HaversineDistance(req.Lat, req.Lon, centroid.Latitude, centroid.Longitude)
			break
		}
	}

	return utils.SendSuccess(c, resp, nil)
}
