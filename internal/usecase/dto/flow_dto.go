package dto

import (
	"time"

	"github.com/report-microservice/internal/domain"
)

// StartFlowRequest - запрос на создание нового черновика заявки
type StartFlowRequest struct {
	Mode string `json:"mode,omitempty" validate:"omitempty,reporting_mode"`
}

// SelectModeRequest - выбор режима подачи заявки
type SelectModeRequest struct {
	Mode string `json:"mode" validate:"required,reporting_mode"`
}

// ConfirmLocationRequest - подтверждение локации с опциональной ручной правкой
type ConfirmLocationRequest struct {
	Lat     *float64 `json:"lat,omitempty" validate:"omitempty,min=-90,max=90"`
	Lon     *float64 `json:"lon,omitempty" validate:"omitempty,min=-180,max=180"`
	Address string   `json:"address,omitempty" validate:"omitempty,max=500"`
	Zone    string   `json:"zone,omitempty"`
}

// RefreshLocationRequest - повторный захват локации по свежим координатам
type RefreshLocationRequest struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lon float64 `json:"lon" validate:"min=-180,max=180"`
}

// ResolveDecisionRequest - решение пользователя после вердикта "повреждений нет"
type ResolveDecisionRequest struct {
	Action string `json:"action" validate:"required,oneof=retake cancel"`
}

// LocationDTO - локация внутри черновика
type LocationDTO struct {
	Lat      float64 `json:"lat,omitempty"`
	Lon      float64 `json:"lon,omitempty"`
	RoadName string  `json:"road_name,omitempty"`
	Area     string  `json:"area,omitempty"`
	Address  string  `json:"address,omitempty"`
	Zone     string  `json:"zone,omitempty"`
}

// DetectionDTO - результат анализа фотографии
type DetectionDTO struct {
	DamageType string          `json:"damage_type"`
	Confidence float64         `json:"confidence"`
	Severity   string          `json:"severity"`
	Box        *BoundingBoxDTO `json:"box,omitempty"`
	NoDamage   bool            `json:"no_damage"`
}

// BoundingBoxDTO - рамка повреждения на фото
type BoundingBoxDTO struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// FlowResponse - текущее состояние черновика заявки
type FlowResponse struct {
	FlowID          string        `json:"flow_id"`
	ReportID        string        `json:"report_id"`
	State           string        `json:"state"`
	Mode            string        `json:"mode,omitempty"`
	HasPhoto        bool          `json:"has_photo"`
	PhotoURL        string        `json:"photo_url,omitempty"`
	Location        *LocationDTO  `json:"location,omitempty"`
	LocationError   string        `json:"location_error,omitempty"`
	Detection       *DetectionDTO `json:"detection,omitempty"`
	PendingDecision bool          `json:"pending_decision"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// NewFlowResponse собирает ответ из доменного черновика
func NewFlowResponse(flow *domain.Flow) *FlowResponse {
	resp := &FlowResponse{
		FlowID:          flow.ID,
		ReportID:        flow.ReportID,
		State:           string(flow.State),
		Mode:            string(flow.ReportingMode),
		HasPhoto:        flow.Photo != nil,
		PhotoURL:        flow.PhotoURL,
		LocationError:   flow.LocationError,
		PendingDecision: flow.PendingDecision,
		CreatedAt:       flow.CreatedAt,
		UpdatedAt:       flow.UpdatedAt,
	}

	if flow.Location != nil {
		resp.Location = &LocationDTO{
			Lat:      flow.Location.Latitude,
			Lon:      flow.Location.Longitude,
			RoadName: flow.Location.RoadName,
			Area:     flow.Location.Area,
			Address:  flow.Location.Address,
			Zone:     flow.Location.Zone,
		}
	}

	if flow.Detection != nil {
		resp.Detection = NewDetectionDTO(flow.Detection)
	}

	return resp
}

// NewDetectionDTO собирает DTO из доменного результата анализа
func NewDetectionDTO(d *domain.AIDetection) *DetectionDTO {
	dto := &DetectionDTO{
		DamageType: string(d.DamageType),
		Confidence: d.Confidence,
		Severity:   string(d.Severity),
		NoDamage:   d.IsNoDamage(),
	}
	if d.BoundingBox != nil {
		dto.Box = &BoundingBoxDTO{
			X:      d.BoundingBox.X,
			Y:      d.BoundingBox.Y,
			Width:  d.BoundingBox.Width,
			Height: d.BoundingBox.Height,
		}
	}
	return dto
}
