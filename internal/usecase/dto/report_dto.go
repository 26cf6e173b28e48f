package dto

import (
	"time"

	"github.com/report-microservice/internal/domain"
)

// ListZoneReportsRequest - фильтры выборки отчётов зоны
type ListZoneReportsRequest struct {
	Zone     string   `json:"zone" validate:"required"`
	Statuses []string `json:"statuses,omitempty" validate:"omitempty,dive,report_status"`
	Limit    int      `json:"limit" validate:"omitempty,min=1,max=200"`
}

// UpdateStatusRequest - смена статуса отчёта триаж-пользователем
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,report_status"`
}

// ReportResponse - отчёт в ответе API
type ReportResponse struct {
	ID            string        `json:"id"`
	CitizenID     string        `json:"citizen_id"`
	ReportingMode string        `json:"reporting_mode"`
	Location      LocationDTO   `json:"location"`
	PhotoURL      string        `json:"photo_url"`
	Detection     *DetectionDTO `json:"detection,omitempty"`
	Status        string        `json:"status"`
	SyncStatus    string        `json:"sync_status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// ReportListResponse - список отчётов
type ReportListResponse struct {
	Reports []ReportResponse `json:"reports"`
	Total   int              `json:"total"`
}

// NewReportResponse собирает ответ из доменного отчёта
func NewReportResponse(r *domain.Report) ReportResponse {
	resp := ReportResponse{
		ID:            r.ID,
		CitizenID:     r.CitizenID,
		ReportingMode: string(r.ReportingMode),
		Location: LocationDTO{
			Lat:      r.Location.Latitude,
			Lon:      r.Location.Longitude,
			RoadName: r.Location.RoadName,
			Area:     r.Location.Area,
			Address:  r.Location.Address,
			Zone:     r.Location.Zone,
		},
		PhotoURL:   r.PhotoURL,
		Status:     string(r.Status),
		SyncStatus: string(r.SyncStatus),
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
	if r.AIDetection != nil {
		resp.Detection = NewDetectionDTO(r.AIDetection)
	}
	return resp
}

// NewReportListResponse собирает список отчётов
func NewReportListResponse(reports []domain.Report) ReportListResponse {
	items := make([]ReportResponse, 0, len(reports))
	for i := range reports {
		items = append(items, NewReportResponse(&reports[i]))
	}
	return ReportListResponse{Reports: items, Total: len(items)}
}
