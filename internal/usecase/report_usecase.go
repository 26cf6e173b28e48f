package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/report-microservice/internal/domain"
	"github.com/report-microservice/internal/domain/repository"
	"github.com/report-microservice/internal/pkg/errors"
	"github.com/report-microservice/internal/usecase/dto"
	"github.com/report-microservice/internal/zone"
)

const defaultListLimit = 50

// ReportUseCase - use case чтения отчётов и их триажа
type ReportUseCase struct {
	reportRepo repository.ReportRepository
	locator    *zone.Locator
	logger     *zap.Logger
}

// NewReportUseCase - создание нового ReportUseCase
func NewReportUseCase(
	reportRepo repository.ReportRepository,
	locator *zone.Locator,
	logger *zap.Logger,
) *ReportUseCase {
	return &ReportUseCase{
		reportRepo: reportRepo,
		locator:    locator,
		logger:     logger,
	}
}

// ListMyReports возвращает отчёты текущего гражданина, новые первыми
func (uc *ReportUseCase) ListMyReports(ctx context.Context, user *domain.User, limit int) (*dto.ReportListResponse, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	reports, err := uc.reportRepo.ListByCitizen(ctx, user.ID, limit)
	if err != nil {
		uc.logger.Error("Failed to list citizen reports",
			zap.String("citizen_id", user.ID),
			zap.Error(err))
		return nil, err
	}

	resp := dto.NewReportListResponse(reports)
	return &resp, nil
}

// GetReport возвращает отчёт по id. Гражданин видит только свои отчёты,
// триаж-роли - любые.
func (uc *ReportUseCase) GetReport(ctx context.Context, user *domain.User, reportID string) (*dto.ReportResponse, error) {
	report, err := uc.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}

	if !user.CanTriage() && report.CitizenID != user.ID {
		return nil, errors.ErrReportNotFound
	}

	resp := dto.NewReportResponse(report)
	return &resp, nil
}

// ListZoneReports возвращает отчёты зоны для триажа.
// RSO ограничен закреплённой за ним зоной.
func (uc *ReportUseCase) ListZoneReports(ctx context.Context, user *domain.User, req dto.ListZoneReportsRequest) (*dto.ReportListResponse, error) {
	if !user.CanTriage() {
		return nil, errors.ErrForbidden
	}
	if !uc.locator.Exists(req.Zone) {
		return nil, errors.ErrUnknownZone
	}
	if user.Role == domain.RoleRSO && user.Zone != "" && user.Zone != req.Zone {
		return nil, errors.ErrForbidden
	}
	if req.Limit <= 0 {
		req.Limit = defaultListLimit
	}
	if len(req.Statuses) == 0 {
		// Пустой фильтр означает "все статусы"
		req.Statuses = []string{
			string(domain.StatusPending),
			string(domain.StatusInProgress),
			string(domain.StatusCompleted),
		}
	}

	reports, err := uc.reportRepo.ListByZone(ctx, req.Zone, req.Statuses, req.Limit)
	if err != nil {
		uc.logger.Error("Failed to list zone reports",
			zap.String("zone", req.Zone),
			zap.Error(err))
		return nil, err
	}

	resp := dto.NewReportListResponse(reports)
	return &resp, nil
}

// UpdateStatus переводит отчёт в новый статус (workflow RSO/Admin)
func (uc *ReportUseCase) UpdateStatus(ctx context.Context, user *domain.User, reportID string, req dto.UpdateStatusRequest) (*dto.ReportResponse, error) {
	if !user.CanTriage() {
		return nil, errors.ErrForbidden
	}

	status := domain.ReportStatus(req.Status)
	if !status.Valid() {
		return nil, errors.ErrInvalidStatus
	}

	report, err := uc.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if user.Role == domain.RoleRSO && user.Zone != "" && user.Zone != report.Location.Zone {
		return nil, errors.ErrForbidden
	}

	if err := uc.reportRepo.UpdateStatus(ctx, reportID, status); err != nil {
		uc.logger.Error("Failed to update report status",
			zap.String("report_id", reportID),
			zap.String("status", string(status)),
			zap.Error(err))
		return nil, err
	}

	uc.logger.Info("Report status updated",
		zap.String("report_id", reportID),
		zap.String("status", string(status)),
		zap.String("actor", user.ID))

	return uc.GetReport(ctx, user, reportID)
}
