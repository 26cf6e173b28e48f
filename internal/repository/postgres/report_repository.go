package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/report-microservice/internal/domain"
	"github.com/report-microservice/internal/domain/repository"
	apperrors "github.com/report-microservice/internal/pkg/errors"
)

type reportRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewReportRepository создает новый экземпляр report repository
func NewReportRepository(db *DB) repository.ReportRepository {
	return &reportRepository{
		db:     db,
		logger: db.logger,
	}
}

// reportRow - строка таблицы reports
type reportRow struct {
	ID            string          `db:"id"`
	CitizenID     string          `db:"citizen_id"`
	ReportingMode string          `db:"reporting_mode"`
	Latitude      float64         `db:"latitude"`
	Longitude     float64         `db:"longitude"`
	Address       string          `db:"address"`
	RoadName      string          `db:"road_name"`
	Area          string          `db:"area"`
	Zone          string          `db:"zone"`
	PhotoURL      string          `db:"photo_url"`
	DamageType    sql.NullString  `db:"damage_type"`
	Confidence    sql.NullFloat64 `db:"confidence"`
	Severity      sql.NullString  `db:"severity"`
	Status        string          `db:"status"`
	SyncStatus    string          `db:"sync_status"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

func toRow(r *domain.Report) *reportRow {
	row := &reportRow{
		ID:            r.ID,
		CitizenID:     r.CitizenID,
		ReportingMode: string(r.ReportingMode),
		Latitude:      r.Location.Latitude,
		Longitude:     r.Location.Longitude,
		Address:       r.Location.Address,
		RoadName:      r.Location.RoadName,
		Area:          r.Location.Area,
		Zone:          r.Location.Zone,
		PhotoURL:      r.PhotoURL,
		Status:        string(r.Status),
		SyncStatus:    string(r.SyncStatus),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
	if r.AIDetection != nil {
		row.DamageType = sql.NullString{String: string(r.AIDetection.DamageType), Valid: true}
		row.Confidence = sql.NullFloat64{Float64: r.AIDetection.Confidence, Valid: true}
		row.Severity = sql.NullString{String: string(r.AIDetection.Severity), Valid: true}
	}
	return row
}

func (row *reportRow) toDomain() domain.Report {
	r := domain.Report{
		ID:            row.ID,
		CitizenID:     row.CitizenID,
		ReportingMode: domain.ReportingMode(row.ReportingMode),
		Location: domain.Location{
			Latitude:  row.Latitude,
			Longitude: row.Longitude,
			Address:   row.Address,
			RoadName:  row.RoadName,
			Area:      row.Area,
			Zone:      row.Zone,
		},
		PhotoURL:   row.PhotoURL,
		Status:     domain.ReportStatus(row.Status),
		SyncStatus: domain.SyncStatus(row.SyncStatus),
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
	if row.DamageType.Valid {
		r.AIDetection = &domain.AIDetection{
			DamageType: domain.DamageType(row.DamageType.String),
			Confidence: row.Confidence.Float64,
			Severity:   domain.SeverityLevel(row.Severity.String),
		}
	}
	return r
}

const insertReportQuery = `
	INSERT INTO reports (
		id, citizen_id, reporting_mode,
		latitude, longitude, address, road_name, area, zone,
		photo_url, damage_type, confidence, severity,
		status, sync_status, created_at, updated_at
	) VALUES (
		:id, :citizen_id, :reporting_mode,
		:latitude, :longitude, :address, :road_name, :area, :zone,
		:photo_url, :damage_type, :confidence, :severity,
		:status, :sync_status, :created_at, :updated_at
	)
	ON CONFLICT (id) DO NOTHING
`

// Save сохраняет новый отчёт. ON CONFLICT DO NOTHING делает повторный
// submit с тем же id идемпотентным: retry после сбоя не плодит дубликатов.
func (r *reportRepository) Save(ctx context.Context, report *domain.Report) error {
	result, err := r.db.NamedExecContext(ctx, insertReportQuery, toRow(report))
	if err != nil {
		r.logger.Error("Failed to save report",
			zap.String("report_id", report.ID),
			zap.Error(err))
		return apperrors.ErrDatabaseError.Wrap(err)
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		r.logger.Info("Report already saved, treating as success",
			zap.String("report_id", report.ID))
	}

	return nil
}

const selectReportColumns = `
	id, citizen_id, reporting_mode,
	latitude, longitude, address, road_name, area, zone,
	photo_url, damage_type, confidence, severity,
	status, sync_status, created_at, updated_at
`

// GetByID возвращает отчёт по id
func (r *reportRepository) GetByID(ctx context.Context, id string) (*domain.Report, error) {
	query := fmt.Sprintf(`SELECT %s FROM reports WHERE id = $1`, selectReportColumns)

	var row reportRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrReportNotFound
		}
		r.logger.Error("Failed to get report", zap.String("report_id", id), zap.Error(err))
		return nil, apperrors.ErrDatabaseError.Wrap(err)
	}

	report := row.toDomain()
	return &report, nil
}

// ListByCitizen возвращает отчёты гражданина, новые первыми
func (r *reportRepository) ListByCitizen(ctx context.Context, citizenID string, limit int) ([]domain.Report, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM reports
		WHERE citizen_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, selectReportColumns)

	var rows []reportRow
	if err := r.db.SelectContext(ctx, &rows, query, citizenID, limit); err != nil {
		r.logger.Error("Failed to list reports by citizen",
			zap.String("citizen_id", citizenID),
			zap.Error(err))
		return nil, apperrors.ErrDatabaseError.Wrap(err)
	}

	return rowsToDomain(rows), nil
}

// ListByZone возвращает отчёты зоны с фильтром по статусам
func (r *reportRepository) ListByZone(ctx context.Context, zone string, statuses []string, limit int) ([]domain.Report, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM reports
		WHERE zone = $1 AND status = ANY($2)
		ORDER BY created_at DESC
		LIMIT $3
	`, selectReportColumns)

	var rows []reportRow
	if err := r.db.SelectContext(ctx, &rows, query, zone, pq.Array(statuses), limit); err != nil {
		r.logger.Error("Failed to list reports by zone",
			zap.String("zone", zone),
			zap.Error(err))
		return nil, apperrors.ErrDatabaseError.Wrap(err)
	}

	return rowsToDomain(rows), nil
}

// UpdateStatus переводит отчёт в новый статус (workflow RSO/Admin)
func (r *reportRepository) UpdateStatus(ctx context.Context, id string, status domain.ReportStatus) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE reports
		SET status = $2, updated_at = $3
		WHERE id = $1
	`, id, string(status), time.Now().UTC())
	if err != nil {
		r.logger.Error("Failed to update report status",
			zap.String("report_id", id),
			zap.Error(err))
		return apperrors.ErrDatabaseError.Wrap(err)
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return apperrors.ErrReportNotFound
	}

	return nil
}

func rowsToDomain(rows []reportRow) []domain.Report {
	reports := make([]domain.Report, 0, len(rows))
	for i := range rows {
		reports = append(reports, rows[i].toDomain())
	}
	return reports
}
