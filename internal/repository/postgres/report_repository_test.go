package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/report-microservice/internal/domain"
	"github.com/report-microservice/internal/pkg/errors"
	"github.com/report-microservice/internal/repository/postgres/testhelpers"
)

const schemaPath = "../../../scripts/schema.sql"

func makeReport(citizenID, zone string, status domain.ReportStatus, createdAt time.Time) *domain.Report {
	return &domain.Report{
		ID:            uuid.New().String(),
		CitizenID:     citizenID,
		ReportingMode: domain.ModeOnSite,
		Location: domain.Location{
			Latitude:  17.66,
			Longitude: 75.91,
			Address:   "Siddheshwar Road, North Solapur",
			RoadName:  "Siddheshwar Road",
			Area:      "North Solapur",
			Zone:      zone,
		},
		PhotoURL: "https://cdn.example.com/photos/original.jpg",
		AIDetection: &domain.AIDetection{
			DamageType: domain.DamagePothole,
			Confidence: 0.91,
			Severity:   domain.SeverityHigh,
		},
		Status:     status,
		SyncStatus: domain.SyncSynced,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
}

func TestReportRepository_SaveIsIdempotent(t *testing.T) {
	tdb := testhelpers.SetupTestDB(t)
	defer tdb.Close()

	ctx := context.Background()
	require.NoError(t, testhelpers.ApplySchema(tdb.DB, schemaPath))
	require.NoError(t, tdb.Cleanup(ctx))

	repo := testhelpers.NewReportRepositoryForTest(tdb.DB, tdb.Logger)

	report := makeReport(uuid.New().String(), "zone1", domain.StatusPending, time.Now().UTC())
	require.NoError(t, repo.Save(ctx, report))

	// Retry с тем же id не перетирает первую запись и не плодит дубликатов
	retry := *report
	retry.PhotoURL = "https://cdn.example.com/photos/retry.jpg"
	require.NoError(t, repo.Save(ctx, &retry))

	var count int
	require.NoError(t, tdb.DB.Get(&count, "SELECT COUNT(*) FROM reports WHERE id = $1", report.ID))
	assert.Equal(t, 1, count)

	saved, err := repo.GetByID(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/photos/original.jpg", saved.PhotoURL)
	assert.Equal(t, report.CitizenID, saved.CitizenID)
	require.NotNil(t, saved.AIDetection)
	assert.Equal(t, domain.DamagePothole, saved.AIDetection.DamageType)
	assert.Equal(t, domain.SeverityHigh, saved.AIDetection.Severity)
}

func TestReportRepository_GetByID_NotFound(t *testing.T) {
	tdb := testhelpers.SetupTestDB(t)
	defer tdb.Close()

	ctx := context.Background()
	require.NoError(t, testhelpers.ApplySchema(tdb.DB, schemaPath))
	require.NoError(t, tdb.Cleanup(ctx))

	repo := testhelpers.NewReportRepositoryForTest(tdb.DB, tdb.Logger)

	_, err := repo.GetByID(ctx, uuid.New().String())
	assert.ErrorIs(t, err, errors.ErrReportNotFound)
}

func TestReportRepository_ListByZone_StatusFilter(t *testing.T) {
	tdb := testhelpers.SetupTestDB(t)
	defer tdb.Close()

	ctx := context.Background()
	require.NoError(t, testhelpers.ApplySchema(tdb.DB, schemaPath))
	require.NoError(t, tdb.Cleanup(ctx))

	repo := testhelpers.NewReportRepositoryForTest(tdb.DB, tdb.Logger)

	citizen := uuid.New().String()
	base := time.Now().UTC().Add(-time.Hour)
	pending := makeReport(citizen, "zone1", domain.StatusPending, base)
	inProgress := makeReport(citizen, "zone1", domain.StatusInProgress, base.Add(time.Minute))
	otherZone := makeReport(citizen, "zone8", domain.StatusPending, base.Add(2*time.Minute))

	for _, r := range []*domain.Report{pending, inProgress, otherZone} {
		require.NoError(t, repo.Save(ctx, r))
	}

	reports, err := repo.ListByZone(ctx, "zone1", []string{"pending"}, 50)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, pending.ID, reports[0].ID)

	reports, err = repo.ListByZone(ctx, "zone1", []string{"pending", "in_progress"}, 50)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	// Новые первыми
	assert.Equal(t, inProgress.ID, reports[0].ID)
	assert.Equal(t, pending.ID, reports[1].ID)
}

func TestReportRepository_ListByCitizen(t *testing.T) {
	tdb := testhelpers.SetupTestDB(t)
	defer tdb.Close()

	ctx := context.Background()
	require.NoError(t, testhelpers.ApplySchema(tdb.DB, schemaPath))
	require.NoError(t, tdb.Cleanup(ctx))

	repo := testhelpers.NewReportRepositoryForTest(tdb.DB, tdb.Logger)

	mine := uuid.New().String()
	foreign := uuid.New().String()
	base := time.Now().UTC().Add(-time.Hour)

	require.NoError(t, repo.Save(ctx, makeReport(mine, "zone1", domain.StatusPending, base)))
	require.NoError(t, repo.Save(ctx, makeReport(mine, "zone1", domain.StatusPending, base.Add(time.Minute))))
	require.NoError(t, repo.Save(ctx, makeReport(foreign, "zone1", domain.StatusPending, base)))

	reports, err := repo.ListByCitizen(ctx, mine, 50)
	require.NoError(t, err)
	require.Len(t, reports, 2)

	reports, err = repo.ListByCitizen(ctx, mine, 1)
	require.NoError(t, err)
	assert.Len(t, reports, 1)
}

func TestReportRepository_UpdateStatus(t *testing.T) {
	tdb := testhelpers.SetupTestDB(t)
	defer tdb.Close()

	ctx := context.Background()
	require.NoError(t, testhelpers.ApplySchema(tdb.DB, schemaPath))
	require.NoError(t, tdb.Cleanup(ctx))

	repo := testhelpers.NewReportRepositoryForTest(tdb.DB, tdb.Logger)

	report := makeReport(uuid.New().String(), "zone1", domain.StatusPending, time.Now().UTC())
	require.NoError(t, repo.Save(ctx, report))

	require.NoError(t, repo.UpdateStatus(ctx, report.ID, domain.StatusInProgress))

	updated, err := repo.GetByID(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, updated.Status)
	assert.True(t, updated.UpdatedAt.After(report.UpdatedAt))

	err = repo.UpdateStatus(ctx, uuid.New().String(), domain.StatusCompleted)
	assert.ErrorIs(t, err, errors.ErrReportNotFound)
}
