//go:build integration

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/LACRA/agritrace360/internal/database"
	"github.com/LACRA/agritrace360/internal/records/model"
)

// startPostgres boots a Postgres 16 container and returns a migrated gorm handle.
func startPostgres(t *testing.T) *gorm.DB {
	ctx := context.Background()
	pgContainer, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("agritrace"),
		postgres.WithUsername("agritrace"),
		postgres.WithPassword("agritrace"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() { _ = pgContainer.Terminate(ctx) })

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.Migrate(db, Models()...))
	return db
}

func TestIntegration_SeedThenCreate(t *testing.T) {
	service := NewRecordService(startPostgres(t))
	ctx := context.Background()

	file, err := LoadSnapshotFile("testdata/snapshot.yaml")
	require.NoError(t, err)
	c, err := file.Collections()
	require.NoError(t, err)
	require.NoError(t, service.SeedFromSnapshot(ctx, c))

	// Seeded ids must not collide with ids handed out afterwards.
	report, err := service.CreateReport(ctx, &model.CreateReportDTO{
		ReportID: "EUDR-2024-Q2", Title: "EUDR Compliance Report Q2 2024", Department: "Compliance", DateRange: "Apr 2024 - Jun 2024",
	})
	require.NoError(t, err)
	assert.Equal(t, uint(2), report.ID)

	_, err = service.CreateReport(ctx, &model.CreateReportDTO{
		ReportID: "EUDR-2024-Q2", Title: "dup", Department: "Compliance", DateRange: "n/a",
	})
	assert.ErrorIs(t, err, ErrDuplicateRecord)

	snapshot, err := service.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snapshot.Certifications, 2)
	assert.Len(t, snapshot.Reports, 2)

	service.now = func() time.Time { return time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC) }
	summary, err := service.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.CertificationsStatus[model.CertificationStatusActive])
	assert.Equal(t, int64(1), summary.ExpiringWithin30Days)
}
