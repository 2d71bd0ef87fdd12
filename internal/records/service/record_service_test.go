package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/LACRA/agritrace360/internal/config"
	"github.com/LACRA/agritrace360/internal/database"
	"github.com/LACRA/agritrace360/internal/records/model"
)

func setupTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

// setupSQLite returns a migrated in-memory database on a single connection.
func setupSQLite(t *testing.T) *gorm.DB {
	db, err := database.New(&config.DatabaseConfig{
		Driver:       "sqlite",
		SQLitePath:   ":memory:",
		MaxIdleConns: 1,
		MaxOpenConns: 1,
	}, "warn")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.Migrate(db, Models()...))
	return db
}

func intPtr(v int) *int { return &v }

func seedCommodity(t *testing.T, s *RecordService, batch, county string) *model.Commodity {
	c, err := s.CreateCommodity(context.Background(), &model.CreateCommodityDTO{
		BatchNumber:  batch,
		Name:         "Premium Cocoa Beans",
		Type:         "cocoa",
		QualityGrade: "Grade A",
		County:       county,
		Quantity:     decimal.NewFromInt(500),
		Unit:         "kg",
		Status:       "verified",
	})
	require.NoError(t, err)
	return c
}

func TestRecordService_ListReports_SQL(t *testing.T) {
	db, sqlMock := setupTestDB(t)
	service := NewRecordService(db)

	sqlMock.ExpectQuery(`SELECT count\(\*\) FROM "reports"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	sqlMock.ExpectQuery(`SELECT \* FROM "reports" ORDER BY id LIMIT \$1`).
		WithArgs(20).
		WillReturnRows(sqlmock.NewRows([]string{"id", "report_id", "title"}).
			AddRow(1, "EUDR-2024-001", "EUDR Compliance Report Q1").
			AddRow(2, "EUDR-2024-002", "EUDR Compliance Report Q2"))

	result, err := service.ListReports(context.Background(), model.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.TotalCount)
	assert.Equal(t, 0, result.Offset)
	assert.Equal(t, 20, result.Limit)
	require.Len(t, result.Items, 2)
	assert.Equal(t, "EUDR-2024-001", result.Items[0].ReportID)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestRecordService_CreateReport_DuplicateRollsBack(t *testing.T) {
	db, sqlMock := setupTestDB(t)
	service := NewRecordService(db)

	sqlMock.ExpectBegin()
	sqlMock.ExpectQuery(`SELECT count\(\*\) FROM "reports" WHERE UPPER\(report_id\) = \$1`).
		WithArgs("EUDR-2024-001").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	sqlMock.ExpectRollback()

	_, err := service.CreateReport(context.Background(), &model.CreateReportDTO{
		ReportID:   "EUDR-2024-001",
		Title:      "EUDR Compliance Report Q1",
		Department: "Compliance",
		DateRange:  "Jan-Mar 2024",
	})
	assert.ErrorIs(t, err, ErrDuplicateRecord)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestRecordService_ListCommodities_Pagination(t *testing.T) {
	service := NewRecordService(setupSQLite(t))
	for _, batch := range []string{"LR-COC-1", "LR-COC-2", "LR-COC-3"} {
		seedCommodity(t, service, batch, "Nimba")
	}

	page, err := service.ListCommodities(context.Background(), model.ListFilter{Offset: intPtr(1), Limit: intPtr(1)})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalCount)
	assert.Equal(t, 1, page.Offset)
	assert.Equal(t, 1, page.Limit)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "LR-COC-2", page.Items[0].BatchNumber)
	assert.True(t, decimal.NewFromInt(500).Equal(page.Items[0].Quantity))

	all, err := service.ListCommodities(context.Background(), model.ListFilter{Limit: intPtr(1000)})
	require.NoError(t, err)
	assert.Equal(t, 100, all.Limit)
	assert.Len(t, all.Items, 3)
}

func TestRecordService_CreateCommodity(t *testing.T) {
	service := NewRecordService(setupSQLite(t))
	ctx := context.Background()

	t.Run("defaults status and trims batch number", func(t *testing.T) {
		c, err := service.CreateCommodity(ctx, &model.CreateCommodityDTO{
			BatchNumber:  "  LR-COF-7 ",
			Name:         "Robusta Coffee",
			Type:         "coffee",
			QualityGrade: "Grade B",
			County:       "Lofa",
			Quantity:     decimal.RequireFromString("12.5"),
			Unit:         "t",
			CreatedAt:    "2024-01-01",
		})
		require.NoError(t, err)
		assert.NotZero(t, c.ID)
		assert.Equal(t, "LR-COF-7", c.BatchNumber)
		assert.Equal(t, "registered", c.Status)
		assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), c.CreatedAt)
	})

	t.Run("duplicate batch number", func(t *testing.T) {
		_, err := service.CreateCommodity(ctx, &model.CreateCommodityDTO{
			BatchNumber: "LR-COF-7", Name: "x", Type: "coffee", QualityGrade: "A", County: "Lofa", Unit: "kg",
		})
		assert.ErrorIs(t, err, ErrDuplicateRecord)
	})

	t.Run("missing required fields", func(t *testing.T) {
		_, err := service.CreateCommodity(ctx, &model.CreateCommodityDTO{BatchNumber: "LR-X"})
		require.ErrorIs(t, err, ErrInvalidRecord)
		assert.Contains(t, err.Error(), "name (required)")
	})

	t.Run("negative quantity", func(t *testing.T) {
		_, err := service.CreateCommodity(ctx, &model.CreateCommodityDTO{
			BatchNumber: "LR-NEG", Name: "x", Type: "cocoa", QualityGrade: "A", County: "Bong", Unit: "kg",
			Quantity: decimal.NewFromInt(-1),
		})
		assert.ErrorIs(t, err, ErrInvalidRecord)
	})
}

func TestRecordService_CreateCertification(t *testing.T) {
	service := NewRecordService(setupSQLite(t))
	ctx := context.Background()
	commodity := seedCommodity(t, service, "LR-COC-2024-001", "Nimba")

	valid := func() *model.CreateCertificationDTO {
		return &model.CreateCertificationDTO{
			CertificateNumber: "LACRA-EXP-2024-001",
			CertificateType:   model.CertificateTypeExport,
			ExporterName:      "Liberia Premium Exports Ltd",
			CommodityID:       commodity.ID,
			Status:            "active",
			IssuedDate:        "2024-01-15",
			ExpiryDate:        "2025-01-15",
			CertificationBody: "LACRA",
		}
	}

	cert, err := service.CreateCertification(ctx, valid())
	require.NoError(t, err)
	assert.Equal(t, model.CertificationStatusActive, cert.Status)
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), cert.ExpiryDate)

	tests := []struct {
		name   string
		mutate func(*model.CreateCertificationDTO)
		want   error
	}{
		{"duplicate number", func(d *model.CreateCertificationDTO) {}, ErrDuplicateRecord},
		{"duplicate number in other case", func(d *model.CreateCertificationDTO) {
			d.CertificateNumber = "lacra-exp-2024-001"
			d.ExporterName = "Other Exporter"
		}, ErrDuplicateRecord},
		{"expiry before issue", func(d *model.CreateCertificationDTO) {
			d.CertificateNumber = "LACRA-EXP-2024-002"
			d.ExpiryDate = "2023-12-31"
		}, ErrInvalidRecord},
		{"unknown commodity", func(d *model.CreateCertificationDTO) {
			d.CertificateNumber = "LACRA-EXP-2024-003"
			d.CommodityID = commodity.ID + 100
		}, ErrInvalidRecord},
		{"bad type", func(d *model.CreateCertificationDTO) {
			d.CertificateNumber = "LACRA-EXP-2024-004"
			d.CertificateType = "fishing"
		}, ErrInvalidRecord},
		{"bad date", func(d *model.CreateCertificationDTO) {
			d.CertificateNumber = "LACRA-EXP-2024-005"
			d.IssuedDate = "15/01/2024"
		}, ErrInvalidRecord},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dto := valid()
			tt.mutate(dto)
			_, err := service.CreateCertification(ctx, dto)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("status defaults to pending", func(t *testing.T) {
		dto := valid()
		dto.CertificateNumber = "LACRA-QUA-2024-010"
		dto.Status = ""
		cert, err := service.CreateCertification(ctx, dto)
		require.NoError(t, err)
		assert.Equal(t, model.CertificationStatusPending, cert.Status)
	})
}

func TestRecordService_CaseVariantKeysAreDuplicates(t *testing.T) {
	service := NewRecordService(setupSQLite(t))
	ctx := context.Background()
	seedCommodity(t, service, "LR-COC-2024-001", "Nimba")

	_, err := service.CreateCommodity(ctx, &model.CreateCommodityDTO{
		BatchNumber:  " lr-coc-2024-001 ",
		Name:         "Cocoa",
		Type:         "cocoa",
		QualityGrade: "B",
		County:       "Bong",
		Quantity:     decimal.NewFromInt(10),
		Unit:         "kg",
	})
	assert.ErrorIs(t, err, ErrDuplicateRecord)

	report := &model.CreateReportDTO{
		ReportID:   "EUDR-2024-Q1",
		Title:      "EUDR Compliance Report Q1",
		Department: "Compliance",
		DateRange:  "Jan-Mar 2024",
	}
	_, err = service.CreateReport(ctx, report)
	require.NoError(t, err)
	report.ReportID = "eudr-2024-q1"
	_, err = service.CreateReport(ctx, report)
	assert.ErrorIs(t, err, ErrDuplicateRecord)

	snapshot, err := service.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snapshot.Commodities, 1)
	assert.Len(t, snapshot.Reports, 1)
}

func TestRecordService_SnapshotAndSummary(t *testing.T) {
	service := NewRecordService(setupSQLite(t))
	service.now = func() time.Time { return time.Date(2024, 12, 20, 12, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	cocoa := seedCommodity(t, service, "LR-COC-2024-001", "Nimba")
	seedCommodity(t, service, "LR-COC-2024-002", "Nimba")
	seedCommodity(t, service, "LR-RUB-2024-001", "Margibi")

	certs := []model.CreateCertificationDTO{
		{CertificateNumber: "C-1", CertificateType: "export", Status: "active", IssuedDate: "2024-01-15", ExpiryDate: "2025-01-15"},
		{CertificateNumber: "C-2", CertificateType: "quality", Status: "active", IssuedDate: "2024-01-15", ExpiryDate: "2025-06-30"},
		{CertificateNumber: "C-3", CertificateType: "origin", Status: "expired", IssuedDate: "2023-01-15", ExpiryDate: "2024-01-01"},
	}
	for i := range certs {
		certs[i].ExporterName = "Liberia Premium Exports Ltd"
		certs[i].CommodityID = cocoa.ID
		certs[i].CertificationBody = "LACRA"
		_, err := service.CreateCertification(ctx, &certs[i])
		require.NoError(t, err)
	}
	_, err := service.CreateReport(ctx, &model.CreateReportDTO{
		ReportID: "EUDR-2024-001", Title: "EUDR Compliance Report Q1", Department: "Compliance", DateRange: "Jan-Mar 2024",
	})
	require.NoError(t, err)

	snapshot, err := service.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snapshot.Certifications, 3)
	assert.Len(t, snapshot.Commodities, 3)
	require.Len(t, snapshot.Reports, 1)
	assert.Equal(t, "C-1", snapshot.Certifications[0].CertificateNumber)
	assert.Equal(t, "EUDR-2024-001", snapshot.Reports[0].ReportID)

	summary, err := service.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.Certifications)
	assert.Equal(t, int64(2), summary.CertificationsStatus[model.CertificationStatusActive])
	assert.Equal(t, int64(1), summary.CertificationsStatus[model.CertificationStatusExpired])
	assert.Equal(t, int64(1), summary.ExpiringWithin30Days)
	assert.Equal(t, int64(3), summary.Commodities)
	assert.Equal(t, map[string]int64{"Nimba": 2, "Margibi": 1}, summary.CommoditiesByCounty)
	assert.Equal(t, int64(1), summary.Reports)
}

func TestRecordService_SnapshotCancelled(t *testing.T) {
	service := NewRecordService(setupSQLite(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := service.Snapshot(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate(" 2024-01-15 ")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), got)

	got, err = ParseDate("2024-01-15T10:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 10, got.Hour())

	_, err = ParseDate("Jan 15 2024")
	assert.EqualError(t, err, `invalid date "Jan 15 2024": expected YYYY-MM-DD or RFC3339`)
}
