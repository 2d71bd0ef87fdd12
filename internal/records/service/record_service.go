package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/LACRA/agritrace360/internal/records/model"
	"github.com/LACRA/agritrace360/internal/verification"
	"github.com/LACRA/agritrace360/utils"
)

var (
	// ErrInvalidRecord is returned when a create request fails validation.
	ErrInvalidRecord = errors.New("invalid record")
	// ErrDuplicateRecord is returned when the business key is already registered.
	ErrDuplicateRecord = errors.New("record already exists")
)

const expiringWindow = 30 * 24 * time.Hour

// Models lists every table owned by the record service.
func Models() []any {
	return []any{&model.Commodity{}, &model.Certification{}, &model.Report{}}
}

// RecordService reads and registers certifications, commodities and reports.
type RecordService struct {
	db       *gorm.DB
	validate *validator.Validate
	now      func() time.Time
}

func NewRecordService(db *gorm.DB) *RecordService {
	v := validator.New()
	v.SetTagName("binding")
	v.RegisterTagNameFunc(jsonFieldName)
	return &RecordService{db: db, validate: v, now: time.Now}
}

// ListCertifications returns a page of certifications ordered by id.
func (s *RecordService) ListCertifications(ctx context.Context, filter model.ListFilter) (*model.ListResult[model.Certification], error) {
	return listPage[model.Certification](ctx, s.db, filter)
}

// ListCommodities returns a page of commodities ordered by id.
func (s *RecordService) ListCommodities(ctx context.Context, filter model.ListFilter) (*model.ListResult[model.Commodity], error) {
	return listPage[model.Commodity](ctx, s.db, filter)
}

// ListReports returns a page of reports ordered by id.
func (s *RecordService) ListReports(ctx context.Context, filter model.ListFilter) (*model.ListResult[model.Report], error) {
	return listPage[model.Report](ctx, s.db, filter)
}

func listPage[T any](ctx context.Context, db *gorm.DB, filter model.ListFilter) (*model.ListResult[T], error) {
	page := utils.ResolvePage(filter.Offset, filter.Limit)

	var total int64
	if err := db.WithContext(ctx).Model(new(T)).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count records: %w", err)
	}

	items := make([]T, 0, page.Limit)
	if err := db.WithContext(ctx).Order("id").Offset(page.Offset).Limit(page.Limit).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	return &model.ListResult[T]{
		TotalCount: total,
		Items:      items,
		Offset:     page.Offset,
		Limit:      page.Limit,
	}, nil
}

// CreateCommodity registers a new commodity batch.
func (s *RecordService) CreateCommodity(ctx context.Context, req *model.CreateCommodityDTO) (*model.Commodity, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	if req.Quantity.IsNegative() {
		return nil, fmt.Errorf("%w: quantity must not be negative", ErrInvalidRecord)
	}

	commodity := &model.Commodity{
		BatchNumber:  strings.TrimSpace(req.BatchNumber),
		Name:         req.Name,
		Type:         req.Type,
		QualityGrade: req.QualityGrade,
		County:       req.County,
		Quantity:     req.Quantity,
		Unit:         req.Unit,
		Status:       req.Status,
	}
	if commodity.Status == "" {
		commodity.Status = "registered"
	}
	if req.CreatedAt != "" {
		createdAt, err := ParseDate(req.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: createdAt: %v", ErrInvalidRecord, err)
		}
		commodity.CreatedAt = createdAt
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUnique(tx, &model.Commodity{}, "batch_number", commodity.BatchNumber); err != nil {
			return err
		}
		return tx.Create(commodity).Error
	})
	if err != nil {
		return nil, translateCreateError("commodity", err)
	}

	slog.InfoContext(ctx, "commodity registered",
		"id", commodity.ID,
		"batch_number", commodity.BatchNumber,
	)
	return commodity, nil
}

// CreateCertification issues a certificate for an existing commodity.
func (s *RecordService) CreateCertification(ctx context.Context, req *model.CreateCertificationDTO) (*model.Certification, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}

	issued, err := ParseDate(req.IssuedDate)
	if err != nil {
		return nil, fmt.Errorf("%w: issuedDate: %v", ErrInvalidRecord, err)
	}
	expiry, err := ParseDate(req.ExpiryDate)
	if err != nil {
		return nil, fmt.Errorf("%w: expiryDate: %v", ErrInvalidRecord, err)
	}

	cert := &model.Certification{
		CertificateNumber: strings.TrimSpace(req.CertificateNumber),
		CertificateType:   req.CertificateType,
		ExporterName:      req.ExporterName,
		CommodityID:       req.CommodityID,
		Status:            model.CertificationStatus(req.Status),
		IssuedDate:        issued,
		ExpiryDate:        expiry,
		CertificationBody: req.CertificationBody,
	}
	if cert.Status == "" {
		cert.Status = model.CertificationStatusPending
	}
	if !cert.ValidityWindowOK() {
		return nil, fmt.Errorf("%w: expiryDate must not be before issuedDate", ErrInvalidRecord)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var commodities int64
		if err := tx.Model(&model.Commodity{}).Where("id = ?", cert.CommodityID).Count(&commodities).Error; err != nil {
			return fmt.Errorf("failed to look up commodity: %w", err)
		}
		if commodities == 0 {
			return fmt.Errorf("%w: commodity %d not found", ErrInvalidRecord, cert.CommodityID)
		}
		if err := ensureUnique(tx, &model.Certification{}, "certificate_number", cert.CertificateNumber); err != nil {
			return err
		}
		return tx.Create(cert).Error
	})
	if err != nil {
		return nil, translateCreateError("certification", err)
	}

	slog.InfoContext(ctx, "certification issued",
		"id", cert.ID,
		"certificate_number", cert.CertificateNumber,
		"commodity_id", cert.CommodityID,
	)
	return cert, nil
}

// CreateReport publishes a compliance report.
func (s *RecordService) CreateReport(ctx context.Context, req *model.CreateReportDTO) (*model.Report, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}

	report := &model.Report{
		ReportID:   strings.TrimSpace(req.ReportID),
		Title:      req.Title,
		Department: req.Department,
		DateRange:  req.DateRange,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUnique(tx, &model.Report{}, "report_id", report.ReportID); err != nil {
			return err
		}
		return tx.Create(report).Error
	})
	if err != nil {
		return nil, translateCreateError("report", err)
	}

	slog.InfoContext(ctx, "report published", "id", report.ID, "report_id", report.ReportID)
	return report, nil
}

// Snapshot loads the three full collections concurrently. The result is handed
// to the resolver as-is; callers must not mutate it.
func (s *RecordService) Snapshot(ctx context.Context) (verification.Collections, error) {
	var c verification.Collections
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := s.db.WithContext(gctx).Order("id").Find(&c.Certifications).Error; err != nil {
			return fmt.Errorf("failed to load certifications: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := s.db.WithContext(gctx).Order("id").Find(&c.Commodities).Error; err != nil {
			return fmt.Errorf("failed to load commodities: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := s.db.WithContext(gctx).Order("id").Find(&c.Reports).Error; err != nil {
			return fmt.Errorf("failed to load reports: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return verification.Collections{}, err
	}
	return c, nil
}

// Summary computes the dashboard figures from stored records.
func (s *RecordService) Summary(ctx context.Context) (*model.Summary, error) {
	db := s.db.WithContext(ctx)
	summary := &model.Summary{
		CertificationsStatus: map[model.CertificationStatus]int64{},
		CommoditiesByCounty:  map[string]int64{},
	}

	var byStatus []struct {
		Status model.CertificationStatus
		Count  int64
	}
	if err := db.Model(&model.Certification{}).Select("status, count(*) as count").Group("status").Scan(&byStatus).Error; err != nil {
		return nil, fmt.Errorf("failed to count certifications: %w", err)
	}
	for _, row := range byStatus {
		summary.CertificationsStatus[row.Status] = row.Count
		summary.Certifications += row.Count
	}

	now := s.now().UTC()
	if err := db.Model(&model.Certification{}).
		Where("status = ? AND expiry_date >= ? AND expiry_date <= ?", model.CertificationStatusActive, now, now.Add(expiringWindow)).
		Count(&summary.ExpiringWithin30Days).Error; err != nil {
		return nil, fmt.Errorf("failed to count expiring certifications: %w", err)
	}

	var byCounty []struct {
		County string
		Count  int64
	}
	if err := db.Model(&model.Commodity{}).Select("county, count(*) as count").Group("county").Scan(&byCounty).Error; err != nil {
		return nil, fmt.Errorf("failed to count commodities: %w", err)
	}
	for _, row := range byCounty {
		summary.CommoditiesByCounty[row.County] = row.Count
		summary.Commodities += row.Count
	}

	if err := db.Model(&model.Report{}).Count(&summary.Reports).Error; err != nil {
		return nil, fmt.Errorf("failed to count reports: %w", err)
	}
	return summary, nil
}

func (s *RecordService) check(req any) error {
	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidRecord, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return nil
}

// ensureUnique rejects value when a stored key equals it ignoring case, the way
// verification queries compare keys.
func ensureUnique(tx *gorm.DB, table any, column, value string) error {
	var count int64
	if err := tx.Model(table).Where("UPPER("+column+") = ?", strings.ToUpper(value)).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check %s: %w", column, err)
	}
	if count > 0 {
		return fmt.Errorf("%w: %s %q", ErrDuplicateRecord, column, value)
	}
	return nil
}

func translateCreateError(kind string, err error) error {
	switch {
	case errors.Is(err, ErrInvalidRecord), errors.Is(err, ErrDuplicateRecord):
		return err
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %s", ErrDuplicateRecord, kind)
	default:
		return fmt.Errorf("failed to create %s: %w", kind, err)
	}
}

// ParseDate accepts a calendar date (YYYY-MM-DD) or an RFC3339 timestamp.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC3339", value)
	}
	return t, nil
}

// quantityFrom converts a YAML quantity into a decimal without float noise.
func quantityFrom(q float64) decimal.Decimal {
	return decimal.NewFromFloat(q)
}
