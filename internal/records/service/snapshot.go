package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/LACRA/agritrace360/internal/records/model"
	"github.com/LACRA/agritrace360/internal/verification"
)

// SnapshotFile is the YAML layout used for offline verification and seeding.
type SnapshotFile struct {
	Certifications []SnapshotCertification `yaml:"certifications"`
	Commodities    []SnapshotCommodity     `yaml:"commodities"`
	Reports        []SnapshotReport        `yaml:"reports"`
}

type SnapshotCertification struct {
	ID                uint   `yaml:"id"`
	CertificateNumber string `yaml:"certificateNumber"`
	CertificateType   string `yaml:"certificateType"`
	ExporterName      string `yaml:"exporterName"`
	CommodityID       uint   `yaml:"commodityId"`
	Status            string `yaml:"status"`
	IssuedDate        string `yaml:"issuedDate"`
	ExpiryDate        string `yaml:"expiryDate"`
	CertificationBody string `yaml:"certificationBody"`
}

type SnapshotCommodity struct {
	ID           uint    `yaml:"id"`
	BatchNumber  string  `yaml:"batchNumber"`
	Name         string  `yaml:"name"`
	Type         string  `yaml:"type"`
	QualityGrade string  `yaml:"qualityGrade"`
	County       string  `yaml:"county"`
	Quantity     float64 `yaml:"quantity"`
	Unit         string  `yaml:"unit"`
	Status       string  `yaml:"status"`
	CreatedAt    string  `yaml:"createdAt"`
}

type SnapshotReport struct {
	ID         uint   `yaml:"id"`
	ReportID   string `yaml:"reportId"`
	Title      string `yaml:"title"`
	Department string `yaml:"department"`
	DateRange  string `yaml:"dateRange"`
}

// LoadSnapshotFile reads a YAML snapshot from disk.
func LoadSnapshotFile(path string) (*SnapshotFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return ParseSnapshot(raw)
}

// ParseSnapshot decodes a YAML snapshot, rejecting unknown fields.
func ParseSnapshot(raw []byte) (*SnapshotFile, error) {
	var file SnapshotFile
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &file, nil
}

// Collections converts the file into the records the resolver searches.
func (f *SnapshotFile) Collections() (verification.Collections, error) {
	c := verification.Collections{
		Certifications: make([]model.Certification, 0, len(f.Certifications)),
		Commodities:    make([]model.Commodity, 0, len(f.Commodities)),
		Reports:        make([]model.Report, 0, len(f.Reports)),
	}

	for i, sc := range f.Commodities {
		commodity := model.Commodity{
			BaseModel:    model.BaseModel{ID: sc.ID},
			BatchNumber:  sc.BatchNumber,
			Name:         sc.Name,
			Type:         sc.Type,
			QualityGrade: sc.QualityGrade,
			County:       sc.County,
			Quantity:     quantityFrom(sc.Quantity),
			Unit:         sc.Unit,
			Status:       sc.Status,
		}
		if sc.CreatedAt != "" {
			createdAt, err := ParseDate(sc.CreatedAt)
			if err != nil {
				return verification.Collections{}, fmt.Errorf("commodity %d: createdAt: %w", i, err)
			}
			commodity.CreatedAt = createdAt
		}
		c.Commodities = append(c.Commodities, commodity)
	}

	for i, sc := range f.Certifications {
		issued, err := ParseDate(sc.IssuedDate)
		if err != nil {
			return verification.Collections{}, fmt.Errorf("certification %d: issuedDate: %w", i, err)
		}
		expiry, err := ParseDate(sc.ExpiryDate)
		if err != nil {
			return verification.Collections{}, fmt.Errorf("certification %d: expiryDate: %w", i, err)
		}
		c.Certifications = append(c.Certifications, model.Certification{
			BaseModel:         model.BaseModel{ID: sc.ID},
			CertificateNumber: sc.CertificateNumber,
			CertificateType:   model.CertificateType(sc.CertificateType),
			ExporterName:      sc.ExporterName,
			CommodityID:       sc.CommodityID,
			Status:            model.CertificationStatus(sc.Status),
			IssuedDate:        issued,
			ExpiryDate:        expiry,
			CertificationBody: sc.CertificationBody,
		})
	}

	for _, sr := range f.Reports {
		c.Reports = append(c.Reports, model.Report{
			BaseModel:  model.BaseModel{ID: sr.ID},
			ReportID:   sr.ReportID,
			Title:      sr.Title,
			Department: sr.Department,
			DateRange:  sr.DateRange,
		})
	}
	return c, nil
}

// SeedFromSnapshot upserts every record of c keyed by its business key.
func (s *RecordService) SeedFromSnapshot(ctx context.Context, c verification.Collections) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range c.Commodities {
			if err := upsert(tx, "commodities", &c.Commodities[i], "batch_number", c.Commodities[i].BatchNumber); err != nil {
				return fmt.Errorf("failed to seed commodity %s: %w", c.Commodities[i].BatchNumber, err)
			}
		}
		for i := range c.Certifications {
			if !c.Certifications[i].ValidityWindowOK() {
				return fmt.Errorf("%w: certificate %s expires before it is issued", ErrInvalidRecord, c.Certifications[i].CertificateNumber)
			}
			if err := upsert(tx, "certifications", &c.Certifications[i], "certificate_number", c.Certifications[i].CertificateNumber); err != nil {
				return fmt.Errorf("failed to seed certification %s: %w", c.Certifications[i].CertificateNumber, err)
			}
		}
		for i := range c.Reports {
			if err := upsert(tx, "reports", &c.Reports[i], "report_id", c.Reports[i].ReportID); err != nil {
				return fmt.Errorf("failed to seed report %s: %w", c.Reports[i].ReportID, err)
			}
		}
		if tx.Dialector.Name() == "postgres" {
			for _, table := range []string{"commodities", "certifications", "reports"} {
				if err := resetSequence(tx, table); err != nil {
					return err
				}
			}
		}
		slog.InfoContext(ctx, "snapshot seeded",
			"certifications", len(c.Certifications),
			"commodities", len(c.Commodities),
			"reports", len(c.Reports),
		)
		return nil
	})
}

// upsert inserts record or updates the row stored under the same key. A stored
// key differing only in case is a duplicate, not an update target.
func upsert(tx *gorm.DB, table string, record any, column, value string) error {
	var variants int64
	if err := tx.Table(table).
		Where("UPPER("+column+") = ? AND "+column+" <> ?", strings.ToUpper(value), value).
		Count(&variants).Error; err != nil {
		return fmt.Errorf("failed to check %s: %w", column, err)
	}
	if variants > 0 {
		return fmt.Errorf("%w: %s %q differs only in case from a stored key", ErrDuplicateRecord, column, value)
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: column}},
		UpdateAll: true,
	}).Create(record).Error
}

// resetSequence moves the id sequence past explicitly seeded ids.
func resetSequence(tx *gorm.DB, table string) error {
	err := tx.Exec(fmt.Sprintf(
		"SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), COALESCE(MAX(id), 0) + 1, false) FROM %[1]s", table,
	)).Error
	if err != nil {
		return fmt.Errorf("failed to reset %s id sequence: %w", table, err)
	}
	return nil
}

// jsonFieldName reports validation errors by their JSON field names.
func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}
