package verification

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/LACRA/agritrace360/internal/records/model"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// scenarioCollections is the end-to-end data set: one export certificate for one coffee batch.
func scenarioCollections() Collections {
	return Collections{
		Certifications: []model.Certification{{
			BaseModel:         model.BaseModel{ID: 1, CreatedAt: date("2024-01-01")},
			CertificateNumber: "EXP-CERT-2024-001",
			CertificateType:   model.CertificateTypeExport,
			ExporterName:      "Acme Exports",
			CommodityID:       1,
			Status:            model.CertificationStatusActive,
			IssuedDate:        date("2024-01-01"),
			ExpiryDate:        date("2025-01-01"),
			CertificationBody: "LACRA",
		}},
		Commodities: []model.Commodity{{
			BaseModel:    model.BaseModel{ID: 1, CreatedAt: date("2024-01-01")},
			BatchNumber:  "COF-2024-001",
			Name:         "Coffee Batch 1",
			Type:         "coffee",
			QualityGrade: "A",
			County:       "Lofa",
			Quantity:     decimal.NewFromInt(500),
			Unit:         "kg",
			Status:       "registered",
		}},
	}
}
