package model

import "github.com/shopspring/decimal"

// CreateCommodityDTO is the request body of POST /api/commodities
type CreateCommodityDTO struct {
	BatchNumber  string          `json:"batchNumber" binding:"required,max=100"`
	Name         string          `json:"name" binding:"required,max=255"`
	Type         string          `json:"type" binding:"required"`
	QualityGrade string          `json:"qualityGrade" binding:"required"`
	County       string          `json:"county" binding:"required"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit" binding:"required,max=20"`
	Status       string          `json:"status"`
	// CreatedAt is optional; accepted as YYYY-MM-DD or RFC3339. Used when importing historic batches.
	CreatedAt string `json:"createdAt,omitempty"`
}

// CreateCertificationDTO is the request body of POST /api/certifications
type CreateCertificationDTO struct {
	CertificateNumber string          `json:"certificateNumber" binding:"required,max=100"`
	CertificateType   CertificateType `json:"certificateType" binding:"required,oneof=export quality phytosanitary origin"`
	ExporterName      string          `json:"exporterName" binding:"required,max=255"`
	CommodityID       uint            `json:"commodityId" binding:"required"`
	Status            string          `json:"status" binding:"omitempty,oneof=active expired revoked pending"`
	IssuedDate        string          `json:"issuedDate" binding:"required"`
	ExpiryDate        string          `json:"expiryDate" binding:"required"`
	CertificationBody string          `json:"certificationBody" binding:"required"`
}

// CreateReportDTO is the request body of POST /api/reports
type CreateReportDTO struct {
	ReportID   string `json:"reportId" binding:"required,max=100"`
	Title      string `json:"title" binding:"required"`
	Department string `json:"department" binding:"required"`
	DateRange  string `json:"dateRange" binding:"required"`
}

// Summary aggregates stored records for the verification dashboard
type Summary struct {
	Certifications       int64                         `json:"certifications"`
	CertificationsStatus map[CertificationStatus]int64 `json:"certificationsByStatus"`
	ExpiringWithin30Days int64                         `json:"expiringWithin30Days"`
	Commodities          int64                         `json:"commodities"`
	CommoditiesByCounty  map[string]int64              `json:"commoditiesByCounty"`
	Reports              int64                         `json:"reports"`
}
