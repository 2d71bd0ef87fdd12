package model

import "time"

// CertificateType classifies what a certificate attests to.
type CertificateType string

const (
	CertificateTypeExport        CertificateType = "export"
	CertificateTypeQuality       CertificateType = "quality"
	CertificateTypePhytosanitary CertificateType = "phytosanitary"
	CertificateTypeOrigin        CertificateType = "origin"
)

// CertificationStatus represents the lifecycle state of a certificate.
type CertificationStatus string

const (
	CertificationStatusActive  CertificationStatus = "active"
	CertificationStatusExpired CertificationStatus = "expired"
	CertificationStatusRevoked CertificationStatus = "revoked"
	CertificationStatusPending CertificationStatus = "pending"
)

// Certification is a certificate issued against a registered commodity batch.
type Certification struct {
	BaseModel
	CertificateNumber string              `gorm:"type:varchar(100);column:certificate_number;not null;uniqueIndex" json:"certificateNumber"`
	CertificateType   CertificateType     `gorm:"type:varchar(30);column:certificate_type;not null" json:"certificateType"`
	ExporterName      string              `gorm:"type:varchar(255);column:exporter_name;not null" json:"exporterName"`
	CommodityID       uint                `gorm:"column:commodity_id;index;not null" json:"commodityId"`
	Status            CertificationStatus `gorm:"type:varchar(20);column:status;not null" json:"status"`
	IssuedDate        time.Time           `gorm:"column:issued_date;not null" json:"issuedDate"`
	ExpiryDate        time.Time           `gorm:"column:expiry_date;not null" json:"expiryDate"`
	CertificationBody string              `gorm:"type:varchar(255);column:certification_body;not null" json:"certificationBody"`
}

func (c *Certification) TableName() string {
	return "certifications"
}

// ValidityWindowOK reports whether the expiry date is not before the issue date.
func (c *Certification) ValidityWindowOK() bool {
	return !c.ExpiryDate.Before(c.IssuedDate)
}
