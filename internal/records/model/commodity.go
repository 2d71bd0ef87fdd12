package model

import "github.com/shopspring/decimal"

// Commodity is a registered batch of an agricultural or forestry product.
type Commodity struct {
	BaseModel
	BatchNumber  string          `gorm:"type:varchar(100);column:batch_number;not null;uniqueIndex" json:"batchNumber"`
	Name         string          `gorm:"type:varchar(255);column:name;not null" json:"name"`
	Type         string          `gorm:"type:varchar(100);column:type;not null" json:"type"`
	QualityGrade string          `gorm:"type:varchar(50);column:quality_grade;not null" json:"qualityGrade"`
	County       string          `gorm:"type:varchar(100);column:county;not null;index" json:"county"`
	Quantity     decimal.Decimal `gorm:"type:numeric(18,3);column:quantity;not null" json:"quantity"`
	Unit         string          `gorm:"type:varchar(20);column:unit;not null" json:"unit"`
	Status       string          `gorm:"type:varchar(30);column:status;not null" json:"status"`
}

func (c *Commodity) TableName() string {
	return "commodities"
}
