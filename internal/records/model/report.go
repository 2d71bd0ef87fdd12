package model

// Report is a published compliance report (EUDR and sector reports).
type Report struct {
	BaseModel
	ReportID   string `gorm:"type:varchar(100);column:report_id;not null;uniqueIndex" json:"reportId"`
	Title      string `gorm:"type:varchar(255);column:title;not null" json:"title"`
	Department string `gorm:"type:varchar(255);column:department;not null" json:"department"`
	DateRange  string `gorm:"type:varchar(100);column:date_range;not null" json:"dateRange"`
}

func (r *Report) TableName() string {
	return "reports"
}
