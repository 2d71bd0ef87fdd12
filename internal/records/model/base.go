package model

import "time"

// BaseModel carries the surrogate key and bookkeeping timestamps shared by all records.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey;column:id" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at;not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updatedAt"`
}

// ListFilter is used when querying records as batch
type ListFilter struct {
	Offset *int `json:"offset,omitempty"`
	Limit  *int `json:"limit,omitempty"`
}

// ListResult represents a page of records
type ListResult[T any] struct {
	TotalCount int64 `json:"totalCount"`
	Items      []T   `json:"items"`
	Offset     int   `json:"offset"`
	Limit      int   `json:"limit"`
}
