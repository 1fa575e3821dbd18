package domain

import "time"

// Region a sales region, referenced by many orders
type Region struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"size:50;uniqueIndex;not null"`
	Country   string `gorm:"size:50"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName Specify table name
func (Region) TableName() string {
	return "regions"
}

func (r *Region) Validate() error {
	if r.Name == "" {
		return NewValidationError("region_name", "is required")
	}
	if len(r.Name) > 50 {
		return NewValidationError("region_name", "must be at most 50 characters")
	}
	return nil
}
