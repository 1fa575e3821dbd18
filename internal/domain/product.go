package domain

import "time"

// Product is catalog reference data referenced by orders
type Product struct {
	ID          int64   `gorm:"primaryKey;autoIncrement"`
	ProductCode string  `gorm:"size:50;uniqueIndex;not null"` // external product code, e.g. FUR-BO-10001798
	Category    string  `gorm:"size:50;index"`
	SubCategory string  `gorm:"size:50"`
	Name        string  `gorm:"size:255;not null"`
	UnitPrice   float64 `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName Specify table name
func (Product) TableName() string {
	return "products"
}

// Validate checks the invariants the store does not enforce itself
func (p *Product) Validate() error {
	switch {
	case p.ProductCode == "":
		return NewValidationError("product_id", "is required")
	case len(p.ProductCode) > 50:
		return NewValidationError("product_id", "must be at most 50 characters")
	case p.Name == "":
		return NewValidationError("product_name", "is required")
	case p.UnitPrice < 0:
		return NewValidationError("unit_price", "must be >= 0")
	}
	return nil
}
