package domain

import (
	"math"
	"time"
)

// Order is the sales fact row every analytics query aggregates over.
type Order struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	OrderCode    string    `gorm:"size:50;uniqueIndex;not null"`
	OrderDate    time.Time `gorm:"not null;index"`
	ShipDate     *time.Time
	ShipMode     string   `gorm:"size:50"`
	CustomerID   string   `gorm:"size:50;index"`
	CustomerName string   `gorm:"size:100"`
	Segment      string   `gorm:"size:50;index"`
	Country      string   `gorm:"size:50"`
	City         string   `gorm:"size:50"`
	State        string   `gorm:"size:50"`
	PostalCode   string   `gorm:"size:20"`
	RegionID     *int64   `gorm:"index"`
	Region       *Region  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	ProductID    *int64   `gorm:"index"`
	Product      *Product `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Quantity     int      `gorm:"not null"`
	Sales        float64  `gorm:"not null"`
	Discount     *float64
	Profit       *float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName Specify table name
func (Order) TableName() string {
	return "orders"
}

// Validate checks required fields and numeric sanity. Referential integrity
// of RegionID and ProductID is left to the store.
func (o *Order) Validate() error {
	switch {
	case o.OrderCode == "":
		return NewValidationError("order_id", "is required")
	case len(o.OrderCode) > 50:
		return NewValidationError("order_id", "must be at most 50 characters")
	case o.OrderDate.IsZero():
		return NewValidationError("order_date", "is required")
	case o.Quantity < 0:
		return NewValidationError("quantity", "must be >= 0")
	case !finite(o.Sales):
		return NewValidationError("sales", "must be a finite number")
	case o.Discount != nil && !finite(*o.Discount):
		return NewValidationError("discount", "must be a finite number")
	case o.Profit != nil && !finite(*o.Profit):
		return NewValidationError("profit", "must be a finite number")
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
