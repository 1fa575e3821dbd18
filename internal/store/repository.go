package store

import (
	"context"
	"time"

	"github.com/talkincode/salesdash/internal/domain"
	"gorm.io/gorm"
)

// OrderFilter narrows order listings and exports
type OrderFilter struct {
	Dates     domain.DateRange
	RegionID  *int64
	ProductID *int64
}

// Customer is a distinct (customer id, name) pair seen on orders
type Customer struct {
	CustomerID   string `json:"customer_id"`
	CustomerName string `json:"customer_name"`
}

// OrderExportRow an order joined with its product and region names
type OrderExportRow struct {
	OrderCode    string
	OrderDate    time.Time
	CustomerID   string
	CustomerName string
	Segment      string
	ProductName  string
	Category     string
	RegionName   string
	Quantity     int
	Sales        float64
	Discount     *float64
	Profit       *float64
}

// OrderRepository interface for order data access
type OrderRepository interface {
	// List returns matching orders, newest first
	List(ctx context.Context, filter OrderFilter) ([]domain.Order, error)

	// GetByID returns domain.ErrNotFound when id does not exist
	GetByID(ctx context.Context, id int64) (*domain.Order, error)

	// Create inserts a new order in its own transaction
	Create(ctx context.Context, o *domain.Order) error

	// Update loads the order, lets mutate patch it and saves it, all in one transaction
	Update(ctx context.Context, id int64, mutate func(o *domain.Order) error) (*domain.Order, error)

	// Delete removes an existing order; domain.ErrNotFound when absent
	Delete(ctx context.Context, id int64) error

	// Customers lists distinct customers ordered by name
	Customers(ctx context.Context) ([]Customer, error)

	// ExportRows returns joined rows for file export
	ExportRows(ctx context.Context, filter OrderFilter) ([]OrderExportRow, error)
}

// ProductRepository interface for product data access
type ProductRepository interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	GetByCode(ctx context.Context, code string) (*domain.Product, error)
	Create(ctx context.Context, p *domain.Product) error
	Update(ctx context.Context, id int64, mutate func(p *domain.Product) error) (*domain.Product, error)
	// Delete fails with domain.ErrConflict while orders still reference the product
	Delete(ctx context.Context, id int64) error
	// Categories returns the distinct non-empty categories
	Categories(ctx context.Context) ([]string, error)
}

// RegionRepository interface for region data access
type RegionRepository interface {
	List(ctx context.Context) ([]domain.Region, error)
	GetByID(ctx context.Context, id int64) (*domain.Region, error)
	// FindOrCreate resolves a region by case-insensitive name, inserting it when missing
	FindOrCreate(ctx context.Context, name string) (*domain.Region, error)
	Create(ctx context.Context, r *domain.Region) error
	Update(ctx context.Context, id int64, mutate func(r *domain.Region) error) (*domain.Region, error)
	// Delete fails with domain.ErrConflict while orders still reference the region
	Delete(ctx context.Context, id int64) error
}

// Store bundles the repositories over one database handle
type Store struct {
	db       *gorm.DB
	Orders   *GormOrderRepository
	Products *GormProductRepository
	Regions  *GormRegionRepository
}

func New(db *gorm.DB) *Store {
	return &Store{
		db:       db,
		Orders:   NewGormOrderRepository(db),
		Products: NewGormProductRepository(db),
		Regions:  NewGormRegionRepository(db),
	}
}

// DB returns the underlying handle
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction runs fn with a Store bound to a single database transaction.
// The transaction is committed when fn returns nil and rolled back otherwise.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// WithDateRange restricts column to the inclusive calendar-day range r
func WithDateRange(db *gorm.DB, column string, r domain.DateRange) *gorm.DB {
	if lo, ok := r.Lower(); ok {
		db = db.Where(column+" >= ?", lo)
	}
	if hi, ok := r.Upper(); ok {
		db = db.Where(column+" < ?", hi)
	}
	return db
}
