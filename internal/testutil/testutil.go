// Package testutil provides shared helpers for tests that need a real
// database or sample sales data.
package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"github.com/talkincode/salesdash/internal/domain"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewSQLiteDB opens a migrated in-memory SQLite database with foreign keys
// enforced. The pool is pinned to one connection so every query sees the
// same in-memory database.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "open sqlite")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(domain.Tables...), "migrate")
	return db
}

// MockDB wraps a GORM postgres handle backed by sqlmock.
type MockDB struct {
	DB    *gorm.DB
	Mock  sqlmock.Sqlmock
	SqlDB *sql.DB
}

// NewMockDB creates a GORM handle whose statements are answered by sqlmock.
func NewMockDB(t *testing.T) *MockDB {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err, "create sqlmock")
	t.Cleanup(func() { _ = mockDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "open gorm over sqlmock")

	return &MockDB{DB: gormDB, Mock: mock, SqlDB: mockDB}
}

// Date returns midnight UTC of the given day
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func Float(f float64) *float64 { return &f }

func Int64(i int64) *int64 { return &i }

// Fixture holds the reference rows created by Seed
type Fixture struct {
	East, West   domain.Region
	Empty        domain.Region
	Chair, Phone domain.Product
	Binder       domain.Product
}

// Seed inserts three regions (one without orders) and three products
// (one without orders). Orders are left to the caller.
func Seed(t *testing.T, db *gorm.DB) *Fixture {
	t.Helper()

	f := &Fixture{
		East:   domain.Region{Name: "East", Country: "United States"},
		West:   domain.Region{Name: "West", Country: "United States"},
		Empty:  domain.Region{Name: "Central", Country: "United States"},
		Chair:  domain.Product{ProductCode: "FUR-CH-10000454", Category: "Furniture", SubCategory: "Chairs", Name: "Hon Deluxe Chair", UnitPrice: 120},
		Phone:  domain.Product{ProductCode: "TEC-PH-10002275", Category: "Technology", SubCategory: "Phones", Name: "Mitel Phone", UnitPrice: 80},
		Binder: domain.Product{ProductCode: "OFF-BI-10003910", Category: "Office Supplies", SubCategory: "Binders", Name: "DXL Binder", UnitPrice: 5},
	}
	for _, r := range []*domain.Region{&f.East, &f.West, &f.Empty} {
		require.NoError(t, db.Create(r).Error)
	}
	for _, p := range []*domain.Product{&f.Chair, &f.Phone, &f.Binder} {
		require.NoError(t, db.Create(p).Error)
	}
	return f
}

// OrderSpec is a compact way to describe a test order
type OrderSpec struct {
	Code     string
	Date     time.Time
	Customer string
	Segment  string
	Region   *domain.Region
	Product  *domain.Product
	Quantity int
	Sales    float64
	Profit   *float64
}

// CreateOrders inserts the given orders and fails the test on error
func CreateOrders(t *testing.T, db *gorm.DB, specs ...OrderSpec) []domain.Order {
	t.Helper()

	out := make([]domain.Order, 0, len(specs))
	for _, s := range specs {
		o := domain.Order{
			OrderCode:    s.Code,
			OrderDate:    s.Date,
			CustomerID:   s.Customer,
			CustomerName: "Customer " + s.Customer,
			Segment:      s.Segment,
			Quantity:     s.Quantity,
			Sales:        s.Sales,
			Profit:       s.Profit,
		}
		if s.Region != nil {
			o.RegionID = &s.Region.ID
		}
		if s.Product != nil {
			o.ProductID = &s.Product.ID
		}
		require.NoError(t, db.Omit("Region", "Product").Create(&o).Error, s.Code)
		out = append(out, o)
	}
	return out
}
