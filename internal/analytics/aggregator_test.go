package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talkincode/salesdash/internal/domain"
	"github.com/talkincode/salesdash/internal/testutil"
	"gorm.io/gorm"
)

// seedSales creates six orders spread over three ISO weeks and two months:
//
//	A 2024-01-01 (Mon, 2024-W01) East  Chair  C1 Consumer  sales 100 profit 10
//	B 2024-01-07 (Sun, 2024-W01) East  Phone  C2 Consumer  sales  50 profit  5
//	C 2024-01-08 (Mon, 2024-W02) West  Chair  C1 Consumer  sales 200 profit 20
//	D 2024-01-31 (Wed, 2024-W05) West  Phone  C3 Corporate sales  50 profit nil
//	E 2024-02-01 (Thu, 2024-W05) -     Binder C3 Corporate sales  10 profit  1
//	F 2024-02-01 (Thu, 2024-W05) East  -      C4 Home      sales  40 profit -4
func seedSales(t *testing.T) (*gorm.DB, *testutil.Fixture) {
	db := testutil.NewSQLiteDB(t)
	fx := testutil.Seed(t, db)
	testutil.CreateOrders(t, db,
		testutil.OrderSpec{Code: "A", Date: testutil.Date(2024, 1, 1), Customer: "C1", Segment: "Consumer", Region: &fx.East, Product: &fx.Chair, Quantity: 1, Sales: 100, Profit: testutil.Float(10)},
		testutil.OrderSpec{Code: "B", Date: testutil.Date(2024, 1, 7).Add(22 * time.Hour), Customer: "C2", Segment: "Consumer", Region: &fx.East, Product: &fx.Phone, Quantity: 2, Sales: 50, Profit: testutil.Float(5)},
		testutil.OrderSpec{Code: "C", Date: testutil.Date(2024, 1, 8), Customer: "C1", Segment: "Consumer", Region: &fx.West, Product: &fx.Chair, Quantity: 3, Sales: 200, Profit: testutil.Float(20)},
		testutil.OrderSpec{Code: "D", Date: testutil.Date(2024, 1, 31), Customer: "C3", Segment: "Corporate", Region: &fx.West, Product: &fx.Phone, Quantity: 4, Sales: 50},
		testutil.OrderSpec{Code: "E", Date: testutil.Date(2024, 2, 1), Customer: "C3", Segment: "Corporate", Product: &fx.Binder, Quantity: 5, Sales: 10, Profit: testutil.Float(1)},
		testutil.OrderSpec{Code: "F", Date: testutil.Date(2024, 2, 1), Customer: "C4", Segment: "Home Office", Region: &fx.East, Quantity: 6, Sales: 40, Profit: testutil.Float(-4)},
	)
	return db, fx
}

func dates(t *testing.T, start, end string) domain.DateRange {
	t.Helper()
	r, err := domain.ParseDateRange(start, end)
	require.NoError(t, err)
	return r
}

func TestSummary(t *testing.T) {
	db, _ := seedSales(t)
	agg := NewAggregator(db)
	ctx := context.Background()

	s, err := agg.Summary(ctx, domain.DateRange{})
	require.NoError(t, err)
	assert.Equal(t, int64(6), s.TotalOrders)
	assert.InDelta(t, 450.0, s.TotalSales, 1e-9)
	assert.InDelta(t, 32.0, s.TotalProfit, 1e-9)
	assert.Equal(t, int64(21), s.TotalQuantity)
	assert.InDelta(t, 75.0, s.AverageOrderValue, 1e-9)

	jan, err := agg.Summary(ctx, dates(t, "2024-01-01", "2024-01-31"))
	require.NoError(t, err)
	assert.Equal(t, int64(4), jan.TotalOrders)
	assert.InDelta(t, 400.0, jan.TotalSales, 1e-9)

	openStart, err := agg.Summary(ctx, dates(t, "", "2024-01-07"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), openStart.TotalOrders, "order at 22:00 on the end day is included")
}

func TestSummaryEmptyRange(t *testing.T) {
	db, _ := seedSales(t)
	agg := NewAggregator(db)

	s, err := agg.Summary(context.Background(), dates(t, "2023-01-01", "2023-01-31"))
	require.NoError(t, err)
	assert.Equal(t, Summary{}, *s)

	empty := NewAggregator(testutil.NewSQLiteDB(t))
	s, err = empty.Summary(context.Background(), domain.DateRange{})
	require.NoError(t, err)
	assert.Equal(t, Summary{}, *s)
}

func TestSalesByRegion(t *testing.T) {
	db, fx := seedSales(t)
	agg := NewAggregator(db)

	rows, err := agg.SalesByRegion(context.Background(), domain.DateRange{})
	require.NoError(t, err)
	require.Len(t, rows, 2, "regions without orders are omitted")

	assert.Equal(t, RegionSales{RegionID: fx.West.ID, Region: "West", TotalOrders: 2, TotalSales: 250, TotalProfit: 20}, rows[0])
	assert.Equal(t, RegionSales{RegionID: fx.East.ID, Region: "East", TotalOrders: 3, TotalSales: 190, TotalProfit: 11}, rows[1])

	feb, err := agg.SalesByRegion(context.Background(), dates(t, "2024-02-01", ""))
	require.NoError(t, err)
	require.Len(t, feb, 1)
	assert.Equal(t, "East", feb[0].Region)
}

func TestSalesByProduct(t *testing.T) {
	db, fx := seedSales(t)
	agg := NewAggregator(db)

	rows, err := agg.SalesByProduct(context.Background(), domain.DateRange{})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, ProductSales{
		ProductID: fx.Chair.ID, Product: "Hon Deluxe Chair", Category: "Furniture",
		TotalOrders: 2, TotalQuantity: 4, TotalSales: 300, TotalProfit: 30,
	}, rows[0])
	assert.Equal(t, fx.Phone.ID, rows[1].ProductID)
	assert.Equal(t, int64(6), rows[1].TotalQuantity)
	assert.Equal(t, 5.0, rows[1].TotalProfit, "null profit counts as zero")
}

func TestTopProducts(t *testing.T) {
	db, fx := seedSales(t)
	agg := NewAggregator(db)
	ctx := context.Background()

	top, err := agg.TopProducts(ctx, domain.DateRange{}, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, fx.Chair.ID, top[0].ProductID)
	assert.Equal(t, fx.Phone.ID, top[1].ProductID)

	all, err := agg.TopProducts(ctx, domain.DateRange{}, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	for i := 1; i < len(all); i++ {
		assert.GreaterOrEqual(t, all[i-1].TotalSales, all[i].TotalSales)
	}

	// equal totals fall back to ascending product id
	testutil.CreateOrders(t, db,
		testutil.OrderSpec{Code: "G", Date: testutil.Date(2024, 3, 1), Product: &fx.Binder, Quantity: 1, Sales: 90},
	)
	tied, err := agg.TopProducts(ctx, dates(t, "2024-01-01", "2024-12-31"), 10)
	require.NoError(t, err)
	require.Len(t, tied, 3)
	assert.Equal(t, 100.0, tied[1].TotalSales)
	assert.Equal(t, 100.0, tied[2].TotalSales)
	assert.Less(t, tied[1].ProductID, tied[2].ProductID)

	var huge []ProductSales
	assert.NotPanics(t, func() {
		huge, err = agg.TopProducts(ctx, domain.DateRange{}, 1<<40)
	})
	require.NoError(t, err)
	assert.Len(t, huge, 3)
}

func TestSalesTrend(t *testing.T) {
	db, _ := seedSales(t)
	agg := NewAggregator(db)
	ctx := context.Background()

	daily, err := agg.SalesTrend(ctx, domain.DateRange{}, Daily)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-01", "2024-01-07", "2024-01-08", "2024-01-31", "2024-02-01"}, labels(daily))
	assert.Equal(t, int64(2), daily[4].TotalOrders)
	assert.InDelta(t, 50.0, daily[4].TotalSales, 1e-9)

	weekly, err := agg.SalesTrend(ctx, domain.DateRange{}, Weekly)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-W01", "2024-W02", "2024-W05"}, labels(weekly))
	assert.Equal(t, int64(2), weekly[0].TotalOrders, "Sunday belongs to the ISO week of the preceding Monday")

	monthly, err := agg.SalesTrend(ctx, domain.DateRange{}, Monthly)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01", "2024-02"}, labels(monthly))

	summary, err := agg.Summary(ctx, domain.DateRange{})
	require.NoError(t, err)
	for _, points := range [][]TrendPoint{daily, weekly, monthly} {
		var orders int64
		var sales float64
		for _, p := range points {
			orders += p.TotalOrders
			sales += p.TotalSales
		}
		assert.Equal(t, summary.TotalOrders, orders)
		assert.InDelta(t, summary.TotalSales, sales, 1e-9)
	}
}

func TestSalesTrendISOYearBoundary(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	testutil.CreateOrders(t, db,
		testutil.OrderSpec{Code: "X1", Date: testutil.Date(2024, 12, 30), Quantity: 1, Sales: 1}, // Monday of 2025-W01
		testutil.OrderSpec{Code: "X2", Date: testutil.Date(2021, 1, 3), Quantity: 1, Sales: 1},   // Sunday of 2020-W53
		testutil.OrderSpec{Code: "X3", Date: testutil.Date(2024, 12, 29), Quantity: 1, Sales: 1}, // Sunday of 2024-W52
	)

	weekly, err := NewAggregator(db).SalesTrend(context.Background(), domain.DateRange{}, Weekly)
	require.NoError(t, err)
	assert.Equal(t, []string{"2020-W53", "2024-W52", "2025-W01"}, labels(weekly))
}

func TestCustomerSegments(t *testing.T) {
	db, _ := seedSales(t)
	agg := NewAggregator(db)

	rows, err := agg.CustomerSegments(context.Background(), domain.DateRange{})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, SegmentSales{Segment: "Consumer", TotalCustomers: 2, TotalOrders: 3, TotalSales: 350, TotalProfit: 35}, rows[0])
	assert.Equal(t, SegmentSales{Segment: "Corporate", TotalCustomers: 1, TotalOrders: 2, TotalSales: 60, TotalProfit: 1}, rows[1])
	assert.Equal(t, "Home Office", rows[2].Segment)
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("")
	require.NoError(t, err)
	assert.Equal(t, Daily, p)

	p, err = ParsePeriod(" Weekly ")
	require.NoError(t, err)
	assert.Equal(t, Weekly, p)

	_, err = ParsePeriod("hourly")
	assert.True(t, domain.IsValidation(err))
}

func TestBucketExprPostgres(t *testing.T) {
	expr, err := bucketExpr("postgres", Weekly, "o.order_date")
	require.NoError(t, err)
	assert.Equal(t, `to_char(o.order_date, 'IYYY-"W"IW')`, expr)

	expr, err = bucketExpr("postgres", Monthly, "o.order_date")
	require.NoError(t, err)
	assert.Equal(t, "to_char(o.order_date, 'YYYY-MM')", expr)
}

func labels(points []TrendPoint) []string {
	out := make([]string, len(points))
	for i, p := range points {
		out[i] = p.Date
	}
	return out
}
