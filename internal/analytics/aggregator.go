package analytics

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/talkincode/salesdash/internal/domain"
	"github.com/talkincode/salesdash/internal/store"
	"gorm.io/gorm"
)

// DefaultTopLimit is the number of products returned by TopProducts when the
// caller does not ask for a specific limit
const DefaultTopLimit = 10

// MaxTopLimit caps the limit accepted by TopProducts
const MaxTopLimit = 1000

// Summary totals over the filtered order set. Sums over an empty set are 0.
type Summary struct {
	TotalOrders       int64   `json:"total_orders"`
	TotalSales        float64 `json:"total_sales"`
	TotalProfit       float64 `json:"total_profit"`
	TotalQuantity     int64   `json:"total_quantity"`
	AverageOrderValue float64 `json:"average_order_value"`
}

// RegionSales one row of the per-region breakdown
type RegionSales struct {
	RegionID    int64   `json:"region_id"`
	Region      string  `json:"region"`
	TotalOrders int64   `json:"total_orders"`
	TotalSales  float64 `json:"total_sales"`
	TotalProfit float64 `json:"total_profit"`
}

// ProductSales one row of the per-product breakdown
type ProductSales struct {
	ProductID     int64   `json:"product_id"`
	Product       string  `json:"product"`
	Category      string  `json:"category"`
	TotalOrders   int64   `json:"total_orders"`
	TotalQuantity int64   `json:"total_quantity"`
	TotalSales    float64 `json:"total_sales"`
	TotalProfit   float64 `json:"total_profit"`
}

// TrendPoint one time bucket of the sales trend
type TrendPoint struct {
	Date        string  `json:"date"`
	TotalSales  float64 `json:"total_sales"`
	TotalProfit float64 `json:"total_profit"`
	TotalOrders int64   `json:"total_orders"`
}

// SegmentSales one row of the customer segment breakdown
type SegmentSales struct {
	Segment        string  `json:"segment"`
	TotalCustomers int64   `json:"total_customers"`
	TotalOrders    int64   `json:"total_orders"`
	TotalSales     float64 `json:"total_sales"`
	TotalProfit    float64 `json:"total_profit"`
}

// Aggregator runs read-only grouped aggregate queries over the orders table.
// Every figure is computed by the database; rows are never loaded into memory.
type Aggregator struct {
	db *gorm.DB
}

func NewAggregator(db *gorm.DB) *Aggregator {
	return &Aggregator{db: db}
}

func (a *Aggregator) orders(ctx context.Context, dates domain.DateRange) *gorm.DB {
	return store.WithDateRange(a.db.WithContext(ctx).Table("orders o"), "o.order_date", dates)
}

// Summary totals order count, sales, profit and quantity plus the average
// sales per order.
func (a *Aggregator) Summary(ctx context.Context, dates domain.DateRange) (*Summary, error) {
	var s Summary
	err := a.orders(ctx, dates).
		Select(`COUNT(o.id) as total_orders,
			COALESCE(SUM(o.sales), 0) as total_sales,
			COALESCE(SUM(o.profit), 0) as total_profit,
			COALESCE(SUM(o.quantity), 0) as total_quantity,
			COALESCE(AVG(o.sales), 0) as average_order_value`).
		Scan(&s).Error
	if err != nil {
		return nil, errors.Wrap(err, "query sales summary")
	}
	return &s, nil
}

// SalesByRegion groups by region. Regions without a matching order are not
// part of the result.
func (a *Aggregator) SalesByRegion(ctx context.Context, dates domain.DateRange) ([]RegionSales, error) {
	rows := make([]RegionSales, 0)
	err := a.orders(ctx, dates).
		Select(`r.id as region_id, r.name as region,
			COUNT(o.id) as total_orders,
			COALESCE(SUM(o.sales), 0) as total_sales,
			COALESCE(SUM(o.profit), 0) as total_profit`).
		Joins("JOIN regions r ON r.id = o.region_id").
		Group("r.id, r.name").
		Order("total_sales DESC, r.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "query sales by region")
	}
	return rows, nil
}

func (a *Aggregator) productSales(ctx context.Context, dates domain.DateRange) *gorm.DB {
	return a.orders(ctx, dates).
		Select(`p.id as product_id, p.name as product, COALESCE(p.category, '') as category,
			COUNT(o.id) as total_orders,
			COALESCE(SUM(o.quantity), 0) as total_quantity,
			COALESCE(SUM(o.sales), 0) as total_sales,
			COALESCE(SUM(o.profit), 0) as total_profit`).
		Joins("JOIN products p ON p.id = o.product_id").
		Group("p.id, p.name, p.category").
		Order("total_sales DESC, p.id ASC")
}

// SalesByProduct groups by product, including category and quantity.
func (a *Aggregator) SalesByProduct(ctx context.Context, dates domain.DateRange) ([]ProductSales, error) {
	rows := make([]ProductSales, 0)
	if err := a.productSales(ctx, dates).Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "query sales by product")
	}
	return rows, nil
}

// TopProducts is SalesByProduct truncated to limit rows. Ties on total sales
// are broken by ascending product id.
func (a *Aggregator) TopProducts(ctx context.Context, dates domain.DateRange, limit int) ([]ProductSales, error) {
	if limit <= 0 {
		limit = DefaultTopLimit
	}
	if limit > MaxTopLimit {
		limit = MaxTopLimit
	}
	rows := make([]ProductSales, 0)
	if err := a.productSales(ctx, dates).Limit(limit).Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "query top products")
	}
	return rows, nil
}

// SalesTrend buckets orders by day, ISO week or month. Points are ordered by
// their label, which sorts chronologically for every period.
func (a *Aggregator) SalesTrend(ctx context.Context, dates domain.DateRange, period Period) ([]TrendPoint, error) {
	bucket, err := bucketExpr(a.db.Dialector.Name(), period, "o.order_date")
	if err != nil {
		return nil, err
	}
	rows := make([]TrendPoint, 0)
	err = a.orders(ctx, dates).
		Select(bucket + ` as date,
			COALESCE(SUM(o.sales), 0) as total_sales,
			COALESCE(SUM(o.profit), 0) as total_profit,
			COUNT(o.id) as total_orders`).
		Group(bucket).
		Order(bucket + " ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "query sales trend")
	}
	return rows, nil
}

// CustomerSegments groups by segment with a distinct customer count.
func (a *Aggregator) CustomerSegments(ctx context.Context, dates domain.DateRange) ([]SegmentSales, error) {
	rows := make([]SegmentSales, 0)
	err := a.orders(ctx, dates).
		Select(`COALESCE(o.segment, '') as segment,
			COUNT(DISTINCT o.customer_id) as total_customers,
			COUNT(o.id) as total_orders,
			COALESCE(SUM(o.sales), 0) as total_sales,
			COALESCE(SUM(o.profit), 0) as total_profit`).
		Group("COALESCE(o.segment, '')").
		Order("total_sales DESC, segment ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "query customer segments")
	}
	return rows, nil
}

func isPostgres(dialect string) bool {
	return strings.EqualFold(dialect, "postgres")
}
