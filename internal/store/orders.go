package store

import (
	"context"

	"github.com/pkg/errors"
	"github.com/talkincode/salesdash/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository is the GORM implementation of OrderRepository
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM-based repository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

var _ OrderRepository = (*GormOrderRepository)(nil)

func (r *GormOrderRepository) filtered(ctx context.Context, filter OrderFilter, prefix string) *gorm.DB {
	query := WithDateRange(r.db.WithContext(ctx), prefix+"order_date", filter.Dates)
	if filter.RegionID != nil {
		query = query.Where(prefix+"region_id = ?", *filter.RegionID)
	}
	if filter.ProductID != nil {
		query = query.Where(prefix+"product_id = ?", *filter.ProductID)
	}
	return query
}

func (r *GormOrderRepository) List(ctx context.Context, filter OrderFilter) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.filtered(ctx, filter, "").
		Order("order_date DESC").
		Order("id DESC").
		Find(&orders).Error
	return orders, errors.Wrap(err, "list orders")
}

func (r *GormOrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	var o domain.Order
	if err := r.db.WithContext(ctx).First(&o, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &o, nil
}

func (r *GormOrderRepository) Create(ctx context.Context, o *domain.Order) error {
	return errors.Wrap(r.db.WithContext(ctx).Omit(clause.Associations).Create(o).Error, "create order")
}

func (r *GormOrderRepository) Update(ctx context.Context, id int64, mutate func(o *domain.Order) error) (*domain.Order, error) {
	var o domain.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&o, id).Error; err != nil {
			return notFound(err)
		}
		if err := mutate(&o); err != nil {
			return err
		}
		return errors.Wrap(tx.Omit(clause.Associations).Save(&o).Error, "update order")
	})
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *GormOrderRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o domain.Order
		if err := tx.Select("id").First(&o, id).Error; err != nil {
			return notFound(err)
		}
		return errors.Wrap(tx.Delete(&domain.Order{}, id).Error, "delete order")
	})
}

func (r *GormOrderRepository) Customers(ctx context.Context) ([]Customer, error) {
	var customers []Customer
	err := r.db.WithContext(ctx).Model(&domain.Order{}).
		Distinct("customer_id", "customer_name").
		Where("customer_id IS NOT NULL AND customer_id <> ''").
		Order("customer_name").
		Order("customer_id").
		Scan(&customers).Error
	return customers, errors.Wrap(err, "list customers")
}

func (r *GormOrderRepository) ExportRows(ctx context.Context, filter OrderFilter) ([]OrderExportRow, error) {
	var rows []OrderExportRow
	err := r.filtered(ctx, filter, "o.").
		Table("orders o").
		Select(`o.order_code, o.order_date, o.customer_id, o.customer_name, o.segment,
			COALESCE(p.name, '') as product_name,
			COALESCE(p.category, '') as category,
			COALESCE(rg.name, '') as region_name,
			o.quantity, o.sales, o.discount, o.profit`).
		Joins("LEFT JOIN products p ON p.id = o.product_id").
		Joins("LEFT JOIN regions rg ON rg.id = o.region_id").
		Order("o.order_date DESC").
		Order("o.id DESC").
		Scan(&rows).Error
	return rows, errors.Wrap(err, "export orders")
}
