package store

import (
	"context"

	"github.com/pkg/errors"
	"github.com/talkincode/salesdash/internal/domain"
	"gorm.io/gorm"
)

// GormProductRepository is the GORM implementation of ProductRepository
type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

var _ ProductRepository = (*GormProductRepository)(nil)

func (r *GormProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	err := r.db.WithContext(ctx).Order("id").Find(&products).Error
	return products, errors.Wrap(err, "list products")
}

func (r *GormProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *GormProductRepository) GetByCode(ctx context.Context, code string) (*domain.Product, error) {
	var p domain.Product
	if err := r.db.WithContext(ctx).Where("product_code = ?", code).First(&p).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *GormProductRepository) Create(ctx context.Context, p *domain.Product) error {
	return errors.Wrap(r.db.WithContext(ctx).Create(p).Error, "create product")
}

func (r *GormProductRepository) Update(ctx context.Context, id int64, mutate func(p *domain.Product) error) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&p, id).Error; err != nil {
			return notFound(err)
		}
		if err := mutate(&p); err != nil {
			return err
		}
		return errors.Wrap(tx.Save(&p).Error, "update product")
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormProductRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p domain.Product
		if err := tx.Select("id").First(&p, id).Error; err != nil {
			return notFound(err)
		}
		var refs int64
		if err := tx.Model(&domain.Order{}).Where("product_id = ?", id).Count(&refs).Error; err != nil {
			return errors.Wrap(err, "count product orders")
		}
		if refs > 0 {
			return errors.Wrapf(domain.ErrConflict, "product is referenced by %d orders", refs)
		}
		return errors.Wrap(tx.Delete(&domain.Product{}, id).Error, "delete product")
	})
}

func (r *GormProductRepository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).Model(&domain.Product{}).
		Distinct().
		Where("category IS NOT NULL AND category <> ''").
		Order("category").
		Pluck("category", &categories).Error
	return categories, errors.Wrap(err, "list categories")
}
