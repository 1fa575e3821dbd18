package store

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/talkincode/salesdash/internal/domain"
	"gorm.io/gorm"
)

// GormRegionRepository is the GORM implementation of RegionRepository
type GormRegionRepository struct {
	db *gorm.DB
}

func NewGormRegionRepository(db *gorm.DB) *GormRegionRepository {
	return &GormRegionRepository{db: db}
}

var _ RegionRepository = (*GormRegionRepository)(nil)

func (r *GormRegionRepository) List(ctx context.Context) ([]domain.Region, error) {
	var regions []domain.Region
	err := r.db.WithContext(ctx).Order("id").Find(&regions).Error
	return regions, errors.Wrap(err, "list regions")
}

func (r *GormRegionRepository) GetByID(ctx context.Context, id int64) (*domain.Region, error) {
	var region domain.Region
	if err := r.db.WithContext(ctx).First(&region, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &region, nil
}

func (r *GormRegionRepository) byName(tx *gorm.DB, name string, excludeID int64) (*domain.Region, error) {
	var region domain.Region
	query := tx.Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name)))
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.First(&region).Error; err != nil {
		return nil, notFound(err)
	}
	return &region, nil
}

func (r *GormRegionRepository) FindOrCreate(ctx context.Context, name string) (*domain.Region, error) {
	name = strings.TrimSpace(name)
	db := r.db.WithContext(ctx)
	region, err := r.byName(db, name, 0)
	if err == nil {
		return region, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, errors.Wrap(err, "find region")
	}
	region = &domain.Region{Name: name}
	if err := region.Validate(); err != nil {
		return nil, err
	}
	if err := db.Create(region).Error; err != nil {
		return nil, errors.Wrap(err, "create region")
	}
	return region, nil
}

func (r *GormRegionRepository) Create(ctx context.Context, region *domain.Region) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := r.byName(tx, region.Name, 0); err == nil {
			return errors.Wrapf(domain.ErrConflict, "region %q already exists", region.Name)
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return errors.Wrap(tx.Create(region).Error, "create region")
	})
}

func (r *GormRegionRepository) Update(ctx context.Context, id int64, mutate func(region *domain.Region) error) (*domain.Region, error) {
	var region domain.Region
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&region, id).Error; err != nil {
			return notFound(err)
		}
		if err := mutate(&region); err != nil {
			return err
		}
		if _, err := r.byName(tx, region.Name, id); err == nil {
			return errors.Wrapf(domain.ErrConflict, "region %q already exists", region.Name)
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return errors.Wrap(tx.Save(&region).Error, "update region")
	})
	if err != nil {
		return nil, err
	}
	return &region, nil
}

func (r *GormRegionRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var region domain.Region
		if err := tx.Select("id").First(&region, id).Error; err != nil {
			return notFound(err)
		}
		var refs int64
		if err := tx.Model(&domain.Order{}).Where("region_id = ?", id).Count(&refs).Error; err != nil {
			return errors.Wrap(err, "count region orders")
		}
		if refs > 0 {
			return errors.Wrapf(domain.ErrConflict, "region is referenced by %d orders", refs)
		}
		return errors.Wrap(tx.Delete(&domain.Region{}, id).Error, "delete region")
	})
}
