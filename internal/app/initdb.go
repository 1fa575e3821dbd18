package app

import (
	"github.com/talkincode/salesdash/internal/domain"
	"go.uber.org/zap"
)

// defaultRegions are created on first start so imports that reference
// regions by id have something to point at
var defaultRegions = []domain.Region{
	{Name: "Central", Country: "United States"},
	{Name: "East", Country: "United States"},
	{Name: "South", Country: "United States"},
	{Name: "West", Country: "United States"},
}

// checkRegions initializes the default sales regions
func (a *Application) checkRegions() {
	for _, r := range defaultRegions {
		var count int64
		if err := a.gormDB.Model(&domain.Region{}).Where("LOWER(name) = LOWER(?)", r.Name).Count(&count).Error; err != nil {
			zap.L().Error("failed to query region", zap.String("name", r.Name), zap.Error(err))
			return
		}
		if count > 0 {
			continue
		}
		if err := a.gormDB.Create(&r).Error; err != nil {
			zap.L().Error("failed to create default region", zap.String("name", r.Name), zap.Error(err))
		} else {
			zap.L().Info("initialized default region", zap.String("name", r.Name))
		}
	}
}
