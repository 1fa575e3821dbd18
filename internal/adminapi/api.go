// Package adminapi implements the JSON http handlers of the sales api
package adminapi

import (
	"github.com/talkincode/salesdash/config"
	"github.com/talkincode/salesdash/internal/analytics"
	"github.com/talkincode/salesdash/internal/importer"
	"github.com/talkincode/salesdash/internal/store"
	"github.com/talkincode/salesdash/internal/webserver"
	"gorm.io/gorm"
)

// API holds the dependencies shared by every handler
type API struct {
	orders    store.OrderRepository
	products  store.ProductRepository
	regions   store.RegionRepository
	analytics *analytics.Aggregator
	importer  *importer.Importer
}

func New(db *gorm.DB, cfg *config.AppConfig) *API {
	s := store.New(db)
	return &API{
		orders:    s.Orders,
		products:  s.Products,
		regions:   s.Regions,
		analytics: analytics.NewAggregator(db),
		importer: importer.New(s, importer.Options{
			Workers: cfg.Import.Workers,
			MaxRows: cfg.Import.MaxRows,
		}),
	}
}

// Register mounts every route on the server
func (a *API) Register(s *webserver.AdminServer) {
	a.registerOrderRoutes(s)
	a.registerProductRoutes(s)
	a.registerRegionRoutes(s)
	a.registerCustomerRoutes(s)
	a.registerAnalyticsRoutes(s)
}
