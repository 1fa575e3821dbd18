package adminapi

import (
	"github.com/labstack/echo/v4"
	"github.com/talkincode/salesdash/internal/store"
	"github.com/talkincode/salesdash/internal/webserver"
)

func (a *API) registerCustomerRoutes(s *webserver.AdminServer) {
	s.ApiGET("/customers", a.listCustomers)
}

func (a *API) listCustomers(c echo.Context) error {
	customers, err := a.orders.Customers(c.Request().Context())
	if err != nil {
		return storeError(c, err, "customers", false)
	}
	if customers == nil {
		customers = []store.Customer{}
	}
	return ok(c, customers)
}
