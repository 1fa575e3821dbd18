package adminapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/salesdash/internal/analytics"
	"github.com/talkincode/salesdash/internal/webserver"
)

// registerAnalyticsRoutes registers the read-only aggregate endpoints. All of
// them accept the optional start_date and end_date query parameters.
func (a *API) registerAnalyticsRoutes(s *webserver.AdminServer) {
	s.ApiGET("/analytics/summary", a.summary)
	s.ApiGET("/analytics/sales-by-region", a.salesByRegion)
	s.ApiGET("/analytics/sales-by-product", a.salesByProduct)
	s.ApiGET("/analytics/sales-trend", a.salesTrend)
	s.ApiGET("/analytics/top-products", a.topProducts)
	s.ApiGET("/analytics/customer-segments", a.customerSegments)
}

func (a *API) summary(c echo.Context) error {
	dates, err := parseDateRange(c)
	if err != nil {
		return handleValidationError(c, err)
	}
	res, err := a.analytics.Summary(c.Request().Context(), dates)
	if err != nil {
		return storeError(c, err, "summary", false)
	}
	return ok(c, res)
}

func (a *API) salesByRegion(c echo.Context) error {
	dates, err := parseDateRange(c)
	if err != nil {
		return handleValidationError(c, err)
	}
	res, err := a.analytics.SalesByRegion(c.Request().Context(), dates)
	if err != nil {
		return storeError(c, err, "sales by region", false)
	}
	if res == nil {
		res = []analytics.RegionSales{}
	}
	return ok(c, res)
}

func (a *API) salesByProduct(c echo.Context) error {
	dates, err := parseDateRange(c)
	if err != nil {
		return handleValidationError(c, err)
	}
	res, err := a.analytics.SalesByProduct(c.Request().Context(), dates)
	if err != nil {
		return storeError(c, err, "sales by product", false)
	}
	if res == nil {
		res = []analytics.ProductSales{}
	}
	return ok(c, res)
}

func (a *API) salesTrend(c echo.Context) error {
	dates, err := parseDateRange(c)
	if err != nil {
		return handleValidationError(c, err)
	}
	period, err := analytics.ParsePeriod(c.QueryParam("period"))
	if err != nil {
		return handleValidationError(c, err)
	}
	res, err := a.analytics.SalesTrend(c.Request().Context(), dates, period)
	if err != nil {
		return storeError(c, err, "sales trend", false)
	}
	if res == nil {
		res = []analytics.TrendPoint{}
	}
	return ok(c, res)
}

func (a *API) topProducts(c echo.Context) error {
	dates, err := parseDateRange(c)
	if err != nil {
		return handleValidationError(c, err)
	}
	limit := analytics.DefaultTopLimit
	if s := strings.TrimSpace(c.QueryParam("limit")); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "limit: must be a positive integer", nil)
		}
		limit = min(n, analytics.MaxTopLimit)
	}
	res, err := a.analytics.TopProducts(c.Request().Context(), dates, limit)
	if err != nil {
		return storeError(c, err, "top products", false)
	}
	if res == nil {
		res = []analytics.ProductSales{}
	}
	return ok(c, res)
}

func (a *API) customerSegments(c echo.Context) error {
	dates, err := parseDateRange(c)
	if err != nil {
		return handleValidationError(c, err)
	}
	res, err := a.analytics.CustomerSegments(c.Request().Context(), dates)
	if err != nil {
		return storeError(c, err, "customer segments", false)
	}
	if res == nil {
		res = []analytics.SegmentSales{}
	}
	return ok(c, res)
}
