package adminapi

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/talkincode/salesdash/internal/domain"
	"github.com/talkincode/salesdash/internal/importer"
	"github.com/talkincode/salesdash/internal/store"
	"github.com/talkincode/salesdash/internal/webserver"
	"go.uber.org/zap"
)

type orderPayload struct {
	OrderID      string   `json:"order_id" validate:"required,max=50"`
	OrderDate    string   `json:"order_date" validate:"required"`
	ShipDate     *string  `json:"ship_date"`
	ShipMode     string   `json:"ship_mode" validate:"max=50"`
	CustomerID   string   `json:"customer_id" validate:"max=50"`
	CustomerName string   `json:"customer_name" validate:"max=100"`
	Segment      string   `json:"segment" validate:"max=50"`
	Country      string   `json:"country" validate:"max=50"`
	City         string   `json:"city" validate:"max=50"`
	State        string   `json:"state" validate:"max=50"`
	PostalCode   string   `json:"postal_code" validate:"max=20"`
	RegionID     *int64   `json:"region_id" validate:"omitempty,gt=0"`
	ProductID    *int64   `json:"product_id" validate:"omitempty,gt=0"`
	Quantity     *int     `json:"quantity" validate:"required,gte=0"`
	Sales        *float64 `json:"sales" validate:"required"`
	Discount     *float64 `json:"discount"`
	Profit       *float64 `json:"profit"`
}

type orderUpdatePayload struct {
	OrderID      *string  `json:"order_id" validate:"omitempty,min=1,max=50"`
	OrderDate    *string  `json:"order_date"`
	ShipDate     *string  `json:"ship_date"`
	ShipMode     *string  `json:"ship_mode" validate:"omitempty,max=50"`
	CustomerID   *string  `json:"customer_id" validate:"omitempty,max=50"`
	CustomerName *string  `json:"customer_name" validate:"omitempty,max=100"`
	Segment      *string  `json:"segment" validate:"omitempty,max=50"`
	Country      *string  `json:"country" validate:"omitempty,max=50"`
	City         *string  `json:"city" validate:"omitempty,max=50"`
	State        *string  `json:"state" validate:"omitempty,max=50"`
	PostalCode   *string  `json:"postal_code" validate:"omitempty,max=20"`
	RegionID     *int64   `json:"region_id" validate:"omitempty,gt=0"`
	ProductID    *int64   `json:"product_id" validate:"omitempty,gt=0"`
	Quantity     *int     `json:"quantity" validate:"omitempty,gte=0"`
	Sales        *float64 `json:"sales"`
	Discount     *float64 `json:"discount"`
	Profit       *float64 `json:"profit"`
}

// orderView is the wire shape of an order
type orderView struct {
	ID           int64    `json:"id"`
	OrderID      string   `json:"order_id"`
	OrderDate    string   `json:"order_date"`
	ShipDate     *string  `json:"ship_date"`
	ShipMode     string   `json:"ship_mode"`
	CustomerID   string   `json:"customer_id"`
	CustomerName string   `json:"customer_name"`
	Segment      string   `json:"segment"`
	Country      string   `json:"country"`
	City         string   `json:"city"`
	State        string   `json:"state"`
	PostalCode   string   `json:"postal_code"`
	RegionID     *int64   `json:"region_id"`
	ProductID    *int64   `json:"product_id"`
	Quantity     int      `json:"quantity"`
	Sales        float64  `json:"sales"`
	Discount     *float64 `json:"discount"`
	Profit       *float64 `json:"profit"`
}

func toOrderView(o *domain.Order) orderView {
	v := orderView{
		ID:           o.ID,
		OrderID:      o.OrderCode,
		OrderDate:    domain.FormatDateTime(o.OrderDate),
		ShipMode:     o.ShipMode,
		CustomerID:   o.CustomerID,
		CustomerName: o.CustomerName,
		Segment:      o.Segment,
		Country:      o.Country,
		City:         o.City,
		State:        o.State,
		PostalCode:   o.PostalCode,
		RegionID:     o.RegionID,
		ProductID:    o.ProductID,
		Quantity:     o.Quantity,
		Sales:        o.Sales,
		Discount:     o.Discount,
		Profit:       o.Profit,
	}
	if o.ShipDate != nil {
		s := domain.FormatDateTime(*o.ShipDate)
		v.ShipDate = &s
	}
	return v
}

func toOrderViews(orders []domain.Order) []orderView {
	views := make([]orderView, 0, len(orders))
	for i := range orders {
		views = append(views, toOrderView(&orders[i]))
	}
	return views
}

func optionalDate(field string, s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := domain.ParseDateTime(field, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// toOrder maps a create payload onto a new validated order
func (p *orderPayload) toOrder() (*domain.Order, error) {
	orderDate, err := domain.ParseDateTime("order_date", p.OrderDate)
	if err != nil {
		return nil, err
	}
	shipDate, err := optionalDate("ship_date", p.ShipDate)
	if err != nil {
		return nil, err
	}
	o := &domain.Order{
		OrderCode:    strings.TrimSpace(p.OrderID),
		OrderDate:    orderDate,
		ShipDate:     shipDate,
		ShipMode:     p.ShipMode,
		CustomerID:   p.CustomerID,
		CustomerName: p.CustomerName,
		Segment:      p.Segment,
		Country:      p.Country,
		City:         p.City,
		State:        p.State,
		PostalCode:   p.PostalCode,
		RegionID:     p.RegionID,
		ProductID:    p.ProductID,
		Quantity:     *p.Quantity,
		Sales:        *p.Sales,
		Discount:     p.Discount,
		Profit:       p.Profit,
	}
	return o, o.Validate()
}

// apply patches the supplied fields onto o and revalidates it
func (p *orderUpdatePayload) apply(o *domain.Order) error {
	if p.OrderID != nil {
		o.OrderCode = strings.TrimSpace(*p.OrderID)
	}
	if p.OrderDate != nil {
		t, err := domain.ParseDateTime("order_date", *p.OrderDate)
		if err != nil {
			return err
		}
		o.OrderDate = t
	}
	if p.ShipDate != nil {
		t, err := optionalDate("ship_date", p.ShipDate)
		if err != nil {
			return err
		}
		o.ShipDate = t
	}
	setString(&o.ShipMode, p.ShipMode)
	setString(&o.CustomerID, p.CustomerID)
	setString(&o.CustomerName, p.CustomerName)
	setString(&o.Segment, p.Segment)
	setString(&o.Country, p.Country)
	setString(&o.City, p.City)
	setString(&o.State, p.State)
	setString(&o.PostalCode, p.PostalCode)
	if p.RegionID != nil {
		o.RegionID = p.RegionID
	}
	if p.ProductID != nil {
		o.ProductID = p.ProductID
	}
	if p.Quantity != nil {
		o.Quantity = *p.Quantity
	}
	if p.Sales != nil {
		o.Sales = *p.Sales
	}
	if p.Discount != nil {
		o.Discount = p.Discount
	}
	if p.Profit != nil {
		o.Profit = p.Profit
	}
	return o.Validate()
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func (a *API) registerOrderRoutes(s *webserver.AdminServer) {
	s.ApiGET("/orders", a.listOrders)
	s.ApiGET("/orders/export", a.exportOrders)
	s.ApiPOST("/orders/import", a.importOrders)
	s.ApiGET("/orders/:id", a.getOrder)
	s.ApiPOST("/orders", a.createOrder)
	s.ApiPUT("/orders/:id", a.updateOrder)
	s.ApiDELETE("/orders/:id", a.deleteOrder)
}

func parseOrderFilter(c echo.Context) (store.OrderFilter, error) {
	var (
		filter store.OrderFilter
		err    error
	)
	if filter.Dates, err = parseDateRange(c); err != nil {
		return filter, err
	}
	if filter.RegionID, err = parseIDQuery(c, "region_id"); err != nil {
		return filter, err
	}
	if filter.ProductID, err = parseIDQuery(c, "product_id"); err != nil {
		return filter, err
	}
	return filter, nil
}

func (a *API) listOrders(c echo.Context) error {
	filter, err := parseOrderFilter(c)
	if err != nil {
		return handleValidationError(c, err)
	}
	orders, err := a.orders.List(c.Request().Context(), filter)
	if err != nil {
		return storeError(c, err, "orders", false)
	}
	return ok(c, toOrderViews(orders))
}

func (a *API) getOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	o, err := a.orders.GetByID(c.Request().Context(), id)
	if err != nil {
		return storeError(c, err, "order", false)
	}
	return ok(c, toOrderView(o))
}

func (a *API) createOrder(c echo.Context) error {
	var payload orderPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse order parameters", errorMessage(err))
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	o, err := payload.toOrder()
	if err != nil {
		return handleValidationError(c, err)
	}
	if err := a.orders.Create(c.Request().Context(), o); err != nil {
		return storeError(c, err, "order", true)
	}
	return created(c, toOrderView(o))
}

func (a *API) updateOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	var payload orderUpdatePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse order parameters", errorMessage(err))
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	o, err := a.orders.Update(c.Request().Context(), id, payload.apply)
	if err != nil {
		return storeError(c, err, "order", true)
	}
	return ok(c, toOrderView(o))
}

func (a *API) deleteOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	if err := a.orders.Delete(c.Request().Context(), id); err != nil {
		return storeError(c, err, "order", true)
	}
	return c.NoContent(http.StatusNoContent)
}

type importResponse struct {
	Message      string   `json:"message"`
	SuccessCount int      `json:"success_count"`
	Errors       []string `json:"errors"`
}

func (a *API) importOrders(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return fail(c, http.StatusBadRequest, "NO_FILE", "No file provided", nil)
	}
	if strings.TrimSpace(file.Filename) == "" {
		return fail(c, http.StatusBadRequest, "NO_FILE", "No file selected", nil)
	}
	if _, err := importer.DetectFormat(file.Filename); err != nil {
		return fail(c, http.StatusBadRequest, "UNSUPPORTED_FORMAT", "Unsupported file format", err.Error())
	}
	src, err := file.Open()
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_FILE", "Error processing file: "+err.Error(), nil)
	}
	defer src.Close()

	res, err := a.importer.Import(c.Request().Context(), file.Filename, src)
	if err != nil {
		var unsupported *domain.UnsupportedFormatError
		switch {
		case errors.As(err, &unsupported):
			return fail(c, http.StatusBadRequest, "INVALID_FILE", "Error processing file: "+unsupported.Error(), nil)
		case domain.IsValidation(err):
			return handleValidationError(c, err)
		default:
			zap.S().Errorf("import %s: %v", file.Filename, err)
			return storeError(c, err, "orders", true)
		}
	}

	status := http.StatusCreated
	if res.SuccessCount == 0 {
		status = http.StatusBadRequest
	}
	return c.JSON(status, importResponse{
		Message:      fmt.Sprintf("Successfully imported %d orders", res.SuccessCount),
		SuccessCount: res.SuccessCount,
		Errors:       res.Errors,
	})
}

func (a *API) exportOrders(c echo.Context) error {
	filter, err := parseOrderFilter(c)
	if err != nil {
		return handleValidationError(c, err)
	}
	format := importer.Format(strings.ToLower(strings.TrimSpace(c.QueryParam("format"))))
	if format == "" {
		format = importer.FormatCSV
	}
	if format != importer.FormatCSV && format != importer.FormatXLSX {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "format: must be csv or xlsx", nil)
	}

	rows, err := a.orders.ExportRows(c.Request().Context(), filter)
	if err != nil {
		return storeError(c, err, "orders", false)
	}

	var (
		buf         bytes.Buffer
		contentType string
	)
	if format == importer.FormatXLSX {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		err = importer.WriteXLSX(&buf, rows)
	} else {
		contentType = "text/csv; charset=utf-8"
		err = importer.WriteCSV(&buf, rows)
	}
	if err != nil {
		zap.S().Errorf("export orders: %v", err)
		return fail(c, http.StatusInternalServerError, "EXPORT_FAILED", "Failed to export orders", err.Error())
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", importer.ExportFilename(format, time.Now())))
	return c.Blob(http.StatusOK, contentType, buf.Bytes())
}

func errorMessage(err error) interface{} {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Message
	}
	return err.Error()
}
