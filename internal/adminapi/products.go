package adminapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/salesdash/internal/domain"
	"github.com/talkincode/salesdash/internal/webserver"
)

type productPayload struct {
	ProductID   string   `json:"product_id" validate:"required,max=50"`
	Category    string   `json:"category" validate:"max=50"`
	SubCategory string   `json:"sub_category" validate:"max=50"`
	ProductName string   `json:"product_name" validate:"required,max=255"`
	UnitPrice   *float64 `json:"unit_price" validate:"required,gte=0"`
}

type productUpdatePayload struct {
	ProductID   *string  `json:"product_id" validate:"omitempty,min=1,max=50"`
	Category    *string  `json:"category" validate:"omitempty,max=50"`
	SubCategory *string  `json:"sub_category" validate:"omitempty,max=50"`
	ProductName *string  `json:"product_name" validate:"omitempty,min=1,max=255"`
	UnitPrice   *float64 `json:"unit_price" validate:"omitempty,gte=0"`
}

// productView is the wire shape of a product; product_id is the catalog code
type productView struct {
	ID          int64   `json:"id"`
	ProductID   string  `json:"product_id"`
	Category    string  `json:"category"`
	SubCategory string  `json:"sub_category"`
	ProductName string  `json:"product_name"`
	UnitPrice   float64 `json:"unit_price"`
}

func toProductView(p *domain.Product) productView {
	return productView{
		ID:          p.ID,
		ProductID:   p.ProductCode,
		Category:    p.Category,
		SubCategory: p.SubCategory,
		ProductName: p.Name,
		UnitPrice:   p.UnitPrice,
	}
}

func toProductViews(products []domain.Product) []productView {
	views := make([]productView, 0, len(products))
	for i := range products {
		views = append(views, toProductView(&products[i]))
	}
	return views
}

func (p *productUpdatePayload) apply(product *domain.Product) error {
	if p.ProductID != nil {
		product.ProductCode = strings.TrimSpace(*p.ProductID)
	}
	setString(&product.Category, p.Category)
	setString(&product.SubCategory, p.SubCategory)
	if p.ProductName != nil {
		product.Name = strings.TrimSpace(*p.ProductName)
	}
	if p.UnitPrice != nil {
		product.UnitPrice = *p.UnitPrice
	}
	return product.Validate()
}

// registerProductRoutes registers product CRUD and the category listing
func (a *API) registerProductRoutes(s *webserver.AdminServer) {
	s.ApiGET("/products", a.listProducts)
	s.ApiGET("/products/categories", a.listCategories)
	s.ApiGET("/products/:id", a.getProduct)
	s.ApiPOST("/products", a.createProduct)
	s.ApiPUT("/products/:id", a.updateProduct)
	s.ApiDELETE("/products/:id", a.deleteProduct)
}

func (a *API) listProducts(c echo.Context) error {
	products, err := a.products.List(c.Request().Context())
	if err != nil {
		return storeError(c, err, "products", false)
	}
	return ok(c, toProductViews(products))
}

func (a *API) listCategories(c echo.Context) error {
	categories, err := a.products.Categories(c.Request().Context())
	if err != nil {
		return storeError(c, err, "categories", false)
	}
	if categories == nil {
		categories = []string{}
	}
	return ok(c, categories)
}

func (a *API) getProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	p, err := a.products.GetByID(c.Request().Context(), id)
	if err != nil {
		return storeError(c, err, "product", false)
	}
	return ok(c, toProductView(p))
}

func (a *API) createProduct(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product parameters", errorMessage(err))
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	product := &domain.Product{
		ProductCode: strings.TrimSpace(payload.ProductID),
		Category:    payload.Category,
		SubCategory: payload.SubCategory,
		Name:        strings.TrimSpace(payload.ProductName),
		UnitPrice:   *payload.UnitPrice,
	}
	if err := product.Validate(); err != nil {
		return handleValidationError(c, err)
	}
	if err := a.products.Create(c.Request().Context(), product); err != nil {
		return storeError(c, err, "product", true)
	}
	return created(c, toProductView(product))
}

func (a *API) updateProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var payload productUpdatePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product parameters", errorMessage(err))
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	p, err := a.products.Update(c.Request().Context(), id, payload.apply)
	if err != nil {
		return storeError(c, err, "product", true)
	}
	return ok(c, toProductView(p))
}

// deleteProduct refuses to delete a product still referenced by orders
func (a *API) deleteProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	if err := a.products.Delete(c.Request().Context(), id); err != nil {
		return storeError(c, err, "product", true)
	}
	return c.NoContent(http.StatusNoContent)
}
