package adminapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/salesdash/internal/domain"
	"github.com/talkincode/salesdash/internal/webserver"
)

type regionPayload struct {
	RegionName string `json:"region_name" validate:"required,min=1,max=50"`
	Country    string `json:"country" validate:"omitempty,max=50"`
}

type regionUpdatePayload struct {
	RegionName *string `json:"region_name" validate:"omitempty,min=1,max=50"`
	Country    *string `json:"country" validate:"omitempty,max=50"`
}

type regionView struct {
	ID         int64  `json:"id"`
	RegionName string `json:"region_name"`
	Country    string `json:"country"`
}

func toRegionView(r *domain.Region) regionView {
	return regionView{ID: r.ID, RegionName: r.Name, Country: r.Country}
}

func toRegionViews(regions []domain.Region) []regionView {
	views := make([]regionView, 0, len(regions))
	for i := range regions {
		views = append(views, toRegionView(&regions[i]))
	}
	return views
}

// registerRegionRoutes registers region CRUD routes
func (a *API) registerRegionRoutes(s *webserver.AdminServer) {
	s.ApiGET("/regions", a.listRegions)
	s.ApiGET("/regions/:id", a.getRegion)
	s.ApiPOST("/regions", a.createRegion)
	s.ApiPUT("/regions/:id", a.updateRegion)
	s.ApiDELETE("/regions/:id", a.deleteRegion)
}

func (a *API) listRegions(c echo.Context) error {
	regions, err := a.regions.List(c.Request().Context())
	if err != nil {
		return storeError(c, err, "regions", false)
	}
	return ok(c, toRegionViews(regions))
}

func (a *API) getRegion(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid region ID", nil)
	}
	r, err := a.regions.GetByID(c.Request().Context(), id)
	if err != nil {
		return storeError(c, err, "region", false)
	}
	return ok(c, toRegionView(r))
}

func (a *API) createRegion(c echo.Context) error {
	var payload regionPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse region parameters", errorMessage(err))
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	region := &domain.Region{
		Name:    strings.TrimSpace(payload.RegionName),
		Country: strings.TrimSpace(payload.Country),
	}
	if err := region.Validate(); err != nil {
		return handleValidationError(c, err)
	}
	if err := a.regions.Create(c.Request().Context(), region); err != nil {
		return storeError(c, err, "region", true)
	}
	return created(c, toRegionView(region))
}

func (a *API) updateRegion(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid region ID", nil)
	}
	var payload regionUpdatePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse region parameters", errorMessage(err))
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	r, err := a.regions.Update(c.Request().Context(), id, func(r *domain.Region) error {
		if payload.RegionName != nil {
			r.Name = strings.TrimSpace(*payload.RegionName)
		}
		if payload.Country != nil {
			r.Country = strings.TrimSpace(*payload.Country)
		}
		return r.Validate()
	})
	if err != nil {
		return storeError(c, err, "region", true)
	}
	return ok(c, toRegionView(r))
}

// deleteRegion refuses to delete a region still referenced by orders
func (a *API) deleteRegion(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid region ID", nil)
	}
	if err := a.regions.Delete(c.Request().Context(), id); err != nil {
		return storeError(c, err, "region", true)
	}
	return c.NoContent(http.StatusNoContent)
}
