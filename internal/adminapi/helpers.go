package adminapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/talkincode/salesdash/internal/domain"
	"github.com/talkincode/salesdash/internal/store"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type errorResponse struct {
	Error   string      `json:"error"`
	Code    string      `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

func created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, data)
}

func fail(c echo.Context, status int, code, msg string, details interface{}) error {
	return c.JSON(status, errorResponse{Error: msg, Code: code, Details: details})
}

// parseIDParam reads a positive integer path parameter
func parseIDParam(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, c.Param(name))
	}
	return id, nil
}

// parseIDQuery reads an optional positive integer query parameter
func parseIDQuery(c echo.Context, name string) (*int64, error) {
	s := strings.TrimSpace(c.QueryParam(name))
	if s == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return nil, domain.NewValidationError(name, "must be a positive integer")
	}
	return &id, nil
}

func parseDateRange(c echo.Context) (domain.DateRange, error) {
	return domain.ParseDateRange(c.QueryParam("start_date"), c.QueryParam("end_date"))
}

// handleValidationError renders payload validation failures as 400
func handleValidationError(c echo.Context, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			details[fe.Field()] = validationMessage(fe)
		}
		first := verrs[0]
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR",
			fmt.Sprintf("%s: %s", first.Field(), validationMessage(first)), details)
	}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", ve.Error(), nil)
	}
	return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "gt", "gte", "lt", "lte":
		return fmt.Sprintf("must be %s %s", map[string]string{"gt": ">", "gte": ">=", "lt": "<", "lte": "<="}[fe.Tag()], fe.Param())
	default:
		return "failed " + fe.Tag() + " check"
	}
}

// storeError maps a repository error onto the http response. Failed writes
// are client errors carrying the store message; failed reads are server
// errors. An unreachable database is always 503.
func storeError(c echo.Context, err error, entity string, write bool) error {
	upper := strings.ToUpper(strings.ReplaceAll(entity, " ", "_"))
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fail(c, http.StatusNotFound, upper+"_NOT_FOUND", cases.Title(language.English).String(entity)+" not found", nil)
	case errors.Is(err, domain.ErrConflict):
		return fail(c, http.StatusConflict, upper+"_CONFLICT", err.Error(), nil)
	case domain.IsValidation(err):
		return handleValidationError(c, err)
	case store.IsUnavailable(err):
		zap.S().Errorf("database unavailable: %v", err)
		return fail(c, http.StatusServiceUnavailable, "DATABASE_UNAVAILABLE", "Database is unavailable", nil)
	case write:
		return fail(c, http.StatusBadRequest, "DATABASE_ERROR", err.Error(), nil)
	default:
		zap.S().Errorf("query %s: %v", entity, err)
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query "+entity, err.Error())
	}
}
