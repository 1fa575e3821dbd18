package analytics

import (
	"fmt"
	"strings"

	"github.com/talkincode/salesdash/internal/domain"
)

// Period selects the sales trend bucket size
type Period string

const (
	Daily   Period = "daily"
	Weekly  Period = "weekly"
	Monthly Period = "monthly"
)

// ParsePeriod maps the query parameter to a Period; empty means Daily.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return Daily, nil
	case Daily, Weekly, Monthly:
		return p, nil
	default:
		return "", domain.NewValidationError("period", fmt.Sprintf("must be one of daily, weekly, monthly, got %q", s))
	}
}

// bucketExpr returns the SQL expression labelling column with its bucket:
// YYYY-MM-DD for days, YYYY-Www (ISO-8601 year and week) for weeks and
// YYYY-MM for months. Labels of one period sort chronologically.
func bucketExpr(dialect string, period Period, column string) (string, error) {
	if isPostgres(dialect) {
		switch period {
		case Daily:
			return fmt.Sprintf("to_char(%s, 'YYYY-MM-DD')", column), nil
		case Weekly:
			return fmt.Sprintf(`to_char(%s, 'IYYY-"W"IW')`, column), nil
		case Monthly:
			return fmt.Sprintf("to_char(%s, 'YYYY-MM')", column), nil
		}
		return "", domain.NewValidationError("period", "unsupported period "+string(period))
	}

	switch period {
	case Daily:
		return fmt.Sprintf("strftime('%%Y-%%m-%%d', %s)", column), nil
	case Weekly:
		// The ISO week is the one holding the Thursday of the same Monday-based
		// week; its year is the ISO year and its day-of-year gives the week number.
		thursday := fmt.Sprintf("date(%s, '-3 days', 'weekday 4')", column)
		return fmt.Sprintf("printf('%%s-W%%02d', strftime('%%Y', %s), (CAST(strftime('%%j', %s) AS INTEGER) - 1) / 7 + 1)",
			thursday, thursday), nil
	case Monthly:
		return fmt.Sprintf("strftime('%%Y-%%m', %s)", column), nil
	}
	return "", domain.NewValidationError("period", "unsupported period "+string(period))
}
