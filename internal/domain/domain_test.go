package domain

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateRange(t *testing.T) {
	r, err := ParseDateRange("2024-01-01", "2024-01-31")
	require.NoError(t, err)
	lo, ok := r.Lower()
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), lo)
	hi, ok := r.Upper()
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), hi)

	r, err = ParseDateRange("", "")
	require.NoError(t, err)
	_, ok = r.Lower()
	assert.False(t, ok)
	_, ok = r.Upper()
	assert.False(t, ok)

	_, err = ParseDateRange("2024/01/01", "")
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "start_date")

	_, err = ParseDateRange("", "2024-13-01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "end_date")
}

func TestParseDateTime(t *testing.T) {
	want := time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC)
	for _, s := range []string{"2024-03-05T10:30:00", "2024-03-05 10:30:00", "2024-03-05T10:30:00Z"} {
		got, err := ParseDateTime("order_date", s)
		require.NoError(t, err, s)
		assert.Equal(t, want, got, s)
	}

	got, err := ParseDateTime("order_date", "2024-03-05")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05T00:00:00", FormatDateTime(got))

	_, err = ParseDateTime("order_date", "")
	assert.True(t, IsValidation(err))
	_, err = ParseDateTime("order_date", "yesterday-ish")
	assert.True(t, IsValidation(err))
}

func TestOrderValidate(t *testing.T) {
	valid := func() Order {
		return Order{OrderCode: "CA-1", OrderDate: time.Now(), Quantity: 2, Sales: 10}
	}

	o := valid()
	assert.NoError(t, o.Validate())

	cases := map[string]func(o *Order){
		"order_id":   func(o *Order) { o.OrderCode = "" },
		"order_date": func(o *Order) { o.OrderDate = time.Time{} },
		"quantity":   func(o *Order) { o.Quantity = -1 },
		"sales":      func(o *Order) { o.Sales = math.NaN() },
		"profit":     func(o *Order) { p := math.Inf(1); o.Profit = &p },
	}
	for field, mutate := range cases {
		o := valid()
		mutate(&o)
		err := o.Validate()
		var ve *ValidationError
		require.True(t, errors.As(err, &ve), field)
		assert.Equal(t, field, ve.Field)
	}
}

func TestRowError(t *testing.T) {
	err := &RowError{Row: 2, Err: NewValidationError("quantity", "is required")}
	assert.Equal(t, "Error in row 2: quantity: is required", err.Error())
	assert.True(t, IsValidation(err))

	wrapped := fmt.Errorf("import: %w", err)
	var re *RowError
	require.True(t, errors.As(wrapped, &re))
	assert.Equal(t, 2, re.Row)
}
