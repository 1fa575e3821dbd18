package importer

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cast"
	"github.com/talkincode/salesdash/internal/domain"
)

// rawRow the import columns before type coercion
type rawRow struct {
	OrderID      string `mapstructure:"order_id"`
	OrderDate    string `mapstructure:"order_date"`
	ShipDate     string `mapstructure:"ship_date"`
	ShipMode     string `mapstructure:"ship_mode"`
	CustomerID   string `mapstructure:"customer_id"`
	CustomerName string `mapstructure:"customer_name"`
	Segment      string `mapstructure:"segment"`
	Country      string `mapstructure:"country"`
	City         string `mapstructure:"city"`
	State        string `mapstructure:"state"`
	PostalCode   string `mapstructure:"postal_code"`
	RegionID     string `mapstructure:"region_id"`
	Region       string `mapstructure:"region"`
	ProductID    string `mapstructure:"product_id"`
	ProductCode  string `mapstructure:"product_code"`
	Quantity     string `mapstructure:"quantity"`
	Sales        string `mapstructure:"sales"`
	Discount     string `mapstructure:"discount"`
	Profit       string `mapstructure:"profit"`
}

// mappedRow an order ready to insert, plus the references that still have to
// be resolved against the store
type mappedRow struct {
	Order       domain.Order
	RegionName  string
	ProductCode string
}

// mapRecord coerces one record into an order. The returned error is always a
// *domain.ValidationError.
func mapRecord(rec Record, format Format) (*mappedRow, error) {
	var raw rawRow
	if err := mapstructure.Decode(map[string]string(rec), &raw); err != nil {
		return nil, domain.NewValidationError("", err.Error())
	}

	m := &mappedRow{
		Order: domain.Order{
			OrderCode:    raw.OrderID,
			ShipMode:     raw.ShipMode,
			CustomerID:   raw.CustomerID,
			CustomerName: raw.CustomerName,
			Segment:      raw.Segment,
			Country:      raw.Country,
			City:         raw.City,
			State:        raw.State,
			PostalCode:   postalCode(raw.PostalCode),
		},
		RegionName:  raw.Region,
		ProductCode: raw.ProductCode,
	}
	o := &m.Order

	var err error
	if o.OrderDate, err = cellDate("order_date", raw.OrderDate, format); err != nil {
		return nil, err
	}
	if raw.ShipDate != "" {
		t, err := cellDate("ship_date", raw.ShipDate, format)
		if err != nil {
			return nil, err
		}
		o.ShipDate = &t
	}

	if o.RegionID, err = cellID("region_id", raw.RegionID); err != nil {
		return nil, err
	}
	// spreadsheet exports carry the product code in the product id column
	if id, err := cellID("product_id", raw.ProductID); err == nil {
		o.ProductID = id
	} else if m.ProductCode == "" {
		m.ProductCode = raw.ProductID
	} else {
		return nil, err
	}

	if o.Quantity, err = cellQuantity(raw.Quantity); err != nil {
		return nil, err
	}
	if raw.Sales == "" {
		return nil, domain.NewValidationError("sales", "is required")
	}
	if o.Sales, err = cellFloat("sales", raw.Sales); err != nil {
		return nil, err
	}
	if o.Discount, err = optionalFloat("discount", raw.Discount); err != nil {
		return nil, err
	}
	if o.Profit, err = optionalFloat("profit", raw.Profit); err != nil {
		return nil, err
	}

	if err := o.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Excel stores dates as days since 1899-12-30
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// sheetDateLayouts are the renderings of the built-in Excel date formats
// (ids 14, 15, 17 and 22) as the workbook reader returns them
var sheetDateLayouts = []string{
	"01-02-06",
	"2-Jan-06",
	"Jan-06",
	"1/2/06 15:04",
}

// cellDate parses a date cell. Serial numbers and the built-in Excel date
// renderings are only meaningful in workbooks.
func cellDate(field, s string, format Format) (time.Time, error) {
	if format == FormatXLSX {
		if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 && serial < 2958466 {
			days := math.Floor(serial)
			secs := math.Round((serial - days) * 86400)
			return excelEpoch.AddDate(0, 0, int(days)).Add(time.Duration(secs) * time.Second), nil
		}
		for _, layout := range sheetDateLayouts {
			if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
				return t, nil
			}
		}
	}
	return domain.ParseDateTime(field, s)
}

func cellFloat(field, s string) (float64, error) {
	f, err := cast.ToFloat64E(s)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, domain.NewValidationError(field, "invalid number \""+s+"\"")
	}
	return f, nil
}

func optionalFloat(field, s string) (*float64, error) {
	if s == "" || strings.EqualFold(s, "nan") {
		return nil, nil
	}
	f, err := cellFloat(field, s)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func cellQuantity(s string) (int, error) {
	if s == "" {
		return 0, domain.NewValidationError("quantity", "is required")
	}
	f, err := cellFloat("quantity", s)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, domain.NewValidationError("quantity", "must be a whole number, got \""+s+"\"")
	}
	return cast.ToInt(f), nil
}

func cellID(field, s string) (*int64, error) {
	if s == "" {
		return nil, nil
	}
	f, err := cellFloat(field, s)
	if err != nil || f <= 0 || f != math.Trunc(f) {
		return nil, domain.NewValidationError(field, "must be a positive integer id, got \""+s+"\"")
	}
	id := cast.ToInt64(f)
	return &id, nil
}

// postalCode drops the ".0" a numeric spreadsheet cell adds to zip codes
func postalCode(s string) string {
	return strings.TrimSuffix(s, ".0")
}
