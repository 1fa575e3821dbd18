package importer

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
	"github.com/talkincode/salesdash/internal/domain"
	"github.com/talkincode/salesdash/internal/store"
)

const exportSheet = "Orders"

// exportLine is the flat, file-facing shape of an exported order
type exportLine struct {
	OrderID      string `csv:"order_id"`
	OrderDate    string `csv:"order_date"`
	CustomerID   string `csv:"customer_id"`
	CustomerName string `csv:"customer_name"`
	Segment      string `csv:"segment"`
	ProductName  string `csv:"product_name"`
	Category     string `csv:"category"`
	Region       string `csv:"region"`
	Quantity     int    `csv:"quantity"`
	Sales        string `csv:"sales"`
	Discount     string `csv:"discount"`
	Profit       string `csv:"profit"`
}

var exportHeader = []string{
	"order_id", "order_date", "customer_id", "customer_name", "segment", "product_name",
	"category", "region", "quantity", "sales", "discount", "profit",
}

func toExportLine(r store.OrderExportRow) exportLine {
	return exportLine{
		OrderID:      r.OrderCode,
		OrderDate:    domain.FormatDateTime(r.OrderDate),
		CustomerID:   r.CustomerID,
		CustomerName: r.CustomerName,
		Segment:      r.Segment,
		ProductName:  r.ProductName,
		Category:     r.Category,
		Region:       r.RegionName,
		Quantity:     r.Quantity,
		Sales:        formatFloat(&r.Sales),
		Discount:     formatFloat(r.Discount),
		Profit:       formatFloat(r.Profit),
	}
}

func formatFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.4f", *f), "0"), ".")
}

// ExportFilename names an export produced at now
func ExportFilename(format Format, now time.Time) string {
	return fmt.Sprintf("sales_export_%s.%s", now.Format(domain.DateLayout), format)
}

// WriteCSV writes rows with a header line. An empty export still carries the header.
func WriteCSV(w io.Writer, rows []store.OrderExportRow) error {
	if len(rows) == 0 {
		_, err := io.WriteString(w, strings.Join(exportHeader, ",")+"\n")
		return err
	}
	lines := make([]exportLine, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, toExportLine(r))
	}
	data, err := gocsv.MarshalBytes(&lines)
	if err != nil {
		return errors.Wrap(err, "marshal csv")
	}
	_, err = w.Write(data)
	return err
}

// WriteXLSX writes rows to a single-sheet workbook. Numbers are stored as
// numeric cells, empty optionals as blank cells.
func WriteXLSX(w io.Writer, rows []store.OrderExportRow) error {
	book := excelize.NewFile()
	book.SetSheetName("Sheet1", exportSheet)

	for col, h := range exportHeader {
		book.SetCellValue(exportSheet, cell(col, 1), h)
	}
	for i, r := range rows {
		line := i + 2
		values := []interface{}{
			r.OrderCode, domain.FormatDateTime(r.OrderDate), r.CustomerID, r.CustomerName, r.Segment,
			r.ProductName, r.Category, r.RegionName, r.Quantity, r.Sales, optional(r.Discount), optional(r.Profit),
		}
		for col, v := range values {
			if v == nil {
				continue
			}
			book.SetCellValue(exportSheet, cell(col, line), v)
		}
	}
	return errors.Wrap(book.Write(w), "write xlsx")
}

func optional(f *float64) interface{} {
	if f == nil {
		return nil
	}
	return *f
}

// cell converts a 0-based column and 1-based line into an axis such as "B7"
func cell(col, line int) string {
	return fmt.Sprintf("%s%d", excelize.ToAlphaString(col), line)
}
