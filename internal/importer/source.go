package importer

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
	"github.com/talkincode/salesdash/internal/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Format of an uploaded file, derived from its extension
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// DetectFormat maps a filename to a Format. Both .xls and .xlsx are routed to
// the spreadsheet reader; legacy binary .xls content is rejected when opened.
func DetectFormat(filename string) (Format, error) {
	if strings.TrimSpace(filename) == "" {
		return "", &domain.UnsupportedFormatError{Filename: filename, Reason: "no file selected"}
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return FormatCSV, nil
	case ".xls", ".xlsx":
		return FormatXLSX, nil
	default:
		return "", &domain.UnsupportedFormatError{Filename: filename}
	}
}

// Record one data row keyed by normalized header name
type Record map[string]string

// Blank reports whether every cell of the row is empty
func (r Record) Blank() bool {
	for _, v := range r {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// ReadRecords parses the whole file into records. Any failure here is a
// file-level error: nothing has been imported yet.
func ReadRecords(filename string, r io.Reader) ([]Record, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatCSV:
		return readCSV(filename, r)
	default:
		return readXLSX(filename, r)
	}
}

func readCSV(filename string, r io.Reader) ([]Record, error) {
	// strip a UTF-8 byte order mark written by spreadsheet exports
	body := transform.NewReader(r, unicode.BOMOverride(transform.Nop))
	maps, err := gocsv.CSVToMaps(body)
	if err != nil {
		return nil, &domain.UnsupportedFormatError{Filename: filename, Reason: err.Error()}
	}
	records := make([]Record, 0, len(maps))
	for _, m := range maps {
		rec := make(Record, len(m))
		for k, v := range m {
			rec[NormalizeHeader(k)] = strings.TrimSpace(v)
		}
		records = append(records, rec)
	}
	return records, nil
}

func readXLSX(filename string, r io.Reader) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read upload")
	}
	book, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &domain.UnsupportedFormatError{Filename: filename, Reason: err.Error()}
	}
	sheet := firstSheet(book)
	if sheet == "" {
		return nil, &domain.UnsupportedFormatError{Filename: filename, Reason: "workbook has no sheets"}
	}

	rows := book.GetRows(sheet)
	if len(rows) == 0 {
		return []Record{}, nil
	}
	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = NormalizeHeader(h)
	}
	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(Record, len(header))
		for i, h := range header {
			if h == "" {
				continue
			}
			if i < len(row) {
				rec[h] = strings.TrimSpace(row[i])
			} else {
				rec[h] = ""
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// firstSheet returns the name of the sheet with the lowest index
func firstSheet(book *excelize.File) string {
	var (
		name  string
		index int
	)
	for i, n := range book.GetSheetMap() {
		if name == "" || i < index {
			name, index = n, i
		}
	}
	return name
}

// NormalizeHeader case-folds a column title and turns separators into
// underscores, so "Order ID" and "Sub-Category" become order_id and sub_category.
func NormalizeHeader(h string) string {
	h = cases.Fold().String(strings.TrimSpace(h))
	h = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '.', '/':
			return '_'
		}
		return r
	}, h)
	for strings.Contains(h, "__") {
		h = strings.ReplaceAll(h, "__", "_")
	}
	return strings.Trim(h, "_")
}
