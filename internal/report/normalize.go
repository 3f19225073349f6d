// Package report normalizes raw App Store sales reports into canonical
// download records.
package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/crimson-sun/tally/internal/model"
)

// Source column names in the raw report.
const (
	colProductType   = "Product Type Identifier"
	colTitle         = "Title"
	colSKU           = "SKU"
	colCountry       = "Country Code"
	colDevice        = "Device"
	colUnits         = "Units"
	colProceeds      = "Developer Proceeds"
	colCustomerPrice = "Customer Price"
	colCurrency      = "Customer Currency"
	colPromoCode     = "Promo Code"
)

// installTypeColumns are the candidate source columns for Install Type,
// in precedence order. The column was renamed across report versions;
// when neither exists the field falls back to installTypeMissing.
var installTypeColumns = []string{"Installation Type", "Install Event"}

const installTypeMissing = "N/A"

// downloadProductTypes are the product-type codes that denote app
// acquisitions (paid, free, redownload) rather than in-app purchases
// or subscriptions.
var downloadProductTypes = map[string]bool{
	"1":  true,
	"1F": true,
	"7":  true,
}

// MalformedReportError indicates a data row is missing a required column.
// A shifted or missing column usually means an upstream schema change, so
// the whole report fails rather than dropping the row.
type MalformedReportError struct {
	Row    int // zero-based data row index
	Column string
}

func (e *MalformedReportError) Error() string {
	return fmt.Sprintf("malformed report: row %d: missing column %q", e.Row, e.Column)
}

// header maps column names to positions in the raw report's first line.
type header map[string]int

// get returns the value of the named column in fields, or a
// MalformedReportError when the column is absent or the row is too short.
func (h header) get(fields []string, row int, column string) (string, error) {
	idx, ok := h[column]
	if !ok || idx >= len(fields) {
		return "", &MalformedReportError{Row: row, Column: column}
	}
	return fields[idx], nil
}

// Normalize parses a raw daily report into download records in the canonical
// 17-field order. A nil or empty report yields an empty result with no
// error, as does a report with no download-type rows.
func Normalize(raw *model.RawReport) ([]model.DownloadRecord, error) {
	if raw.Empty() {
		return nil, nil
	}

	lines := strings.Split(strings.TrimRight(raw.Body, "\n"), "\n")
	hdr := parseHeader(lines[0])

	cal, err := calendarFor(raw.Date)
	if err != nil {
		return nil, fmt.Errorf("normalize: report date %q: %w", raw.Date, err)
	}

	var records []model.DownloadRecord
	for i, line := range lines[1:] {
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")

		productType, err := hdr.get(fields, i, colProductType)
		if err != nil {
			return nil, err
		}
		if !downloadProductTypes[productType] {
			continue
		}

		rec, err := buildRecord(hdr, fields, i, raw.Date, cal, productType)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseHeader(line string) header {
	h := header{}
	for i, name := range strings.Split(line, "\t") {
		h[name] = i
	}
	return h
}

// calendar holds the date-derived fields, uniform across one report.
type calendar struct {
	year    int
	month   int
	week    int
	weekday string
}

func calendarFor(date string) (calendar, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return calendar{}, err
	}
	_, week := t.ISOWeek()
	return calendar{
		year:    t.Year(),
		month:   int(t.Month()),
		week:    week,
		weekday: t.Weekday().String(),
	}, nil
}

func buildRecord(hdr header, fields []string, row int, date string, cal calendar, productType string) (model.DownloadRecord, error) {
	var rec model.DownloadRecord

	strCols := []struct {
		dst    *string
		column string
	}{
		{&rec.AppName, colTitle},
		{&rec.SKU, colSKU},
		{&rec.Country, colCountry},
		{&rec.Device, colDevice},
		{&rec.CustomerPrice, colCustomerPrice},
		{&rec.Currency, colCurrency},
		{&rec.PromoCode, colPromoCode},
	}
	for _, c := range strCols {
		v, err := hdr.get(fields, row, c.column)
		if err != nil {
			return model.DownloadRecord{}, err
		}
		*c.dst = v
	}

	unitsStr, err := hdr.get(fields, row, colUnits)
	if err != nil {
		return model.DownloadRecord{}, err
	}
	units, err := strconv.Atoi(strings.TrimSpace(unitsStr))
	if err != nil {
		return model.DownloadRecord{}, fmt.Errorf("malformed report: row %d: units %q: %w", row, unitsStr, err)
	}
	rec.Units = units

	proceedsStr, err := hdr.get(fields, row, colProceeds)
	if err != nil {
		return model.DownloadRecord{}, err
	}
	if _, _, err := rec.Proceeds.SetString(strings.TrimSpace(proceedsStr)); err != nil {
		return model.DownloadRecord{}, fmt.Errorf("malformed report: row %d: proceeds %q: %w", row, proceedsStr, err)
	}

	rec.InstallType = resolveInstallType(hdr, fields)

	rec.Date = date
	rec.Year = cal.year
	rec.Month = cal.month
	rec.Week = cal.week
	rec.Weekday = cal.weekday
	rec.ProductType = productType
	rec.Region = RegionFor(rec.Country)

	return rec, nil
}

// resolveInstallType walks the candidate columns in precedence order.
// Unlike the required columns, absence here is tolerated: older report
// versions predate the field entirely.
func resolveInstallType(hdr header, fields []string) string {
	for _, column := range installTypeColumns {
		if idx, ok := hdr[column]; ok && idx < len(fields) {
			return fields[idx]
		}
	}
	return installTypeMissing
}
