package model

import (
	"strconv"

	"github.com/cockroachdb/apd/v3"
)

// DownloadRecord is tally's output type — one normalized app download row.
// The field set and order are fixed: every record ever emitted or stored
// carries exactly these 17 values in Header order.
type DownloadRecord struct {
	Date          string // report date, YYYY-MM-DD
	Year          int
	Month         int
	Week          int    // ISO week number
	Weekday       string // English day name (Monday..Sunday)
	AppName       string
	SKU           string
	Country       string // ISO country code from the report
	Region        string // derived from Country
	Device        string
	InstallType   string // "Installation Type" / "Install Event" value, or "N/A"
	Units         int
	Proceeds      apd.Decimal // developer proceeds in the report currency
	CustomerPrice string
	Currency      string
	ProductType   string // one of the download-type codes: 1, 1F, 7
	PromoCode     string
}

// HeaderSentinel is the first cell of the canonical header row. The sink
// checks it to decide whether a store already has a header.
const HeaderSentinel = "Date"

// Header returns the canonical header row.
func Header() []string {
	return []string{
		"Date", "Year", "Month", "Week", "Weekday",
		"App Name", "SKU", "Country", "Region", "Device",
		"Install Type", "Units", "Proceeds", "Customer Price",
		"Currency", "Product Type", "Promo Code",
	}
}

// Row serializes the record into the canonical column order.
func (d *DownloadRecord) Row() []string {
	return []string{
		d.Date,
		strconv.Itoa(d.Year),
		strconv.Itoa(d.Month),
		strconv.Itoa(d.Week),
		d.Weekday,
		d.AppName,
		d.SKU,
		d.Country,
		d.Region,
		d.Device,
		d.InstallType,
		strconv.Itoa(d.Units),
		d.Proceeds.Text('f'),
		d.CustomerPrice,
		d.Currency,
		d.ProductType,
		d.PromoCode,
	}
}
