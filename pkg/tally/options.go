package tally

import (
	"context"
	"time"
)

// RowStore is the persistence interface a custom store must satisfy:
// ordered read, positional insert (used once, for the header), and
// all-or-nothing batch append.
type RowStore interface {
	ReadAllRows(ctx context.Context) ([][]string, error)
	InsertRowAt(ctx context.Context, position int, row []string) error
	AppendRows(ctx context.Context, rows [][]string) error
}

type options struct {
	store       RowStore
	csvPath     string
	sheetCreds  string
	sheetID     string
	sheetName   string
	endpoint    string
	httpTimeout time.Duration
	now         func() time.Time
}

// Option configures a Tracker.
type Option func(*options)

// WithStore uses a caller-supplied row store.
func WithStore(s RowStore) Option {
	return func(o *options) { o.store = s }
}

// WithCSVFile appends records to a local CSV file.
func WithCSVFile(path string) Option {
	return func(o *options) { o.csvPath = path }
}

// WithGoogleSheet appends records to a Google Sheets spreadsheet using a
// service-account credential file. spreadsheetID may be empty, in which
// case the spreadsheet is resolved by title via the Drive API.
func WithGoogleSheet(credentialsPath, spreadsheetID, title string) Option {
	return func(o *options) {
		o.sheetCreds = credentialsPath
		o.sheetID = spreadsheetID
		o.sheetName = title
	}
}

// WithEndpoint overrides the reporting API base URL.
func WithEndpoint(base string) Option {
	return func(o *options) { o.endpoint = base }
}

// WithHTTPTimeout sets the report fetch timeout. Default: 30s.
func WithHTTPTimeout(d time.Duration) Option {
	return func(o *options) { o.httpTimeout = d }
}

// WithClock overrides the time source used to compute target dates.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func defaultOptions() options {
	return options{
		httpTimeout: 30 * time.Second,
		now:         time.Now,
	}
}
