// Package store defines the row-store interface the sink writes through,
// plus a registry of named backends.
package store

import "context"

// Store is an append-only row store. The concrete backend (a cloud
// spreadsheet, a local CSV file) only has to support these three
// operations; the sink never rewrites or compacts rows.
type Store interface {
	// ReadAllRows returns every stored row in order.
	ReadAllRows(ctx context.Context) ([][]string, error)

	// InsertRowAt inserts a row at the given 1-based position, shifting
	// existing rows down.
	InsertRowAt(ctx context.Context, position int, row []string) error

	// AppendRows appends all rows in one batch: either every row lands or
	// the call fails with no row treated as committed.
	AppendRows(ctx context.Context, rows [][]string) error
}

// Config holds backend-specific connection settings.
type Config struct {
	Backend         string // backend name, e.g. "sheets" or "csv"
	CredentialsPath string // service-account credential file (sheets)
	SpreadsheetID   string // spreadsheet ID; wins over SheetName when set
	SheetName       string // spreadsheet title, resolved via Drive lookup
	Path            string // file path (csv)
}
