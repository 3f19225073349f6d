// Package sink persists normalized download records to a row store,
// keeping exactly one header row at the top.
package sink

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/crimson-sun/tally/internal/model"
	"github.com/crimson-sun/tally/internal/store"
)

// Writer appends records to a Store.
type Writer struct {
	store store.Store
}

// New creates a Writer over the given store.
func New(s store.Store) *Writer {
	return &Writer{store: s}
}

// Write persists records in their given order. An empty input is a no-op
// that never touches the store — in particular it must not insert a header
// into an otherwise untouched sheet.
//
// The canonical header is inserted as row 1 when the store's first cell is
// not the header sentinel; a store that already starts with the header is
// left alone, so repeated runs never stack headers. All records land in a
// single batch append.
func (w *Writer) Write(ctx context.Context, records []model.DownloadRecord) error {
	if len(records) == 0 {
		return nil
	}

	existing, err := w.store.ReadAllRows(ctx)
	if err != nil {
		return fmt.Errorf("sink: read existing rows: %w", err)
	}

	if needsHeader(existing) {
		slog.Info("inserting header row", "columns", len(model.Header()))
		if err := w.store.InsertRowAt(ctx, 1, model.Header()); err != nil {
			return fmt.Errorf("sink: insert header: %w", err)
		}
	}

	rows := make([][]string, len(records))
	for i := range records {
		rows[i] = records[i].Row()
	}
	if err := w.store.AppendRows(ctx, rows); err != nil {
		return fmt.Errorf("sink: append %d rows: %w", len(rows), err)
	}

	slog.Info("records persisted", "rows", len(rows))
	return nil
}

func needsHeader(rows [][]string) bool {
	return len(rows) == 0 || len(rows[0]) == 0 || rows[0][0] != model.HeaderSentinel
}
