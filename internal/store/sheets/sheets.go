// Package sheets implements the row store on a Google Sheets worksheet.
package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/crimson-sun/tally/internal/store"
)

func init() {
	store.Register("sheets", func(ctx context.Context, cfg store.Config) (store.Store, error) {
		return Open(ctx, cfg)
	})
}

// Store reads and appends rows on the first worksheet of one spreadsheet,
// the way the tracker has always used a single "Daily Downloads" sheet.
type Store struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetID       int64  // first worksheet's sheet ID
	sheetTitle    string // first worksheet's title, used as the A1 range
}

// Open connects with a service-account credential file and resolves the
// target spreadsheet. When cfg.SpreadsheetID is empty the spreadsheet is
// looked up by title through the Drive API.
func Open(ctx context.Context, cfg store.Config) (*Store, error) {
	creds := option.WithCredentialsFile(cfg.CredentialsPath)

	spreadsheetID := cfg.SpreadsheetID
	if spreadsheetID == "" {
		id, err := lookupByTitle(ctx, cfg.SheetName, creds)
		if err != nil {
			return nil, err
		}
		spreadsheetID = id
	}

	svc, err := sheets.NewService(ctx, creds, option.WithScopes(sheets.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("sheets store: %w", err)
	}

	meta, err := svc.Spreadsheets.Get(spreadsheetID).Fields("sheets(properties(sheetId,title,index))").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheets store: get spreadsheet %s: %w", spreadsheetID, err)
	}
	if len(meta.Sheets) == 0 {
		return nil, fmt.Errorf("sheets store: spreadsheet %s has no worksheets", spreadsheetID)
	}
	props := meta.Sheets[0].Properties

	return &Store{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetID:       props.SheetId,
		sheetTitle:    props.Title,
	}, nil
}

// lookupByTitle finds a spreadsheet's ID from its Drive title.
func lookupByTitle(ctx context.Context, title string, creds option.ClientOption) (string, error) {
	svc, err := drive.NewService(ctx, creds, option.WithScopes(drive.DriveMetadataReadonlyScope))
	if err != nil {
		return "", fmt.Errorf("sheets store: drive: %w", err)
	}

	q := fmt.Sprintf("name = '%s' and mimeType = 'application/vnd.google-apps.spreadsheet' and trashed = false", title)
	list, err := svc.Files.List().Q(q).Fields("files(id)").PageSize(1).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("sheets store: lookup %q: %w", title, err)
	}
	if len(list.Files) == 0 {
		return "", fmt.Errorf("sheets store: no spreadsheet named %q", title)
	}
	return list.Files[0].Id, nil
}

func (s *Store) ReadAllRows(ctx context.Context) ([][]string, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.sheetTitle).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheets store: read: %w", err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, vals := range resp.Values {
		row := make([]string, len(vals))
		for i, v := range vals {
			row[i] = fmt.Sprint(v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *Store) InsertRowAt(ctx context.Context, position int, row []string) error {
	// Two steps like gspread's insert_row: shift rows down, then fill the gap.
	insert := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			InsertDimension: &sheets.InsertDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    s.sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(position - 1),
					EndIndex:   int64(position),
				},
			},
		}},
	}
	if _, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, insert).Context(ctx).Do(); err != nil {
		return fmt.Errorf("sheets store: insert row %d: %w", position, err)
	}

	vr := &sheets.ValueRange{Values: [][]any{toAny(row)}}
	rangeA1 := fmt.Sprintf("%s!A%d", s.sheetTitle, position)
	if _, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, rangeA1, vr).ValueInputOption("RAW").Context(ctx).Do(); err != nil {
		return fmt.Errorf("sheets store: insert row %d: %w", position, err)
	}
	return nil
}

func (s *Store) AppendRows(ctx context.Context, rows [][]string) error {
	vals := make([][]any, len(rows))
	for i, row := range rows {
		vals[i] = toAny(row)
	}

	vr := &sheets.ValueRange{Values: vals}
	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, s.sheetTitle, vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("sheets store: append %d rows: %w", len(rows), err)
	}
	return nil
}

func toAny(row []string) []any {
	vals := make([]any, len(row))
	for i, v := range row {
		vals[i] = v
	}
	return vals
}
