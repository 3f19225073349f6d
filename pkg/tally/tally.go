package tally

import (
	"context"
	"errors"

	"github.com/crimson-sun/tally/internal/appstore"
	"github.com/crimson-sun/tally/internal/pipeline"
	"github.com/crimson-sun/tally/internal/sink"
	"github.com/crimson-sun/tally/internal/store"
	"github.com/crimson-sun/tally/internal/store/csvfile"
	"github.com/crimson-sun/tally/internal/store/sheets"
	"github.com/crimson-sun/tally/internal/token"
)

// Credentials identifies the App Store Connect API key and vendor.
type Credentials struct {
	KeyID          string // API key ID (the "kid" header)
	IssuerID       string // issuer UUID from App Store Connect
	PrivateKeyPath string // path to the .p8 signing key
	VendorNumber   string // vendor number the reports belong to
}

// Tracker fetches daily reports and appends download records to a store.
type Tracker struct {
	pipe *pipeline.Pipeline
}

// New creates a Tracker. Exactly one store option must be given:
// WithStore, WithCSVFile, or WithGoogleSheet.
func New(ctx context.Context, creds Credentials, opts ...Option) (*Tracker, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	st, err := resolveStore(ctx, o)
	if err != nil {
		return nil, err
	}

	issuer := token.New(creds.KeyID, creds.IssuerID, creds.PrivateKeyPath)
	clientOpts := []appstore.Option{appstore.WithTimeout(o.httpTimeout)}
	if o.endpoint != "" {
		clientOpts = append(clientOpts, appstore.WithEndpoint(o.endpoint))
	}
	fetcher := appstore.New(issuer, clientOpts...)

	pipe := pipeline.New(fetcher, sink.New(st), creds.VendorNumber,
		pipeline.WithClock(o.now))
	return &Tracker{pipe: pipe}, nil
}

func resolveStore(ctx context.Context, o options) (store.Store, error) {
	switch {
	case o.store != nil:
		return o.store, nil
	case o.csvPath != "":
		return csvfile.Open(o.csvPath)
	case o.sheetCreds != "":
		return sheets.Open(ctx, store.Config{
			CredentialsPath: o.sheetCreds,
			SpreadsheetID:   o.sheetID,
			SheetName:       o.sheetName,
		})
	default:
		return nil, errors.New("tally: no store configured (use WithStore, WithCSVFile, or WithGoogleSheet)")
	}
}

// Run processes the report from daysBack days before now.
func (t *Tracker) Run(ctx context.Context, daysBack int) (Result, error) {
	return t.RunDate(ctx, t.pipe.TargetDate(daysBack))
}

// RunDate processes the report for an explicit date (YYYY-MM-DD).
func (t *Tracker) RunDate(ctx context.Context, date string) (Result, error) {
	res, err := t.pipe.Run(ctx, date)
	if err != nil {
		return Result{Date: date}, err
	}
	return fromInternal(res), nil
}

func fromInternal(res pipeline.Result) Result {
	out := Result{
		Date:          res.Date,
		Rows:          len(res.Records),
		UnitsByApp:    res.Summary.UnitsByApp,
		TotalUnits:    res.Summary.TotalUnits,
		TotalProceeds: res.Summary.TotalProceeds.Text('f'),
		WriteErr:      res.WriteErr,
	}
	switch res.Outcome {
	case pipeline.OutcomeNoReport:
		out.Outcome = OutcomeNoReport
	case pipeline.OutcomeNoDownloads:
		out.Outcome = OutcomeNoDownloads
	case pipeline.OutcomeSaved:
		out.Outcome = OutcomeSaved
	case pipeline.OutcomeUnsaved:
		out.Outcome = OutcomeUnsaved
	}
	return out
}
