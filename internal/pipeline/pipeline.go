// Package pipeline sequences one run: fetch the daily report, normalize
// it, persist the records, and summarize the result.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/crimson-sun/tally/internal/model"
	"github.com/crimson-sun/tally/internal/report"
)

// Fetcher retrieves one raw daily report. A nil report with a nil error
// means no report exists for that date.
type Fetcher interface {
	FetchDaily(ctx context.Context, vendorNumber, reportDate string) (*model.RawReport, error)
}

// Writer persists normalized records.
type Writer interface {
	Write(ctx context.Context, records []model.DownloadRecord) error
}

// Outcome classifies how a run ended.
type Outcome int

const (
	// OutcomeNoReport: the API had no report for the date (404).
	OutcomeNoReport Outcome = iota
	// OutcomeNoDownloads: a report existed but contained no download rows.
	OutcomeNoDownloads
	// OutcomeSaved: records were normalized and persisted.
	OutcomeSaved
	// OutcomeUnsaved: records were normalized but the store write failed.
	OutcomeUnsaved
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNoReport:
		return "no-report"
	case OutcomeNoDownloads:
		return "no-downloads"
	case OutcomeSaved:
		return "saved"
	case OutcomeUnsaved:
		return "unsaved"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result is what one run produced.
type Result struct {
	Date     string
	Outcome  Outcome
	Records  []model.DownloadRecord
	Summary  Summary
	WriteErr error // set only for OutcomeUnsaved
}

// Pipeline wires the fetcher and writer for a single vendor.
type Pipeline struct {
	fetcher      Fetcher
	writer       Writer
	vendorNumber string
	now          func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithClock overrides the time source used for target-date computation.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// New creates a Pipeline.
func New(fetcher Fetcher, writer Writer, vendorNumber string, opts ...Option) *Pipeline {
	p := &Pipeline{
		fetcher:      fetcher,
		writer:       writer,
		vendorNumber: vendorNumber,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// TargetDate returns the report date lookbackDays before now, formatted
// the way the reporting API expects.
func (p *Pipeline) TargetDate(lookbackDays int) string {
	return p.now().AddDate(0, 0, -lookbackDays).Format("2006-01-02")
}

// Run executes one full pass for the given report date. Each stage
// short-circuits when the previous one produced nothing. A store failure
// does not fail the run: by then the non-idempotent fetch has already
// succeeded, so the failure is absorbed into OutcomeUnsaved with the
// records kept in the result for the operator. Credential, fetch, and
// parse errors abort the run.
func (p *Pipeline) Run(ctx context.Context, reportDate string) (Result, error) {
	res := Result{Date: reportDate}

	slog.Info("fetching sales report", "date", reportDate, "vendor", p.vendorNumber)
	raw, err := p.fetcher.FetchDaily(ctx, p.vendorNumber, reportDate)
	if err != nil {
		return res, err
	}
	if raw == nil {
		slog.Info("no report for date", "date", reportDate)
		res.Outcome = OutcomeNoReport
		return res, nil
	}

	records, err := report.Normalize(raw)
	if err != nil {
		return res, err
	}
	if len(records) == 0 {
		slog.Info("report has no download rows", "date", reportDate)
		res.Outcome = OutcomeNoDownloads
		return res, nil
	}
	res.Records = records
	res.Summary = Summarize(records)

	if err := p.writer.Write(ctx, records); err != nil {
		slog.Error("store write failed, data not persisted",
			"date", reportDate, "rows", len(records), "error", err)
		res.Outcome = OutcomeUnsaved
		res.WriteErr = err
		return res, nil
	}

	slog.Info("run complete",
		"date", reportDate, "rows", len(records), "units", res.Summary.TotalUnits)
	res.Outcome = OutcomeSaved
	return res, nil
}
