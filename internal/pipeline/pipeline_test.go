package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crimson-sun/tally/internal/model"
)

// --- mocks ---

// mockFetcher serves a canned report body, or nothing, or an error.
type mockFetcher struct {
	body      string
	notFound  bool
	err       error
	gotVendor string
	gotDate   string
}

func (m *mockFetcher) FetchDaily(_ context.Context, vendorNumber, reportDate string) (*model.RawReport, error) {
	m.gotVendor = vendorNumber
	m.gotDate = reportDate
	if m.err != nil {
		return nil, m.err
	}
	if m.notFound {
		return nil, nil
	}
	return &model.RawReport{Date: reportDate, Body: m.body}, nil
}

// mockWriter records writes and optionally fails.
type mockWriter struct {
	written [][]model.DownloadRecord
	err     error
}

func (m *mockWriter) Write(_ context.Context, records []model.DownloadRecord) error {
	if m.err != nil {
		return m.err
	}
	m.written = append(m.written, records)
	return nil
}

const sampleReport = "Product Type Identifier\tTitle\tSKU\tCountry Code\tDevice\tUnits\tDeveloper Proceeds\tCustomer Price\tCustomer Currency\tPromo Code\tInstallation Type\n" +
	"1\tMyApp\tSKU1\tJP\tiPhone\t5\t0.00\t0\tJPY\t\tFree\n" +
	"1F\tOtherApp\tSKU2\tUS\tiPad\t2\t0.00\t0\tUSD\t\tFree\n" +
	"3\tMyApp\tIAP1\tJP\tiPhone\t9\t1.99\t2.99\tJPY\t\t\n"

func TestRun_SavedWithSummary(t *testing.T) {
	fetcher := &mockFetcher{body: sampleReport}
	writer := &mockWriter{}
	p := New(fetcher, writer, "85012345")

	res, err := p.Run(context.Background(), "2024-03-01")
	require.NoError(t, err)

	assert.Equal(t, "85012345", fetcher.gotVendor)
	assert.Equal(t, "2024-03-01", fetcher.gotDate)
	assert.Equal(t, OutcomeSaved, res.Outcome)
	require.Len(t, writer.written, 1)
	assert.Len(t, writer.written[0], 2) // product type "3" excluded

	assert.Equal(t, 7, res.Summary.TotalUnits)
	assert.Equal(t, map[string]int{"MyApp": 5, "OtherApp": 2}, res.Summary.UnitsByApp)
	assert.Equal(t, []string{"MyApp", "OtherApp"}, res.Summary.Apps())
}

func TestRun_NoReportSkipsWrite(t *testing.T) {
	writer := &mockWriter{}
	p := New(&mockFetcher{notFound: true}, writer, "85012345")

	res, err := p.Run(context.Background(), "2024-03-01")
	require.NoError(t, err)

	assert.Equal(t, OutcomeNoReport, res.Outcome)
	assert.Empty(t, writer.written)
	assert.Empty(t, res.Records)
}

func TestRun_NoDownloadRowsSkipsWrite(t *testing.T) {
	onlyIAP := "Product Type Identifier\tTitle\tSKU\tCountry Code\tDevice\tUnits\tDeveloper Proceeds\tCustomer Price\tCustomer Currency\tPromo Code\n" +
		"3\tMyApp\tIAP1\tJP\tiPhone\t9\t1.99\t2.99\tJPY\t\n"
	writer := &mockWriter{}
	p := New(&mockFetcher{body: onlyIAP}, writer, "85012345")

	res, err := p.Run(context.Background(), "2024-03-01")
	require.NoError(t, err)

	assert.Equal(t, OutcomeNoDownloads, res.Outcome)
	assert.Empty(t, writer.written)
}

func TestRun_FetchErrorAborts(t *testing.T) {
	fetchErr := errors.New("HTTP 500")
	p := New(&mockFetcher{err: fetchErr}, &mockWriter{}, "85012345")

	_, err := p.Run(context.Background(), "2024-03-01")
	require.ErrorIs(t, err, fetchErr)
}

func TestRun_ParseErrorAborts(t *testing.T) {
	// Header missing the SKU column.
	bad := "Product Type Identifier\tTitle\tCountry Code\tDevice\tUnits\tDeveloper Proceeds\tCustomer Price\tCustomer Currency\tPromo Code\n" +
		"1\tMyApp\tJP\tiPhone\t5\t0.00\t0\tJPY\t\n"
	writer := &mockWriter{}
	p := New(&mockFetcher{body: bad}, writer, "85012345")

	_, err := p.Run(context.Background(), "2024-03-01")
	require.Error(t, err)
	assert.Empty(t, writer.written)
}

func TestRun_WriteFailureIsAbsorbed(t *testing.T) {
	writeErr := errors.New("sheet unavailable")
	p := New(&mockFetcher{body: sampleReport}, &mockWriter{err: writeErr}, "85012345")

	res, err := p.Run(context.Background(), "2024-03-01")
	require.NoError(t, err) // handled failure, not a crash

	assert.Equal(t, OutcomeUnsaved, res.Outcome)
	assert.ErrorIs(t, res.WriteErr, writeErr)
	assert.Len(t, res.Records, 2) // kept for the operator
	assert.Equal(t, 7, res.Summary.TotalUnits)
}

func TestTargetDate(t *testing.T) {
	fixed := time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC)
	p := New(&mockFetcher{}, &mockWriter{}, "85012345",
		WithClock(func() time.Time { return fixed }))

	assert.Equal(t, "2024-03-03", p.TargetDate(1))
	assert.Equal(t, "2024-03-01", p.TargetDate(3))
	assert.Equal(t, "2024-03-04", p.TargetDate(0))
}

func TestSummarize_Proceeds(t *testing.T) {
	recs := []model.DownloadRecord{
		{AppName: "A", Units: 1},
		{AppName: "A", Units: 2},
	}
	_, _, err := recs[0].Proceeds.SetString("0.35")
	require.NoError(t, err)
	_, _, err = recs[1].Proceeds.SetString("0.70")
	require.NoError(t, err)

	s := Summarize(recs)
	assert.Equal(t, 3, s.TotalUnits)
	assert.Equal(t, "1.05", s.TotalProceeds.Text('f'))
}
