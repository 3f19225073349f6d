package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/crimson-sun/tally/internal/appstore"
	"github.com/crimson-sun/tally/internal/config"
	"github.com/crimson-sun/tally/internal/logging"
	"github.com/crimson-sun/tally/internal/model"
	"github.com/crimson-sun/tally/internal/pipeline"
	"github.com/crimson-sun/tally/internal/sink"
	"github.com/crimson-sun/tally/internal/store"
	"github.com/crimson-sun/tally/internal/token"
)

var (
	flagDate     string
	flagDaysBack int
	flagBackend  string
	flagDryRun   bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch one daily report and append its downloads to the store",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVar(&flagDate, "date", "", "report date (YYYY-MM-DD), overrides --days-back")
	runCmd.Flags().IntVar(&flagDaysBack, "days-back", -1, "days before today to report on (default from config)")
	runCmd.Flags().StringVar(&flagBackend, "store", "", "store backend: sheets or csv (default from config)")
	runCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "normalize and summarize without writing to the store")
}

func runRun(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Init(os.Stderr, cfg.Log.JSON, logging.ParseLevel(cfg.Log.Level))
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()

	writer, err := buildWriter(ctx, cfg)
	if err != nil {
		return err
	}

	issuer := token.New(cfg.AppStore.KeyID, cfg.AppStore.IssuerID, cfg.AppStore.PrivateKeyPath)
	fetcher := appstore.New(issuer, appstore.WithTimeout(cfg.AppStore.Timeout))
	pipe := pipeline.New(fetcher, writer, cfg.AppStore.VendorNumber)

	date := flagDate
	if date == "" {
		days := cfg.AppStore.LookbackDays
		if flagDaysBack >= 0 {
			days = flagDaysBack
		}
		date = pipe.TargetDate(days)
	}

	res, err := pipe.Run(ctx, date)
	if err != nil {
		return err
	}
	render(res)
	return nil
}

// buildWriter opens the configured store, or swaps in a discard writer
// for dry runs so the store is never touched.
func buildWriter(ctx context.Context, cfg config.Config) (pipeline.Writer, error) {
	if flagDryRun {
		return nopWriter{}, nil
	}

	storeCfg := store.Config{
		Backend:         cfg.Store.Backend,
		CredentialsPath: cfg.Store.CredentialsPath,
		SpreadsheetID:   cfg.Store.SpreadsheetID,
		SheetName:       cfg.Store.SheetName,
		Path:            cfg.Store.Path,
	}
	if flagBackend != "" {
		storeCfg.Backend = flagBackend
	}

	st, err := store.Open(ctx, storeCfg)
	if err != nil {
		return nil, err
	}
	return sink.New(st), nil
}

type nopWriter struct{}

func (nopWriter) Write(context.Context, []model.DownloadRecord) error { return nil }

func render(res pipeline.Result) {
	switch res.Outcome {
	case pipeline.OutcomeNoReport:
		color.Yellow("No report available for %s — the data may not exist yet.", res.Date)

	case pipeline.OutcomeNoDownloads:
		color.Yellow("Report for %s has no download rows.", res.Date)

	case pipeline.OutcomeUnsaved:
		color.Red("Fetched %d rows for %s but the store write failed: %v", len(res.Records), res.Date, res.WriteErr)
		color.Red("Data was NOT persisted; re-run once the store is reachable.")
		renderSummary(res.Summary)

	case pipeline.OutcomeSaved:
		verb := "Saved"
		if flagDryRun {
			verb = "Dry run:"
		}
		color.Green("%s %d rows for %s (%d units, %s proceeds).",
			verb, len(res.Records), res.Date, res.Summary.TotalUnits, res.Summary.TotalProceeds.Text('f'))
		renderSummary(res.Summary)
	}
}

func renderSummary(s pipeline.Summary) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"App", "Units"})
	for _, app := range s.Apps() {
		table.Append([]string{app, strconv.Itoa(s.UnitsByApp[app])})
	}
	table.SetFooter([]string{"Total", strconv.Itoa(s.TotalUnits)})
	table.Render()
	fmt.Println()
}
