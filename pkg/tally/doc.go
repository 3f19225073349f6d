// Package tally provides an embeddable daily App Store download tracker.
//
// Quick start:
//
//	tr, err := tally.New(ctx, tally.Credentials{
//	    KeyID:          "ABC123XYZ",
//	    IssuerID:       "69a6de70-...",
//	    PrivateKeyPath: "AuthKey.p8",
//	    VendorNumber:   "85012345",
//	}, tally.WithCSVFile("downloads.csv"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := tr.Run(ctx, 1) // yesterday's report
//	fmt.Println(res.Outcome, res.TotalUnits)
//
// One Run fetches one dated report, normalizes its download rows into the
// canonical 17-column schema, and appends them to the configured store.
// Re-running the same date appends duplicate rows; there is no dedup key.
package tally
