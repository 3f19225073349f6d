package tally

// Outcome says how a run ended.
// These are the stable public values — internal representations may evolve
// independently without breaking consumers.
type Outcome string

const (
	// OutcomeNoReport: no report existed for the date.
	OutcomeNoReport Outcome = "no-report"
	// OutcomeNoDownloads: the report contained no download rows.
	OutcomeNoDownloads Outcome = "no-downloads"
	// OutcomeSaved: records were appended to the store.
	OutcomeSaved Outcome = "saved"
	// OutcomeUnsaved: records were normalized but the store write failed;
	// WriteErr carries the cause.
	OutcomeUnsaved Outcome = "unsaved"
)

// Result is what one run produced.
type Result struct {
	Date          string         // report date, YYYY-MM-DD
	Outcome       Outcome        //
	Rows          int            // normalized download rows
	UnitsByApp    map[string]int // per-app unit totals
	TotalUnits    int            //
	TotalProceeds string         // decimal string in the report currencies
	WriteErr      error          // set only for OutcomeUnsaved
}
