package pipeline

import (
	"sort"

	"github.com/cockroachdb/apd/v3"

	"github.com/crimson-sun/tally/internal/model"
)

// Summary is the per-run rollup shown to the operator after a write.
type Summary struct {
	UnitsByApp    map[string]int
	TotalUnits    int
	TotalProceeds apd.Decimal
}

// Summarize groups units by app name and totals units and proceeds.
func Summarize(records []model.DownloadRecord) Summary {
	s := Summary{UnitsByApp: map[string]int{}}

	apdCtx := apd.BaseContext.WithPrecision(34)
	for i := range records {
		rec := &records[i]
		s.UnitsByApp[rec.AppName] += rec.Units
		s.TotalUnits += rec.Units
		// Inputs are finite; Add on finite decimals cannot error.
		apdCtx.Add(&s.TotalProceeds, &s.TotalProceeds, &rec.Proceeds)
	}
	return s
}

// Apps returns the app names in sorted order for stable display.
func (s Summary) Apps() []string {
	apps := make([]string, 0, len(s.UnitsByApp))
	for app := range s.UnitsByApp {
		apps = append(apps, app)
	}
	sort.Strings(apps)
	return apps
}
