package model

// RawReport is the intermediate type produced by the fetcher and consumed by
// the normalizer: one decompressed daily sales report, tab-delimited with a
// header line.
type RawReport struct {
	Date string // report date, YYYY-MM-DD (logical key)
	Body string // decompressed report text
}

// Empty reports whether the raw report carries no content.
func (r *RawReport) Empty() bool {
	return r == nil || r.Body == ""
}
