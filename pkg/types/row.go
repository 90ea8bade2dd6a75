// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Row is one persisted entry in the tracking spreadsheet. All fields are
// stored as strings because the store is a tabular workbook; numeric-looking
// fields (Year, CitedBy) are compared as strings, which is correct for
// four-digit years and RFC 3339 timestamps.
//
// Rows are created by the merge stage and never deleted by the pipeline.
// Classifier columns may be filled in after the row exists. AddedAt is set
// once and never changed.
type Row struct {
	EID         string
	DOI         string
	Title       string
	Authors     string
	SourceTitle string
	DocType     string
	CitedBy     string
	CoverDate   string
	Year        string
	Abstract    string
	Keywords    string

	// Include is the screening inclusion flag ("YES" for bot-added rows).
	Include string

	// Screening is the manual screening status. Bot-added rows start at "new".
	Screening string

	// AddedAt is the RFC 3339 instant at which this pipeline added the row.
	// Empty for rows that pre-date the bot or were entered by hand.
	AddedAt string

	// DuplicateDOI is "yes" when the row's DOI appears on two or more rows
	// store-wide. Recomputed globally on every merge.
	DuplicateDOI string

	// Classifier-derived columns. Blank until classification succeeds.
	Domain        string
	Reactor       string
	Gas           string
	TimeReported  string
	PowerReported string
	PH            string
	ORP           string
	Cond          string
	H2O2          string
	NO2           string
	NO3           string
	Core6Count    string
	Endpoint      string

	// Extra preserves columns this pipeline does not know about, keyed by
	// header name. The core never inspects them; they round-trip through
	// load and save so manually added columns survive bot runs.
	Extra map[string]string
}

// Classified reports whether the classifier columns have been filled in.
// The Domain column is the marker: the classifier either sets all columns
// or none.
func (r Row) Classified() bool {
	return r.Domain != ""
}
