// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package merge folds fetched records into the store: novelty filtering,
// row mapping, duplicate-DOI flagging, and final ordering.
// See docs/ARCHITECTURE.md § Merge.
package merge

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/paw-tracker/pkg/types"
)

// Merge appends every novel record to rows and returns the resulting store
// plus the slice of rows actually added (len of which is the added count).
// Records the registry already knows are dropped; each added record is
// marked seen immediately so a duplicate later in the same batch is dropped
// too.
//
// After the append, the duplicate-DOI flag is recomputed over the entire
// store rather than patched incrementally: a fresh row can duplicate a DOI
// anywhere in the pre-existing rows. Finally the store is stably sorted,
// newest ingestion first, publication year as tie-break, rows without an
// ingestion timestamp after all bot-added rows.
func Merge(rows []types.Row, records []types.Record, reg *Registry, runTime time.Time) ([]types.Row, []types.Row) {
	var added []types.Row
	for _, rec := range records {
		if reg.Contains(rec) {
			continue
		}
		added = append(added, newRow(rec, runTime))
		reg.MarkSeen(rec)
	}

	merged := append(rows, added...)
	flagDuplicateDOIs(merged)
	sortRows(merged)
	return merged, added
}

// newRow maps a fetched record into the store schema. Store-only fields
// that cannot be derived from the record stay blank.
func newRow(rec types.Record, runTime time.Time) types.Row {
	return types.Row{
		EID:         strings.TrimSpace(rec.EID),
		DOI:         strings.TrimSpace(rec.DOI),
		Title:       rec.Title,
		Authors:     rec.Authors,
		SourceTitle: rec.Venue,
		DocType:     rec.DocType,
		CitedBy:     strconv.Itoa(rec.CitedBy),
		CoverDate:   rec.CoverDate,
		Year:        rec.Year(),
		Abstract:    rec.Abstract,
		Keywords:    rec.Keywords,
		Include:     "YES",
		Screening:   "new",
		AddedAt:     runTime.UTC().Format(time.RFC3339),
	}
}

// flagDuplicateDOIs sets the duplicate flag on every row whose non-empty
// DOI appears on two or more rows, and clears it everywhere else.
func flagDuplicateDOIs(rows []types.Row) {
	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		if doi := strings.TrimSpace(r.DOI); doi != "" {
			counts[doi]++
		}
	}
	for i := range rows {
		doi := strings.TrimSpace(rows[i].DOI)
		if doi != "" && counts[doi] > 1 {
			rows[i].DuplicateDOI = "yes"
		} else {
			rows[i].DuplicateDOI = ""
		}
	}
}

// sortRows orders the store newest-first by ingestion timestamp, then by
// publication year, blanks last in both keys. RFC 3339 timestamps and
// four-digit years order correctly as strings. The sort is stable so rows
// equal on both keys keep their relative order.
func sortRows(rows []types.Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.AddedAt != b.AddedAt {
			if a.AddedAt == "" {
				return false
			}
			if b.AddedAt == "" {
				return true
			}
			return a.AddedAt > b.AddedAt
		}
		if a.Year != b.Year {
			if a.Year == "" {
				return false
			}
			if b.Year == "" {
				return true
			}
			return a.Year > b.Year
		}
		return false
	})
}
