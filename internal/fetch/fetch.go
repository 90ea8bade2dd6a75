// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch plans the uncovered date window and executes the Scopus
// search across it, partitioning into day buckets and falling back to
// per-publication-year slices when a bucket exceeds the source's result cap.
// See docs/ARCHITECTURE.md § Fetch.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/paw-tracker/pkg/types"
)

// Backend executes a single search query. The production implementation is
// ScopusBackend; tests supply mocks per the Strategy pattern.
//
// Search returns ErrCapExceeded (possibly alongside the partial results it
// managed to page through), a *QueryError, or a *TransportError; any other
// error is treated as transport-level.
type Backend interface {
	Name() string
	Search(ctx context.Context, query string) ([]types.Record, error)
}

// SliceFailure records a fallback sub-query that degraded instead of
// succeeding cleanly. Kept distinct from "returned nothing" so reports can
// tell an empty slice from a failed one.
type SliceFailure struct {
	Bucket  time.Time
	PubYear int
	Kind    string // "cap-partial" or "query-error"
	Message string
}

// Report summarizes one fetch: how many day buckets were queried, how many
// needed year subdivision, and which slices degraded.
type Report struct {
	Buckets   int
	Fallbacks int
	Failures  []SliceFailure
}

// Fetch runs the compound query over every 1-day bucket in the window and
// returns the concatenated records in bucket order. Duplicate records are
// expected (overlapping fallback slices) and left for the merge stage.
//
// A bucket that exceeds the result cap is re-queried once per publication
// year from cfg.YearFloor through the window's end year plus one. A year
// slice that still exceeds the cap keeps whatever the source returned; a
// year slice the source rejects contributes nothing. Both are logged and
// recorded in the report. Any transport failure aborts the whole fetch.
func Fetch(ctx context.Context, b Backend, w Window, cfg types.SearchConfig, out io.Writer) ([]types.Record, Report, error) {
	var all []types.Record
	var rep Report

	for _, day := range w.Days() {
		rep.Buckets++
		bucket := Window{Start: day, End: day.AddDate(0, 0, 1)}

		recs, err := b.Search(ctx, buildQuery(cfg.Terms, bucket, 0))
		if err == nil {
			all = append(all, recs...)
			continue
		}
		if !errors.Is(err, ErrCapExceeded) {
			return nil, rep, fmt.Errorf("bucket %s: %w", day.Format(dateFmt), err)
		}

		// The whole day is too large for one query. Discard the bucket's
		// partial results and re-cover the day with per-year slices; any
		// overlap between slices is duplication the merge stage removes.
		rep.Fallbacks++
		fmt.Fprintf(out, "warning: bucket %s over result cap, splitting by publication year\n", day.Format(dateFmt))

		yearRecs, failures, err := fetchByYear(ctx, b, bucket, cfg, w.End.Year()+1, out)
		if err != nil {
			return nil, rep, err
		}
		all = append(all, yearRecs...)
		rep.Failures = append(rep.Failures, failures...)
	}

	return all, rep, nil
}

// fetchByYear covers one over-cap bucket with per-publication-year
// sub-queries, yearFloor..lastYear inclusive, each attempted exactly once.
func fetchByYear(ctx context.Context, b Backend, bucket Window, cfg types.SearchConfig, lastYear int, out io.Writer) ([]types.Record, []SliceFailure, error) {
	yearFloor := cfg.YearFloor
	if yearFloor <= 0 {
		yearFloor = 2000
	}

	var recs []types.Record
	var failures []SliceFailure

	for y := yearFloor; y <= lastYear; y++ {
		got, err := b.Search(ctx, buildQuery(cfg.Terms, bucket, y))
		switch {
		case err == nil:
			recs = append(recs, got...)

		case errors.Is(err, ErrCapExceeded):
			// Finest granularity reached; accept the partial results.
			// A known completeness gap, logged rather than hidden.
			recs = append(recs, got...)
			failures = append(failures, SliceFailure{
				Bucket: bucket.Start, PubYear: y, Kind: "cap-partial", Message: err.Error(),
			})
			fmt.Fprintf(out, "warning: bucket %s pubyear %d still over cap, keeping %d partial results\n",
				bucket.Start.Format(dateFmt), y, len(got))

		default:
			var qe *QueryError
			if !errors.As(err, &qe) {
				return nil, failures, fmt.Errorf("bucket %s pubyear %d: %w",
					bucket.Start.Format(dateFmt), y, err)
			}
			// Rejection of one narrow slice must not sink the run.
			failures = append(failures, SliceFailure{
				Bucket: bucket.Start, PubYear: y, Kind: "query-error", Message: err.Error(),
			})
			fmt.Fprintf(out, "warning: bucket %s pubyear %d rejected: %v\n",
				bucket.Start.Format(dateFmt), y, err)
		}
	}

	return recs, failures, nil
}

const loadDateFmt = "20060102"

// buildQuery combines the topical terms with the date predicate for w and,
// when pubYear is non-zero, a publication-year predicate.
//
// Scopus's ORIG-LOAD-DATE operators AFT and BEF are both exclusive, so the
// half-open window [Start, End) maps to AFT Start-1d and BEF End. The same
// encoding serves planner-sized windows and single-day buckets, which keeps
// the planner and fetcher aligned on "date of first load" semantics.
func buildQuery(terms string, w Window, pubYear int) string {
	q := fmt.Sprintf("%s AND ORIG-LOAD-DATE AFT %s AND ORIG-LOAD-DATE BEF %s",
		terms,
		w.Start.AddDate(0, 0, -1).Format(loadDateFmt),
		w.End.Format(loadDateFmt))
	if pubYear > 0 {
		q += fmt.Sprintf(" AND PUBYEAR = %d", pubYear)
	}
	return q
}
