// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"time"

	"github.com/pdiddy/paw-tracker/pkg/types"
)

const dateFmt = "2006-01-02"

// referenceZone is the timezone in which "today" is computed, so the
// planned window is the same no matter where the run executes.
var referenceZone = time.UTC

// Window is a half-open calendar-date range [Start, End) bounding a
// sub-query. Start and End are midnights in the reference zone.
type Window struct {
	Start time.Time
	End   time.Time
}

// Days returns the first day of every 1-day bucket in the window, in order.
func (w Window) Days() []time.Time {
	var days []time.Time
	for d := w.Start; d.Before(w.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func (w Window) String() string {
	return w.Start.Format(dateFmt) + ".." + w.End.Format(dateFmt)
}

// PlanWindow computes the date range the next fetch should cover.
//
// The window starts overlapDays before the newest ingestion timestamp in
// the store, so entries the source indexed late are picked up on the next
// run. A store with no bot-added rows gets a one-day lookback to bound the
// cost of a first run. The window always ends the day after "today" so the
// current day is included; start < end holds by construction.
func PlanWindow(rows []types.Row, overlapDays int, now time.Time) Window {
	if overlapDays < 0 {
		overlapDays = 0
	}
	today := midnight(now.In(referenceZone))
	end := today.AddDate(0, 0, 1)

	last := lastIngested(rows)
	if last.IsZero() {
		return Window{Start: today.AddDate(0, 0, -1), End: end}
	}

	start := last.AddDate(0, 0, -overlapDays)
	if !start.Before(end) {
		// A future-dated ingestion timestamp (clock skew in a previous
		// run) must not produce an empty window.
		start = end.AddDate(0, 0, -1)
	}
	return Window{Start: start, End: end}
}

// lastIngested returns the newest AddedAt date across rows, or the zero
// time when no row carries one. Only the calendar-date prefix matters.
func lastIngested(rows []types.Row) time.Time {
	var last time.Time
	for _, r := range rows {
		if len(r.AddedAt) < len(dateFmt) {
			continue
		}
		t, err := time.ParseInLocation(dateFmt, r.AddedAt[:len(dateFmt)], referenceZone)
		if err != nil {
			continue
		}
		if t.After(last) {
			last = t
		}
	}
	return last
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
