package fetch

import (
	"testing"
	"time"

	"github.com/pdiddy/paw-tracker/pkg/types"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPlanWindowEmptyStore(t *testing.T) {
	now := time.Date(2024, 5, 10, 17, 30, 0, 0, time.UTC)
	w := PlanWindow(nil, 2, now)

	if !w.Start.Equal(date(2024, 5, 9)) {
		t.Errorf("Start = %v, want 2024-05-09", w.Start)
	}
	if !w.End.Equal(date(2024, 5, 11)) {
		t.Errorf("End = %v, want 2024-05-11", w.End)
	}
	if got := len(w.Days()); got != 2 {
		t.Errorf("Days() = %d buckets, want 2", got)
	}
}

func TestPlanWindowFromLastIngested(t *testing.T) {
	rows := []types.Row{
		{AddedAt: "2024-04-20T08:00:00Z"},
		{AddedAt: "2024-05-01T12:00:00Z"},
		{AddedAt: ""}, // manual row, no timestamp
	}
	now := time.Date(2024, 5, 10, 3, 0, 0, 0, time.UTC)
	w := PlanWindow(rows, 2, now)

	if !w.Start.Equal(date(2024, 4, 29)) {
		t.Errorf("Start = %v, want 2024-04-29 (last ingested minus overlap)", w.Start)
	}
	if !w.End.Equal(date(2024, 5, 11)) {
		t.Errorf("End = %v, want 2024-05-11", w.End)
	}
}

func TestPlanWindowMonotonicity(t *testing.T) {
	// Start never after the last ingestion date; End always after today.
	tests := []struct {
		name    string
		rows    []types.Row
		overlap int
	}{
		{"no rows", nil, 2},
		{"recent row", []types.Row{{AddedAt: "2024-05-09T00:00:00Z"}}, 2},
		{"old row", []types.Row{{AddedAt: "2022-01-01T00:00:00Z"}}, 0},
	}
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	today := date(2024, 5, 10)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := PlanWindow(tt.rows, tt.overlap, now)
			if !w.Start.Before(w.End) {
				t.Fatalf("window %v not well-formed", w)
			}
			if !w.End.After(today) {
				t.Errorf("End = %v, want after today", w.End)
			}
			last := lastIngested(tt.rows)
			if !last.IsZero() && w.Start.After(last) {
				t.Errorf("Start = %v, want <= last ingested %v", w.Start, last)
			}
		})
	}
}

func TestPlanWindowFutureTimestamp(t *testing.T) {
	// A future-dated ingestion timestamp must still yield start < end.
	rows := []types.Row{{AddedAt: "2030-01-01T00:00:00Z"}}
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	w := PlanWindow(rows, 0, now)

	if !w.Start.Before(w.End) {
		t.Fatalf("window %v not well-formed", w)
	}
	if got := len(w.Days()); got != 1 {
		t.Errorf("Days() = %d buckets, want 1", got)
	}
}

func TestPlanWindowIgnoresMalformedTimestamps(t *testing.T) {
	rows := []types.Row{
		{AddedAt: "yesterday"},
		{AddedAt: "2024"},
	}
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	w := PlanWindow(rows, 2, now)

	// Falls back to the fresh-store one-day lookback.
	if !w.Start.Equal(date(2024, 5, 9)) {
		t.Errorf("Start = %v, want 2024-05-09", w.Start)
	}
}

func TestWindowDays(t *testing.T) {
	w := Window{Start: date(2024, 1, 1), End: date(2024, 1, 4)}
	days := w.Days()
	if len(days) != 3 {
		t.Fatalf("len(days) = %d, want 3", len(days))
	}
	for i, want := range []time.Time{date(2024, 1, 1), date(2024, 1, 2), date(2024, 1, 3)} {
		if !days[i].Equal(want) {
			t.Errorf("days[%d] = %v, want %v", i, days[i], want)
		}
	}
}
