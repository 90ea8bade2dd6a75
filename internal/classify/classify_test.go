package classify

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/paw-tracker/pkg/types"
)

func init() {
	// Use a tiny base delay so retry paths finish quickly.
	backoffBase = time.Millisecond
}

// mockClassifier answers from a script of results, one per call.
type mockClassifier struct {
	calls   int
	results []func() (Annotation, error)
}

func (m *mockClassifier) Classify(_ context.Context, _, _ string) (Annotation, error) {
	i := m.calls
	m.calls++
	if i >= len(m.results) {
		i = len(m.results) - 1
	}
	return m.results[i]()
}

func ok(a Annotation) func() (Annotation, error) {
	return func() (Annotation, error) { return a, nil }
}

func fail(msg string) func() (Annotation, error) {
	return func() (Annotation, error) { return Annotation{}, errors.New(msg) }
}

func TestCore6Count(t *testing.T) {
	tests := []struct {
		name string
		a    Annotation
		want int
	}{
		{"none", Annotation{}, 0},
		{"all six", Annotation{PH: 1, ORP: 1, Cond: 1, H2O2: 1, NO2: 1, NO3: 1}, 6},
		{"subset", Annotation{PH: 1, NO3: 1}, 2},
		{"time and power do not count", Annotation{Time: 1, Power: 1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Core6Count(); got != tt.want {
				t.Errorf("Core6Count() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestApply(t *testing.T) {
	var row types.Row
	Apply(&row, Annotation{
		Domain:   "Agriculture",
		Reactor:  "DBD",
		Gas:      "air",
		Time:     1,
		PH:       1,
		NO3:      1,
		Endpoint: "seed germination",
	})

	if row.Domain != "Agriculture" || row.Reactor != "DBD" || row.Gas != "air" {
		t.Errorf("text columns = %q/%q/%q", row.Domain, row.Reactor, row.Gas)
	}
	if row.TimeReported != "1" || row.PowerReported != "0" {
		t.Errorf("Time/Power = %q/%q", row.TimeReported, row.PowerReported)
	}
	if row.PH != "1" || row.ORP != "0" || row.NO3 != "1" {
		t.Errorf("flags = pH %q ORP %q NO3 %q", row.PH, row.ORP, row.NO3)
	}
	if row.Core6Count != "2" {
		t.Errorf("Core6Count = %q, want 2", row.Core6Count)
	}
	if !row.Classified() {
		t.Error("Classified() = false after Apply")
	}
}

func TestEnrichClassifiesMatchingRows(t *testing.T) {
	rows := []types.Row{
		{Title: "already done", Domain: "Food Systems"},
		{Title: "needs work"},
		{Title: "also needs work"},
	}
	c := &mockClassifier{results: []func() (Annotation, error){
		ok(Annotation{Domain: "Agriculture", PH: 1}),
	}}

	var log bytes.Buffer
	n := Enrich(context.Background(), c, rows, Unclassified, 1, 0, &log)
	if n != 2 {
		t.Fatalf("Enrich() = %d, want 2", n)
	}
	if rows[0].Core6Count != "" {
		t.Error("already classified row was touched")
	}
	if rows[1].Domain != "Agriculture" || rows[2].Domain != "Agriculture" {
		t.Errorf("rows not annotated: %q, %q", rows[1].Domain, rows[2].Domain)
	}
	if !strings.Contains(log.String(), "classified") {
		t.Errorf("log = %q", log.String())
	}
}

func TestEnrichRetriesThenSucceeds(t *testing.T) {
	rows := []types.Row{{Title: "flaky"}}
	c := &mockClassifier{results: []func() (Annotation, error){
		fail("rate limited"),
		fail("rate limited"),
		ok(Annotation{Domain: "Biomedical"}),
	}}

	n := Enrich(context.Background(), c, rows, Unclassified, 3, 0, &bytes.Buffer{})
	if n != 1 {
		t.Fatalf("Enrich() = %d, want 1", n)
	}
	if c.calls != 3 {
		t.Errorf("calls = %d, want 3", c.calls)
	}
}

func TestEnrichFailureLeavesRowBlank(t *testing.T) {
	rows := []types.Row{{Title: "hopeless"}, {Title: "fine"}}
	c := &mockClassifier{}
	c.results = []func() (Annotation, error){
		fail("boom"), fail("boom"), fail("boom"),
		ok(Annotation{Domain: "Environmental"}),
	}

	var log bytes.Buffer
	n := Enrich(context.Background(), c, rows, Unclassified, 2, 0, &log)
	if n != 1 {
		t.Fatalf("Enrich() = %d, want 1", n)
	}
	if rows[0].Domain != "" {
		t.Error("failed row should stay blank")
	}
	if rows[1].Domain != "Environmental" {
		t.Error("later rows should still be classified")
	}
	if !strings.Contains(log.String(), "warning: classification failed") {
		t.Errorf("log = %q", log.String())
	}
}

func TestEnrichHonorsLimit(t *testing.T) {
	rows := []types.Row{{Title: "a"}, {Title: "b"}, {Title: "c"}}
	c := &mockClassifier{results: []func() (Annotation, error){
		ok(Annotation{Domain: "Fundamentals"}),
	}}

	n := Enrich(context.Background(), c, rows, Unclassified, 1, 2, &bytes.Buffer{})
	if n != 2 {
		t.Fatalf("Enrich() = %d, want 2", n)
	}
	if rows[2].Domain != "" {
		t.Error("row past the limit was classified")
	}
}

func TestAddedAtMatcher(t *testing.T) {
	pred := AddedAtMatcher("2026-08-30T12:00:00Z")
	if !pred(types.Row{AddedAt: "2026-08-30T12:00:00Z"}) {
		t.Error("matching stamp rejected")
	}
	if pred(types.Row{AddedAt: "2026-08-29T12:00:00Z"}) {
		t.Error("other stamp accepted")
	}
	if pred(types.Row{}) {
		t.Error("blank stamp accepted")
	}
}
