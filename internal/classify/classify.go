// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify annotates store rows with LLM-derived PAW fields.
// Classification is best-effort: a failure leaves the row's annotation
// columns blank and the pipeline moves on.
// See docs/ARCHITECTURE.md § Classification.
package classify

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/pdiddy/paw-tracker/pkg/types"
)

// Classifier maps an entry's title and abstract to a structured annotation.
// The production implementation is GeminiBackend; tests supply mocks.
type Classifier interface {
	Classify(ctx context.Context, title, abstract string) (Annotation, error)
}

// Annotation is the structured result of classifying one entry. The
// presence flags use 1/0 as in the sheet's Core6 bookkeeping.
type Annotation struct {
	Domain   string `json:"Domain"`
	Reactor  string `json:"Reactor"`
	Gas      string `json:"Gas"`
	Time     int    `json:"Time"`
	Power    int    `json:"Power"`
	PH       int    `json:"pH"`
	ORP      int    `json:"ORP"`
	Cond     int    `json:"Cond"`
	H2O2     int    `json:"H2O2"`
	NO2      int    `json:"NO2"`
	NO3      int    `json:"NO3"`
	Endpoint string `json:"Endpoint"`
}

// Core6Count returns how many of the six core water-chemistry measurements
// the entry reports.
func (a Annotation) Core6Count() int {
	n := 0
	for _, flag := range []int{a.PH, a.ORP, a.Cond, a.H2O2, a.NO2, a.NO3} {
		if flag != 0 {
			n++
		}
	}
	return n
}

// Apply writes the annotation into the row's classifier columns.
func Apply(r *types.Row, a Annotation) {
	r.Domain = a.Domain
	r.Reactor = a.Reactor
	r.Gas = a.Gas
	r.TimeReported = strconv.Itoa(a.Time)
	r.PowerReported = strconv.Itoa(a.Power)
	r.PH = strconv.Itoa(a.PH)
	r.ORP = strconv.Itoa(a.ORP)
	r.Cond = strconv.Itoa(a.Cond)
	r.H2O2 = strconv.Itoa(a.H2O2)
	r.NO2 = strconv.Itoa(a.NO2)
	r.NO3 = strconv.Itoa(a.NO3)
	r.Core6Count = strconv.Itoa(a.Core6Count())
	r.Endpoint = a.Endpoint
}

// backoffBase controls the base duration for exponential backoff between
// classify attempts. Tests override this to avoid real sleeps.
var backoffBase = time.Second

// Enrich classifies every row matching pred, in store order, stopping after
// limit rows when limit is positive. Each row gets maxRetries attempts with
// exponential backoff; a row that still fails is logged and left blank.
// Returns the number of rows annotated.
func Enrich(ctx context.Context, c Classifier, rows []types.Row, pred func(types.Row) bool, maxRetries, limit int, w io.Writer) int {
	if maxRetries <= 0 {
		maxRetries = 3
	}

	classified := 0
	for i := range rows {
		if !pred(rows[i]) {
			continue
		}
		if limit > 0 && classified >= limit {
			break
		}

		a, err := classifyWithRetry(ctx, c, rows[i].Title, rows[i].Abstract, maxRetries)
		if err != nil {
			fmt.Fprintf(w, "warning: classification failed for %q: %v\n", rows[i].Title, err)
			continue
		}
		Apply(&rows[i], a)
		classified++
		fmt.Fprintf(w, "classified %q (%s)\n", rows[i].Title, a.Domain)
	}
	return classified
}

// classifyWithRetry calls the classifier with exponential backoff.
func classifyWithRetry(ctx context.Context, c Classifier, title, abstract string, maxRetries int) (Annotation, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return Annotation{}, ctx.Err()
			case <-time.After(backoff):
			}
		}

		a, err := c.Classify(ctx, title, abstract)
		if err == nil {
			return a, nil
		}
		lastErr = err
	}
	return Annotation{}, fmt.Errorf("after %d retries: %w", maxRetries, lastErr)
}

// Unclassified matches rows the classifier has not annotated yet.
func Unclassified(r types.Row) bool { return !r.Classified() }

// AddedAtMatcher matches rows added at the given run timestamp.
func AddedAtMatcher(stamp string) func(types.Row) bool {
	return func(r types.Row) bool { return r.AddedAt == stamp }
}
