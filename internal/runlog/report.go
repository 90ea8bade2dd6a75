// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package runlog

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paw-tracker/pkg/types"
)

// Report is the on-disk YAML summary of one run, for humans and for CI
// artifacts. It exists alongside the SQLite history because a flat file is
// what reviewers actually open.
type Report struct {
	StartedAt   time.Time       `yaml:"started_at"`
	WindowStart string          `yaml:"window_start"`
	WindowEnd   string          `yaml:"window_end"`
	Buckets     int             `yaml:"buckets"`
	Fallbacks   int             `yaml:"fallbacks"`
	Fetched     int             `yaml:"fetched"`
	Added       int             `yaml:"added"`
	Classified  int             `yaml:"classified"`
	Failures    []ReportFailure `yaml:"failures,omitempty"`
	NewEntries  []ReportEntry   `yaml:"new_entries,omitempty"`
}

// ReportFailure is one degraded slice in serializable form.
type ReportFailure struct {
	Bucket  string `yaml:"bucket"`
	PubYear int    `yaml:"pub_year"`
	Kind    string `yaml:"kind"`
	Message string `yaml:"message,omitempty"`
}

// ReportEntry identifies one newly added row.
type ReportEntry struct {
	EID   string `yaml:"eid"`
	DOI   string `yaml:"doi,omitempty"`
	Title string `yaml:"title"`
}

// WriteReport saves a YAML run report into dir, named by the run's start
// instant. Returns the written path.
func WriteReport(dir string, run RunSummary, added []types.Row) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating report directory: %w", err)
	}

	rep := Report{
		StartedAt:   run.StartedAt.UTC(),
		WindowStart: run.WindowStart.Format(dateFmt),
		WindowEnd:   run.WindowEnd.Format(dateFmt),
		Buckets:     run.Buckets,
		Fallbacks:   run.Fallbacks,
		Fetched:     run.Fetched,
		Added:       run.Added,
		Classified:  run.Classified,
	}
	for _, f := range run.Failures {
		rep.Failures = append(rep.Failures, ReportFailure{
			Bucket:  f.Bucket.Format(dateFmt),
			PubYear: f.PubYear,
			Kind:    f.Kind,
			Message: f.Message,
		})
	}
	for _, r := range added {
		rep.NewEntries = append(rep.NewEntries, ReportEntry{EID: r.EID, DOI: r.DOI, Title: r.Title})
	}

	data, err := yaml.Marshal(&rep)
	if err != nil {
		return "", fmt.Errorf("marshaling report: %w", err)
	}

	path := filepath.Join(dir, "run-"+run.StartedAt.UTC().Format("20060102-150405")+".yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, nil
}
