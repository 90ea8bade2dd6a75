// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paw-tracker/internal/classify"
	"github.com/pdiddy/paw-tracker/internal/fetch"
	"github.com/pdiddy/paw-tracker/internal/merge"
	"github.com/pdiddy/paw-tracker/internal/runlog"
	"github.com/pdiddy/paw-tracker/internal/store"
	"github.com/pdiddy/paw-tracker/pkg/types"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Fetch new Scopus entries and merge them into the workbook",
	Long: `Update plans the date window not yet covered by the workbook, fetches
matching Scopus entries day by day (splitting over-cap days by publication
year), merges novel entries, classifies them with Gemini, and saves the
workbook once at the end. A transport failure aborts the run before any
save, so the workbook is never partially updated.`,
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().String("store", "", "workbook path (overrides config)")
	updateCmd.Flags().Bool("dry-run", false, "fetch and merge but do not save the workbook")
	updateCmd.Flags().Bool("no-classify", false, "skip Gemini classification")
	updateCmd.Flags().Bool("classify-missing", false, "also classify pre-existing rows with blank annotation columns")
	updateCmd.Flags().Int("classify-limit", 0, "max rows to classify in one run (0 = no limit)")

	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()
	if path, _ := cmd.Flags().GetString("store"); path != "" {
		cfg.Store.Path = path
	}
	if err := creds.RequireScopus(); err != nil {
		return err
	}

	rows, columns, err := store.Load(cfg.Store.Path, cfg.Store.Sheet)
	if err != nil {
		return err
	}

	now := time.Now()
	window := fetch.PlanWindow(rows, cfg.Search.OverlapDays, now)
	fmt.Printf("window %s (%d rows in store)\n", window, len(rows))

	backend := &fetch.ScopusBackend{
		Client:    &http.Client{Timeout: cfg.Search.Timeout},
		APIKey:    creds.ScopusKey(),
		InstToken: creds.ScopusInstToken,
		UserAgent: cfg.Search.UserAgent,
		PageSize:  cfg.Search.PageSize,
		ResultCap: cfg.Search.ResultCap,
	}

	ctx := context.Background()
	records, report, err := fetch.Fetch(ctx, backend, window, cfg.Search, os.Stdout)
	if err != nil {
		return err
	}

	runTime := now.UTC()
	reg := merge.NewRegistry(rows)
	merged, added := merge.Merge(rows, records, reg, runTime)

	classified := classifyRows(ctx, cmd, cfg, merged, runTime)

	if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
		fmt.Printf("dry run: would add %d new entries (%d fetched)\n", len(added), len(records))
		return nil
	}

	if err := store.Save(cfg.Store.Path, cfg.Store.Sheet, merged, columns); err != nil {
		return err
	}

	summary := runlog.RunSummary{
		StartedAt:   runTime,
		WindowStart: window.Start,
		WindowEnd:   window.End,
		Buckets:     report.Buckets,
		Fallbacks:   report.Fallbacks,
		Fetched:     len(records),
		Added:       len(added),
		Classified:  classified,
		Failures:    report.Failures,
	}
	recordRun(ctx, cfg, summary, added)

	fmt.Printf("Added %d new entries (%d fetched, %d classified)\n", len(added), len(records), classified)
	return nil
}

// classifyRows runs Gemini classification according to the update flags.
// Classification never fails the run: a missing key or a failing API leaves
// annotation columns blank for a later --classify-missing pass.
func classifyRows(ctx context.Context, cmd *cobra.Command, cfg types.PipelineConfig, rows []types.Row, runTime time.Time) int {
	if skip, _ := cmd.Flags().GetBool("no-classify"); skip || !cfg.Classify.Enabled {
		return 0
	}
	if err := creds.RequireGemini(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: skipping classification: %v\n", err)
		return 0
	}

	backend := &classify.GeminiBackend{
		APIKey: creds.GeminiKey,
		Model:  cfg.Classify.Model,
		Client: &http.Client{Timeout: cfg.Search.Timeout},
	}

	pred := classify.AddedAtMatcher(runTime.Format(time.RFC3339))
	if missing, _ := cmd.Flags().GetBool("classify-missing"); missing {
		pred = classify.Unclassified
	}
	limit, _ := cmd.Flags().GetInt("classify-limit")

	return classify.Enrich(ctx, backend, rows, pred, cfg.Classify.MaxRetries, limit, os.Stdout)
}

// recordRun persists the run summary and report. History is observability,
// not correctness: the workbook is already saved, so failures here only warn.
func recordRun(ctx context.Context, cfg types.PipelineConfig, summary runlog.RunSummary, added []types.Row) {
	if cfg.RunLog.DBPath != "" {
		if db, err := runlog.Open(cfg.RunLog.DBPath); err != nil {
			fmt.Fprintf(os.Stderr, "warning: run log unavailable: %v\n", err)
		} else {
			defer db.Close()
			if err := db.Record(ctx, summary); err != nil {
				fmt.Fprintf(os.Stderr, "warning: recording run failed: %v\n", err)
			}
		}
	}
	if cfg.RunLog.ReportDir != "" {
		if path, err := runlog.WriteReport(cfg.RunLog.ReportDir, summary, added); err != nil {
			fmt.Fprintf(os.Stderr, "warning: writing run report failed: %v\n", err)
		} else {
			fmt.Printf("report written to %s\n", path)
		}
	}
}
