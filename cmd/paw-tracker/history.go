// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paw-tracker/internal/runlog"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent update runs from the run log",
	Long: `History reads the SQLite run log and lists recent runs with their
window, counts, and how many slices degraded. Use --failures to expand the
degraded slices of a specific run.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to list")
	historyCmd.Flags().Int64("failures", 0, "show slice failures for the given run ID")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()

	db, err := runlog.Open(cfg.RunLog.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()

	if runID, _ := cmd.Flags().GetInt64("failures"); runID > 0 {
		failures, err := db.FailuresFor(ctx, runID)
		if err != nil {
			return err
		}
		if len(failures) == 0 {
			fmt.Printf("run %d: no degraded slices\n", runID)
			return nil
		}
		for _, f := range failures {
			fmt.Printf("%s  pubyear %d  %-11s  %s\n", f.Bucket.Format("2006-01-02"), f.PubYear, f.Kind, f.Message)
		}
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := db.Recent(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Printf("%-4s  %-20s  %-23s  %7s  %5s  %10s  %8s\n",
		"ID", "Started", "Window", "Fetched", "Added", "Classified", "Degraded")
	for _, r := range runs {
		fmt.Printf("%-4d  %-20s  %s..%s  %7d  %5d  %10d  %8d\n",
			r.ID, r.StartedAt, r.WindowStart, r.WindowEnd, r.Fetched, r.Added, r.Classified, r.Failures)
	}
	return nil
}
