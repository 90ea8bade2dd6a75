// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paw-tracker/internal/fetch"
	"github.com/pdiddy/paw-tracker/internal/store"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the date window the next update would fetch",
	Long: `Plan loads the workbook and prints the window the next update would
cover, bucket by bucket, without touching the network. Useful for checking
overlap and timezone behavior before a scheduled run.`,
	RunE: runPlan,
}

func init() {
	planCmd.Flags().String("store", "", "workbook path (overrides config)")

	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()
	if path, _ := cmd.Flags().GetString("store"); path != "" {
		cfg.Store.Path = path
	}

	rows, _, err := store.Load(cfg.Store.Path, cfg.Store.Sheet)
	if err != nil {
		return err
	}

	window := fetch.PlanWindow(rows, cfg.Search.OverlapDays, time.Now())
	days := window.Days()

	fmt.Printf("store: %s (%d rows)\n", cfg.Store.Path, len(rows))
	fmt.Printf("window: %s (%d day buckets, overlap %d days)\n", window, len(days), cfg.Search.OverlapDays)
	for _, d := range days {
		fmt.Printf("  %s\n", d.Format("2006-01-02"))
	}
	return nil
}
