// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paw-tracker/internal/store"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a fresh workbook with the tracking columns",
	Long: `Init creates the store workbook with the full column header and no
rows. It refuses to overwrite an existing workbook; update treats a missing
workbook as a fatal error, so run init exactly once per deployment.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().String("store", "", "workbook path (overrides config)")

	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()
	if path, _ := cmd.Flags().GetString("store"); path != "" {
		cfg.Store.Path = path
	}

	if _, err := os.Stat(cfg.Store.Path); err == nil {
		return fmt.Errorf("workbook %s already exists", cfg.Store.Path)
	}

	if err := store.Create(cfg.Store.Path, cfg.Store.Sheet); err != nil {
		return err
	}
	fmt.Printf("created %s\n", cfg.Store.Path)
	return nil
}
