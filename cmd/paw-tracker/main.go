// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paw-tracker CLI.
// See docs/ARCHITECTURE.md § Pipeline Interface.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paw-tracker/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// creds holds API credentials loaded from the environment and .secrets/ at startup.
var creds secrets.Credentials

// rootCmd is the base command for the paw-tracker CLI.
var rootCmd = &cobra.Command{
	Use:   "paw-tracker",
	Short: "Incremental Scopus tracker for the PAW literature spreadsheet",
	Long: `paw-tracker keeps a spreadsheet of Plasma-Activated Water publications in
sync with Scopus. Each run fetches only the date window not yet covered,
splits it into day buckets (falling back to per-publication-year queries
when Scopus caps a bucket), merges novel entries into the workbook, and
optionally classifies them with Gemini.

Scheduled runs must not overlap: the pipeline assumes exclusive access to
the workbook for the duration of one run.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		creds = c
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./paw-tracker.yaml or ~/.config/paw-tracker/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paw-tracker")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paw-tracker"))
		}
	}

	viper.SetEnvPrefix("PAW_TRACKER")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
