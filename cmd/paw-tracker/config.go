// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/paw-tracker/pkg/types"
)

// defaultTerms is the fixed topical query the tracker maintains.
const defaultTerms = `TITLE-ABS-KEY("plasma-activated water" OR "plasma-activated liquids")`

func init() {
	viper.SetDefault("search.terms", defaultTerms)
	viper.SetDefault("search.overlap_days", 2)
	viper.SetDefault("search.result_cap", 5000)
	viper.SetDefault("search.page_size", 25)
	viper.SetDefault("search.year_floor", 2000)
	viper.SetDefault("search.timeout", 30*time.Second)
	viper.SetDefault("search.user_agent", "paw-tracker/"+version)

	viper.SetDefault("store.path", "database.xlsx")
	viper.SetDefault("store.sheet", "Sheet1")

	viper.SetDefault("classify.enabled", true)
	viper.SetDefault("classify.model", "gemini-2.0-flash")
	viper.SetDefault("classify.max_retries", 3)

	viper.SetDefault("runlog.db_path", "runlog/runs.db")
	viper.SetDefault("runlog.report_dir", "reports")
}

// pipelineConfig assembles the stage configurations from viper (config
// file, environment, defaults).
func pipelineConfig() types.PipelineConfig {
	return types.PipelineConfig{
		Search: types.SearchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("search.timeout"),
				UserAgent: viper.GetString("search.user_agent"),
			},
			Terms:       viper.GetString("search.terms"),
			OverlapDays: viper.GetInt("search.overlap_days"),
			ResultCap:   viper.GetInt("search.result_cap"),
			PageSize:    viper.GetInt("search.page_size"),
			YearFloor:   viper.GetInt("search.year_floor"),
		},
		Store: types.StoreConfig{
			Path:  viper.GetString("store.path"),
			Sheet: viper.GetString("store.sheet"),
		},
		Classify: types.ClassifyConfig{
			Enabled:    viper.GetBool("classify.enabled"),
			Model:      viper.GetString("classify.model"),
			MaxRetries: viper.GetInt("classify.max_retries"),
		},
		RunLog: types.RunLogConfig{
			DBPath:    viper.GetString("runlog.db_path"),
			ReportDir: viper.GetString("runlog.report_dir"),
		},
	}
}
