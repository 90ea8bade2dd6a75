// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paw-tracker/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the incremental Scopus fetch stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// Terms is the fixed topical query, without any date or year predicate
	// (e.g. `TITLE-ABS-KEY("plasma-activated water" OR "plasma-activated liquids")`).
	Terms string `json:"terms" yaml:"terms"`

	// OverlapDays is how far before the last ingestion timestamp the
	// planned window starts, to tolerate late indexing and timezone skew
	// (default 2).
	OverlapDays int `json:"overlap_days" yaml:"overlap_days"`

	// ResultCap is the per-query result ceiling the source enforces.
	// Queries whose total exceeds it are subdivided (default 5000).
	ResultCap int `json:"result_cap" yaml:"result_cap"`

	// PageSize is the number of entries requested per API page (default 25).
	PageSize int `json:"page_size" yaml:"page_size"`

	// YearFloor is the earliest publication year tried during cap fallback
	// (default 2000).
	YearFloor int `json:"year_floor" yaml:"year_floor"`
}

// StoreConfig holds settings for the spreadsheet store.
type StoreConfig struct {
	// Path is the workbook file (default "database.xlsx").
	Path string `json:"path" yaml:"path"`

	// Sheet is the worksheet holding the rows (default "Sheet1").
	Sheet string `json:"sheet" yaml:"sheet"`
}

// ClassifyConfig holds settings for the LLM field classifier.
type ClassifyConfig struct {
	// Enabled controls whether newly merged rows are classified.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Model is the Gemini model identifier (default "gemini-2.0-flash").
	Model string `json:"model" yaml:"model"`

	// MaxRetries is the number of retry attempts per entry (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// RunLogConfig holds settings for run history and reports.
type RunLogConfig struct {
	// DBPath is the SQLite run-log database (default "runlog/runs.db").
	DBPath string `json:"db_path" yaml:"db_path"`

	// ReportDir is where YAML run reports are written. Empty disables reports.
	ReportDir string `json:"report_dir" yaml:"report_dir"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Search   SearchConfig   `json:"search" yaml:"search"`
	Store    StoreConfig    `json:"store" yaml:"store"`
	Classify ClassifyConfig `json:"classify" yaml:"classify"`
	RunLog   RunLogConfig   `json:"runlog" yaml:"runlog"`
}
