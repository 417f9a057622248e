// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "crosswalk/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries bounds the retries on HTTP 429 and 503 (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// SourceConfig locates the crosswalk PDF and its local cache.
type SourceConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// URL is the published PDF location.
	URL string `json:"url" yaml:"url" mapstructure:"url"`

	// CacheDir holds downloaded PDFs, one file per URL basename.
	CacheDir string `json:"cache_dir" yaml:"cache_dir" mapstructure:"cache_dir"`

	// Refresh forces a download even when a cached copy exists.
	Refresh bool `json:"refresh" yaml:"refresh" mapstructure:"refresh"`
}

// ExtractConfig holds settings for the extraction stage.
type ExtractConfig struct {
	// Pages lists the 1-indexed pages that carry the crosswalk table.
	Pages []int `json:"pages" yaml:"pages" mapstructure:"pages"`

	// ColumnGap is the horizontal distance, in points, that separates two
	// cells on the same line (default 6).
	ColumnGap float64 `json:"column_gap" yaml:"column_gap" mapstructure:"column_gap"`
}

// SpreadsheetConfig holds settings for the spreadsheet copy.
type SpreadsheetConfig struct {
	// Path is the xlsx file that is created or overwritten.
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// Sheet is the worksheet name (default "relcd").
	Sheet string `json:"sheet" yaml:"sheet" mapstructure:"sheet"`

	// CSV also writes a .csv copy next to Path.
	CSV bool `json:"csv" yaml:"csv" mapstructure:"csv"`
}

// StoreConfig holds settings for the analytical store write.
type StoreConfig struct {
	// Profile names the connection profile in ProfilesFile.
	Profile string `json:"profile" yaml:"profile" mapstructure:"profile"`

	// ProfilesFile is the YAML file holding connection profiles.
	ProfilesFile string `json:"profiles_file" yaml:"profiles_file" mapstructure:"profiles_file"`

	// SecretsDir holds the files that ${name} references in a profile DSN
	// resolve to.
	SecretsDir string `json:"secrets_dir" yaml:"secrets_dir" mapstructure:"secrets_dir"`

	// Library is the destination library (schema) name, e.g. "fmt".
	Library string `json:"library" yaml:"library" mapstructure:"library"`

	// Table is the destination table name, e.g. "relcd".
	Table string `json:"table" yaml:"table" mapstructure:"table"`

	// Marker is the session log text that confirms the write.
	Marker string `json:"marker" yaml:"marker" mapstructure:"marker"`

	// PollInterval is the delay between confirmation polls (default 1s).
	PollInterval time.Duration `json:"poll_interval" yaml:"poll_interval" mapstructure:"poll_interval"`

	// ConfirmTimeout bounds the confirmation wait (default 2m).
	ConfirmTimeout time.Duration `json:"confirm_timeout" yaml:"confirm_timeout" mapstructure:"confirm_timeout"`
}

// LogConfig selects the slog level and handler.
type LogConfig struct {
	Level  string `json:"level" yaml:"level" mapstructure:"level"`
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Source      SourceConfig      `json:"source" yaml:"source" mapstructure:"source"`
	Extract     ExtractConfig     `json:"extract" yaml:"extract" mapstructure:"extract"`
	Spreadsheet SpreadsheetConfig `json:"spreadsheet" yaml:"spreadsheet" mapstructure:"spreadsheet"`
	Store       StoreConfig       `json:"store" yaml:"store" mapstructure:"store"`
	Log         LogConfig         `json:"log" yaml:"log" mapstructure:"log"`
}
