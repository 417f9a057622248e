// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the crosswalk CLI.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/crosswalk/internal/logging"
	"github.com/pdiddy/crosswalk/internal/pipeline"
	"github.com/pdiddy/crosswalk/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	defaultURL       = "https://www.cms.gov/Regulations-and-Guidance/Guidance/Transmittals/downloads/R9MSP.pdf"
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "crosswalk/0.1"
)

// rootCmd is the base command for the crosswalk CLI.
var rootCmd = &cobra.Command{
	Use:   "crosswalk",
	Short: "Load the CMS relationship code crosswalk into the format library",
	Long: `crosswalk downloads the CMS crosswalk of HIPAA Individual Relationship
Codes, extracts the table from the published PDF, cleans it, and writes it
to a spreadsheet copy and to the relcd table of the format library.

run performs every stage in order. fetch, extract and clean stop after
their stage so intermediate output can be inspected.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(os.Stderr, viper.GetString("log.level"), viper.GetString("log.format"))
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./crosswalk.yaml or ~/.config/crosswalk/crosswalk.yaml)")
	pf.String("log-level", "", "log level: debug, info, warn, error (default info)")
	pf.String("log-format", "", "log format: text or json (default text)")
	pf.String("url", "", "crosswalk PDF location")
	pf.IntSlice("pages", nil, "1-indexed pages holding the table (default 7,8)")
	pf.String("cache-dir", "", "directory for downloaded PDFs (default downloads)")
	pf.Bool("refresh", false, "download even when a cached copy exists")
	pf.Float64("column-gap", 0, "horizontal gap in points separating cells (default 6)")

	bindFlags(pf, map[string]string{
		"log.level":          "log-level",
		"log.format":         "log-format",
		"source.url":         "url",
		"source.cache_dir":   "cache-dir",
		"source.refresh":     "refresh",
		"extract.pages":      "pages",
		"extract.column_gap": "column-gap",
	})
}

// setDefaults registers the value of every configuration key that a
// config file, environment variable or flag may override.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("source.url", defaultURL)
	v.SetDefault("source.cache_dir", "downloads")
	v.SetDefault("source.refresh", false)
	v.SetDefault("source.timeout", defaultTimeout)
	v.SetDefault("source.user_agent", defaultUserAgent)
	v.SetDefault("source.max_retries", 5)

	v.SetDefault("extract.pages", []int{7, 8})
	v.SetDefault("extract.column_gap", 6.0)

	v.SetDefault("spreadsheet.path", filepath.Join("references", "cms_relcd.xlsx"))
	v.SetDefault("spreadsheet.sheet", "relcd")
	v.SetDefault("spreadsheet.csv", false)

	v.SetDefault("store.profile", "pdw")
	v.SetDefault("store.profiles_file", "profiles.yaml")
	v.SetDefault("store.secrets_dir", ".secrets")
	v.SetDefault("store.library", "fmt")
	v.SetDefault("store.table", types.FmtName)
	v.SetDefault("store.marker", "TABLE_EXISTS= 1")
	v.SetDefault("store.poll_interval", time.Second)
	v.SetDefault("store.confirm_timeout", 2*time.Minute)
}

func initConfig() {
	setDefaults(viper.GetViper())

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("crosswalk")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "crosswalk"))
		}
	}

	viper.SetEnvPrefix("CROSSWALK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// bindFlags binds each config key to the named flag of fs.
func bindFlags(fs *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		if err := viper.BindPFlag(key, fs.Lookup(name)); err != nil {
			panic(fmt.Sprintf("binding flag %s: %v", name, err))
		}
	}
}

// loadConfig decodes the merged global configuration.
func loadConfig() (types.PipelineConfig, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (types.PipelineConfig, error) {
	var cfg types.PipelineConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}
	return cfg, nil
}

// commandContext returns a context cancelled by SIGINT or SIGTERM.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}

// newPipeline wires the production pipeline for cfg, printing stage
// progress to out.
func newPipeline(cfg types.PipelineConfig, out io.Writer) *pipeline.Pipeline {
	client := &http.Client{Timeout: cfg.Source.Timeout}
	return pipeline.New(client, cfg.Extract, out, slog.Default())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
