// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/crosswalk/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch, extract, clean and write the relcd table",
	Long: `Run downloads the crosswalk PDF (unless cached), extracts the table,
writes the extracted records to the spreadsheet copy, cleans them, and
replaces the relcd table in the format library of the configured store
profile. The session log is printed once the write is confirmed, or when
it fails.`,
	RunE: runRun,
}

func init() {
	f := runCmd.Flags()
	f.String("spreadsheet", "", "spreadsheet copy path (default references/cms_relcd.xlsx)")
	f.String("sheet", "", "worksheet name (default relcd)")
	f.Bool("csv", false, "also write a CSV copy next to the spreadsheet")
	f.String("profile", "", "store connection profile (default pdw)")
	f.String("profiles-file", "", "connection profiles file (default profiles.yaml)")
	f.String("secrets-dir", "", "directory of secrets referenced by profile DSNs (default .secrets)")
	f.String("library", "", "destination library (default fmt)")
	f.String("table", "", "destination table (default relcd)")
	f.String("marker", "", "session log text confirming the write")
	f.Duration("poll-interval", 0, "delay between confirmation polls (default 1s)")
	f.Duration("confirm-timeout", 0, "bound on the confirmation wait (default 2m)")
	f.Bool("skip-spreadsheet", false, "do not write the spreadsheet copy")
	f.Bool("skip-store", false, "do not write to the store")

	bindFlags(f, map[string]string{
		"spreadsheet.path":      "spreadsheet",
		"spreadsheet.sheet":     "sheet",
		"spreadsheet.csv":       "csv",
		"store.profile":         "profile",
		"store.profiles_file":   "profiles-file",
		"store.secrets_dir":     "secrets-dir",
		"store.library":         "library",
		"store.table":           "table",
		"store.marker":          "marker",
		"store.poll_interval":   "poll-interval",
		"store.confirm_timeout": "confirm-timeout",
	})

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	skipSheet, _ := cmd.Flags().GetBool("skip-spreadsheet")
	skipStore, _ := cmd.Flags().GetBool("skip-store")

	ctx, cancel := commandContext(cmd)
	defer cancel()

	out := cmd.OutOrStdout()
	res, err := newPipeline(cfg, out).Run(ctx, cfg, pipeline.RunOptions{
		SkipSpreadsheet: skipSheet,
		SkipStore:       skipStore,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "done: %d rows (run %s)\n", len(res.Rows), res.RunID)
	if !skipStore {
		fmt.Fprintf(out, "table: %s.%s\n", cfg.Store.Library, cfg.Store.Table)
	}
	return nil
}
