// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Print the table extracted from the crosswalk PDF",
	Long: `Extract fetches the PDF when needed and prints the records read from the
configured pages, before any cleaning. Carriage returns inside cells are
shown as \r.`,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().Bool("json", false, "print JSON instead of a table")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	asJSON, _ := cmd.Flags().GetBool("json")

	ctx, cancel := commandContext(cmd)
	defer cancel()

	// Progress lines go to stderr so JSON output stays parseable.
	p := newPipeline(cfg, cmd.ErrOrStderr())
	path, err := p.Fetch(ctx, cfg.Source, p.Out)
	if err != nil {
		return err
	}
	raw, err := p.Extractor.Extract(ctx, path, cfg.Extract.Pages)
	if err != nil {
		return err
	}

	if asJSON {
		return renderJSON(cmd.OutOrStdout(), raw)
	}
	renderRaw(cmd.OutOrStdout(), raw.Rows)
	return nil
}
