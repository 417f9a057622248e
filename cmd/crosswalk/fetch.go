// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/pdiddy/crosswalk/internal/acquire"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the crosswalk PDF into the cache directory",
	Long: `Fetch downloads the crosswalk PDF into the cache directory. An existing
copy is kept unless --refresh is given.`,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	client := &http.Client{Timeout: cfg.Source.Timeout}
	_, _, err = acquire.Fetch(ctx, client, cfg.Source, cmd.OutOrStdout())
	return err
}
