// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Print the cleaned relcd rows without writing them",
	Long: `Clean runs fetch, extract and clean, then prints the rows that run would
write to the store.`,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().Bool("json", false, "print JSON instead of a table")
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	asJSON, _ := cmd.Flags().GetBool("json")

	ctx, cancel := commandContext(cmd)
	defer cancel()

	res, err := newPipeline(cfg, cmd.ErrOrStderr()).Prepare(ctx, cfg)
	if err != nil {
		return err
	}

	if asJSON {
		return renderJSON(cmd.OutOrStdout(), res.Rows)
	}
	renderRows(cmd.OutOrStdout(), res.Rows)
	return nil
}
