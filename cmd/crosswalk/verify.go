// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/crosswalk/internal/pipeline"
	"github.com/pdiddy/crosswalk/pkg/types"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check the published relcd table and print its rows",
	Long: `Verify opens the configured store profile, checks that the destination
table exists, and prints the rows it holds followed by the session log.
Nothing is written.`,
	RunE: runVerify,
}

func init() {
	f := verifyCmd.Flags()
	f.String("profile", "", "store connection profile (default from config)")
	f.String("library", "", "library to read (default from config)")
	f.String("table", "", "table to read (default from config)")
	f.Bool("json", false, "print JSON instead of a table")
	rootCmd.AddCommand(verifyCmd)
}

// storeOverrides applies the verify flags that were set on top of cfg.
func storeOverrides(cmd *cobra.Command, cfg types.StoreConfig) types.StoreConfig {
	for name, field := range map[string]*string{
		"profile": &cfg.Profile,
		"library": &cfg.Library,
		"table":   &cfg.Table,
	} {
		if cmd.Flags().Changed(name) {
			*field, _ = cmd.Flags().GetString(name)
		}
	}
	return cfg
}

func runVerify(cmd *cobra.Command, args []string) (err error) {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sc := storeOverrides(cmd, cfg.Store)
	asJSON, _ := cmd.Flags().GetBool("json")

	ctx, cancel := commandContext(cmd)
	defer cancel()

	s, err := pipeline.OpenSession(ctx, sc)
	if err != nil {
		return fmt.Errorf("opening store profile %q: %w", sc.Profile, err)
	}
	out := cmd.OutOrStdout()
	defer func() {
		fmt.Fprint(cmd.ErrOrStderr(), s.Log())
		if closeErr := s.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err := s.Assign(ctx, sc.Library); err != nil {
		return err
	}
	if err := s.Verify(ctx, sc.Library, sc.Table); err != nil {
		return err
	}
	rows, err := s.Rows(ctx, sc.Library, sc.Table)
	if err != nil {
		return err
	}

	if asJSON {
		return renderJSON(out, rows)
	}
	renderRows(out, rows)
	return nil
}
