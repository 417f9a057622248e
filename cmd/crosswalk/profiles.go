// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/crosswalk/internal/store"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List the store connection profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := viper.GetString("store.profiles_file")
		profiles, err := store.LoadProfiles(path)
		if err != nil {
			return err
		}
		current := viper.GetString("store.profile")
		out := cmd.OutOrStdout()
		for _, name := range store.ProfileNames(profiles) {
			mark := " "
			if name == current {
				mark = "*"
			}
			p := profiles[name]
			fmt.Fprintf(out, "%s %-12s %-8s %s\n", mark, name, p.Driver, p.DSN)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profilesCmd)
}
