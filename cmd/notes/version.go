package main

import (
	"fmt"

	"github.com/jrsteele09/go-notes-client/internal/app"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of notes",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		displayAppname(cfg.GetAppName())
		fmt.Printf("%s version %s (%s)\n", cfg.GetAppName(), app.Version, cfg.GetEnv())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
