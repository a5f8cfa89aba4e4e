package main

import (
	"github.com/jrsteele09/go-notes-client/ui"
	"github.com/spf13/cobra"
)

var logoutYes bool

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the session and forget the stored credential",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _, err := newApp(ui.WithAssumeYes(logoutYes))
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		if _, err := a.RequireSession(ctx); err != nil {
			return err
		}
		return reported(a.Logout(ctx))
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
	logoutCmd.Flags().BoolVarP(&logoutYes, "yes", "y", false, "Do not ask for confirmation")
}
