package main

import (
	"github.com/jrsteele09/go-notes-client/ui"
	"github.com/spf13/cobra"
)

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a note",
	Long:  `Delete permanently removes a note on the server. You are asked to confirm unless --yes is given.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _, err := newApp(ui.WithAssumeYes(deleteYes))
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		if _, err := a.RequireSession(ctx); err != nil {
			return err
		}
		list, err := a.NewNotesList()
		if err != nil {
			return err
		}
		return reported(list.Delete(ctx, args[0]))
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Do not ask for confirmation")
}
