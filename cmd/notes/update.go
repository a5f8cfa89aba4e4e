package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	updateTitle   string
	updateContent string
)

var updateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Replace the title and content of a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _, err := newApp()
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

		note, err := list.Update(ctx, args[0], updateTitle, updateContent)
		if err != nil {
			return reported(err)
		}
		fmt.Printf("Note updated: %s\n", note.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)
	updateCmd.Flags().StringVarP(&updateTitle, "title", "t", "", "Note title")
	updateCmd.Flags().StringVarP(&updateContent, "content", "c", "", "Note content")
}
