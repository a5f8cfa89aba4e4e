package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	createTitle   string
	createContent string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a note",
	Args:  cobra.NoArgs,
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

		note, err := list.Create(ctx, createTitle, createContent)
		if err != nil {
			return reported(err)
		}
		fmt.Printf("Note created: %s\n", note.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(createCmd)
	createCmd.Flags().StringVarP(&createTitle, "title", "t", "", "Note title")
	createCmd.Flags().StringVarP(&createContent, "content", "c", "", "Note content")
}
