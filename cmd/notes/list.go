package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/jrsteele09/go-notes-client/notes"
	"github.com/spf13/cobra"
)

const previewLength = 40

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your notes, newest first",
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
		if err := list.FetchAll(ctx); err != nil {
			return reported(err)
		}

		if listJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(list.Notes())
		}
		printNotes(list.Notes())
		return nil
	},
}

func printNotes(items []notes.Note) {
	if len(items) == 0 {
		fmt.Println("No notes yet. Create one with `notes create`.")
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "TITLE", "CONTENT", "CREATED")
	for _, n := range items {
		t.Row(n.ID, n.Title, preview(n.Content), n.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	fmt.Println(t)
}

func preview(content string) string {
	content = strings.Join(strings.Fields(content), " ")
	if len([]rune(content)) <= previewLength {
		return content
	}
	return string([]rune(content)[:previewLength-1]) + "…"
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
}
