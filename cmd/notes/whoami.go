package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/jrsteele09/go-notes-client/token"
	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _, err := newApp()
		if err != nil {
			return err
		}

		user, err := a.RequireSession(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("%s <%s>\n", user.DisplayName(), user.Email)
		if user.DateOfBirth != "" {
			fmt.Printf("Date of birth: %s\n", user.DateOfBirth)
		}

		info, err := a.TokenInfo()
		if err != nil {
			logger.Debug().Err(err).Msg("Token introspection failed")
			return nil
		}
		if line := tokenSummary(info, time.Now()); line != "" {
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

// tokenSummary describes the session token in one line, or returns "" for an
// opaque token that carries nothing to show.
func tokenSummary(info *token.Introspection, now time.Time) string {
	if info == nil || info.Opaque {
		return ""
	}
	var parts []string
	if info.Subject != "" {
		parts = append(parts, "subject "+info.Subject)
	}
	if !info.IssuedAt.IsZero() {
		parts = append(parts, "issued "+info.IssuedAt.Local().Format(time.DateTime))
	}
	switch {
	case info.ExpiresAt.IsZero():
	case info.Expired(now):
		parts = append(parts, "expired "+info.ExpiresAt.Local().Format(time.DateTime))
	default:
		parts = append(parts, "expires "+info.ExpiresAt.Local().Format(time.DateTime))
	}
	if len(parts) == 0 {
		return ""
	}
	return "Token: " + strings.Join(parts, ", ")
}
