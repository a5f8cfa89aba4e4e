package main

import (
	"github.com/jrsteele09/go-notes-client/auth"
	"github.com/spf13/cobra"
)

var (
	signinEmail string
	signinKeep  bool
)

var signinCmd = &cobra.Command{
	Use:   "signin",
	Short: "Sign in with a one-time passcode sent to your email",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, console, err := newApp()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		displayAppname(cfg.GetAppName())

		c, err := a.NewAuthController(auth.ModeSignIn)
		if err != nil {
			return err
		}
		defer c.Close()
		c.SetKeepLoggedIn(signinKeep)

		email := signinEmail
		for {
			email, err = promptValue(console, email, "Email")
			if err != nil {
				return err
			}
			err = c.RequestOTP(ctx, email)
			if err == nil {
				break
			}
			showFieldErrors(console, c, err)
			email = ""
		}

		return verifyLoop(ctx, console, c)
	},
}

func init() {
	rootCmd.AddCommand(signinCmd)
	signinCmd.Flags().StringVar(&signinEmail, "email", "", "Email address to send the code to")
	signinCmd.Flags().BoolVar(&signinKeep, "keep", false, "Keep me logged in")
}
