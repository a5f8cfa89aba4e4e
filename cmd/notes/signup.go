package main

import (
	"github.com/jrsteele09/go-notes-client/auth"
	"github.com/jrsteele09/go-notes-client/users"
	"github.com/spf13/cobra"
)

var (
	signupName  string
	signupDOB   string
	signupEmail string
	signupKeep  bool
)

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account, verified by a one-time passcode",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, console, err := newApp()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		displayAppname(cfg.GetAppName())

		c, err := a.NewAuthController(auth.ModeSignUp)
		if err != nil {
			return err
		}
		defer c.Close()
		c.SetKeepLoggedIn(signupKeep)

		details := users.SignupDetails{FullName: signupName, Email: signupEmail, DateOfBirth: signupDOB}
		for {
			if details.FullName, err = promptValue(console, details.FullName, "Full name"); err != nil {
				return err
			}
			if details.DateOfBirth, err = promptValue(console, details.DateOfBirth, "Date of birth (YYYY-MM-DD)"); err != nil {
				return err
			}
			if details.Email, err = promptValue(console, details.Email, "Email"); err != nil {
				return err
			}

			err = c.RequestSignupOTP(ctx, details)
			if err == nil {
				break
			}
			showFieldErrors(console, c, err)

			// Ask again only for the fields that were rejected.
			flow := c.Flow()
			if _, ok := flow.Errors[auth.FieldFullName]; ok {
				details.FullName = ""
			}
			if _, ok := flow.Errors[auth.FieldDateOfBirth]; ok {
				details.DateOfBirth = ""
			}
			if _, ok := flow.Errors[auth.FieldEmail]; ok {
				details.Email = ""
			}
		}

		return verifyLoop(ctx, console, c)
	},
}

func init() {
	rootCmd.AddCommand(signupCmd)
	signupCmd.Flags().StringVar(&signupName, "name", "", "Full name")
	signupCmd.Flags().StringVar(&signupDOB, "dob", "", "Date of birth (YYYY-MM-DD)")
	signupCmd.Flags().StringVar(&signupEmail, "email", "", "Email address")
	signupCmd.Flags().BoolVar(&signupKeep, "keep", false, "Keep me logged in")
}
