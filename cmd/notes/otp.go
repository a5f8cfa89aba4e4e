package main

import (
	"context"
	"errors"
	"strings"

	"github.com/jrsteele09/go-notes-client/auth"
	apperrors "github.com/jrsteele09/go-notes-client/internal/errors"
	"github.com/jrsteele09/go-notes-client/ui"
)

var errAborted = errors.New("sign-in cancelled")

// promptValue returns value, or asks for it when empty.
func promptValue(console *ui.Console, value, label string) (string, error) {
	if strings.TrimSpace(value) != "" {
		return value, nil
	}
	return console.Prompt(label)
}

// showFieldErrors prints validation messages. Other failures have already
// been reported by the controller.
func showFieldErrors(console *ui.Console, c *auth.Controller, err error) {
	if !apperrors.IsValidation(err) {
		return
	}
	for _, msg := range c.Flow().Errors {
		ui.Error(console, msg)
	}
}

// verifyLoop reads codes until one is accepted. "r" resends, "q" gives up.
func verifyLoop(ctx context.Context, console *ui.Console, c *auth.Controller) error {
	ui.Info(console, "We've sent a verification code to "+c.Flow().Email)
	for {
		otp, err := console.Prompt("OTP (r to resend, q to quit)")
		if err != nil {
			return err
		}

		switch strings.ToLower(otp) {
		case "q":
			return reported(errAborted)
		case "r":
			_ = c.ResendOTP(ctx)
			continue
		}

		err = c.VerifyOTP(ctx, otp)
		if err == nil {
			return nil
		}
		showFieldErrors(console, c, err)
	}
}
