package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-notes-client/internal/app"
	"github.com/jrsteele09/go-notes-client/internal/config"
	apperrors "github.com/jrsteele09/go-notes-client/internal/errors"
	"github.com/jrsteele09/go-notes-client/internal/logging"
	"github.com/jrsteele09/go-notes-client/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	verbose bool

	cfg    config.Config
	logger zerolog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "notes",
	Short: "Sign in with an emailed code and manage your notes",
	Long: `notes is a command line client for the notes API.
Sign in with a one-time passcode sent to your email, then list, create,
update and delete your notes. The session is kept in the data folder
(NOTES_DATA_DIR, default ~/.notes) between runs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.New()
		if err != nil {
			return err
		}
		cfg = c

		level := cfg.GetLogLevel()
		if verbose {
			level = "debug"
		}
		logger = logging.Init(logging.Config{
			Level:  level,
			Format: cfg.GetLogFormat(),
			Output: os.Stderr,
		})
		logger.Debug().Str("env", cfg.GetEnv()).Str("api", cfg.GetAPIURL()).Msg("Configuration loaded")
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var r reportedError
		if !errors.As(err, &r) && !errors.Is(err, apperrors.ErrNotSignedIn) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// reportedError marks an error the user has already been shown.
type reportedError struct {
	err error
}

func (r reportedError) Error() string { return r.err.Error() }

func (r reportedError) Unwrap() error { return r.err }

func reported(err error) error {
	if err == nil {
		return nil
	}
	return reportedError{err: err}
}

// newApp builds the client around a console on stdin and stdout.
func newApp(options ...ui.ConsoleOption) (*app.App, *ui.Console, error) {
	console := ui.NewConsole(os.Stdin, os.Stdout, options...)
	a, err := app.New(cfg, console, logger)
	if err != nil {
		return nil, nil, err
	}
	return a, console, nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
