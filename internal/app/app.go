package app

import (
	"context"

	"github.com/jrsteele09/go-notes-client/apiclient"
	"github.com/jrsteele09/go-notes-client/auth"
	"github.com/jrsteele09/go-notes-client/credentials"
	"github.com/jrsteele09/go-notes-client/internal/config"
	apperrors "github.com/jrsteele09/go-notes-client/internal/errors"
	"github.com/jrsteele09/go-notes-client/notes"
	"github.com/jrsteele09/go-notes-client/sessions"
	"github.com/jrsteele09/go-notes-client/token"
	"github.com/jrsteele09/go-notes-client/ui"
	"github.com/jrsteele09/go-notes-client/users"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Version is the client release, printed by `notes version`.
const Version = "0.3.0"

const (
	MsgConfirmLogout = "Are you sure you want to logout?"
	MsgLoggedOut     = "Logged out successfully!"
)

// App holds the components of one client process, built from configuration.
type App struct {
	config  config.Config
	logger  zerolog.Logger
	view    ui.View
	creds   credentials.Repo
	api     *apiclient.Client
	session *sessions.Container
}

func New(cfg config.Config, view ui.View, logger zerolog.Logger) (*App, error) {
	if cfg == nil {
		return nil, errors.New("[app.New] config is required")
	}
	if view == nil {
		return nil, errors.New("[app.New] view is required")
	}

	creds := credentials.NewFileRepo(cfg.GetDataFolder())

	api, err := apiclient.New(cfg.GetAPIURL(),
		apiclient.WithTokenSource(token.NewStoredSource(creds)),
		apiclient.WithTimeout(cfg.GetRequestTimeout()),
		apiclient.WithTokenCookie(cfg.GetTokenCookieName()),
		apiclient.WithLogger(component(logger, "apiclient")),
	)
	if err != nil {
		return nil, errors.Wrap(err, "[app.New] apiclient.New")
	}

	session, err := sessions.New(api, creds,
		sessions.WithSessionTTL(cfg.GetSessionTTL()),
		sessions.WithLogger(component(logger, "sessions")),
	)
	if err != nil {
		return nil, errors.Wrap(err, "[app.New] sessions.New")
	}

	sessionLogger := component(logger, "sessions")
	session.Subscribe(func(s sessions.State) {
		event := sessionLogger.Debug().
			Bool("authenticated", s.IsAuthenticated).
			Bool("loading", s.IsLoading)
		if s.User != nil {
			event = event.Str("user", s.User.MaskedEmail())
		}
		event.Msg("Session state changed")
	})

	return &App{
		config:  cfg,
		logger:  logger,
		view:    view,
		creds:   creds,
		api:     api,
		session: session,
	}, nil
}

func component(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str("component", name).Logger()
}

func (a *App) Config() config.Config {
	return a.config
}

func (a *App) Session() *sessions.Container {
	return a.session
}

// NewAuthController starts a fresh sign-in or sign-up attempt.
func (a *App) NewAuthController(mode auth.Mode) (*auth.Controller, error) {
	return auth.NewController(a.api, a.session, a.view, mode,
		auth.WithResendCooldown(a.config.GetResendCooldown()),
		auth.WithLogger(component(a.logger, "auth")),
	)
}

func (a *App) NewNotesList() (*notes.List, error) {
	return notes.NewList(a.api, a.session, a.view, notes.WithLogger(component(a.logger, "notes")))
}

// RequireSession restores the session from the stored credential. When that
// ends signed out the view is sent to sign-in and ErrNotSignedIn is returned.
func (a *App) RequireSession(ctx context.Context) (*users.User, error) {
	s := a.session.Restore(ctx)
	if !s.IsAuthenticated {
		a.view.Navigate(ui.DestinationSignIn)
		return nil, apperrors.ErrNotSignedIn
	}
	return s.User, nil
}

// TokenInfo reports what the stored bearer token says about itself.
func (a *App) TokenInfo() (*token.Introspection, error) {
	cred, err := a.creds.Load()
	if err != nil {
		return nil, errors.Wrap(err, "[App.TokenInfo] creds.Load")
	}
	if cred == nil || cred.Token == "" {
		return nil, apperrors.ErrNotSignedIn
	}
	info, err := token.Inspect(cred.Token)
	if err != nil {
		return nil, errors.Wrap(err, "[App.TokenInfo]")
	}
	return info, nil
}

// Logout asks for confirmation, then ends the session.
func (a *App) Logout(ctx context.Context) error {
	if !a.view.Confirm(MsgConfirmLogout) {
		return ui.ErrNotConfirmed
	}
	a.session.Logout(ctx)
	ui.Success(a.view, MsgLoggedOut)
	a.view.Navigate(ui.DestinationSignIn)
	return nil
}
