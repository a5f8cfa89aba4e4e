package sessions

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/jrsteele09/go-notes-client/credentials"
	apperrors "github.com/jrsteele09/go-notes-client/internal/errors"
	"github.com/jrsteele09/go-notes-client/internal/utils"
	"github.com/jrsteele09/go-notes-client/users"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// API is the part of the remote API the session needs.
type API interface {
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (*users.User, error)
}

// Container owns the single Session of the process. State only changes
// through Reduce, and every change is published to subscribers.
type Container struct {
	api        API
	creds      credentials.Repo
	sessionTTL time.Duration
	logger     zerolog.Logger
	nowTime    func() time.Time

	mu          sync.RWMutex
	state       State
	subscribers []func(State)
}

// Option defines a function type to modify the Container instance.
type Option func(*Container)

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Container) {
		c.logger = logger
	}
}

// WithSessionTTL sets how long a credential saved without "keep me logged in" stays valid locally.
func WithSessionTTL(ttl time.Duration) Option {
	return func(c *Container) {
		c.sessionTTL = ttl
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) Option {
	return func(c *Container) {
		c.nowTime = nowFunc
	}
}

func New(api API, creds credentials.Repo, options ...Option) (*Container, error) {
	if api == nil {
		return nil, errors.New("[sessions.New] api is required")
	}
	if creds == nil {
		return nil, errors.New("[sessions.New] credentials repo is required")
	}

	c := &Container{
		api:        api,
		creds:      creds,
		sessionTTL: 24 * time.Hour,
		logger:     log.Logger,
		nowTime:    time.Now,
		state:      InitialState(),
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// State returns a snapshot of the current session.
func (c *Container) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := c.state
	s.User = utils.Clone(s.User)
	return s
}

// Subscribe registers fn to receive every new state.
func (c *Container) Subscribe(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribers = append(c.subscribers, fn)
}

func (c *Container) dispatch(a Action) {
	c.mu.Lock()
	c.state = Reduce(c.state, a)
	subscribers := slices.Clone(c.subscribers)
	c.mu.Unlock()

	if len(subscribers) == 0 {
		return
	}
	s := c.State()
	for _, fn := range subscribers {
		fn(s)
	}
}

// LoginOption adjusts the credential persisted by Login.
type LoginOption func(*credentials.Credential)

// WithToken stores the bearer token the server issued.
func WithToken(token string) LoginOption {
	return func(cred *credentials.Credential) {
		cred.Token = token
	}
}

// WithKeepLoggedIn drops the local expiry from the stored credential.
func WithKeepLoggedIn(keep bool) LoginOption {
	return func(cred *credentials.Credential) {
		cred.KeepLoggedIn = keep
	}
}

// Login persists the credential and marks user as signed in. The user is
// assumed to be validated by the server already. A storage failure is logged;
// the in-process session is still established.
func (c *Container) Login(user *users.User, options ...LoginOption) {
	if user == nil {
		c.logger.Error().Msg("[Container.Login] called without a user")
		return
	}

	now := c.nowTime()
	cred := &credentials.Credential{User: user, SavedAt: now}
	for _, opt := range options {
		opt(cred)
	}
	if !cred.KeepLoggedIn && c.sessionTTL > 0 {
		cred.ExpiresAt = now.Add(c.sessionTTL)
	}

	if err := c.creds.Save(cred); err != nil {
		c.logger.Error().Err(err).Msg("Failed to persist credential")
	}
	c.dispatch(LoginAction{User: user})
}

// Logout ends the session on the server (best effort) and always clears the
// local credential and state.
func (c *Container) Logout(ctx context.Context) {
	if err := c.api.Logout(ctx); err != nil {
		c.logger.Error().Err(err).Msg("Logout error")
	}
	if err := c.creds.Clear(); err != nil {
		c.logger.Error().Err(err).Msg("Failed to clear credential")
	}
	c.dispatch(LogoutAction{})
}

// SetLoading sets IsLoading without touching the other fields.
func (c *Container) SetLoading(loading bool) {
	c.dispatch(SetLoadingAction{Loading: loading})
}

// Restore asks the server who is signed in. Any failure leaves the session
// logged out with the stored credential cleared. A 401 is the normal answer
// for a signed-out client and is only logged at debug.
func (c *Container) Restore(ctx context.Context) State {
	c.SetLoading(true)
	defer c.SetLoading(false)

	cred, err := c.creds.Load()
	if err != nil {
		c.logger.Warn().Err(err).Msg("Failed to read stored credential")
	}
	if cred.Expired(c.nowTime()) {
		c.logger.Debug().Time("expires_at", cred.ExpiresAt).Msg("Stored credential expired")
		if err := c.creds.Clear(); err != nil {
			c.logger.Error().Err(err).Msg("Failed to clear credential")
		}
		cred = nil
	}

	user, err := c.api.Profile(ctx)
	if err != nil {
		if apperrors.IsAuthorization(err) {
			c.logger.Debug().Err(err).Msg("Not signed in")
		} else {
			c.logger.Error().Err(err).Msg("Auth check failed")
		}
		if err := c.creds.Clear(); err != nil {
			c.logger.Error().Err(err).Msg("Failed to clear credential")
		}
		c.dispatch(LogoutAction{})
		return c.State()
	}

	if cred != nil {
		cred.User = user
		if err := c.creds.Save(cred); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to refresh stored user")
		}
	}
	c.dispatch(LoginAction{User: user})
	return c.State()
}
