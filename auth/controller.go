package auth

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/felixgeelhaar/fortify/ratelimit"
	"github.com/jrsteele09/go-notes-client/apiclient"
	apperrors "github.com/jrsteele09/go-notes-client/internal/errors"
	"github.com/jrsteele09/go-notes-client/sessions"
	"github.com/jrsteele09/go-notes-client/ui"
	"github.com/jrsteele09/go-notes-client/users"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	MsgOTPSent       = "OTP sent successfully! Check your email."
	MsgSendOTPFailed = "Failed to send OTP"
	MsgInvalidOTP    = "Invalid OTP"
	MsgSignedIn      = "Signed in successfully!"
	MsgSignedUp      = "Account created successfully!"
	MsgOTPResent     = "OTP resent successfully!"
	MsgResendFailed  = "Failed to resend OTP"
	MsgResendTooSoon = "Please wait before requesting another OTP"
)

// API is the part of the remote API the OTP flows need.
type API interface {
	SendSigninOTP(ctx context.Context, email string) error
	VerifySigninOTP(ctx context.Context, email, otp string) (*apiclient.AuthResponse, error)
	SendSignupOTP(ctx context.Context, details users.SignupDetails) error
	VerifySignupOTP(ctx context.Context, details users.SignupDetails, otp string) (*apiclient.AuthResponse, error)
}

// Session is where a verified user is handed over.
type Session interface {
	Login(user *users.User, options ...sessions.LoginOption)
}

// Limiter throttles OTP resends per email address. Release hands back a slot
// taken by Allow when the send it guarded never went out.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
	Release(ctx context.Context, key string) error
}

// Controller drives the two step OTP exchange: request a code, then verify it.
// Every send and verify carries a sequence number and a response that is no
// longer the latest is dropped with apperrors.ErrSuperseded.
type Controller struct {
	api     API
	session Session
	view    ui.View
	limiter Limiter
	logger  zerolog.Logger
	nowTime func() time.Time

	mu   sync.Mutex
	flow Flow
	seq  uint64
}

// Option defines a function type to modify the Controller instance.
type Option func(*Controller)

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithResendLimiter replaces the cooldown limiter. A nil limiter disables throttling.
func WithResendLimiter(l Limiter) Option {
	return func(c *Controller) {
		c.limiter = l
	}
}

// WithResendCooldown allows one resend per email per cooldown. Zero disables throttling.
func WithResendCooldown(cooldown time.Duration) Option {
	return func(c *Controller) {
		c.limiter = NewCooldownLimiter(cooldown)
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) Option {
	return func(c *Controller) {
		c.nowTime = nowFunc
	}
}

// NewCooldownLimiter returns a limiter that lets one request per key through
// every cooldown, or nil when cooldown is not positive.
func NewCooldownLimiter(cooldown time.Duration) Limiter {
	if cooldown <= 0 {
		return nil
	}
	store := ratelimit.NewMemoryStore()
	return &cooldownLimiter{
		RateLimiter: ratelimit.New(&ratelimit.Config{
			Rate:     1,
			Burst:    1,
			Interval: cooldown,
			Store:    store,
		}),
		store: store,
	}
}

// cooldownLimiter is a fortify token bucket per email whose bucket can be dropped.
type cooldownLimiter struct {
	ratelimit.RateLimiter
	store *ratelimit.MemoryStore
}

func (l *cooldownLimiter) Release(ctx context.Context, key string) error {
	return l.store.Delete(ctx, key)
}

func NewController(api API, session Session, view ui.View, mode Mode, options ...Option) (*Controller, error) {
	if api == nil {
		return nil, errors.New("[NewController] api is required")
	}
	if session == nil {
		return nil, errors.New("[NewController] session is required")
	}
	if view == nil {
		return nil, errors.New("[NewController] view is required")
	}

	c := &Controller{
		api:     api,
		session: session,
		view:    view,
		limiter: NewCooldownLimiter(30 * time.Second),
		logger:  log.Logger,
		nowTime: time.Now,
		flow:    Flow{Mode: mode, Errors: map[string]string{}},
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// Close stops the resend limiter.
func (c *Controller) Close() error {
	if closer, ok := c.limiter.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Flow returns a snapshot of the current attempt.
func (c *Controller) Flow() Flow {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flow.clone()
}

func (c *Controller) SetKeepLoggedIn(keep bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flow.KeepLoggedIn = keep
}

// Reset abandons the attempt ("use a different email"). Responses still in
// flight are discarded.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	c.flow = Flow{
		Mode:         c.flow.Mode,
		KeepLoggedIn: c.flow.KeepLoggedIn,
		Errors:       map[string]string{},
	}
}

// RequestOTP sends a sign-in code to email.
func (c *Controller) RequestOTP(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	return c.requestOTP(ctx, email, users.SignupDetails{}, func(ctx context.Context) error {
		return c.api.SendSigninOTP(ctx, email)
	})
}

// RequestSignupOTP validates the sign-up details and sends a code to their email.
func (c *Controller) RequestSignupOTP(ctx context.Context, details users.SignupDetails) error {
	details.FullName = strings.TrimSpace(details.FullName)
	details.Email = strings.TrimSpace(details.Email)
	details.DateOfBirth = strings.TrimSpace(details.DateOfBirth)

	c.mu.Lock()
	if c.flow.Mode != ModeSignUp {
		c.mu.Unlock()
		return errors.Wrap(ErrInvalidState, "[Controller.RequestSignupOTP] controller is in sign-in mode")
	}
	if errs := ValidateSignup(details, c.nowTime()); len(errs) > 0 {
		c.flow.Errors = errs
		c.flow.Signup = details
		c.flow.Email = details.Email
		c.mu.Unlock()
		return errors.Wrap(firstValidationError(errs), "[Controller.RequestSignupOTP]")
	}
	c.mu.Unlock()

	return c.requestOTP(ctx, details.Email, details, func(ctx context.Context) error {
		return c.api.SendSignupOTP(ctx, details)
	})
}

func (c *Controller) requestOTP(ctx context.Context, email string, details users.SignupDetails, send func(context.Context) error) error {
	c.mu.Lock()
	if c.flow.State != StateIdle {
		state := c.flow.State
		c.mu.Unlock()
		return errors.Wrapf(ErrInvalidState, "[Controller.RequestOTP] state %s", state)
	}
	if err := ValidateEmail(email); err != nil {
		c.flow.Email = email
		c.setFieldError(err)
		c.mu.Unlock()
		return errors.Wrap(err, "[Controller.RequestOTP]")
	}
	c.flow.Email = email
	c.flow.Signup = details
	c.flow.Errors = map[string]string{}
	mode := c.flow.Mode
	seq := c.begin()
	c.mu.Unlock()

	err := send(ctx)

	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		return apperrors.ErrSuperseded
	}
	c.flow.Loading = false
	if err != nil {
		msg := apperrors.UserMessage(err, MsgSendOTPFailed)
		c.flow.Errors[FieldEmail] = msg
		c.fail(msg)
		c.mu.Unlock()
		c.logger.Debug().Err(err).Str("mode", mode.String()).Msg("Send OTP failed")
		ui.Error(c.view, msg)
		return errors.Wrap(err, "[Controller.RequestOTP]")
	}
	c.flow.OTPSent = true
	c.flow.Message = MsgOTPSent
	c.flow.Failure = ""
	c.transition(StateOTPRequested)
	c.mu.Unlock()

	// The first send starts the resend cooldown.
	if c.limiter != nil {
		c.limiter.Allow(ctx, email)
	}
	ui.Success(c.view, MsgOTPSent)
	return nil
}

// VerifyOTP submits the code. On success the user is handed to the session
// and the view moves on to the notes list.
func (c *Controller) VerifyOTP(ctx context.Context, otp string) error {
	otp = strings.TrimSpace(otp)

	c.mu.Lock()
	if c.flow.State != StateOTPRequested {
		state := c.flow.State
		c.mu.Unlock()
		return errors.Wrapf(ErrInvalidState, "[Controller.VerifyOTP] state %s", state)
	}
	c.flow.OTP = otp
	if err := ValidateOTP(otp); err != nil {
		c.setFieldError(err)
		c.mu.Unlock()
		return errors.Wrap(err, "[Controller.VerifyOTP]")
	}
	delete(c.flow.Errors, FieldOTP)
	mode, email, details, keep := c.flow.Mode, c.flow.Email, c.flow.Signup, c.flow.KeepLoggedIn
	seq := c.begin()
	c.mu.Unlock()

	var (
		resp *apiclient.AuthResponse
		err  error
	)
	if mode == ModeSignUp {
		resp, err = c.api.VerifySignupOTP(ctx, details, otp)
	} else {
		resp, err = c.api.VerifySigninOTP(ctx, email, otp)
	}
	if err == nil && (resp == nil || resp.User == nil) {
		err = ErrMissingSession
	}

	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		return apperrors.ErrSuperseded
	}
	c.flow.Loading = false
	if err != nil {
		msg := apperrors.UserMessage(err, MsgInvalidOTP)
		c.flow.Errors[FieldOTP] = msg
		c.flow.Message = msg
		c.flow.Failure = msg
		c.mu.Unlock()
		c.logger.Debug().Err(err).Str("mode", mode.String()).Msg("Verify OTP failed")
		ui.Error(c.view, msg)
		return errors.Wrap(err, "[Controller.VerifyOTP]")
	}

	msg := MsgSignedIn
	if mode == ModeSignUp {
		msg = MsgSignedUp
	}
	c.flow.Message = msg
	c.flow.Failure = ""
	c.transition(StateAuthenticated)
	c.mu.Unlock()

	c.session.Login(resp.User, sessions.WithToken(resp.Token), sessions.WithKeepLoggedIn(keep))
	ui.Success(c.view, msg)
	c.view.Navigate(ui.DestinationNotes)
	return nil
}

// ResendOTP sends a fresh code to the remembered email. The flow state is unchanged.
func (c *Controller) ResendOTP(ctx context.Context) error {
	c.mu.Lock()
	if c.flow.State != StateOTPRequested {
		state := c.flow.State
		c.mu.Unlock()
		return errors.Wrapf(ErrInvalidState, "[Controller.ResendOTP] state %s", state)
	}
	if c.flow.Resending {
		c.mu.Unlock()
		return errors.Wrap(ErrResendTooSoon, "[Controller.ResendOTP] resend already in flight")
	}
	mode, email, details := c.flow.Mode, c.flow.Email, c.flow.Signup
	c.mu.Unlock()

	if c.limiter != nil && !c.limiter.Allow(ctx, email) {
		c.setMessage(MsgResendTooSoon)
		ui.Error(c.view, MsgResendTooSoon)
		return ErrResendTooSoon
	}

	c.mu.Lock()
	c.flow.Resending = true
	c.mu.Unlock()

	var err error
	if mode == ModeSignUp {
		err = c.api.SendSignupOTP(ctx, details)
	} else {
		err = c.api.SendSigninOTP(ctx, email)
	}

	c.mu.Lock()
	c.flow.Resending = false
	if c.flow.State != StateOTPRequested || c.flow.Email != email {
		c.mu.Unlock()
		return apperrors.ErrSuperseded
	}
	if err != nil {
		c.flow.Message = MsgResendFailed
		c.mu.Unlock()
		c.logger.Debug().Err(err).Msg("Resend OTP failed")
		// No code went out, so the cooldown does not apply to the retry.
		if c.limiter != nil {
			if rerr := c.limiter.Release(ctx, email); rerr != nil {
				c.logger.Warn().Err(rerr).Msg("Release resend cooldown")
			}
		}
		ui.Error(c.view, MsgResendFailed)
		return errors.Wrap(err, "[Controller.ResendOTP]")
	}
	c.flow.Message = MsgOTPResent
	c.mu.Unlock()

	ui.Success(c.view, MsgOTPResent)
	return nil
}

// begin marks a request in flight and returns its sequence number. Caller holds mu.
func (c *Controller) begin() uint64 {
	c.seq++
	c.flow.Loading = true
	return c.seq
}

// fail records reason and returns the flow to Idle through Failed. Caller holds mu.
func (c *Controller) fail(reason string) {
	c.flow.Message = reason
	c.flow.Failure = reason
	c.transition(StateFailed)
	c.transition(StateIdle)
}

// transition moves the flow to state. Caller holds mu.
func (c *Controller) transition(to FlowState) {
	if c.flow.State == to {
		return
	}
	c.logger.Debug().Str("from", c.flow.State.String()).Str("to", to.String()).Msg("Auth flow transition")
	c.flow.State = to
}

// setFieldError records a validation error against its field. Caller holds mu.
func (c *Controller) setFieldError(err error) {
	var ve *apperrors.ValidationError
	if apperrors.As(err, &ve) {
		c.flow.Errors[ve.Field] = ve.Message
		c.flow.Message = ve.Message
	}
}

func (c *Controller) setMessage(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flow.Message = msg
}

func firstValidationError(errs map[string]string) error {
	for _, field := range []string{FieldFullName, FieldEmail, FieldDateOfBirth} {
		if msg, ok := errs[field]; ok {
			return &apperrors.ValidationError{Field: field, Message: msg}
		}
	}
	return apperrors.ErrValidation
}
