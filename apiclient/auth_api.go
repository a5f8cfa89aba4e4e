package apiclient

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-notes-client/users"
	"github.com/pkg/errors"
)

type sendSigninOTPRequest struct {
	Email string `json:"email"`
}

type verifySigninOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type verifySignupOTPRequest struct {
	users.SignupDetails
	OTP string `json:"otp"`
}

// AuthResponse is the result of a successful OTP verification.
type AuthResponse struct {
	User    *users.User `json:"user"`
	Token   string      `json:"token,omitempty"`
	Message string      `json:"message,omitempty"`
}

type profileResponse struct {
	User *users.User `json:"user"`
}

func (c *Client) SendSignupOTP(ctx context.Context, details users.SignupDetails) error {
	if _, err := c.do(ctx, http.MethodPost, RouteSignupSendOTP, details, nil); err != nil {
		return errors.Wrap(err, "[Client.SendSignupOTP]")
	}
	return nil
}

func (c *Client) VerifySignupOTP(ctx context.Context, details users.SignupDetails, otp string) (*AuthResponse, error) {
	return c.verify(ctx, RouteSignupVerifyOTP, verifySignupOTPRequest{SignupDetails: details, OTP: otp})
}

func (c *Client) SendSigninOTP(ctx context.Context, email string) error {
	if _, err := c.do(ctx, http.MethodPost, RouteSigninSendOTP, sendSigninOTPRequest{Email: email}, nil); err != nil {
		return errors.Wrap(err, "[Client.SendSigninOTP]")
	}
	return nil
}

func (c *Client) VerifySigninOTP(ctx context.Context, email, otp string) (*AuthResponse, error) {
	return c.verify(ctx, RouteSigninVerifyOTP, verifySigninOTPRequest{Email: email, OTP: otp})
}

// Logout asks the server to end the session.
func (c *Client) Logout(ctx context.Context) error {
	if _, err := c.do(ctx, http.MethodPost, RouteLogout, nil, nil); err != nil {
		return errors.Wrap(err, "[Client.Logout]")
	}
	return nil
}

// Profile returns the signed-in user, or an AuthorizationError when there is none.
func (c *Client) Profile(ctx context.Context) (*users.User, error) {
	var out profileResponse
	if _, err := c.do(ctx, http.MethodGet, RouteProfile, nil, &out); err != nil {
		return nil, errors.Wrap(err, "[Client.Profile]")
	}
	if out.User == nil {
		return nil, errors.New("[Client.Profile] response has no user")
	}
	return out.User, nil
}

// verify posts an OTP and takes the session token from the body, or from the
// token cookie when the server only sets that.
func (c *Client) verify(ctx context.Context, route string, body any) (*AuthResponse, error) {
	var out AuthResponse
	resp, err := c.do(ctx, http.MethodPost, route, body, &out)
	if err != nil {
		return nil, errors.Wrapf(err, "[Client.verify] %s", route)
	}
	if out.User == nil {
		return nil, errors.Errorf("[Client.verify] %s: response has no user", route)
	}
	if out.Token == "" && c.tokenCookie != "" {
		for _, cookie := range resp.Cookies() {
			if cookie.Name == c.tokenCookie {
				out.Token = cookie.Value
				break
			}
		}
	}
	return &out, nil
}
