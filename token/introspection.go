package token

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-notes-client/internal/utils"
	"github.com/pkg/errors"
)

// Introspection is what the client can learn about its bearer token without
// the server's key. Nothing here is verified; the server stays authoritative.
type Introspection struct {
	Opaque    bool      // Not a JWT, so nothing further is known
	Subject   string    // sub claim
	IssuedAt  time.Time // iat claim, zero when absent
	ExpiresAt time.Time // exp claim, zero when absent
}

// Expired reports whether the token carries an exp claim that has passed.
func (i *Introspection) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && !now.Before(i.ExpiresAt)
}

// Inspect reads the claims of a raw bearer token without verifying its signature.
// Tokens that are not JWTs are reported as opaque rather than as errors.
func Inspect(rawToken string) (*Introspection, error) {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return nil, errors.New("[token.Inspect] empty token")
	}
	if strings.Count(rawToken, ".") != 2 {
		return &Introspection{Opaque: true}, nil
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(rawToken, claims); err != nil {
		return nil, errors.Wrap(err, "[token.Inspect] ParseUnverified")
	}

	info := &Introspection{}
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	if iat, err := claims.GetIssuedAt(); err == nil {
		info.IssuedAt = utils.Value(iat).Time
	}
	return info, nil
}
