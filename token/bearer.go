package token

import (
	"golang.org/x/oauth2"
)

const bearerType = "Bearer"

// FromRaw wraps a raw bearer credential as an oauth2.Token. When the raw value
// is a JWT with an exp claim, the token's Expiry is set from it, so
// Token.Valid turns false once the server would reject it anyway.
func FromRaw(rawToken string) *oauth2.Token {
	if rawToken == "" {
		return nil
	}
	tok := &oauth2.Token{
		AccessToken: rawToken,
		TokenType:   bearerType,
	}
	if info, err := Inspect(rawToken); err == nil {
		tok.Expiry = info.ExpiresAt
	}
	return tok
}
