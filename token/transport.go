package token

import (
	"net/http"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// Transport attaches "Authorization: Bearer" from Source when a valid token is
// available and sends the request unauthenticated otherwise. Unlike
// oauth2.Transport, a missing token is not an error: sign-in requests have none.
type Transport struct {
	Source oauth2.TokenSource
	Base   http.RoundTripper
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Source == nil {
		return t.base().RoundTrip(req)
	}

	tok, err := t.Source.Token()
	if err != nil {
		log.Warn().Err(err).Msg("bearer token unavailable, sending request without it")
	}
	if err != nil || !tok.Valid() {
		return t.base().RoundTrip(req)
	}

	req2 := req.Clone(req.Context())
	tok.SetAuthHeader(req2)
	return t.base().RoundTrip(req2)
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}
