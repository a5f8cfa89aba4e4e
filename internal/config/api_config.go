package config

import (
	"strings"
	"time"
)

const (
	apiURLEnvVar         = "NOTES_API_URL"
	requestTimeoutEnvVar = "NOTES_REQUEST_TIMEOUT"
	tokenCookieEnvVar    = "NOTES_TOKEN_COOKIE"
)

type APIConfig interface {
	GetAPIURL() string
	GetRequestTimeout() time.Duration
	GetTokenCookieName() string
}

type API struct {
	file *File
}

var _ APIConfig = API{}

// GetAPIURL returns the base URL of the notes API without a trailing slash.
func (a API) GetAPIURL() string {
	url := lookup(apiURLEnvVar, a.file.value(func(f *File) string { return f.API.URL }), "http://localhost:5000/api")
	return strings.TrimRight(url, "/")
}

func (a API) GetRequestTimeout() time.Duration {
	return lookupDuration(requestTimeoutEnvVar, a.file.value(func(f *File) string { return f.API.Timeout }), 30*time.Second)
}

// GetTokenCookieName is the cookie a verify response may carry the session token in.
func (a API) GetTokenCookieName() string {
	return lookup(tokenCookieEnvVar, a.file.value(func(f *File) string { return f.API.TokenCookie }), "token")
}
