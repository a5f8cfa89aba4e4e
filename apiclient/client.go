package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/go-notes-client/internal/errors"
	"github.com/jrsteele09/go-notes-client/token"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

const (
	contentTypeJSON = "application/json"
	headerRequestID = "X-Request-ID"
	maxResponseSize = 4 << 20
	defaultTimeout  = 30 * time.Second
)

// Client talks to the notes REST API. Every failure it returns is one of
// apperrors.TransportError, AuthorizationError or ServerError (or a wrapped
// decode error for malformed success bodies).
type Client struct {
	baseURL     string
	httpClient  *http.Client
	tokenSource oauth2.TokenSource
	tokenCookie string
	timeout     time.Duration
	logger      zerolog.Logger
}

// Option defines a function type to modify the Client instance.
type Option func(*Client)

// WithHTTPClient replaces the default client. Its transport is used as is.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTokenSource attaches bearer tokens from src to outgoing requests.
func WithTokenSource(src oauth2.TokenSource) Option {
	return func(c *Client) {
		c.tokenSource = src
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithTokenCookie names the cookie a verify response may deliver the session token in.
func WithTokenCookie(name string) Option {
	return func(c *Client) {
		c.tokenCookie = name
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func New(baseURL string, options ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("[apiclient.New] base URL is required")
	}

	c := &Client{
		baseURL:     baseURL,
		tokenCookie: "token",
		timeout:     defaultTimeout,
		logger:      log.Logger,
	}
	for _, opt := range options {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Timeout: c.timeout,
			Transport: &token.Transport{
				Source: c.tokenSource,
				Base:   newTransport(),
			},
		}
	}
	return c, nil
}

func newTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConns:          10,
		ForceAttemptHTTP2:     true,
	}
}

// do sends body as JSON and decodes a successful response into out (when non nil).
func (c *Client) do(ctx context.Context, method, path string, body, out any) (*http.Response, error) {
	op := method + " " + path

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrapf(err, "[Client.do] encode %s", op)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, errors.Wrapf(err, "[Client.do] create request %s", op)
	}
	requestID := uuid.New().String()
	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set(headerRequestID, requestID)
	if body != nil {
		req.Header.Set("Content-Type", contentTypeJSON)
	}

	logger := c.logger.With().Str("request_id", requestID).Str("op", op).Logger()
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Debug().Err(err).Msg("request failed before a response")
		return nil, &apperrors.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &apperrors.TransportError{Op: op, Err: errors.Wrap(err, "read response")}
	}
	logger.Debug().Int("status", resp.StatusCode).Dur("elapsed", time.Since(start)).Msg("response")

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return resp, &apperrors.AuthorizationError{Message: errorMessage(payload)}
	case resp.StatusCode >= http.StatusBadRequest:
		return resp, &apperrors.ServerError{Status: resp.StatusCode, Message: errorMessage(payload)}
	}

	if out != nil && len(bytes.TrimSpace(payload)) > 0 {
		if err := json.Unmarshal(payload, out); err != nil {
			return resp, errors.Wrapf(err, "[Client.do] decode %s", op)
		}
	}
	return resp, nil
}

// errorMessage extracts {"error": "..."} or {"message": "..."} from an error body.
func errorMessage(payload []byte) string {
	var body struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}

	var text string
	if len(body.Error) > 0 && json.Unmarshal(body.Error, &text) == nil && text != "" {
		return text
	}
	var nested struct {
		Message string `json:"message"`
	}
	if len(body.Error) > 0 && json.Unmarshal(body.Error, &nested) == nil && nested.Message != "" {
		return nested.Message
	}
	return body.Message
}
