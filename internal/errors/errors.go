package errors

import (
	"errors"
	"fmt"
)

// Common error types for the notes client
var (
	// Local errors
	ErrValidation  = errors.New("validation failed")
	ErrNotSignedIn = errors.New("not signed in")
	ErrSuperseded  = errors.New("superseded by a newer request")

	// Remote errors
	ErrTransport      = errors.New("cannot reach server")
	ErrServer         = errors.New("server error")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrSessionExpired = errors.New("session expired")
)

// MsgServerUnreachable is shown whenever a request never got a response.
const MsgServerUnreachable = "Cannot connect to server. Please make sure the backend is running."

// ValidationError is a local, field scoped rejection. It never reaches the network.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// TransportError means no HTTP response was received (refused, unreachable, timed out).
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

func (e *TransportError) Unwrap() error { return e.Err }

// ServerError is a non 2xx response other than 401. Message is the server's own
// error text when the payload carried one.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned status %d", e.Status)
	}
	return fmt.Sprintf("server returned status %d: %s", e.Status, e.Message)
}

func (e *ServerError) Unwrap() error { return ErrServer }

// AuthorizationError is a 401 response.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	if e.Message == "" {
		return ErrUnauthorized.Error()
	}
	return fmt.Sprintf("%s: %s", ErrUnauthorized, e.Message)
}

func (e *AuthorizationError) Unwrap() error { return ErrUnauthorized }

func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

func IsAuthorization(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// UserMessage picks the text to show for err: the transport message when the
// server was unreachable, the server's (or validator's) own message when there
// is one, and fallback otherwise.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if IsTransport(err) {
		return MsgServerUnreachable
	}
	var ve *ValidationError
	if errors.As(err, &ve) && ve.Message != "" {
		return ve.Message
	}
	var se *ServerError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	var ae *AuthorizationError
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	return fallback
}

// SessionExpired marks err, a rejected credential, as having ended the session.
// Both ErrSessionExpired and err's own chain still match.
func SessionExpired(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrSessionExpired, err)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
