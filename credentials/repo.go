package credentials

import (
	"time"

	"github.com/jrsteele09/go-notes-client/users"
)

// Credential is the one artifact persisted between runs: the bearer token (if
// the server issued one) and the last known user snapshot.
type Credential struct {
	Token        string      `json:"token,omitempty"`
	User         *users.User `json:"user,omitempty"`
	KeepLoggedIn bool        `json:"keepLoggedIn"`
	SavedAt      time.Time   `json:"savedAt"`
	ExpiresAt    time.Time   `json:"expiresAt,omitempty"` // Zero means no local expiry
}

// Expired reports whether the local expiry has passed.
func (c *Credential) Expired(now time.Time) bool {
	return c != nil && !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// Repo is durable storage for the credential.
type Repo interface {
	// Save replaces any stored credential.
	Save(c *Credential) error
	// Load returns nil, nil when nothing is stored.
	Load() (*Credential, error)
	// Clear removes the stored credential. Clearing an empty store is not an error.
	Clear() error
}
