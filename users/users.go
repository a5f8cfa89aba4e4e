package users

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// DateOfBirthLayout is the wire format for dates of birth.
const DateOfBirthLayout = "2006-01-02"

// User is the server's snapshot of the signed-in account. The client never mutates it.
type User struct {
	ID          string `json:"id"`          // Server assigned identifier
	FullName    string `json:"fullName"`    // Display name given at sign up
	Email       string `json:"email"`       // Sign-in address
	DateOfBirth string `json:"dateOfBirth"` // YYYY-MM-DD, or an RFC 3339 timestamp from some servers
}

// UnmarshalJSON accepts "_id" as an alias for "id".
func (u *User) UnmarshalJSON(data []byte) error {
	type plain User
	var aux struct {
		plain
		MongoID string `json:"_id"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*u = User(aux.plain)
	if u.ID == "" {
		u.ID = aux.MongoID
	}
	return nil
}

// DisplayName returns the full name, falling back to the email address.
func (u *User) DisplayName() string {
	if name := strings.TrimSpace(u.FullName); name != "" {
		return name
	}
	return u.Email
}

// MaskedEmail hides most of the local part, e.g. "j***@example.com".
func (u *User) MaskedEmail() string {
	local, domain, ok := strings.Cut(u.Email, "@")
	if !ok || local == "" {
		return u.Email
	}
	return local[:1] + "***@" + domain
}

// SignupDetails are the profile fields collected before a sign-up OTP is sent.
type SignupDetails struct {
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	DateOfBirth string `json:"dateOfBirth"`
}

var (
	ErrDateOfBirthRequired = errors.New("date of birth is required")
	ErrDateOfBirthFormat   = errors.New("date of birth must be in " + DateOfBirthLayout + " format")
	ErrDateOfBirthFuture   = errors.New("date of birth cannot be in the future")
)

// ParseDateOfBirth accepts YYYY-MM-DD or RFC 3339 and rejects dates after now.
func ParseDateOfBirth(value string, now time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrDateOfBirthRequired
	}

	dob, err := time.Parse(DateOfBirthLayout, value)
	if err != nil {
		dob, err = time.Parse(time.RFC3339, value)
		if err != nil {
			return time.Time{}, errors.Wrapf(ErrDateOfBirthFormat, "[users.ParseDateOfBirth] %q", value)
		}
	}

	if dob.After(now) {
		return time.Time{}, errors.Wrapf(ErrDateOfBirthFuture, "[users.ParseDateOfBirth] %s", value)
	}
	return dob, nil
}
