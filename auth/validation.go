package auth

import (
	"regexp"
	"strings"
	"time"

	apperrors "github.com/jrsteele09/go-notes-client/internal/errors"
	"github.com/jrsteele09/go-notes-client/users"
)

// Field names used in Flow.Errors and ValidationError.Field.
const (
	FieldEmail       = "email"
	FieldOTP         = "otp"
	FieldFullName    = "fullName"
	FieldDateOfBirth = "dateOfBirth"
)

const (
	MsgEmailRequired    = "Email is required"
	MsgEmailInvalid     = "Please enter a valid email address"
	MsgOTPRequired      = "OTP is required"
	MsgOTPTooLong       = "OTP must be at most 6 characters"
	MsgFullNameRequired = "Full name is required"
	MsgDOBRequired      = "Date of birth is required"
	MsgDOBInvalid       = "Please enter a valid date of birth (YYYY-MM-DD)"
	MsgDOBFuture        = "Date of birth cannot be in the future"
)

// MaxOTPLength is the longest code the server issues.
const MaxOTPLength = 6

var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

// ValidateEmail checks the local@domain.tld shape. The server has the final say.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return &apperrors.ValidationError{Field: FieldEmail, Message: MsgEmailRequired}
	}
	if !emailPattern.MatchString(email) {
		return &apperrors.ValidationError{Field: FieldEmail, Message: MsgEmailInvalid}
	}
	return nil
}

func ValidateOTP(otp string) error {
	otp = strings.TrimSpace(otp)
	if otp == "" {
		return &apperrors.ValidationError{Field: FieldOTP, Message: MsgOTPRequired}
	}
	if len(otp) > MaxOTPLength {
		return &apperrors.ValidationError{Field: FieldOTP, Message: MsgOTPTooLong}
	}
	return nil
}

// ValidateSignup checks every sign-up field and returns the errors keyed by field.
func ValidateSignup(details users.SignupDetails, now time.Time) map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(details.FullName) == "" {
		errs[FieldFullName] = MsgFullNameRequired
	}
	if _, err := users.ParseDateOfBirth(details.DateOfBirth, now); err != nil {
		switch {
		case apperrors.Is(err, users.ErrDateOfBirthRequired):
			errs[FieldDateOfBirth] = MsgDOBRequired
		case apperrors.Is(err, users.ErrDateOfBirthFuture):
			errs[FieldDateOfBirth] = MsgDOBFuture
		default:
			errs[FieldDateOfBirth] = MsgDOBInvalid
		}
	}
	var ve *apperrors.ValidationError
	if err := ValidateEmail(details.Email); apperrors.As(err, &ve) {
		errs[FieldEmail] = ve.Message
	}
	return errs
}
