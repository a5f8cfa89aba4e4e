package auth

import "github.com/jrsteele09/go-notes-client/users"

// FlowState is the position of a sign-in attempt.
// Idle -> OTPRequested -> Authenticated, with Failed passed through on the way back to Idle.
type FlowState int

const (
	StateIdle FlowState = iota
	StateOTPRequested
	StateAuthenticated
	StateFailed
)

func (s FlowState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateOTPRequested:
		return "otp_requested"
	case StateAuthenticated:
		return "authenticated"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Mode selects which pair of OTP endpoints the flow uses.
type Mode int

const (
	ModeSignIn Mode = iota
	ModeSignUp
)

func (m Mode) String() string {
	if m == ModeSignUp {
		return "signup"
	}
	return "signin"
}

// Flow is a snapshot of one sign-in or sign-up attempt.
type Flow struct {
	Mode         Mode
	State        FlowState
	Email        string              // Locked once the OTP is sent
	Signup       users.SignupDetails // Sign-up mode only
	OTP          string
	OTPSent      bool
	KeepLoggedIn bool
	Errors       map[string]string // Field name to message
	Loading      bool
	Resending    bool
	Message      string // Last notice shown to the user
	Failure      string // Reason for the most recent failed request
}

func (f Flow) clone() Flow {
	errs := make(map[string]string, len(f.Errors))
	for k, v := range f.Errors {
		errs[k] = v
	}
	f.Errors = errs
	return f
}
