package config

import "time"

const (
	sessionTTLEnvVar     = "NOTES_SESSION_TTL"
	resendCooldownEnvVar = "NOTES_RESEND_COOLDOWN"
)

type SessionConfig interface {
	GetSessionTTL() time.Duration
	GetResendCooldown() time.Duration
}

type Session struct {
	file *File
}

var _ SessionConfig = Session{}

// GetSessionTTL bounds a stored credential when "keep me logged in" was not chosen.
func (s Session) GetSessionTTL() time.Duration {
	return lookupDuration(sessionTTLEnvVar, s.file.value(func(f *File) string { return f.Session.TTL }), 24*time.Hour)
}

// GetResendCooldown is the minimum gap between two OTP resends for one email. Zero disables it.
func (s Session) GetResendCooldown() time.Duration {
	return lookupDuration(resendCooldownEnvVar, s.file.value(func(f *File) string { return f.Session.ResendCooldown }), 30*time.Second)
}
