package auth

import (
	"crypto/subtle"
	"errors"
	"strings"
)

var (
	// ErrRegistrationDisabled means no invite secret is configured.
	ErrRegistrationDisabled = errors.New("registration is disabled")
	// ErrInvalidInviteCode means the supplied code does not match the secret.
	ErrInvalidInviteCode = errors.New("invalid invite code")
)

// InviteGate restricts self-registration to holders of a single shared code.
type InviteGate struct {
	secret string
}

// NewInviteGate trims the secret once; an empty secret disables registration.
func NewInviteGate(secret string) InviteGate {
	return InviteGate{secret: strings.TrimSpace(secret)}
}

// Enabled reports whether registration is open at all.
func (g InviteGate) Enabled() bool {
	return g.secret != ""
}

// Check compares code with the secret exactly (case-sensitive).
func (g InviteGate) Check(code string) error {
	if !g.Enabled() {
		return ErrRegistrationDisabled
	}
	if subtle.ConstantTimeCompare([]byte(code), []byte(g.secret)) != 1 {
		return ErrInvalidInviteCode
	}
	return nil
}
