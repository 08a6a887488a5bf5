// Package auth provides the authentication capability gating contribution:
// sign-up, log-in, log-out, and cached session state. The rest of the system
// only ever asks "is there a session"; token formats and provider details
// stay opaque behind the Provider interface.
package auth

import (
	"context"
	"errors"
	"time"
)

// Session is an authenticated user session.
type Session struct {
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name,omitempty"`
	Token       string    `json:"token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Valid reports whether the session has a token and has not expired.
func (s *Session) Valid() bool {
	return s != nil && s.Token != "" && time.Now().Before(s.ExpiresAt)
}

// Provider is the opaque authentication capability surface.
type Provider interface {
	SignUp(ctx context.Context, email, password, displayName string) (*Session, error)
	LogIn(ctx context.Context, email, password string) (*Session, error)
}

// Authentication errors. Anything not covered here surfaces as a wrapped
// generic failure; callers report it without inspecting provider detail.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrEmptyEmail         = errors.New("email is required")
	ErrEmptyPassword      = errors.New("password is required")
	ErrNoSession          = errors.New("not logged in")
)

// DefaultSessionTTL is the lifetime of sessions issued by the local store and
// assumed for remote sessions that do not report an expiry.
const DefaultSessionTTL = 24 * time.Hour

// validateCredentials applies the checks shared by both providers.
func validateCredentials(email, password string) error {
	if email == "" {
		return ErrEmptyEmail
	}
	if password == "" {
		return ErrEmptyPassword
	}
	return nil
}
