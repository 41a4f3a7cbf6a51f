package domain

import "time"

// Identity is what a successful credential check hands to the session layer.
type Identity struct {
	ID    string
	Email string
	Name  *string
}

// SessionUser is the user as seen through a session. IsAdmin is derived from
// configuration every time a session is materialized and is never stored.
type SessionUser struct {
	ID      string  `json:"id"`
	Email   string  `json:"email"`
	Name    *string `json:"name,omitempty"`
	IsAdmin bool    `json:"isAdmin"`
}

// Session is the materialized view of a bearer token.
type Session struct {
	User    SessionUser `json:"user"`
	Expires time.Time   `json:"expires"`
}

// IssuedToken is a signed session token and its metadata.
type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
	User      SessionUser
}
