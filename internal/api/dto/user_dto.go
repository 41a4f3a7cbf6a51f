package dto

import (
	"time"

	"github.com/spec-kit/titan-observatory/internal/domain"
)

// SignInRequest payload for credential sign-in.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse standard response for endpoints that issue a token.
type AuthResponse struct {
	Token     string             `json:"token"`
	ExpiresAt time.Time          `json:"expires_at"`
	User      domain.SessionUser `json:"user"`
}

// NewAuthResponse maps an issued token to its wire form.
func NewAuthResponse(t *domain.IssuedToken) AuthResponse {
	return AuthResponse{Token: t.Token, ExpiresAt: t.ExpiresAt, User: t.User}
}
