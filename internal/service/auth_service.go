package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/titan-observatory/internal/auth"
	"github.com/spec-kit/titan-observatory/internal/config"
	"github.com/spec-kit/titan-observatory/internal/domain"
	"github.com/spec-kit/titan-observatory/internal/repository"
)

// ErrInvalidCredentials is the single rejection for unknown emails, wrong
// passwords and incomplete input alike.
var ErrInvalidCredentials = errors.New("invalid email or password")

// dummyPassword is hashed at startup so unknown emails cost one bcrypt
// comparison, the same as a wrong password.
const dummyPassword = "titan-observatory-timing-parity"

// AuthService verifies credentials and issues and materializes sessions.
type AuthService struct {
	users     repository.UserRepository
	tokenMgr  *auth.TokenManager
	admins    *auth.AdminSet
	dummyHash string
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo repository.UserRepository
	Admins   *auth.AdminSet
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) (*AuthService, error) {
	dummyHash, err := auth.HashPassword(dummyPassword, cfg.Auth.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}

	admins := deps.Admins
	if admins == nil {
		admins = auth.NewAdminSet(cfg.Auth.AdminEmails)
	}

	return &AuthService{
		users:     deps.UserRepo,
		tokenMgr:  auth.NewTokenManager(cfg.Auth.Secret, cfg.Auth.AccessTokenTTLMinutes),
		admins:    admins,
		dummyHash: dummyHash,
	}, nil
}

// Authorize checks an email and password. It performs one store read and no
// writes. Every rejection is ErrInvalidCredentials; store failures are
// returned wrapped.
func (s *AuthService) Authorize(ctx context.Context, email, password string) (*domain.Identity, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			_ = auth.ComparePassword(s.dummyHash, password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &domain.Identity{ID: user.ID, Email: user.Email, Name: user.Name}, nil
}

// SignIn authorizes the credentials and issues a session token.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*domain.IssuedToken, error) {
	identity, err := s.Authorize(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.IssueToken(*identity)
}

// IssueToken signs a session for the identity, classifying admin status now.
func (s *AuthService) IssueToken(identity domain.Identity) (*domain.IssuedToken, error) {
	isAdmin := s.admins.IsAdmin(identity.Email)
	token, exp, err := s.tokenMgr.GenerateToken(identity, isAdmin)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &domain.IssuedToken{
		Token:     token,
		ExpiresAt: exp,
		User: domain.SessionUser{
			ID:      identity.ID,
			Email:   identity.Email,
			Name:    identity.Name,
			IsAdmin: isAdmin,
		},
	}, nil
}

// Session materializes a session from verified claims. Admin status is
// recomputed from the token email against the current allow-set.
func (s *AuthService) Session(claims *auth.Claims) domain.Session {
	return domain.Session{
		User: domain.SessionUser{
			ID:      claims.Subject,
			Email:   claims.Email,
			Name:    claims.Name,
			IsAdmin: s.admins.IsAdmin(claims.Email),
		},
		Expires: claims.Expiry(),
	}
}

// Refresh re-issues a token for the claims' identity without a store read.
func (s *AuthService) Refresh(claims *auth.Claims) (*domain.IssuedToken, error) {
	return s.IssueToken(claims.Identity())
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// Admins exposes the admin allow-set for middleware usage.
func (s *AuthService) Admins() *auth.AdminSet {
	return s.admins
}
