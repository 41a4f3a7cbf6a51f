package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/titan-observatory/internal/auth"
	"github.com/spec-kit/titan-observatory/internal/config"
	"github.com/spec-kit/titan-observatory/internal/domain"
	"github.com/spec-kit/titan-observatory/internal/events"
	"github.com/spec-kit/titan-observatory/internal/repository"
)

// Validation failure reasons, surfaced to clients verbatim.
const (
	ReasonInvalidPayload   = "Invalid payload"
	ReasonInvalidEmail     = "Valid email required"
	ReasonPasswordTooShort = "Password too short"
	ReasonInviteRequired   = "Invite code required"
)

// ErrEmailTaken is returned when the email already belongs to an account.
var ErrEmailTaken = errors.New("email already in use")

var registrationEmailPattern = regexp.MustCompile(`(?i)^[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}$`)

// ValidationError carries a client-correctable rejection reason.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// RegistrationPayload is a normalized signup request. It lives for one
// request only; the raw password is dropped once hashed.
type RegistrationPayload struct {
	Email      string
	Password   string
	Name       *string
	InviteCode string
}

// ValidateRegistration checks a decoded JSON payload and normalizes it. The
// first failing check wins. It has no side effects.
func ValidateRegistration(payload any, minPasswordLength int) (RegistrationPayload, error) {
	if minPasswordLength <= 0 {
		minPasswordLength = config.DefaultMinPasswordLength
	}

	body, ok := payload.(map[string]any)
	if !ok {
		return RegistrationPayload{}, &ValidationError{Reason: ReasonInvalidPayload}
	}

	email := strings.TrimSpace(stringField(body, "email"))
	if err := validation.Validate(email,
		validation.Required,
		validation.Match(registrationEmailPattern),
	); err != nil {
		return RegistrationPayload{}, &ValidationError{Reason: ReasonInvalidEmail}
	}

	password := stringField(body, "password")
	if err := validation.Validate(password,
		validation.Required,
		validation.RuneLength(minPasswordLength, 0),
	); err != nil {
		return RegistrationPayload{}, &ValidationError{Reason: ReasonPasswordTooShort}
	}

	var name *string
	if raw, ok := body["name"].(string); ok {
		trimmed := strings.TrimSpace(raw)
		name = &trimmed
	}

	inviteCode := strings.TrimSpace(stringField(body, "inviteCode"))
	if err := validation.Validate(inviteCode, validation.Required); err != nil {
		return RegistrationPayload{}, &ValidationError{Reason: ReasonInviteRequired}
	}

	return RegistrationPayload{
		Email:      email,
		Password:   password,
		Name:       name,
		InviteCode: inviteCode,
	}, nil
}

func stringField(body map[string]any, key string) string {
	s, _ := body[key].(string)
	return s
}

// RegistrationService runs the invite-gated signup pipeline.
type RegistrationService struct {
	users             repository.UserRepository
	gate              auth.InviteGate
	bcryptCost        int
	minPasswordLength int
	dispatcher        events.Dispatcher
	logger            *zap.Logger
}

// RegistrationDependencies encapsulates collaborators for registration.
type RegistrationDependencies struct {
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewRegistrationService builds the service. The invite secret is captured
// here and never re-read.
func NewRegistrationService(cfg config.Config, deps RegistrationDependencies) *RegistrationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistrationService{
		users:             deps.UserRepo,
		gate:              auth.NewInviteGate(cfg.Auth.InviteCode),
		bcryptCost:        cfg.Auth.BcryptCost,
		minPasswordLength: cfg.Auth.MinPasswordLength,
		dispatcher:        deps.Dispatcher,
		logger:            logger,
	}
}

// Enabled reports whether an invite secret is configured.
func (s *RegistrationService) Enabled() bool {
	return s.gate.Enabled()
}

// Register creates an account from a raw JSON request body.
//
// Failures: auth.ErrRegistrationDisabled, *ValidationError,
// auth.ErrInvalidInviteCode, ErrEmailTaken, or a wrapped store/hash error.
// Nothing is written unless every check passes.
func (s *RegistrationService) Register(ctx context.Context, body []byte) (*domain.PublicUser, error) {
	if !s.gate.Enabled() {
		return nil, auth.ErrRegistrationDisabled
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		payload = nil
	}

	parsed, err := ValidateRegistration(payload, s.minPasswordLength)
	if err != nil {
		return nil, err
	}

	if err := s.gate.Check(parsed.InviteCode); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, parsed.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := auth.HashPassword(parsed.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Email:        parsed.Email,
		PasswordHash: hash,
		Name:         parsed.Name,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.publish(ctx, events.NewEvent(events.EventUserRegistered, user.ID, events.UserRegisteredPayload{
		Email: user.Email,
		Name:  user.Name,
	}))

	public := user.Public()
	return &public, nil
}

func (s *RegistrationService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
