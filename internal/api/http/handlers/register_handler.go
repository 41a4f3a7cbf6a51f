package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/titan-observatory/internal/auth"
	"github.com/spec-kit/titan-observatory/internal/service"
	apperrors "github.com/spec-kit/titan-observatory/pkg/util/errorutil"
)

// RegisterHandler exposes invite-gated account creation.
type RegisterHandler struct {
	registration *service.RegistrationService
}

// NewRegisterHandler constructs handler.
func NewRegisterHandler(registration *service.RegistrationService) *RegisterHandler {
	return &RegisterHandler{registration: registration}
}

// Register handles POST /api/register. The raw body goes to the service so
// that the disabled check runs before any parsing.
func (h *RegisterHandler) Register(c *fiber.Ctx) error {
	user, err := h.registration.Register(c.UserContext(), c.Body())
	if err != nil {
		return mapRegistrationError(err)
	}
	return c.JSON(user)
}

func mapRegistrationError(err error) error {
	var verr *service.ValidationError
	switch {
	case errors.Is(err, auth.ErrRegistrationDisabled):
		return apperrors.NewForbidden("REGISTRATION_DISABLED", "Registration is currently disabled")
	case errors.As(err, &verr):
		return apperrors.NewValidationError(verr.Reason, nil)
	case errors.Is(err, auth.ErrInvalidInviteCode):
		return apperrors.NewForbidden("INVALID_INVITE_CODE", "Invalid invite code")
	case errors.Is(err, service.ErrEmailTaken):
		return apperrors.NewConflict("Email already in use", nil)
	default:
		return apperrors.NewInternalError(err)
	}
}
