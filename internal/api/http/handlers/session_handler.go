package handlers

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/titan-observatory/internal/api/dto"
	"github.com/spec-kit/titan-observatory/internal/auth"
	"github.com/spec-kit/titan-observatory/internal/service"
	apperrors "github.com/spec-kit/titan-observatory/pkg/util/errorutil"
)

const invalidCredentialsMessage = "Invalid email or password"

// SessionHandler exposes sign-in and session endpoints.
type SessionHandler struct {
	auth *service.AuthService
}

// NewSessionHandler constructs handler.
func NewSessionHandler(authService *service.AuthService) *SessionHandler {
	return &SessionHandler{auth: authService}
}

// SignIn handles POST /api/auth/signin. Every rejection looks the same.
func (h *SessionHandler) SignIn(c *fiber.Ctx) error {
	var req dto.SignInRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return apperrors.NewUnauthorized(invalidCredentialsMessage)
	}

	issued, err := h.auth.SignIn(c.UserContext(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return apperrors.NewUnauthorized(invalidCredentialsMessage)
		}
		return apperrors.NewInternalError(err)
	}
	return c.JSON(dto.NewAuthResponse(issued))
}

// Session handles GET /api/auth/session.
func (h *SessionHandler) Session(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(h.auth.Session(principal.Claims))
}

// Refresh handles POST /api/auth/refresh.
func (h *SessionHandler) Refresh(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	issued, err := h.auth.Refresh(principal.Claims)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.JSON(dto.NewAuthResponse(issued))
}
