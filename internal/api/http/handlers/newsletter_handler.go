package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/titan-observatory/internal/newsletter"
	"github.com/spec-kit/titan-observatory/internal/service"
	apperrors "github.com/spec-kit/titan-observatory/pkg/util/errorutil"
)

// NewsletterHandler proxies newsletter sign-ups.
type NewsletterHandler struct {
	service *service.NewsletterService
}

// NewNewsletterHandler constructs handler.
func NewNewsletterHandler(newsletterService *service.NewsletterService) *NewsletterHandler {
	return &NewsletterHandler{service: newsletterService}
}

// Subscribe handles POST /api/brevo.
func (h *NewsletterHandler) Subscribe(c *fiber.Ctx) error {
	var form map[string]any
	if err := json.Unmarshal(c.Body(), &form); err != nil || form == nil {
		return serverError(err)
	}

	err := h.service.Subscribe(c.UserContext(), form)
	var upstream *newsletter.UpstreamError
	switch {
	case err == nil:
		return c.JSON(fiber.Map{"ok": true})
	case errors.Is(err, service.ErrInvalidSubscriberEmail):
		return apperrors.NewValidationError("Invalid email", nil)
	case errors.As(err, &upstream):
		message := upstream.Body
		if message == "" {
			message = "Upstream error"
		}
		return apperrors.NewBadGateway(message, err)
	default:
		return serverError(err)
	}
}

func serverError(err error) error {
	de := apperrors.NewDomainError("INTERNAL_ERROR", "Server error", http.StatusInternalServerError, nil)
	de.Err = err
	return de
}
