package newsletter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/titan-observatory/internal/config"
)

// DoubleOptInRequest is the Brevo doubleOptinConfirmation body.
type DoubleOptInRequest struct {
	Email          string         `json:"email"`
	Attributes     map[string]any `json:"attributes"`
	IncludeListIDs []int          `json:"includeListIds"`
	TemplateID     int            `json:"templateId"`
	RedirectionURL string         `json:"redirectionUrl"`
}

// UpstreamError is a non-2xx answer from the marketing API.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("brevo responded %d: %s", e.StatusCode, e.Body)
}

// Client requests double opt-in confirmation mails.
type Client interface {
	RequestDoubleOptIn(ctx context.Context, req DoubleOptInRequest) error
}

// BrevoClient talks to the Brevo contacts API over Fiber's HTTP agent.
type BrevoClient struct {
	apiURL  string
	apiKey  string
	timeout time.Duration
}

// NewBrevoClient builds a client from configuration.
func NewBrevoClient(cfg config.NewsletterConfig) *BrevoClient {
	return &BrevoClient{apiURL: cfg.APIURL, apiKey: cfg.APIKey, timeout: cfg.Timeout()}
}

// RequestDoubleOptIn posts the contact to Brevo. The call is bounded by the
// client timeout or the context deadline, whichever is sooner.
func (c *BrevoClient) RequestDoubleOptIn(ctx context.Context, req DoubleOptInRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	agent := fiber.Post(c.apiURL)
	agent.Set("api-key", c.apiKey).
		Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON).
		Timeout(timeout).
		JSON(req)

	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("brevo request: %w", errors.Join(errs...))
	}
	if status < fiber.StatusOK || status >= fiber.StatusMultipleChoices {
		return &UpstreamError{StatusCode: status, Body: strings.TrimSpace(string(body))}
	}
	return nil
}
