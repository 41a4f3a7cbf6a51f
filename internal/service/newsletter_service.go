package service

import (
	"context"
	"errors"
	"regexp"

	"go.uber.org/zap"

	"github.com/spec-kit/titan-observatory/internal/config"
	"github.com/spec-kit/titan-observatory/internal/events"
	"github.com/spec-kit/titan-observatory/internal/newsletter"
)

// ErrInvalidSubscriberEmail is returned for a missing or malformed email.
var ErrInvalidSubscriberEmail = errors.New("invalid subscriber email")

var subscriberEmailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

const (
	honeypotField = "company"
	emailField    = "email"
)

// NewsletterService proxies double opt-in subscriptions to Brevo.
type NewsletterService struct {
	client      newsletter.Client
	listID      int
	templateID  int
	redirectURL string
	dispatcher  events.Dispatcher
	logger      *zap.Logger
}

// NewsletterDependencies bundles collaborators for the newsletter service.
type NewsletterDependencies struct {
	Client     newsletter.Client
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewNewsletterService constructs the service.
func NewNewsletterService(cfg config.NewsletterConfig, deps NewsletterDependencies) *NewsletterService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NewsletterService{
		client:      deps.Client,
		listID:      cfg.ListID,
		templateID:  cfg.TemplateID,
		redirectURL: cfg.RedirectURL,
		dispatcher:  deps.Dispatcher,
		logger:      logger,
	}
}

// Subscribe requests a confirmation mail for the form submission. A filled
// honeypot field is accepted silently without contacting Brevo. Every field
// other than email and the honeypot is forwarded as a contact attribute.
func (s *NewsletterService) Subscribe(ctx context.Context, form map[string]any) error {
	if truthy(form[honeypotField]) {
		s.logger.Debug("newsletter honeypot triggered")
		return nil
	}

	email, ok := form[emailField].(string)
	if !ok || !subscriberEmailPattern.MatchString(email) {
		return ErrInvalidSubscriberEmail
	}

	attributes := make(map[string]any, len(form))
	for k, v := range form {
		if k == emailField || k == honeypotField {
			continue
		}
		attributes[k] = v
	}

	err := s.client.RequestDoubleOptIn(ctx, newsletter.DoubleOptInRequest{
		Email:          email,
		Attributes:     attributes,
		IncludeListIDs: []int{s.listID},
		TemplateID:     s.templateID,
		RedirectionURL: s.redirectURL,
	})
	if err != nil {
		return err
	}

	if s.dispatcher != nil {
		event := events.NewEvent(events.EventNewsletterSubscriptionRequested, "", events.NewsletterSubscriptionPayload{Email: email})
		if err := s.dispatcher.Publish(ctx, event); err != nil {
			s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
		}
	}
	return nil
}

// truthy mirrors how a form value is judged "filled in".
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	case float64:
		return val != 0
	default:
		return true
	}
}
