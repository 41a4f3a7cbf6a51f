package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/titan-observatory/internal/config"
	"github.com/spec-kit/titan-observatory/internal/events"
)

func TestNotificationService_HandlesEvents(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	d := events.NewInMemoryDispatcher()
	n := NewNotificationService(d, zap.New(core), config.NotificationConfig{
		EmailFrom:  "noreply@site.org",
		WebhookURL: "https://hooks.site.org/titan",
	})
	n.RegisterHandlers()
	ctx := context.Background()

	require.NoError(t, d.Publish(ctx, events.NewEvent(events.EventUserRegistered, "u-1", nil)))
	require.NoError(t, d.Publish(ctx, events.NewEvent(events.EventPostPublished, "p-1", nil)))
	require.NoError(t, d.Publish(ctx, events.NewEvent(events.EventNewsletterSubscriptionRequested, "",
		events.NewsletterSubscriptionPayload{Email: "ada@site.org"})))

	assert.Equal(t, 1, logs.FilterMessage("UserRegistered").Len())
	assert.Equal(t, 1, logs.FilterMessage("PostPublished").Len())
	assert.Equal(t, 1, logs.FilterMessage("NewsletterSubscriptionRequested").Len())
	assert.Equal(t, 1, logs.FilterMessage("sendEmailNotificationStub").Len())
	assert.Equal(t, 2, logs.FilterMessage("sendWebhookNotificationStub").Len())

	for _, entry := range logs.All() {
		for _, field := range entry.Context {
			assert.NotContains(t, field.String, "ada@site.org")
		}
	}
}

func TestNotificationService_NilDispatcher(t *testing.T) {
	n := NewNotificationService(nil, zap.NewNop(), config.NotificationConfig{})
	n.RegisterHandlers()
}
