package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered                  EventType = "user_registered"
	EventPostPublished                   EventType = "post_published"
	EventNewsletterSubscriptionRequested EventType = "newsletter_subscription_requested"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// NewEvent stamps a fresh event with an id and the current time.
func NewEvent(eventType EventType, subjectID string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SubjectID: subjectID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Email string  `json:"email"`
	Name  *string `json:"name,omitempty"`
}

// PostPublishedPayload payload.
type PostPublishedPayload struct {
	Slug     string  `json:"slug"`
	Title    string  `json:"title"`
	AuthorID *string `json:"author_id,omitempty"`
}

// NewsletterSubscriptionPayload payload.
type NewsletterSubscriptionPayload struct {
	Email string `json:"email"`
}
