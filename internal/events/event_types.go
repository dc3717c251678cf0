package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventApplicationCreated   EventType = "application_created"
	EventSubscriberRegistered EventType = "subscriber_registered"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ApplicationCreatedPayload carries the persisted contact request.
type ApplicationCreatedPayload struct {
	ApplicationID string `json:"application_id"`
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Message       string `json:"message,omitempty"`
}

// SubscriberRegisteredPayload carries the upserted subscriber identity.
type SubscriberRegisteredPayload struct {
	SubscriberID string `json:"subscriber_id"`
	ChatID       string `json:"chat_id"`
	Username     string `json:"username,omitempty"`
}
