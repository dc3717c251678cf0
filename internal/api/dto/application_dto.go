package dto

import "time"

// ContactRequest is the payload of the public contact form.
type ContactRequest struct {
	Name    string `json:"name" form:"name"`
	Phone   string `json:"phone" form:"phone"`
	Message string `json:"message" form:"message"`
}

// ApplicationStatusRequest updates a contact request's processing state.
type ApplicationStatusRequest struct {
	Status string `json:"status"`
}

// ApplicationResponse is the admin-facing view of a contact request.
type ApplicationResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Phone            string    `json:"phone"`
	Message          string    `json:"message,omitempty"`
	Status           string    `json:"status"`
	IsSentToTelegram bool      `json:"is_sent_to_telegram"`
	TelegramError    string    `json:"telegram_error,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// SubscriberActiveRequest toggles notification delivery for a subscriber.
type SubscriberActiveRequest struct {
	IsActive bool `json:"is_active"`
}

// SubscriberResponse is the admin-facing view of a Telegram subscriber.
type SubscriberResponse struct {
	ID        string    `json:"id"`
	ChatID    string    `json:"chat_id"`
	Username  string    `json:"username,omitempty"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
