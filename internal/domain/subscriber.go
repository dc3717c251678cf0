package domain

import (
	"strings"
	"time"
)

// Subscriber is a Telegram chat that opted into contact-request notifications
// by sending /start to the bot. Identity is the external chat id.
type Subscriber struct {
	ID        string
	ChatID    string
	Username  string
	FirstName string
	LastName  string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayName builds a human-readable label for admin views and logs.
func (s Subscriber) DisplayName() string {
	full := strings.TrimSpace(strings.Join(nonEmpty(s.FirstName, s.LastName), " "))
	if full != "" {
		return full
	}
	if s.Username != "" {
		return s.Username
	}
	return "unnamed"
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
