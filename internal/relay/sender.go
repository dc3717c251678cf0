package relay

import (
	"context"
	"fmt"
	"html"
	"time"

	"go.uber.org/zap"

	"github.com/apartment-bureau/landing-service/internal/repository"
)

// DeliveryResult reports the outcome of a send or broadcast. Delivery
// problems are data, not errors: callers inspect the result instead of
// handling a failure path.
type DeliveryResult struct {
	OK          bool     `json:"ok"`
	SentCount   int      `json:"sent_count"`
	FailedCount int      `json:"failed_count"`
	Errors      []string `json:"errors,omitempty"`
}

// ErrorSummary flattens per-recipient failures into one line for storage on
// the contact request record.
func (r DeliveryResult) ErrorSummary() string {
	if r.OK && r.FailedCount == 0 {
		return ""
	}
	if len(r.Errors) == 0 {
		return "delivery failed"
	}
	summary := r.Errors[0]
	for _, e := range r.Errors[1:] {
		summary += "; " + e
	}
	return summary
}

// Sender delivers messages to a single chat or broadcasts to every active
// subscriber.
type Sender struct {
	client        BotClient
	subscribers   repository.SubscriberRepository
	logger        *zap.Logger
	defaultChatID string
}

// NewSender builds a sender. defaultChatID, when set, receives contact
// request notifications instead of the subscriber broadcast.
func NewSender(client BotClient, subscribers repository.SubscriberRepository, logger *zap.Logger, defaultChatID string) *Sender {
	return &Sender{
		client:        client,
		subscribers:   subscribers,
		logger:        logger,
		defaultChatID: defaultChatID,
	}
}

// Send delivers text to chatID, or to every active subscriber when chatID is
// empty.
func (s *Sender) Send(ctx context.Context, text, chatID string) DeliveryResult {
	if chatID != "" {
		if err := s.client.SendMessage(ctx, chatID, text); err != nil {
			s.logger.Error("failed to send telegram message", zap.String("chat_id", chatID), zap.Error(err))
			return DeliveryResult{
				FailedCount: 1,
				Errors:      []string{fmt.Sprintf("chat %s: %v", chatID, err)},
			}
		}
		return DeliveryResult{OK: true, SentCount: 1}
	}
	return s.broadcast(ctx, text)
}

// SendApplication notifies about a new contact request. The configured chat
// takes precedence over the broadcast when present.
func (s *Sender) SendApplication(ctx context.Context, name, phone, message string) DeliveryResult {
	text := fmt.Sprintf(`<b>📋 New request from the website</b>

<b>Name:</b> %s
<b>Phone:</b> %s`, html.EscapeString(name), html.EscapeString(phone))

	if message != "" {
		text += fmt.Sprintf("\n\n<b>Message:</b>\n%s", html.EscapeString(message))
	}
	text += fmt.Sprintf("\n\n<i>Time:</i> %s", time.Now().Format("02.01.2006 15:04"))

	return s.Send(ctx, text, s.defaultChatID)
}

// broadcast delivers sequentially per subscriber; a single failure is
// captured and never aborts delivery to the remainder.
func (s *Sender) broadcast(ctx context.Context, text string) DeliveryResult {
	subs, err := s.subscribers.ListActive(ctx)
	if err != nil {
		s.logger.Error("failed to list active subscribers", zap.Error(err))
		return DeliveryResult{Errors: []string{err.Error()}}
	}
	if len(subs) == 0 {
		s.logger.Warn("no active subscribers to notify")
		return DeliveryResult{Errors: []string{"no active subscribers"}}
	}

	result := DeliveryResult{OK: true}
	for _, sub := range subs {
		if err := s.client.SendMessage(ctx, sub.ChatID, text); err != nil {
			result.FailedCount++
			result.Errors = append(result.Errors, fmt.Sprintf("chat %s: %v", sub.ChatID, err))
			s.logger.Error("failed to deliver to subscriber",
				zap.String("chat_id", sub.ChatID),
				zap.Error(err),
			)
			continue
		}
		result.SentCount++
	}

	s.logger.Info("broadcast finished",
		zap.Int("sent", result.SentCount),
		zap.Int("failed", result.FailedCount),
	)
	return result
}
