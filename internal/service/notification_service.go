package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/apartment-bureau/landing-service/internal/events"
	"github.com/apartment-bureau/landing-service/internal/observability"
	"github.com/apartment-bureau/landing-service/internal/relay"
	"github.com/apartment-bureau/landing-service/internal/repository"
)

// ApplicationNotifier delivers a contact-request notification. Satisfied by
// *relay.Sender.
type ApplicationNotifier interface {
	SendApplication(ctx context.Context, name, phone, message string) relay.DeliveryResult
}

// NotificationService forwards domain events to Telegram and records the
// delivery outcome. Notification is a side effect of accepting a request,
// never a precondition: every failure here ends up on the application row and
// in the logs, not in a visitor-facing error.
type NotificationService struct {
	dispatcher events.Dispatcher
	notifier   ApplicationNotifier
	apps       repository.ApplicationRepository
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, notifier ApplicationNotifier, apps repository.ApplicationRepository, metrics *observability.Metrics, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		notifier:   notifier,
		apps:       apps,
		metrics:    metrics,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventApplicationCreated, n.handleApplicationCreated)
	n.dispatcher.Subscribe(events.EventSubscriberRegistered, n.handleSubscriberRegistered)
}

func (n *NotificationService) handleApplicationCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ApplicationCreatedPayload)
	if !ok {
		return nil
	}
	if n.notifier == nil {
		return nil
	}

	result := n.notifier.SendApplication(ctx, payload.Name, payload.Phone, payload.Message)

	if result.OK && result.SentCount > 0 {
		n.metrics.RecordRelayEvent("application_notified")
		if err := n.apps.MarkSentToTelegram(ctx, payload.ApplicationID); err != nil {
			n.logger.Error("failed to mark application as notified",
				zap.String("application_id", payload.ApplicationID),
				zap.Error(err),
			)
		}
		n.logger.Info("application forwarded to telegram",
			zap.String("application_id", payload.ApplicationID),
			zap.Int("sent", result.SentCount),
			zap.Int("failed", result.FailedCount),
		)
		return nil
	}

	n.metrics.RecordRelayEvent("application_notify_failed")
	if err := n.apps.RecordTelegramError(ctx, payload.ApplicationID, result.ErrorSummary()); err != nil {
		n.logger.Error("failed to record delivery error",
			zap.String("application_id", payload.ApplicationID),
			zap.Error(err),
		)
	}
	n.logger.Warn("application notification failed; will be processed manually",
		zap.String("application_id", payload.ApplicationID),
		zap.String("error", result.ErrorSummary()),
	)
	return nil
}

func (n *NotificationService) handleSubscriberRegistered(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.SubscriberRegisteredPayload)
	if !ok {
		return nil
	}
	n.metrics.RecordRelayEvent("subscriber_registered")
	n.logger.Info("SubscriberRegistered",
		zap.String("chat_id", payload.ChatID),
		zap.String("username", payload.Username),
	)
	return nil
}
