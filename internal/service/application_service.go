package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/apartment-bureau/landing-service/internal/domain"
	"github.com/apartment-bureau/landing-service/internal/events"
	"github.com/apartment-bureau/landing-service/internal/repository"
	apperrors "github.com/apartment-bureau/landing-service/pkg/util"
)

// ApplicationService accepts contact requests from site visitors. The request
// is persisted before any notification side effect; the visitor-facing
// submission never fails because a notification could not be delivered.
type ApplicationService struct {
	apps       repository.ApplicationRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewApplicationService builds the service.
func NewApplicationService(apps repository.ApplicationRepository, dispatcher events.Dispatcher, logger *zap.Logger) *ApplicationService {
	return &ApplicationService{apps: apps, dispatcher: dispatcher, logger: logger}
}

// Submit validates and stores a contact request, then publishes the created
// event for notification handlers.
func (s *ApplicationService) Submit(ctx context.Context, name, phone, message string) (*domain.Application, error) {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	message = strings.TrimSpace(message)

	if name == "" || phone == "" {
		return nil, apperrors.NewValidationError("name and phone are required", nil)
	}

	app := &domain.Application{
		Name:    name,
		Phone:   phone,
		Message: message,
		Status:  domain.ApplicationStatusNew,
	}
	if err := s.apps.Create(ctx, app); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("application created",
		zap.String("application_id", app.ID),
		zap.String("name", app.Name),
	)

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventApplicationCreated,
			Timestamp: time.Now(),
			Payload: events.ApplicationCreatedPayload{
				ApplicationID: app.ID,
				Name:          app.Name,
				Phone:         app.Phone,
				Message:       app.Message,
			},
		})
	}

	return app, nil
}

// UpdateStatus transitions a contact request between processing states.
func (s *ApplicationService) UpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus) error {
	if !domain.ValidApplicationStatus(status) {
		return apperrors.NewValidationError("unknown application status", map[string]any{"status": string(status)})
	}
	if err := s.apps.UpdateStatus(ctx, id, status); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// List returns all contact requests, newest first.
func (s *ApplicationService) List(ctx context.Context) ([]domain.Application, error) {
	apps, err := s.apps.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return apps, nil
}
