package service

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/apartment-bureau/landing-service/internal/domain"
	"github.com/apartment-bureau/landing-service/internal/events"
	"github.com/apartment-bureau/landing-service/internal/observability"
	"github.com/apartment-bureau/landing-service/internal/relay"
	apperrors "github.com/apartment-bureau/landing-service/pkg/util"
)

type fakeApplicationRepo struct {
	apps      []*domain.Application
	createErr error

	sentIDs  []string
	errByID  map[string]string
	statuses map[string]domain.ApplicationStatus
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{
		errByID:  make(map[string]string),
		statuses: make(map[string]domain.ApplicationStatus),
	}
}

func (f *fakeApplicationRepo) Create(_ context.Context, app *domain.Application) error {
	if f.createErr != nil {
		return f.createErr
	}
	app.ID = "app-" + strconv.Itoa(len(f.apps)+1)
	app.CreatedAt = time.Now()
	app.UpdatedAt = app.CreatedAt
	f.apps = append(f.apps, app)
	return nil
}

func (f *fakeApplicationRepo) MarkSentToTelegram(_ context.Context, id string) error {
	f.sentIDs = append(f.sentIDs, id)
	return nil
}

func (f *fakeApplicationRepo) RecordTelegramError(_ context.Context, id, message string) error {
	f.errByID[id] = message
	return nil
}

func (f *fakeApplicationRepo) UpdateStatus(_ context.Context, id string, status domain.ApplicationStatus) error {
	f.statuses[id] = status
	return nil
}

func (f *fakeApplicationRepo) List(_ context.Context) ([]domain.Application, error) {
	out := make([]domain.Application, 0, len(f.apps))
	for _, app := range f.apps {
		out = append(out, *app)
	}
	return out, nil
}

type fakeNotifier struct {
	result relay.DeliveryResult
	calls  int
}

func (f *fakeNotifier) SendApplication(context.Context, string, string, string) relay.DeliveryResult {
	f.calls++
	return f.result
}

// wireNotifications connects the application service to a notifier through a
// real dispatcher, the way cmd/api does.
func wireNotifications(repo *fakeApplicationRepo, notifier *fakeNotifier) *ApplicationService {
	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	svc := NewApplicationService(repo, dispatcher, zap.NewNop())
	NewNotificationService(dispatcher, notifier, repo, observability.NewMetrics(), zap.NewNop()).RegisterHandlers()
	return svc
}

func TestSubmitPersistsAndMarksNotified(t *testing.T) {
	repo := newFakeApplicationRepo()
	notifier := &fakeNotifier{result: relay.DeliveryResult{OK: true, SentCount: 1}}
	svc := wireNotifications(repo, notifier)

	app, err := svc.Submit(context.Background(), "  Ivan  ", "+7 900 000-00-00", "call me")

	require.NoError(t, err)
	assert.Equal(t, "Ivan", app.Name, "name must be trimmed")
	assert.Equal(t, domain.ApplicationStatusNew, app.Status)
	require.Len(t, repo.apps, 1)
	assert.Equal(t, 1, notifier.calls)
	assert.Equal(t, []string{app.ID}, repo.sentIDs)
}

func TestSubmitRecordsDeliveryFailure(t *testing.T) {
	repo := newFakeApplicationRepo()
	notifier := &fakeNotifier{result: relay.DeliveryResult{
		FailedCount: 1,
		Errors:      []string{"chat 100: blocked"},
	}}
	svc := wireNotifications(repo, notifier)

	app, err := svc.Submit(context.Background(), "Ivan", "+7 900 000-00-00", "")

	require.NoError(t, err, "delivery failure must not surface to the visitor")
	require.Len(t, repo.apps, 1)
	assert.Empty(t, repo.sentIDs)
	assert.Equal(t, "chat 100: blocked", repo.errByID[app.ID])
}

func TestSubmitValidation(t *testing.T) {
	repo := newFakeApplicationRepo()
	notifier := &fakeNotifier{}
	svc := wireNotifications(repo, notifier)

	for _, tc := range []struct {
		name, phone string
	}{
		{"", "+7 900 000-00-00"},
		{"Ivan", ""},
		{"   ", "   "},
	} {
		_, err := svc.Submit(context.Background(), tc.name, tc.phone, "")
		require.Error(t, err)

		var domErr *apperrors.DomainError
		require.ErrorAs(t, err, &domErr)
		assert.Equal(t, 400, domErr.HTTPStatus)
	}
	assert.Empty(t, repo.apps, "invalid requests are never persisted")
	assert.Zero(t, notifier.calls)
}

func TestSubmitStoreFailure(t *testing.T) {
	repo := newFakeApplicationRepo()
	repo.createErr = errors.New("db down")
	notifier := &fakeNotifier{}
	svc := wireNotifications(repo, notifier)

	_, err := svc.Submit(context.Background(), "Ivan", "+7 900 000-00-00", "")

	require.Error(t, err)
	assert.Zero(t, notifier.calls, "no notification without a stored request")
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	repo := newFakeApplicationRepo()
	svc := NewApplicationService(repo, nil, zap.NewNop())

	err := svc.UpdateStatus(context.Background(), "app-1", domain.ApplicationStatus("archived"))
	require.Error(t, err)

	require.NoError(t, svc.UpdateStatus(context.Background(), "app-1", domain.ApplicationStatusProcessed))
	assert.Equal(t, domain.ApplicationStatusProcessed, repo.statuses["app-1"])
}
