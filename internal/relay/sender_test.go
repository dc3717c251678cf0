package relay

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/apartment-bureau/landing-service/internal/domain"
)

func repoWithActiveSubscribers(chatIDs ...string) *fakeSubscriberRepo {
	repo := newFakeSubscriberRepo()
	for _, id := range chatIDs {
		_ = repo.Upsert(context.Background(), &domain.Subscriber{ChatID: id, IsActive: true})
	}
	return repo
}

func TestBroadcastContinuesPastFailures(t *testing.T) {
	client := &fakeBotClient{failChatID: "200"}
	repo := repoWithActiveSubscribers("100", "200", "300")
	s := NewSender(client, repo, zap.NewNop(), "")

	result := s.Send(context.Background(), "new listing", "")

	assert.True(t, result.OK)
	assert.Equal(t, 2, result.SentCount)
	assert.Equal(t, 1, result.FailedCount)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "chat 200")
	assert.Len(t, client.sent, 2, "remaining subscribers still receive the message")
}

func TestBroadcastSkipsInactiveSubscribers(t *testing.T) {
	client := &fakeBotClient{}
	repo := repoWithActiveSubscribers("100", "200")
	require.NoError(t, repo.SetActive(context.Background(), repo.byChatID["200"].ID, false))
	s := NewSender(client, repo, zap.NewNop(), "")

	result := s.Send(context.Background(), "hi", "")

	assert.True(t, result.OK)
	assert.Equal(t, 1, result.SentCount)
	require.Len(t, client.sent, 1)
	assert.Equal(t, "100", client.sent[0].chatID)
}

func TestBroadcastWithNoSubscribers(t *testing.T) {
	s := NewSender(&fakeBotClient{}, newFakeSubscriberRepo(), zap.NewNop(), "")

	result := s.Send(context.Background(), "hi", "")

	assert.False(t, result.OK)
	assert.Zero(t, result.SentCount)
	assert.NotEmpty(t, result.ErrorSummary())
}

func TestBroadcastListFailure(t *testing.T) {
	repo := newFakeSubscriberRepo()
	repo.listErr = errors.New("db down")
	s := NewSender(&fakeBotClient{}, repo, zap.NewNop(), "")

	result := s.Send(context.Background(), "hi", "")

	assert.False(t, result.OK)
	assert.Contains(t, result.ErrorSummary(), "db down")
}

func TestSendToExplicitChat(t *testing.T) {
	client := &fakeBotClient{}
	repo := repoWithActiveSubscribers("100", "200")
	s := NewSender(client, repo, zap.NewNop(), "")

	result := s.Send(context.Background(), "direct", "555")

	assert.True(t, result.OK)
	assert.Equal(t, 1, result.SentCount)
	require.Len(t, client.sent, 1)
	assert.Equal(t, "555", client.sent[0].chatID)
}

func TestSendApplicationPrefersConfiguredChat(t *testing.T) {
	client := &fakeBotClient{}
	repo := repoWithActiveSubscribers("100")
	s := NewSender(client, repo, zap.NewNop(), "777")

	result := s.SendApplication(context.Background(), "Ivan", "+7 900 000-00-00", "call me <after 6>")

	assert.True(t, result.OK)
	require.Len(t, client.sent, 1)
	assert.Equal(t, "777", client.sent[0].chatID)
	assert.Contains(t, client.sent[0].text, "Ivan")
	assert.Contains(t, client.sent[0].text, "&lt;after 6&gt;", "message html must be escaped")
}

func TestSendApplicationBroadcastsWithoutConfiguredChat(t *testing.T) {
	client := &fakeBotClient{}
	repo := repoWithActiveSubscribers("100", "200")
	s := NewSender(client, repo, zap.NewNop(), "")

	result := s.SendApplication(context.Background(), "Ivan", "+7 900 000-00-00", "")

	assert.True(t, result.OK)
	assert.Equal(t, 2, result.SentCount)
}

func TestErrorSummaryJoinsFailures(t *testing.T) {
	r := DeliveryResult{FailedCount: 2, Errors: []string{"chat 1: timeout", "chat 2: blocked"}}
	assert.Equal(t, "chat 1: timeout; chat 2: blocked", r.ErrorSummary())

	assert.Empty(t, DeliveryResult{OK: true}.ErrorSummary())
	assert.Equal(t, "delivery failed", DeliveryResult{}.ErrorSummary())
}
