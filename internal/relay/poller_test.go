package relay

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/apartment-bureau/landing-service/internal/domain"
)

type sentMessage struct {
	chatID string
	text   string
}

type fakeBotClient struct {
	updates    []Update
	getErr     error
	sent       []sentMessage
	failChatID string

	updatesCtx  context.Context
	sendCtxErrs []error
}

func (f *fakeBotClient) GetUpdates(ctx context.Context, offset int64, _ int) ([]Update, error) {
	f.updatesCtx = ctx
	if f.getErr != nil {
		return nil, f.getErr
	}
	var newer []Update
	for _, u := range f.updates {
		if u.UpdateID >= offset {
			newer = append(newer, u)
		}
	}
	return newer, nil
}

func (f *fakeBotClient) SendMessage(ctx context.Context, chatID, text string) error {
	f.sendCtxErrs = append(f.sendCtxErrs, ctx.Err())
	if chatID == f.failChatID {
		return errors.New("chat unreachable")
	}
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text})
	return nil
}

type fakeSubscriberRepo struct {
	byChatID map[string]*domain.Subscriber
	listErr  error
}

func newFakeSubscriberRepo() *fakeSubscriberRepo {
	return &fakeSubscriberRepo{byChatID: make(map[string]*domain.Subscriber)}
}

func (f *fakeSubscriberRepo) Upsert(_ context.Context, sub *domain.Subscriber) error {
	if existing, ok := f.byChatID[sub.ChatID]; ok {
		sub.ID = existing.ID
		sub.CreatedAt = existing.CreatedAt
	} else {
		sub.ID = "sub-" + sub.ChatID
		sub.CreatedAt = time.Now()
	}
	sub.UpdatedAt = time.Now()
	clone := *sub
	f.byChatID[sub.ChatID] = &clone
	return nil
}

func (f *fakeSubscriberRepo) ListActive(_ context.Context) ([]domain.Subscriber, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var subs []domain.Subscriber
	for _, sub := range f.byChatID {
		if sub.IsActive {
			subs = append(subs, *sub)
		}
	}
	return subs, nil
}

func (f *fakeSubscriberRepo) List(_ context.Context) ([]domain.Subscriber, error) {
	var subs []domain.Subscriber
	for _, sub := range f.byChatID {
		subs = append(subs, *sub)
	}
	return subs, nil
}

func (f *fakeSubscriberRepo) SetActive(_ context.Context, id string, active bool) error {
	for _, sub := range f.byChatID {
		if sub.ID == id {
			sub.IsActive = active
			return nil
		}
	}
	return errors.New("not found")
}

func startUpdate(id, chatID int64, text string) Update {
	return Update{
		UpdateID: id,
		Message: &Message{
			Text: text,
			Chat: Chat{ID: chatID},
			From: &User{Username: "pm_anna", FirstName: "Anna"},
		},
	}
}

func newTestPoller(client BotClient, repo *fakeSubscriberRepo) *Poller {
	return NewPoller(client, repo, nil, zap.NewNop(), PollerOptions{
		Interval:        10 * time.Millisecond,
		LongPollSeconds: 1,
		RequestTimeout:  time.Second,
	})
}

func TestPollOnceAdvancesCursorPastAllUpdates(t *testing.T) {
	client := &fakeBotClient{updates: []Update{
		startUpdate(5, 100, "/start"),
		startUpdate(6, 101, "hello"),
		startUpdate(9, 102, "/start"),
	}}
	repo := newFakeSubscriberRepo()
	p := newTestPoller(client, repo)

	p.pollOnce()

	assert.Equal(t, int64(10), p.offset)
	assert.Len(t, repo.byChatID, 2, "only /start updates register subscribers")
}

func TestPollOnceUpsertIsIdempotentPerChat(t *testing.T) {
	client := &fakeBotClient{updates: []Update{startUpdate(1, 100, "/start")}}
	repo := newFakeSubscriberRepo()
	p := newTestPoller(client, repo)

	p.pollOnce()
	require.Len(t, repo.byChatID, 1)
	firstID := repo.byChatID["100"].ID

	client.updates = []Update{startUpdate(2, 100, "/start")}
	p.pollOnce()

	require.Len(t, repo.byChatID, 1, "repeated /start must update, not duplicate")
	assert.Equal(t, firstID, repo.byChatID["100"].ID)
	assert.Equal(t, int64(3), p.offset)
}

func TestPollOnceSendsWelcome(t *testing.T) {
	client := &fakeBotClient{updates: []Update{startUpdate(1, 100, "/start")}}
	p := newTestPoller(client, newFakeSubscriberRepo())

	p.pollOnce()

	require.Len(t, client.sent, 1)
	assert.Equal(t, "100", client.sent[0].chatID)
	assert.Contains(t, client.sent[0].text, "Welcome")
}

func TestPollOnceBoundsEachSendIndependently(t *testing.T) {
	client := &fakeBotClient{updates: []Update{
		startUpdate(1, 100, "/start"),
		startUpdate(2, 101, "/start"),
	}}
	p := newTestPoller(client, newFakeSubscriberRepo())

	p.pollOnce()

	// The poll context is released before handling; each send runs under a
	// fresh, live deadline.
	require.NotNil(t, client.updatesCtx)
	assert.ErrorIs(t, client.updatesCtx.Err(), context.Canceled)
	require.Len(t, client.sendCtxErrs, 2)
	for _, err := range client.sendCtxErrs {
		assert.NoError(t, err)
	}
}

func TestPollOnceSurvivesTransportErrors(t *testing.T) {
	client := &fakeBotClient{getErr: errors.New("connection reset")}
	p := newTestPoller(client, newFakeSubscriberRepo())

	p.pollOnce()

	assert.Equal(t, int64(0), p.offset, "cursor must not move on failure")
}

func TestPollOnceHandlesEditedMessages(t *testing.T) {
	client := &fakeBotClient{updates: []Update{{
		UpdateID:      4,
		EditedMessage: &Message{Text: "/start", Chat: Chat{ID: 200}},
	}}}
	repo := newFakeSubscriberRepo()
	p := newTestPoller(client, repo)

	p.pollOnce()

	assert.Len(t, repo.byChatID, 1)
	assert.Equal(t, int64(5), p.offset)
}

func TestStartIsIdempotent(t *testing.T) {
	client := &fakeBotClient{}
	p := newTestPoller(client, newFakeSubscriberRepo())

	p.Start()
	p.Start() // no-op with a warning
	require.True(t, p.Running())

	p.Stop()
	require.False(t, p.Running())

	// Stop on a stopped poller is also a no-op.
	p.Stop()
}
