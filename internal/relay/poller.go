package relay

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/apartment-bureau/landing-service/internal/domain"
	"github.com/apartment-bureau/landing-service/internal/events"
	"github.com/apartment-bureau/landing-service/internal/repository"
)

const welcomeText = `<b>👋 Welcome!</b>

You are subscribed to contact-request notifications from the Apartment Bureau website.

From now on every new client request will be forwarded to you.`

const stopTimeout = 5 * time.Second

// Poller is the long-running background task that consumes bot updates and
// registers subscribers. One instance per process; duplicate pollers racing
// on the same external cursor produce duplicate delivery, so Start is guarded
// by a running flag and deployments additionally pin a single polling
// instance via configuration.
type Poller struct {
	client      BotClient
	subscribers repository.SubscriberRepository
	dispatcher  events.Dispatcher
	logger      *zap.Logger

	interval time.Duration
	longPoll int
	timeout  time.Duration

	mu      sync.Mutex
	running bool
	quit    chan struct{}
	done    chan struct{}

	// offset is the poll cursor: monotonically advanced past every consumed
	// update, process-local and lost on restart.
	offset int64
}

// PollerOptions bundle poller construction parameters.
type PollerOptions struct {
	Interval        time.Duration
	LongPollSeconds int
	RequestTimeout  time.Duration
}

// NewPoller builds a poller. Updates are handled one at a time in arrival
// order; the loop is never parallelized internally.
func NewPoller(client BotClient, subscribers repository.SubscriberRepository, dispatcher events.Dispatcher, logger *zap.Logger, opts PollerOptions) *Poller {
	if opts.Interval <= 0 {
		opts.Interval = 5 * time.Second
	}
	if opts.LongPollSeconds <= 0 {
		opts.LongPollSeconds = 10
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 15 * time.Second
	}
	return &Poller{
		client:      client,
		subscribers: subscribers,
		dispatcher:  dispatcher,
		logger:      logger,
		interval:    opts.Interval,
		longPoll:    opts.LongPollSeconds,
		timeout:     opts.RequestTimeout,
	}
}

// Start launches the poll loop in a background goroutine. A second call while
// running is a no-op with a warning.
func (p *Poller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		p.logger.Warn("telegram polling already running")
		return
	}

	p.running = true
	p.quit = make(chan struct{})
	p.done = make(chan struct{})
	go p.loop(p.quit, p.done)

	p.logger.Info("telegram polling started")
}

// Stop signals the loop to exit and waits for it with a bounded timeout.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	close(p.quit)
	done := p.done
	p.mu.Unlock()

	select {
	case <-done:
		p.logger.Info("telegram polling stopped")
	case <-time.After(stopTimeout):
		p.logger.Warn("telegram polling did not stop in time")
	}
}

// Running reports whether the loop is active.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *Poller) loop(quit <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		p.pollOnce()
		select {
		case <-quit:
			return
		case <-ticker.C:
		}
	}
}

// pollOnce runs one poll cycle. Any failure is logged and swallowed: the
// relay is best-effort and must survive transient network failures
// indefinitely.
func (p *Poller) pollOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	updates, err := p.client.GetUpdates(ctx, p.offset, p.longPoll)
	cancel()
	if err != nil {
		p.logger.Error("failed to fetch telegram updates", zap.Error(err))
		return
	}

	for _, update := range updates {
		if next := update.UpdateID + 1; next > p.offset {
			p.offset = next
		}
		p.handleUpdate(update)
	}
}

// handleUpdate runs under its own deadline: a full-length long poll must not
// eat into the time budget of the upserts and sends that follow it.
func (p *Poller) handleUpdate(update Update) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	message := update.Message
	if message == nil {
		message = update.EditedMessage
	}
	if message == nil {
		return
	}

	if strings.TrimSpace(message.Text) != "/start" {
		return
	}

	chatID := strconv.FormatInt(message.Chat.ID, 10)
	sub := &domain.Subscriber{
		ChatID:   chatID,
		IsActive: true,
	}
	if message.From != nil {
		sub.Username = message.From.Username
		sub.FirstName = message.From.FirstName
		sub.LastName = message.From.LastName
	}

	if err := p.subscribers.Upsert(ctx, sub); err != nil {
		p.logger.Error("failed to upsert subscriber", zap.String("chat_id", chatID), zap.Error(err))
		return
	}
	p.logger.Info("subscriber registered",
		zap.String("chat_id", chatID),
		zap.String("name", sub.DisplayName()),
	)

	if p.dispatcher != nil {
		_ = p.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventSubscriberRegistered,
			Timestamp: time.Now(),
			Payload: events.SubscriberRegisteredPayload{
				SubscriberID: sub.ID,
				ChatID:       sub.ChatID,
				Username:     sub.Username,
			},
		})
	}

	// Welcome delivery is at-most-once: failures are logged, never retried.
	if err := p.client.SendMessage(ctx, chatID, welcomeText); err != nil {
		p.logger.Error("failed to send welcome message", zap.String("chat_id", chatID), zap.Error(err))
	}
}
