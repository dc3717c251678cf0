package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPublishInvokesHandlersInOrder(t *testing.T) {
	d := NewInMemoryDispatcher(zap.NewNop())

	var calls []string
	d.Subscribe("thing_happened", func(context.Context, Event) error {
		calls = append(calls, "first")
		return nil
	})
	d.Subscribe("thing_happened", func(context.Context, Event) error {
		calls = append(calls, "second")
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: "thing_happened"}))
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestPublishContinuesPastFailingHandler(t *testing.T) {
	d := NewInMemoryDispatcher(zap.NewNop())

	var reached bool
	d.Subscribe("thing_happened", func(context.Context, Event) error {
		return errors.New("handler broke")
	})
	d.Subscribe("thing_happened", func(context.Context, Event) error {
		reached = true
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: "thing_happened"}))
	assert.True(t, reached, "a failing handler must not stop the rest")
}

func TestPublishWithNoSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher(zap.NewNop())

	assert.NoError(t, d.Publish(context.Background(), Event{Type: "never_subscribed"}))
}
