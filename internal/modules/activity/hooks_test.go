package activity

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEventTrimsClonesAndStamps(t *testing.T) {
	meta := map[string]any{"count": 3}
	evt := Event{Topic: " cart.changed ", Verb: " added ", ObjectID: " p1 ", Metadata: meta}

	got := NormalizeEvent(evt)

	assert.Equal(t, "cart.changed", got.Topic)
	assert.Equal(t, "added", got.Verb)
	assert.Equal(t, "p1", got.ObjectID)
	assert.False(t, got.OccurredAt.IsZero())

	got.Metadata["count"] = 4
	assert.Equal(t, 3, meta["count"], "caller metadata must stay untouched")
}

func TestNormalizeEventKeepsExplicitTimestamp(t *testing.T) {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	got := NormalizeEvent(Event{Topic: TopicCartChanged, OccurredAt: at})
	assert.Equal(t, at, got.OccurredAt)
}

func TestHooksNotifyDropsEventsWithoutTopic(t *testing.T) {
	capture := &CaptureHook{}
	require.NoError(t, Hooks{capture}.Notify(context.Background(), Event{Verb: "added"}))
	assert.Empty(t, capture.Events)
}

func TestHooksNotifyFanOutAndJoinErrors(t *testing.T) {
	capture := &CaptureHook{}
	var ctxSeen bool
	boom1 := errors.New("boom1")
	boom2 := errors.New("boom2")
	hooks := Hooks{
		HookFunc(func(ctx context.Context, _ Event) error {
			ctxSeen = ctx != nil
			return nil
		}),
		capture,
		HookFunc(func(context.Context, Event) error { return boom1 }),
		nil,
		HookFunc(func(context.Context, Event) error { return boom2 }),
	}

	//nolint:staticcheck // nil context falls back to Background
	err := hooks.Notify(nil, Event{Topic: TopicCatalogChanged, Verb: "created"})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom1)
	assert.ErrorIs(t, err, boom2)
	assert.True(t, ctxSeen)
	assert.Len(t, capture.Events, 1)
}

func TestCaptureHookConcurrentEmits(t *testing.T) {
	bus := NewBus()
	capture := &CaptureHook{}
	bus.Subscribe(capture)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = bus.Emit(context.Background(), Event{Topic: TopicCatalogChanged, Verb: "updated"})
			_ = capture.Topics()
		}()
	}
	wg.Wait()

	assert.Len(t, capture.Snapshot(), 20)
}
