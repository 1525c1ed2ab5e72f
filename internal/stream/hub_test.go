package stream

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"mebelmarket/internal/domain/order"
	"mebelmarket/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHub(t *testing.T, bufferSize int) *Hub {
	t.Helper()
	return NewHub(logger.New("error", true), bufferSize, time.Hour)
}

func receiveFrame(t *testing.T, sub *Subscriber) string {
	t.Helper()

	select {
	case frame, ok := <-sub.Frames():
		require.True(t, ok, "frame channel closed")
		return string(frame)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for frame")
		return ""
	}
}

func decodeFrame(t *testing.T, frame string) order.Event {
	t.Helper()

	require.True(t, strings.HasPrefix(frame, "data: "))
	require.True(t, strings.HasSuffix(frame, "\n\n"))

	var event order.Event
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSuffix(strings.TrimPrefix(frame, "data: "), "\n\n")), &event))
	return event
}

func TestHub_Publish(t *testing.T) {
	t.Run("should deliver the event to every subscriber", func(t *testing.T) {
		hub := testHub(t, 4)
		first := hub.Subscribe()
		second := hub.Subscribe()

		require.NoError(t, hub.Publish(context.Background(), order.Event{
			Type: order.EventOrderCreated,
			Data: map[string]string{"id": "order-1"},
		}))

		for _, sub := range []*Subscriber{first, second} {
			event := decodeFrame(t, receiveFrame(t, sub))
			assert.Equal(t, order.EventOrderCreated, event.Type)
		}
	})

	t.Run("should not replay past events to new subscribers", func(t *testing.T) {
		hub := testHub(t, 4)
		early := hub.Subscribe()

		require.NoError(t, hub.Publish(context.Background(), order.Event{Type: order.EventOrderDeleted, Data: map[string]string{"id": "order-1"}}))

		late := hub.Subscribe()

		receiveFrame(t, early)
		select {
		case frame := <-late.Frames():
			t.Fatalf("late subscriber received backlog frame: %s", frame)
		case <-time.After(100 * time.Millisecond):
		}
	})
}

func TestHub_SlowSubscriber(t *testing.T) {
	hub := testHub(t, 1)
	slow := hub.Subscribe()
	healthy := hub.Subscribe()

	// the slow subscriber's buffer holds one frame; the second publish
	// overflows it and must deregister only that subscriber
	for i := 0; i < 2; i++ {
		require.NoError(t, hub.Publish(context.Background(), order.Event{Type: order.EventOrderCreated, Data: map[string]string{"id": "order-1"}}))
		receiveFrame(t, healthy)
	}

	assert.Equal(t, 1, hub.SubscriberCount())

	// the dropped subscriber's channel is closed after its buffered frame
	receiveFrame(t, slow)
	_, ok := <-slow.Frames()
	assert.False(t, ok)

	// the healthy subscriber keeps receiving
	require.NoError(t, hub.Publish(context.Background(), order.Event{Type: order.EventOrderStatusChanged, Data: map[string]string{"id": "order-1"}}))
	event := decodeFrame(t, receiveFrame(t, healthy))
	assert.Equal(t, order.EventOrderStatusChanged, event.Type)
}

func TestHub_DisconnectDuringBroadcast(t *testing.T) {
	hub := testHub(t, 1)
	ctx := context.Background()

	// hammer broadcasts against subscribers connecting and disconnecting;
	// a disconnect landing mid-broadcast must not corrupt the iteration
	done := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
					assert.NoError(t, hub.Publish(ctx, order.Event{
						Type: order.EventOrderCreated,
						Data: map[string]string{"id": "order-1"},
					}))
				}
			}
		}()
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
					hub.Unsubscribe(hub.Subscribe())
				}
			}
		}()
	}

	time.Sleep(200 * time.Millisecond)
	close(done)
	wg.Wait()

	// the hub keeps serving subscribers that stay connected
	sub := hub.Subscribe()
	require.NoError(t, hub.Publish(ctx, order.Event{Type: order.EventOrderStatusChanged, Data: map[string]string{"id": "order-1"}}))
	event := decodeFrame(t, receiveFrame(t, sub))
	assert.Equal(t, order.EventOrderStatusChanged, event.Type)
}

func TestHub_Unsubscribe(t *testing.T) {
	hub := testHub(t, 4)
	sub := hub.Subscribe()

	hub.Unsubscribe(sub)
	hub.Unsubscribe(sub) // idempotent

	assert.Zero(t, hub.SubscriberCount())
	_, ok := <-sub.Frames()
	assert.False(t, ok)
}

func TestHub_Run(t *testing.T) {
	hub := NewHub(logger.New("error", true), 4, 20*time.Millisecond)
	sub := hub.Subscribe()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hub.Run(ctx) }()

	event := decodeFrame(t, receiveFrame(t, sub))
	assert.Equal(t, order.EventHeartbeat, event.Type)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop")
	}

	// shutdown closes every subscriber channel
	for {
		if _, ok := <-sub.Frames(); !ok {
			break
		}
	}
	assert.Zero(t, hub.SubscriberCount())
}
