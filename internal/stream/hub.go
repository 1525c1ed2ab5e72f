// Package stream implements the live order event hub behind GET /orders/stream.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"mebelmarket/internal/domain/order"
	"mebelmarket/pkg/logger"
	"mebelmarket/pkg/metrics"
)

// RetryPreamble is sent once per connection so clients reconnect after 10s.
const RetryPreamble = "retry: 10000\n\n"

// Subscriber is an ephemeral handle to one live connection. It owns nothing
// but its buffered frame channel; identity ends with the connection.
type Subscriber struct {
	frames chan []byte
}

// Frames returns the channel the connection handler drains.
func (s *Subscriber) Frames() <-chan []byte {
	return s.frames
}

// Hub is the registry of live push subscribers. Broadcasts serialize the
// event once and fan it out; a slow or dead subscriber is dropped without
// affecting the others. New subscribers receive no backlog.
type Hub struct {
	l          *logger.Logger
	bufferSize int
	heartbeat  time.Duration

	mu   sync.RWMutex
	subs map[*Subscriber]struct{}
}

func NewHub(l *logger.Logger, bufferSize int, heartbeat time.Duration) *Hub {
	if bufferSize <= 0 {
		bufferSize = 16
	}
	return &Hub{
		l:          l,
		bufferSize: bufferSize,
		heartbeat:  heartbeat,
		subs:       make(map[*Subscriber]struct{}),
	}
}

// Subscribe registers a new subscriber. The caller must Unsubscribe when the
// transport reports close.
func (h *Hub) Subscribe() *Subscriber {
	sub := &Subscriber{frames: make(chan []byte, h.bufferSize)}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	count := len(h.subs)
	h.mu.Unlock()

	metrics.StreamSubscribers.Set(float64(count))
	h.l.Debug("stream subscriber connected: total=%d", count)
	return sub
}

// Unsubscribe removes the subscriber and closes its frame channel. Safe to
// call more than once.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	_, ok := h.subs[sub]
	if ok {
		delete(h.subs, sub)
		close(sub.frames)
	}
	count := len(h.subs)
	h.mu.Unlock()

	if ok {
		metrics.StreamSubscribers.Set(float64(count))
		h.l.Debug("stream subscriber disconnected: total=%d", count)
	}
}

// Publish implements order.EventSink: each lifecycle event becomes one SSE
// frame delivered to every current subscriber.
func (h *Hub) Publish(_ context.Context, event order.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	h.broadcast(event.Type, []byte("data: "+string(payload)+"\n\n"))
	return nil
}

// broadcast writes one serialized frame to every subscriber. A subscriber
// whose buffer is full cannot keep up and is deregistered; the write to the
// remaining subscribers proceeds regardless.
//
// The sends happen under the read lock: they never block, and Unsubscribe
// closes a frame channel only under the exclusive lock, so a disconnect can
// never interleave with a send.
func (h *Hub) broadcast(eventType order.EventType, frame []byte) {
	h.mu.RLock()
	var dropped []*Subscriber
	for sub := range h.subs {
		select {
		case sub.frames <- frame:
		default:
			dropped = append(dropped, sub)
		}
	}
	h.mu.RUnlock()

	for _, sub := range dropped {
		metrics.StreamDroppedSubscribersTotal.Inc()
		h.l.Warn("dropping slow stream subscriber: event=%s", eventType)
		h.Unsubscribe(sub)
	}

	metrics.StreamEventsTotal.WithLabelValues(string(eventType)).Inc()
}

// Run emits heartbeat frames on a fixed interval until ctx is cancelled. The
// interval stays below typical intermediary idle timeouts so proxies keep the
// connections open.
func (h *Hub) Run(ctx context.Context) error {
	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return ctx.Err()
		case <-ticker.C:
			if err := h.Publish(ctx, order.Event{Type: order.EventHeartbeat, Data: time.Now().UTC()}); err != nil {
				h.l.Error("heartbeat publish failed: error=%v", err)
			}
		}
	}
}

// SubscriberCount reports the number of registered subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	for sub := range h.subs {
		delete(h.subs, sub)
		close(sub.frames)
	}
	h.mu.Unlock()

	metrics.StreamSubscribers.Set(0)
}
