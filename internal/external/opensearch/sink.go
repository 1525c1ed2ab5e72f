// Package opensearch indexes order lifecycle events for back-office search.
package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"mebelmarket/internal/domain/order"

	"github.com/google/uuid"
	"github.com/opensearch-project/opensearch-go"
)

var _ order.EventSink = (*EventSink)(nil)

type EventSink struct {
	client      *opensearch.Client
	indexOrders string
}

func NewEventSink(ctx context.Context, urls []string, indexOrders string) (*EventSink, error) {
	if len(urls) == 0 {
		return nil, errors.New("no OpenSearch addresses configured")
	}

	cfg := opensearch.Config{
		Addresses: urls,
		Transport: &http.Transport{
			MaxIdleConnsPerHost: 10,
		},
	}
	client, err := opensearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("opensearch client: %w", err)
	}

	sink := &EventSink{client: client, indexOrders: indexOrders}
	if err := sink.ensureIndex(ctx); err != nil {
		return nil, err
	}
	return sink, nil
}

func (s *EventSink) ensureIndex(ctx context.Context) error {
	res, err := s.client.Indices.Exists([]string{s.indexOrders}, s.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("indices.exists: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}

	body := map[string]any{
		"mappings": map[string]any{
			"properties": map[string]any{
				"event_id":   map[string]any{"type": "keyword"},
				"type":       map[string]any{"type": "keyword"},
				"created_at": map[string]any{"type": "date"},
				"data":       map[string]any{"type": "object", "enabled": true},
			},
		},
		"settings": map[string]any{
			"number_of_replicas": 0,
		},
	}
	buf, _ := json.Marshal(body)
	cr, err := s.client.Indices.Create(
		s.indexOrders,
		s.client.Indices.Create.WithBody(bytes.NewReader(buf)),
		s.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("indices.create: %w", err)
	}
	defer cr.Body.Close()
	if cr.IsError() {
		return fmt.Errorf("indices.create error: %s", cr.String())
	}
	return nil
}

type osOrderEventDoc struct {
	EventID   string          `json:"event_id"`
	Type      order.EventType `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// Publish implements order.EventSink by indexing one document per event.
func (s *EventSink) Publish(ctx context.Context, event order.Event) error {
	data, err := json.Marshal(event.Data)
	if err != nil {
		return fmt.Errorf("marshal event data: %w", err)
	}

	eventID := uuid.NewString()
	doc := osOrderEventDoc{
		EventID:   eventID,
		Type:      event.Type,
		Data:      data,
		CreatedAt: time.Now().UTC(),
	}
	payload, _ := json.Marshal(doc)

	res, err := s.client.Index(
		s.indexOrders,
		bytes.NewReader(payload),
		s.client.Index.WithDocumentID(eventID),
		s.client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index error: %s", res.String())
	}
	return nil
}
