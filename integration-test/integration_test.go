//go:build integration
// +build integration

package integration_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"mebelmarket/internal/app"
	httpctrl "mebelmarket/internal/controller/http"
	"mebelmarket/internal/controller/http/handlers"
	"mebelmarket/internal/domain/customer"
	"mebelmarket/internal/domain/order"
	appkafka "mebelmarket/internal/external/kafka"
	"mebelmarket/internal/external/telegram"
	"mebelmarket/internal/notification"
	customer_repo "mebelmarket/internal/repo/customer"
	order_repo "mebelmarket/internal/repo/order"
	"mebelmarket/internal/stream"
	"mebelmarket/internal/testinfra"
	"mebelmarket/pkg/logger"

	"github.com/gin-gonic/gin"
	segkafka "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

type serverOpts struct {
	telegramURL string
	sinks       []order.EventSink
}

func setupTestServer(t *testing.T, opts serverOpts) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx := context.Background()
	pg, err := testinfra.NewPostgres(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { pg.Cleanup(context.Background()) })

	l := logger.New("error", true)

	orderRepo := order_repo.NewPgOrderRepo(pg.Pool)
	customerRepo := customer_repo.NewPgCustomerRepo(pg.Pool)
	customerService := customer.NewCustomerService(customerRepo, l)

	hub := stream.NewHub(l, 16, time.Hour)
	sinks := append([]order.EventSink{hub}, opts.sinks...)

	var tg *telegram.Client
	chatID := ""
	if opts.telegramURL != "" {
		tg = telegram.New(opts.telegramURL, "test-token", nil)
		chatID = "-100123"
	}
	dispatcher := notification.NewDispatcher(tg, chatID, l)

	orderService := order.NewOrderService(orderRepo, customerService, dispatcher, l, sinks...)

	engine := app.NewGinEngine(l)
	router := httpctrl.NewRouter(
		handlers.NewOrderHandler(orderService),
		handlers.NewCustomerHandler(customerService),
		handlers.NewStreamHandler(hub),
	)
	router.SetUp(engine)

	server := httptest.NewServer(engine)
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, method, url string, body any) (int, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func sampleOrderBody(phone string) map[string]any {
	return map[string]any{
		"customerName": "Ali",
		"phone":        phone,
		"address":      "Tashkent",
		"items": []map[string]any{
			{"name": "Stol", "price": 100000, "quantity": 2},
			{"name": "Stul", "price": 50000, "quantity": 1},
		},
		"paymentMethod": "cash",
	}
}

func createOrder(t *testing.T, serverURL, phone string) order.Order {
	t.Helper()

	status, env := doJSON(t, http.MethodPost, serverURL+"/orders", sampleOrderBody(phone))
	require.Equal(t, http.StatusOK, status, "error: %s", env.Error)
	require.True(t, env.Success)

	var o order.Order
	require.NoError(t, json.Unmarshal(env.Data, &o))
	return o
}

func listCustomers(t *testing.T, serverURL string) []customer.WithStats {
	t.Helper()

	status, env := doJSON(t, http.MethodGet, serverURL+"/customers", nil)
	require.Equal(t, http.StatusOK, status)

	var payload struct {
		Customers []customer.WithStats `json:"customers"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	return payload.Customers
}

func TestOrderLifecycle(t *testing.T) {
	server := setupTestServer(t, serverOpts{})

	created := createOrder(t, server.URL, "+998901234567")
	assert.Equal(t, float64(250000), created.Total)
	assert.Equal(t, order.StatusPending, created.Status)
	assert.Equal(t, order.PaymentPending, created.PaymentStatus)

	// the customer record is written from a detached goroutine
	require.Eventually(t, func() bool {
		for _, c := range listCustomers(t, server.URL) {
			if c.Phone == "+998901234567" && c.TotalOrders >= 1 {
				return true
			}
		}
		return false
	}, 5*time.Second, 100*time.Millisecond)

	t.Run("status update bumps updatedAt", func(t *testing.T) {
		status, env := doJSON(t, http.MethodPatch, server.URL+"/orders/"+created.ID, map[string]any{"status": "delivered"})
		require.Equal(t, http.StatusOK, status, "error: %s", env.Error)

		var updated order.Order
		require.NoError(t, json.Unmarshal(env.Data, &updated))
		assert.Equal(t, order.StatusDelivered, updated.Status)
		assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		status, _ := doJSON(t, http.MethodPatch, server.URL+"/orders/"+created.ID, map[string]any{"status": "shipped"})
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("empty update is rejected", func(t *testing.T) {
		status, _ := doJSON(t, http.MethodPatch, server.URL+"/orders/"+created.ID, map[string]any{})
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("delete removes the order", func(t *testing.T) {
		status, env := doJSON(t, http.MethodDelete, server.URL+"/orders/"+created.ID, nil)
		require.Equal(t, http.StatusOK, status)
		assert.True(t, env.Success)

		status, _ = doJSON(t, http.MethodGet, server.URL+"/orders/"+created.ID, nil)
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("deleting a nonexistent order returns 404", func(t *testing.T) {
		status, env := doJSON(t, http.MethodDelete, server.URL+"/orders/no-such-order", nil)
		assert.Equal(t, http.StatusNotFound, status)
		assert.False(t, env.Success)
	})
}

func TestServerSideTotal(t *testing.T) {
	server := setupTestServer(t, serverOpts{})

	// a client-supplied total must be ignored
	body := sampleOrderBody("+998901111111")
	body["total"] = 1

	status, env := doJSON(t, http.MethodPost, server.URL+"/orders", body)
	require.Equal(t, http.StatusOK, status)

	var o order.Order
	require.NoError(t, json.Unmarshal(env.Data, &o))
	assert.Equal(t, float64(250000), o.Total)
}

func TestEmptyItemsRejected(t *testing.T) {
	server := setupTestServer(t, serverOpts{})

	body := sampleOrderBody("+998902222222")
	body["items"] = []map[string]any{}

	status, env := doJSON(t, http.MethodPost, server.URL+"/orders", body)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, env.Success)

	// rejection must not leave a customer behind
	time.Sleep(300 * time.Millisecond)
	for _, c := range listCustomers(t, server.URL) {
		assert.NotEqual(t, "+998902222222", c.Phone)
	}
}

func TestConcurrentOrdersSingleCustomer(t *testing.T) {
	server := setupTestServer(t, serverOpts{})

	const workers = 8
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			createOrder(t, server.URL, "+998903333333")
		}()
	}
	wg.Wait()

	require.Eventually(t, func() bool {
		matched := 0
		for _, c := range listCustomers(t, server.URL) {
			if c.Phone == "+998903333333" {
				matched++
			}
		}
		return matched == 1
	}, 5*time.Second, 100*time.Millisecond)
}

// subscribeStream opens an SSE connection and forwards decoded data frames.
func subscribeStream(t *testing.T, serverURL string) (<-chan order.Event, func()) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, serverURL+"/orders/stream", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	events := make(chan order.Event, 16)
	go func() {
		defer close(events)
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			line := scanner.Text()
			if !strings.HasPrefix(line, "data: ") {
				continue
			}
			var event order.Event
			if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &event); err == nil {
				events <- event
			}
		}
	}()

	return events, func() { resp.Body.Close() }
}

func awaitEvent(t *testing.T, events <-chan order.Event, eventType order.EventType) order.Event {
	t.Helper()

	deadline := time.After(5 * time.Second)
	for {
		select {
		case event, ok := <-events:
			require.True(t, ok, "stream closed while waiting for %s", eventType)
			if event.Type == eventType {
				return event
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s", eventType)
		}
	}
}

func TestStreamFanOut(t *testing.T) {
	server := setupTestServer(t, serverOpts{})

	early, closeEarly := subscribeStream(t, server.URL)
	defer closeEarly()

	created := createOrder(t, server.URL, "+998904444444")

	event := awaitEvent(t, early, order.EventOrderCreated)
	data, err := json.Marshal(event.Data)
	require.NoError(t, err)
	assert.Contains(t, string(data), created.ID)

	// a late subscriber must not see the past event
	late, closeLate := subscribeStream(t, server.URL)
	defer closeLate()

	select {
	case event := <-late:
		t.Fatalf("late subscriber received backlog event: %v", event.Type)
	case <-time.After(500 * time.Millisecond):
	}

	// both see subsequent events
	_, env := doJSON(t, http.MethodDelete, server.URL+"/orders/"+created.ID, nil)
	require.True(t, env.Success)

	awaitEvent(t, early, order.EventOrderDeleted)
	awaitEvent(t, late, order.EventOrderDeleted)
}

func TestNotificationFailureDoesNotBlockOrders(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"ok":false,"description":"Unauthorized"}`))
	}))
	defer broken.Close()

	server := setupTestServer(t, serverOpts{telegramURL: broken.URL})

	created := createOrder(t, server.URL, "+998905555555")
	assert.Equal(t, float64(250000), created.Total)

	status, _ := doJSON(t, http.MethodGet, server.URL+"/orders/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestKafkaEventMirror(t *testing.T) {
	ctx := context.Background()

	kc, err := testinfra.NewKafka(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { kc.Cleanup(context.Background()) })

	l := logger.New("error", true)
	publisher := appkafka.NewPublisher(l, kc.Brokers, kc.EventsTopic)
	t.Cleanup(func() { publisher.Close() })

	server := setupTestServer(t, serverOpts{
		sinks: []order.EventSink{appkafka.NewEventMirror(publisher)},
	})

	created := createOrder(t, server.URL, "+998906666666")

	reader := segkafka.NewReader(segkafka.ReaderConfig{
		Brokers:     kc.Brokers,
		Topic:       kc.EventsTopic,
		StartOffset: segkafka.FirstOffset,
		MinBytes:    1,
		MaxBytes:    10e6,
	})
	t.Cleanup(func() { reader.Close() })

	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := reader.ReadMessage(readCtx)
	require.NoError(t, err)

	assert.Equal(t, created.ID, string(msg.Key))

	var env struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(msg.Value, &env))
	assert.Equal(t, string(order.EventOrderCreated), env.Type)
	assert.Contains(t, string(env.Payload), fmt.Sprintf("%q", created.ID))
}
