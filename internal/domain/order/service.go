package order

import (
	"context"
	"fmt"

	"mebelmarket/internal/controller/apperror"
	"mebelmarket/pkg/logger"
)

// OrderService implements order ingestion, listing, the allow-listed status
// update path and deletion. Side effects (customer upsert, notification,
// event fan-out) run in detached goroutines so the caller only ever waits on
// the durable write.
type OrderService struct {
	repo      OrderRepo
	customers CustomerUpserter
	notifier  Notifier
	sinks     []EventSink
	l         *logger.Logger
}

func NewOrderService(
	repo OrderRepo,
	customers CustomerUpserter,
	notifier Notifier,
	l *logger.Logger,
	sinks ...EventSink,
) *OrderService {
	return &OrderService{
		repo:      repo,
		customers: customers,
		notifier:  notifier,
		sinks:     sinks,
		l:         l,
	}
}

// Create validates the request, persists the order and returns it. The
// customer upsert, the event broadcast and the notification are launched as
// three independent detached operations after the write succeeds.
func (s *OrderService) Create(ctx context.Context, req CreateRequest) (Order, error) {
	o, err := NewOrder(req)
	if err != nil {
		return Order{}, err
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return Order{}, fmt.Errorf("persist order: %w", err)
	}

	bg := context.WithoutCancel(ctx)
	go s.upsertCustomer(bg, o)
	go s.publish(bg, Event{Type: EventOrderCreated, Data: o})
	go s.notifyNewOrder(bg, o)

	return o, nil
}

// GetByID loads a single order.
func (s *OrderService) GetByID(ctx context.Context, id string) (Order, error) {
	query, _ := NewOrdersQueryBuilder().WithIDs(id).Build()

	orders, err := s.repo.GetOrders(ctx, query)
	if err != nil {
		return Order{}, fmt.Errorf("get order: %w", err)
	}
	if len(orders) == 0 {
		return Order{}, apperror.ErrOrderNotFound
	}
	return orders[0], nil
}

// List returns the page matching the query plus the total count for the same
// filter.
func (s *OrderService) List(ctx context.Context, query *OrdersQuery) ([]Order, int64, error) {
	orders, err := s.repo.GetOrders(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("filter orders: %w", err)
	}

	total, err := s.repo.CountOrders(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	return orders, total, nil
}

// UpdateStatus applies an allow-listed partial update. When the status field
// actually changes it re-triggers the notification and the broadcast, both
// detached.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, update StatusUpdate) (Order, error) {
	if update.IsEmpty() {
		return Order{}, apperror.ErrEmptyUpdate
	}

	before, err := s.GetByID(ctx, id)
	if err != nil {
		return Order{}, err
	}

	updated, err := s.repo.UpdateFields(ctx, id, update)
	if err != nil {
		return Order{}, fmt.Errorf("update order: %w", err)
	}

	if update.Status != nil && *update.Status != before.Status {
		bg := context.WithoutCancel(ctx)
		go s.publish(bg, Event{Type: EventOrderStatusChanged, Data: updated})
		go s.notifyStatusUpdate(bg, updated)
	}

	return updated, nil
}

// Delete removes an order and broadcasts an order_deleted event.
func (s *OrderService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	go s.publish(context.WithoutCancel(ctx), Event{
		Type: EventOrderDeleted,
		Data: map[string]string{"id": id},
	})

	return nil
}

func (s *OrderService) upsertCustomer(ctx context.Context, o Order) {
	if err := s.customers.UpsertContact(ctx, o.CustomerName, o.Phone); err != nil {
		s.l.ErrorCtx(ctx, "customer upsert failed: order_id=%s error=%v", o.ID, err)
	}
}

func (s *OrderService) notifyNewOrder(ctx context.Context, o Order) {
	if err := s.notifier.NewOrder(ctx, o); err != nil {
		s.l.ErrorCtx(ctx, "new order notification failed: order_id=%s error=%v", o.ID, err)
	}
}

func (s *OrderService) notifyStatusUpdate(ctx context.Context, o Order) {
	if err := s.notifier.StatusUpdate(ctx, o.ID, o.Status); err != nil {
		s.l.ErrorCtx(ctx, "status notification failed: order_id=%s error=%v", o.ID, err)
	}
}

// publish delivers the event to every configured sink. A failing sink only
// logs; it never affects the others or the primary operation.
func (s *OrderService) publish(ctx context.Context, event Event) {
	for _, sink := range s.sinks {
		if err := sink.Publish(ctx, event); err != nil {
			s.l.ErrorCtx(ctx, "event sink publish failed: type=%s error=%v", event.Type, err)
		}
	}
}
