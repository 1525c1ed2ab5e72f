// Package notification formats and pushes order summaries to Telegram.
package notification

import (
	"context"
	"fmt"
	"strings"

	"mebelmarket/internal/domain/order"
	"mebelmarket/internal/external/telegram"
	"mebelmarket/pkg/logger"
	"mebelmarket/pkg/metrics"
)

var _ order.Notifier = (*Dispatcher)(nil)

// Dispatcher sends plain-text order summaries over a Telegram channel. With
// no channel configured it degrades to a no-op so the pipeline keeps working
// in environments without a bot.
type Dispatcher struct {
	tg     *telegram.Client
	chatID string
	l      *logger.Logger
}

func NewDispatcher(tg *telegram.Client, chatID string, l *logger.Logger) *Dispatcher {
	return &Dispatcher{tg: tg, chatID: chatID, l: l}
}

func (d *Dispatcher) enabled() bool {
	return d.tg != nil && d.chatID != ""
}

func (d *Dispatcher) NewOrder(ctx context.Context, o order.Order) error {
	return d.send(ctx, "new_order", FormatNewOrder(o))
}

func (d *Dispatcher) StatusUpdate(ctx context.Context, orderID string, status order.Status) error {
	return d.send(ctx, "status_update", fmt.Sprintf("Order %s status changed to %q", orderID, status))
}

func (d *Dispatcher) send(ctx context.Context, kind, text string) error {
	if !d.enabled() {
		metrics.NotificationsTotal.WithLabelValues(kind, "skipped").Inc()
		d.l.Debug("notification channel not configured, skipping: kind=%s", kind)
		return nil
	}

	if err := d.tg.SendMessage(ctx, d.chatID, text); err != nil {
		metrics.NotificationsTotal.WithLabelValues(kind, "error").Inc()
		return fmt.Errorf("send %s notification: %w", kind, err)
	}

	metrics.NotificationsTotal.WithLabelValues(kind, "ok").Inc()
	return nil
}

// FormatNewOrder renders the order as a human-readable summary. Card numbers
// never leave the service unmasked.
func FormatNewOrder(o order.Order) string {
	var b strings.Builder

	fmt.Fprintf(&b, "New order %s\n", o.ID)
	fmt.Fprintf(&b, "Customer: %s", o.CustomerName)
	if o.Phone != "" {
		fmt.Fprintf(&b, ", %s", o.Phone)
	}
	b.WriteString("\n")
	if o.Address != "" {
		fmt.Fprintf(&b, "Address: %s\n", o.Address)
	}

	b.WriteString("Items:\n")
	for _, item := range o.Items {
		fmt.Fprintf(&b, "  - %s x%d = %.0f\n", item.Name, item.Quantity, item.Price*float64(item.Quantity))
	}
	fmt.Fprintf(&b, "Total: %.0f\n", o.Total)

	fmt.Fprintf(&b, "Payment: %s", o.PaymentMethod)
	if o.PaymentMethod == order.PaymentMethodCard && o.CardNumber != "" {
		fmt.Fprintf(&b, " (%s)", order.MaskCard(o.CardNumber))
	}
	b.WriteString("\n")

	return b.String()
}
