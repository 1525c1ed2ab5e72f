package order

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"mebelmarket/internal/controller/apperror"

	"github.com/google/uuid"
)

type Order struct {
	ID             string        `json:"id"`
	CustomerName   string        `json:"customerName"`
	Phone          string        `json:"phone,omitempty"`
	Address        string        `json:"address,omitempty"`
	Items          []Item        `json:"items"`
	Total          float64       `json:"total"`
	Status         Status        `json:"status"`
	PaymentStatus  PaymentStatus `json:"paymentStatus"`
	PaymentMethod  PaymentMethod `json:"paymentMethod,omitempty"`
	CardNumber     string        `json:"cardNumber,omitempty"`
	TrackingNumber string        `json:"trackingNumber,omitempty"`
	AdminNotes     string        `json:"adminNotes,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

type Item struct {
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	ProductID string  `json:"productId,omitempty"`
}

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusProcessing Status = "processing"
	StatusDelivered  Status = "delivered"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

var AvailableStatuses = []Status{
	StatusPending, StatusConfirmed, StatusProcessing,
	StatusDelivered, StatusCompleted, StatusCancelled,
}

func NewStatus(raw string) (Status, error) {
	if slices.Contains(AvailableStatuses, Status(raw)) {
		return Status(raw), nil
	}
	return "", fmt.Errorf("%w: unknown order status %q", apperror.ErrValidation, raw)
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

var AvailablePaymentStatuses = []PaymentStatus{PaymentPending, PaymentPaid, PaymentFailed}

func NewPaymentStatus(raw string) (PaymentStatus, error) {
	if slices.Contains(AvailablePaymentStatuses, PaymentStatus(raw)) {
		return PaymentStatus(raw), nil
	}
	return "", fmt.Errorf("%w: unknown payment status %q", apperror.ErrValidation, raw)
}

type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodCard PaymentMethod = "card"
)

func NewPaymentMethod(raw string) (PaymentMethod, error) {
	if raw == "" {
		return PaymentMethodCash, nil
	}
	if raw == string(PaymentMethodCash) || raw == string(PaymentMethodCard) {
		return PaymentMethod(raw), nil
	}
	return "", fmt.Errorf("%w: unknown payment method %q", apperror.ErrValidation, raw)
}

// CreateRequest is the inbound order submission. Any client-supplied total is
// absent on purpose: totals are always recomputed server-side.
type CreateRequest struct {
	CustomerName  string `json:"customerName"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	Items         []Item `json:"items"`
	PaymentMethod string `json:"paymentMethod"`
	CardNumber    string `json:"cardNumber"`
}

func (r CreateRequest) Validate() error {
	if strings.TrimSpace(r.CustomerName) == "" {
		return fmt.Errorf("%w: customerName is required", apperror.ErrValidation)
	}
	if len(r.Items) == 0 {
		return fmt.Errorf("%w: items must not be empty", apperror.ErrValidation)
	}
	for i, item := range r.Items {
		if strings.TrimSpace(item.Name) == "" {
			return fmt.Errorf("%w: items[%d].name is required", apperror.ErrValidation, i)
		}
		if item.Price <= 0 {
			return fmt.Errorf("%w: items[%d].price must be positive", apperror.ErrValidation, i)
		}
		if item.Quantity < 0 {
			return fmt.Errorf("%w: items[%d].quantity must not be negative", apperror.ErrValidation, i)
		}
	}
	return nil
}

// NewOrder validates the request and builds a pending order with a server-computed total.
func NewOrder(r CreateRequest) (Order, error) {
	if err := r.Validate(); err != nil {
		return Order{}, err
	}

	method, err := NewPaymentMethod(r.PaymentMethod)
	if err != nil {
		return Order{}, err
	}

	items := make([]Item, len(r.Items))
	copy(items, r.Items)
	for i := range items {
		// quantity omitted in the request means a single unit
		if items[i].Quantity == 0 {
			items[i].Quantity = 1
		}
	}

	now := time.Now().UTC()
	return Order{
		ID:            uuid.NewString(),
		CustomerName:  strings.TrimSpace(r.CustomerName),
		Phone:         strings.TrimSpace(r.Phone),
		Address:       strings.TrimSpace(r.Address),
		Items:         items,
		Total:         ComputeTotal(items),
		Status:        StatusPending,
		PaymentStatus: PaymentPending,
		PaymentMethod: method,
		CardNumber:    r.CardNumber,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// ComputeTotal sums price times quantity over all items.
func ComputeTotal(items []Item) float64 {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// MaskCard hides all but the last four digits of a card number.
func MaskCard(number string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)
	if len(digits) <= 4 {
		return digits
	}
	return "**** **** **** " + digits[len(digits)-4:]
}
