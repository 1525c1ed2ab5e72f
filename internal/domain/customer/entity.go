package customer

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"mebelmarket/internal/controller/apperror"

	"github.com/google/uuid"
)

type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Status    Status    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusBlocked  Status = "blocked"
)

var AvailableStatuses = []Status{StatusActive, StatusInactive, StatusBlocked}

func NewStatus(raw string) (Status, error) {
	if raw == "" {
		return StatusActive, nil
	}
	if slices.Contains(AvailableStatuses, Status(raw)) {
		return Status(raw), nil
	}
	return "", fmt.Errorf("%w: unknown customer status %q", apperror.ErrValidation, raw)
}

// DedupKey is the identity key for a contact: phone when present, else email,
// else a name-based sentinel. At most one customer exists per key.
func DedupKey(name, email, phone string) string {
	if p := strings.TrimSpace(phone); p != "" {
		return p
	}
	if e := strings.TrimSpace(email); e != "" {
		return strings.ToLower(e)
	}
	return "name:" + strings.TrimSpace(name)
}

// Contact is a (name, phone) pair as it appears on orders.
type Contact struct {
	Name  string
	Phone string
}

// NewFromContact builds the customer row an order contact upserts.
func NewFromContact(c Contact) Customer {
	now := time.Now().UTC()
	return Customer{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(c.Name),
		Phone:     strings.TrimSpace(c.Phone),
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Stats are computed on read by aggregating matching orders; they are never
// stored on the customer row.
type Stats struct {
	TotalOrders   int64      `json:"totalOrders"`
	TotalSpent    float64    `json:"totalSpent"`
	LastOrderDate *time.Time `json:"lastOrderDate,omitempty"`
}

// WithStats is the read model served to the admin surface.
type WithStats struct {
	Customer
	Stats
}

// CreateRequest is an admin-created customer.
type CreateRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

func (r CreateRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: name is required", apperror.ErrValidation)
	}
	return nil
}

// Update is the partial update applied through the admin surface.
type Update struct {
	Name   *string
	Email  *string
	Phone  *string
	Status *Status
	Notes  *string
}

// IsEmpty reports whether the update carries no fields.
func (u Update) IsEmpty() bool {
	return u.Name == nil && u.Email == nil && u.Phone == nil && u.Status == nil && u.Notes == nil
}

type Pagination struct {
	Page  int
	Limit int
}

// CustomersQuery paginates customer listings, newest first.
type CustomersQuery struct {
	Statuses   []Status
	Pagination *Pagination
}
