package customer

import (
	"context"
	"fmt"
	"strings"

	"mebelmarket/internal/controller/apperror"
	"mebelmarket/pkg/logger"
)

// CustomerService resolves order contacts to customer identity records and
// serves the admin customer surface.
type CustomerService struct {
	repo CustomerRepo
	l    *logger.Logger
}

func NewCustomerService(repo CustomerRepo, l *logger.Logger) *CustomerService {
	return &CustomerService{repo: repo, l: l}
}

// UpsertContact implements the order-side resolver port. The upsert is a
// single atomic statement in the repo; only phone/email are refreshed on an
// existing match, status and notes stay admin-owned.
func (s *CustomerService) UpsertContact(ctx context.Context, name, phone string) error {
	if strings.TrimSpace(name) == "" && strings.TrimSpace(phone) == "" {
		return nil
	}

	_, err := s.repo.Upsert(ctx, NewFromContact(Contact{Name: name, Phone: phone}))
	if err != nil {
		return fmt.Errorf("upsert customer: %w", err)
	}
	return nil
}

// Create inserts an admin-created customer.
func (s *CustomerService) Create(ctx context.Context, req CreateRequest) (Customer, error) {
	if err := req.Validate(); err != nil {
		return Customer{}, err
	}

	status, err := NewStatus(req.Status)
	if err != nil {
		return Customer{}, err
	}

	c := NewFromContact(Contact{Name: req.Name, Phone: req.Phone})
	c.Email = strings.TrimSpace(req.Email)
	c.Status = status
	c.Notes = req.Notes

	if err := s.repo.Create(ctx, c); err != nil {
		return Customer{}, fmt.Errorf("create customer: %w", err)
	}
	return c, nil
}

// Update applies an admin partial update.
func (s *CustomerService) Update(ctx context.Context, id string, update Update) (Customer, error) {
	if update.IsEmpty() {
		return Customer{}, apperror.ErrEmptyUpdate
	}

	c, err := s.repo.Update(ctx, id, update)
	if err != nil {
		return Customer{}, fmt.Errorf("update customer: %w", err)
	}
	return c, nil
}

// List returns a customer page with per-customer order stats computed on read.
func (s *CustomerService) List(ctx context.Context, query *CustomersQuery) ([]WithStats, int64, error) {
	customers, err := s.repo.GetCustomers(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}

	total, err := s.repo.CountCustomers(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count customers: %w", err)
	}

	result := make([]WithStats, 0, len(customers))
	for _, c := range customers {
		stats, err := s.repo.Stats(ctx, c)
		if err != nil {
			// stats are best-effort on the read path; a failed aggregate
			// must not hide the customer row
			s.l.ErrorCtx(ctx, "customer stats failed: customer_id=%s error=%v", c.ID, err)
			stats = Stats{}
		}
		result = append(result, WithStats{Customer: c, Stats: stats})
	}

	return result, total, nil
}

// Sync backfills customer records from the distinct contacts present on
// orders. Returns the number of contacts processed.
func (s *CustomerService) Sync(ctx context.Context) (int, error) {
	contacts, err := s.repo.DistinctOrderContacts(ctx)
	if err != nil {
		return 0, fmt.Errorf("list order contacts: %w", err)
	}

	synced := 0
	for _, contact := range contacts {
		if contact.Name == "" && contact.Phone == "" {
			continue
		}
		if _, err := s.repo.Upsert(ctx, NewFromContact(contact)); err != nil {
			s.l.ErrorCtx(ctx, "customer sync upsert failed: phone=%s error=%v", contact.Phone, err)
			continue
		}
		synced++
	}

	return synced, nil
}
