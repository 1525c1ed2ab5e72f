package order

import (
	"fmt"

	"mebelmarket/internal/controller/apperror"
)

type Pagination struct {
	Page  int
	Limit int
}

// OrdersQuery filters and paginates order listings.
// Results are always sorted by created_at descending.
type OrdersQuery struct {
	IDs        []string
	Statuses   []Status
	Phone      string
	Pagination *Pagination
}

func (q *OrdersQuery) Validate() error {
	if q.Pagination != nil {
		if q.Pagination.Page < 1 {
			return fmt.Errorf("page must be >= 1, got %d", q.Pagination.Page)
		}
		if q.Pagination.Limit < 1 {
			return fmt.Errorf("limit must be >= 1, got %d", q.Pagination.Limit)
		}
	}
	return nil
}

type OrdersQueryBuilder struct {
	query *OrdersQuery
}

func NewOrdersQueryBuilder() *OrdersQueryBuilder {
	return &OrdersQueryBuilder{
		query: &OrdersQuery{},
	}
}

func (b *OrdersQueryBuilder) Build() (*OrdersQuery, error) {
	if err := b.query.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperror.ErrInvalidQuery, err.Error())
	}
	return b.query, nil
}

func (b *OrdersQueryBuilder) WithIDs(ids ...string) *OrdersQueryBuilder {
	b.query.IDs = ids
	return b
}

func (b *OrdersQueryBuilder) WithStatuses(statuses ...Status) *OrdersQueryBuilder {
	b.query.Statuses = statuses
	return b
}

func (b *OrdersQueryBuilder) WithPhone(phone string) *OrdersQueryBuilder {
	b.query.Phone = phone
	return b
}

func (b *OrdersQueryBuilder) WithPagination(pagination Pagination) *OrdersQueryBuilder {
	b.query.Pagination = &pagination
	return b
}
