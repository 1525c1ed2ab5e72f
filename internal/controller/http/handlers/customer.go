package handlers

import (
	"fmt"
	"strings"

	"mebelmarket/internal/controller/apperror"
	"mebelmarket/internal/domain/customer"

	"github.com/gin-gonic/gin"
)

type CustomerHandler struct {
	service *customer.CustomerService
}

func NewCustomerHandler(s *customer.CustomerService) CustomerHandler {
	return CustomerHandler{service: s}
}

type customersPayload struct {
	Customers  []customer.WithStats `json:"customers"`
	Pagination pagination           `json:"pagination"`
}

type listCustomersParams struct {
	Status string `form:"status"`
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

func (h *CustomerHandler) List(c *gin.Context) {
	var params listCustomersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondError(c, fmt.Errorf("%w: %s", apperror.ErrInvalidQuery, err.Error()))
		return
	}
	if params.Page == 0 {
		params.Page = 1
	}
	if params.Limit == 0 {
		params.Limit = 20
	}

	query := &customer.CustomersQuery{
		Pagination: &customer.Pagination{Page: params.Page, Limit: params.Limit},
	}
	if params.Status != "" {
		for _, raw := range strings.Split(params.Status, ",") {
			status, err := customer.NewStatus(raw)
			if err != nil {
				respondError(c, err)
				return
			}
			query.Statuses = append(query.Statuses, status)
		}
	}

	customers, total, err := h.service.List(c, query)
	if err != nil {
		respondError(c, err)
		return
	}
	if customers == nil {
		customers = []customer.WithStats{}
	}

	respondData(c, customersPayload{
		Customers:  customers,
		Pagination: newPagination(total, params.Page, params.Limit),
	})
}

func (h *CustomerHandler) Create(c *gin.Context) {
	var req customer.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: %s", apperror.ErrValidation, err.Error()))
		return
	}

	created, err := h.service.Create(c, req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, created)
}

type updateCustomerParams struct {
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Phone  *string `json:"phone"`
	Status *string `json:"status"`
	Notes  *string `json:"notes"`
}

func (h *CustomerHandler) Update(c *gin.Context) {
	var params updateCustomerParams
	if err := c.ShouldBindJSON(&params); err != nil {
		respondError(c, fmt.Errorf("%w: %s", apperror.ErrValidation, err.Error()))
		return
	}

	update := customer.Update{
		Name:  params.Name,
		Email: params.Email,
		Phone: params.Phone,
		Notes: params.Notes,
	}
	if params.Status != nil {
		status, err := customer.NewStatus(*params.Status)
		if err != nil {
			respondError(c, err)
			return
		}
		update.Status = &status
	}

	updated, err := h.service.Update(c, c.Param("customer_id"), update)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, updated)
}

// Sync backfills customer records from the contacts already present on
// orders. Used once after enabling the customer surface, harmless to repeat.
func (h *CustomerHandler) Sync(c *gin.Context) {
	count, err := h.service.Sync(c)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, gin.H{"synced": count})
}
