package handlers

import (
	"fmt"
	"strings"

	"mebelmarket/internal/controller/apperror"
	"mebelmarket/internal/domain/order"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	service *order.OrderService
}

func NewOrderHandler(s *order.OrderService) OrderHandler {
	return OrderHandler{service: s}
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req order.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: %s", apperror.ErrValidation, err.Error()))
		return
	}

	o, err := h.service.Create(c, req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, o)
}

func (h *OrderHandler) Get(c *gin.Context) {
	o, err := h.service.GetByID(c, c.Param("order_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, o)
}

type ordersPayload struct {
	Orders     []order.Order `json:"orders"`
	Pagination pagination    `json:"pagination"`
}

type listOrdersParams struct {
	Status string `form:"status"`
	Phone  string `form:"phone"`
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

func (h *OrderHandler) List(c *gin.Context) {
	query, params, err := h.createFilter(c)
	if err != nil {
		respondError(c, err)
		return
	}

	orders, total, err := h.service.List(c, query)
	if err != nil {
		respondError(c, err)
		return
	}
	if orders == nil {
		orders = []order.Order{}
	}

	respondData(c, ordersPayload{
		Orders:     orders,
		Pagination: newPagination(total, params.Page, params.Limit),
	})
}

func (h *OrderHandler) createFilter(c *gin.Context) (*order.OrdersQuery, listOrdersParams, error) {
	var params listOrdersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, params, fmt.Errorf("%w: %s", apperror.ErrInvalidQuery, err.Error())
	}

	if params.Page == 0 {
		params.Page = 1
	}
	if params.Limit == 0 {
		params.Limit = 20
	}

	builder := order.NewOrdersQueryBuilder().
		WithPagination(order.Pagination{Page: params.Page, Limit: params.Limit})

	if params.Status != "" {
		raw := strings.Split(params.Status, ",")
		statuses := make([]order.Status, len(raw))
		for i, v := range raw {
			s, err := order.NewStatus(v)
			if err != nil {
				return nil, params, err
			}
			statuses[i] = s
		}
		builder = builder.WithStatuses(statuses...)
	}
	if params.Phone != "" {
		builder = builder.WithPhone(params.Phone)
	}

	query, err := builder.Build()
	if err != nil {
		return nil, params, err
	}
	return query, params, nil
}

type statusUpdateParams struct {
	Status         *string `json:"status"`
	PaymentStatus  *string `json:"paymentStatus"`
	TrackingNumber *string `json:"trackingNumber"`
	AdminNotes     *string `json:"adminNotes"`
}

// UpdateStatus accepts only the allow-listed fields. Totals, items and the
// customer contact are never mutable through this endpoint; unknown body
// fields are ignored by the binding.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var params statusUpdateParams
	if err := c.ShouldBindJSON(&params); err != nil {
		respondError(c, fmt.Errorf("%w: %s", apperror.ErrValidation, err.Error()))
		return
	}

	update, err := params.toUpdate()
	if err != nil {
		respondError(c, err)
		return
	}

	o, err := h.service.UpdateStatus(c, c.Param("order_id"), update)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, o)
}

func (p statusUpdateParams) toUpdate() (order.StatusUpdate, error) {
	var update order.StatusUpdate

	if p.Status != nil {
		s, err := order.NewStatus(*p.Status)
		if err != nil {
			return order.StatusUpdate{}, err
		}
		update.Status = &s
	}
	if p.PaymentStatus != nil {
		ps, err := order.NewPaymentStatus(*p.PaymentStatus)
		if err != nil {
			return order.StatusUpdate{}, err
		}
		update.PaymentStatus = &ps
	}
	update.TrackingNumber = p.TrackingNumber
	update.AdminNotes = p.AdminNotes

	return update, nil
}

func (h *OrderHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c, c.Param("order_id")); err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, "order deleted")
}
