package http

import (
	"mebelmarket/internal/controller/http/handlers"

	"github.com/gin-gonic/gin"
)

type Router struct {
	order    handlers.OrderHandler
	customer handlers.CustomerHandler
	stream   handlers.StreamHandler
}

func NewRouter(order handlers.OrderHandler, customer handlers.CustomerHandler, stream handlers.StreamHandler) *Router {
	return &Router{
		order:    order,
		customer: customer,
		stream:   stream,
	}
}

func (r *Router) SetUp(engine *gin.Engine) {
	engine.GET("/orders/stream", r.stream.Subscribe)

	engine.POST("/orders", r.order.Create)
	engine.GET("/orders", r.order.List)
	engine.GET("/orders/:order_id", r.order.Get)
	engine.PATCH("/orders/:order_id", r.order.UpdateStatus)
	engine.DELETE("/orders/:order_id", r.order.Delete)
	// fallback for transports that block the DELETE verb
	engine.POST("/orders/:order_id/delete", r.order.Delete)

	engine.GET("/customers", r.customer.List)
	engine.POST("/customers", r.customer.Create)
	engine.PUT("/customers/:customer_id", r.customer.Update)
	engine.POST("/customers/sync", r.customer.Sync)
}
