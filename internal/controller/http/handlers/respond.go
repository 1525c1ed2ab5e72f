package handlers

import (
	"errors"
	"net/http"

	"mebelmarket/internal/controller/apperror"

	"github.com/gin-gonic/gin"
)

type response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

type pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Pages int64 `json:"pages"`
	Limit int   `json:"limit"`
}

func newPagination(total int64, page, limit int) pagination {
	pages := int64(1)
	if limit > 0 {
		pages = (total + int64(limit) - 1) / int64(limit)
	}
	return pagination{Total: total, Page: page, Pages: pages, Limit: limit}
}

func respondData(c *gin.Context, data any) {
	c.JSON(http.StatusOK, response{Success: true, Data: data})
}

func respondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, response{Success: true, Message: message})
}

// respondError maps domain sentinels onto HTTP statuses. Anything unmapped is
// a persistence or programming failure and surfaces as 500.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperror.ErrValidation),
		errors.Is(err, apperror.ErrEmptyUpdate),
		errors.Is(err, apperror.ErrInvalidQuery):
		status = http.StatusBadRequest
	case errors.Is(err, apperror.ErrOrderNotFound),
		errors.Is(err, apperror.ErrCustomerNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperror.ErrCustomerExists):
		status = http.StatusConflict
	}

	c.JSON(status, response{Success: false, Error: err.Error()})
}
