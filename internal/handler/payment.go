package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/frostcart/frostcart-api/internal/dto"
	"github.com/frostcart/frostcart-api/internal/service"
)

type PaymentHandler struct {
	paymentService *service.PaymentService
}

func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Config hands the storefront its publishable key.
func (h *PaymentHandler) Config(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"publishable_key": h.paymentService.PublishableKey()})
}

func (h *PaymentHandler) Process(c *gin.Context) {
	var req dto.ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.paymentService.Process(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAmount) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "payment gateway error"})
		return
	}
	c.JSON(http.StatusOK, resp)
}
