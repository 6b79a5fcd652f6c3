package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/frostcart/frostcart-api/internal/dto"
	"github.com/frostcart/frostcart-api/internal/service"
)

type CouponHandler struct {
	couponService *service.CouponService
}

func NewCouponHandler(couponService *service.CouponService) *CouponHandler {
	return &CouponHandler{couponService: couponService}
}

// Validate is the storefront-facing check; the same rules run again at
// checkout, so a stale success here cannot produce a bad order.
func (h *CouponHandler) Validate(c *gin.Context) {
	var req dto.ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.couponService.Validate(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCouponExpired):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "error": "coupon expired"})
		case errors.Is(err, service.ErrBelowMinOrder):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "error": "cart total below coupon minimum"})
		case errors.Is(err, service.ErrCouponInvalid):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "error": "invalid coupon"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CouponHandler) Create(c *gin.Context) {
	var req dto.CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.couponService.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrCouponCodeInUse) {
			c.JSON(http.StatusConflict, gin.H{"error": "coupon code already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CouponHandler) List(c *gin.Context) {
	resp, err := h.couponService.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"coupons": resp})
}

func (h *CouponHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid coupon ID"})
		return
	}
	var req dto.CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.couponService.Update(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, service.ErrCouponCodeInUse) {
			c.JSON(http.StatusConflict, gin.H{"error": "coupon code already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CouponHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid coupon ID"})
		return
	}
	if err := h.couponService.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.Status(http.StatusNoContent)
}
