package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/frostcart/frostcart-api/internal/dto"
	"github.com/frostcart/frostcart-api/internal/model"
	"github.com/frostcart/frostcart-api/internal/pricing"
	"github.com/frostcart/frostcart-api/internal/repository"
)

var (
	ErrCouponNotFound  = errors.New("coupon not found")
	ErrCouponInvalid   = errors.New("coupon invalid")
	ErrCouponExpired   = errors.New("coupon expired")
	ErrBelowMinOrder   = errors.New("cart total below coupon minimum")
	ErrCouponCodeInUse = errors.New("coupon code already exists")
)

type CouponService struct {
	couponRepo repository.CouponRepository
}

func NewCouponService(couponRepo repository.CouponRepository) *CouponService {
	return &CouponService{couponRepo: couponRepo}
}

// Validate is the authoritative coupon check: the code must exist, be
// active, be unexpired, and the cart total must meet the coupon's minimum.
// On success it returns the resolved discount amount for that total.
func (s *CouponService) Validate(ctx context.Context, req dto.ValidateCouponRequest) (*dto.ValidateCouponResponse, error) {
	coupon, err := s.lookupValid(ctx, req.Code, req.CartTotal)
	if err != nil {
		return nil, err
	}
	return &dto.ValidateCouponResponse{
		Success:  true,
		Code:     coupon.Code,
		Discount: pricing.DiscountAmount(coupon, req.CartTotal),
	}, nil
}

// lookupValid returns the coupon if it applies to the given total.
func (s *CouponService) lookupValid(ctx context.Context, code string, cartTotal decimal.Decimal) (*model.Coupon, error) {
	coupon, err := s.couponRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("get coupon: %w", err)
	}
	if coupon == nil || !coupon.Active {
		return nil, ErrCouponInvalid
	}
	if time.Now().After(coupon.ExpiresAt) {
		return nil, ErrCouponExpired
	}
	if cartTotal.LessThan(coupon.MinOrderValue) {
		return nil, ErrBelowMinOrder
	}
	return coupon, nil
}

func (s *CouponService) Create(ctx context.Context, req dto.CouponRequest) (*dto.CouponResponse, error) {
	existing, err := s.couponRepo.GetByCode(ctx, req.Code)
	if err != nil {
		return nil, fmt.Errorf("check coupon code: %w", err)
	}
	if existing != nil {
		return nil, ErrCouponCodeInUse
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	coupon := &model.Coupon{
		Code:          req.Code,
		Kind:          model.CouponKind(req.Kind),
		Value:         req.Value,
		MinOrderValue: req.MinOrderValue,
		ExpiresAt:     req.ExpiresAt,
		Active:        active,
	}
	if err := s.couponRepo.Create(ctx, coupon); err != nil {
		return nil, fmt.Errorf("create coupon: %w", err)
	}
	resp := toCouponResponse(coupon)
	return &resp, nil
}

func (s *CouponService) List(ctx context.Context) ([]dto.CouponResponse, error) {
	coupons, err := s.couponRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	resp := make([]dto.CouponResponse, 0, len(coupons))
	for i := range coupons {
		resp = append(resp, toCouponResponse(&coupons[i]))
	}
	return resp, nil
}

func (s *CouponService) Update(ctx context.Context, id uuid.UUID, req dto.CouponRequest) (*dto.CouponResponse, error) {
	existing, err := s.couponRepo.GetByCode(ctx, req.Code)
	if err != nil {
		return nil, fmt.Errorf("check coupon code: %w", err)
	}
	if existing != nil && existing.ID != id {
		return nil, ErrCouponCodeInUse
	}

	coupon := &model.Coupon{
		ID:            id,
		Code:          req.Code,
		Kind:          model.CouponKind(req.Kind),
		Value:         req.Value,
		MinOrderValue: req.MinOrderValue,
		ExpiresAt:     req.ExpiresAt,
		Active:        req.Active == nil || *req.Active,
	}
	if err := s.couponRepo.Update(ctx, coupon); err != nil {
		return nil, fmt.Errorf("update coupon: %w", err)
	}
	resp := toCouponResponse(coupon)
	return &resp, nil
}

func (s *CouponService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.couponRepo.Delete(ctx, id)
}

func toCouponResponse(c *model.Coupon) dto.CouponResponse {
	return dto.CouponResponse{
		ID:            c.ID,
		Code:          c.Code,
		Kind:          string(c.Kind),
		Value:         c.Value,
		MinOrderValue: c.MinOrderValue,
		ExpiresAt:     c.ExpiresAt,
		Active:        c.Active,
	}
}
