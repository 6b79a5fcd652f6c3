package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/frostcart/frostcart-api/internal/dto"
	"github.com/frostcart/frostcart-api/internal/model"
	"github.com/frostcart/frostcart-api/internal/pricing"
	"github.com/frostcart/frostcart-api/internal/repository"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderAccessDenied = errors.New("access denied")
	ErrIllegalTransition = errors.New("illegal status transition")
)

type OrderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	couponSvc   *CouponService
	amqpCh      *amqp.Channel
	policy      pricing.Policy
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	couponSvc *CouponService,
	amqpCh *amqp.Channel,
	policy pricing.Policy,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		couponSvc:   couponSvc,
		amqpCh:      amqpCh,
		policy:      policy,
	}
}

// CreateOrder turns the user's cart into an order: live stock re-check,
// authoritative coupon re-validation, pricing, line snapshots, then a
// fulfillment message and an emptied cart. The order starts in processing.
func (s *OrderService) CreateOrder(ctx context.Context, userID uuid.UUID, req dto.CreateOrderRequest) (*model.Order, error) {
	cart, err := s.cartRepo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	cartWithItems, err := s.cartRepo.GetCartWithItems(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("get cart items: %w", err)
	}
	if cartWithItems == nil || len(cartWithItems.Items) == 0 {
		return nil, ErrEmptyCart
	}

	var lines []pricing.Line
	var items []model.OrderItem
	for _, ci := range cartWithItems.Items {
		product, err := s.productRepo.GetByID(ctx, ci.ProductID)
		if err != nil {
			return nil, fmt.Errorf("get product: %w", err)
		}
		if product == nil {
			return nil, ErrProductNotFound
		}
		if ci.Quantity > product.Stock {
			return nil, ErrInsufficientStock
		}
		image := ""
		if len(product.Images) > 0 {
			image = product.Images[0]
		}
		// charge the live price, not the cart snapshot
		lines = append(lines, pricing.Line{Price: product.Price, Quantity: ci.Quantity})
		items = append(items, model.OrderItem{
			ProductID: ci.ProductID,
			VendorID:  product.VendorID,
			Name:      product.Name,
			Image:     image,
			Price:     product.Price,
			Quantity:  ci.Quantity,
		})
	}

	subtotal := pricing.Subtotal(lines)
	var coupon *model.Coupon
	if req.CouponCode != "" {
		coupon, err = s.couponSvc.lookupValid(ctx, req.CouponCode, subtotal)
		if err != nil {
			return nil, err
		}
	}
	quote := s.policy.Compute(lines, pricing.DiscountAmount(coupon, subtotal))

	order := &model.Order{
		UserID: userID,
		Status: model.OrderStatusProcessing,
		Items:  items,
		ShippingAddress: model.ShippingAddress{
			Address:    req.ShippingAddress.Address,
			City:       req.ShippingAddress.City,
			State:      req.ShippingAddress.State,
			Country:    req.ShippingAddress.Country,
			PostalCode: req.ShippingAddress.PostalCode,
			Phone:      req.ShippingAddress.Phone,
		},
		Payment:     model.PaymentInfo{IntentID: req.PaymentIntentID, Status: "authorized"},
		CouponCode:  req.CouponCode,
		Subtotal:    quote.Subtotal,
		ShippingFee: quote.ShippingFee,
		Tax:         quote.Tax,
		Discount:    quote.Discount,
		TotalPrice:  quote.GrandTotal,
	}
	if coupon != nil {
		order.CouponCode = coupon.Code
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	msg, _ := json.Marshal(model.FulfillmentMessage{OrderID: order.ID, UserID: userID})
	if s.amqpCh != nil {
		_ = s.amqpCh.PublishWithContext(ctx, "", "orders", false, false, amqp.Publishing{
			ContentType:  "application/json",
			Body:         msg,
			DeliveryMode: amqp.Persistent,
		})
	}

	_ = s.cartRepo.ClearCart(ctx, cart.ID)
	return order, nil
}

// GetByID allows the owner, an admin, or a vendor with a line in the order.
func (s *OrderService) GetByID(ctx context.Context, orderID, actorID uuid.UUID, role model.Role) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !s.canView(order, actorID, role) {
		return nil, ErrOrderAccessDenied
	}
	return order, nil
}

func (s *OrderService) canView(order *model.Order, actorID uuid.UUID, role model.Role) bool {
	if role == model.RoleAdmin || order.UserID == actorID {
		return true
	}
	if role == model.RoleVendor {
		for _, item := range order.Items {
			if item.VendorID == actorID {
				return true
			}
		}
	}
	return false
}

func (s *OrderService) ListByUserID(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	return s.orderRepo.ListByUserID(ctx, userID)
}

func (s *OrderService) ListByVendorID(ctx context.Context, vendorID uuid.UUID) ([]model.Order, error) {
	return s.orderRepo.ListByVendorID(ctx, vendorID)
}

func (s *OrderService) ListAll(ctx context.Context, limit, offset int) ([]model.Order, int, error) {
	return s.orderRepo.ListAll(ctx, limit, offset)
}

// Cancel is the customer-side action, legal only while still processing.
func (s *OrderService) Cancel(ctx context.Context, orderID, userID uuid.UUID) error {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return ErrOrderNotFound
	}
	if order.UserID != userID {
		return ErrOrderAccessDenied
	}
	if !model.CanTransition(order.Status, model.OrderStatusCancelled) {
		return ErrIllegalTransition
	}
	if err := s.orderRepo.TransitionStatus(ctx, orderID, order.Status, model.OrderStatusCancelled); err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return ErrIllegalTransition
		}
		return fmt.Errorf("cancel order: %w", err)
	}
	return nil
}

// RequestReturn files a return with evidence, legal only after delivery.
func (s *OrderService) RequestReturn(ctx context.Context, orderID, userID uuid.UUID, reason string, images []string) error {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return ErrOrderNotFound
	}
	if order.UserID != userID {
		return ErrOrderAccessDenied
	}
	if !model.CanTransition(order.Status, model.OrderStatusReturnRequested) {
		return ErrIllegalTransition
	}
	if err := s.orderRepo.SetReturnRequest(ctx, orderID, reason, images); err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return ErrIllegalTransition
		}
		return fmt.Errorf("request return: %w", err)
	}
	return nil
}

// UpdateStatus advances an order on behalf of an admin or a vendor whose
// items are in the order. The transition table is the single authority; a
// raced duplicate advance surfaces as ErrIllegalTransition.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, actorID uuid.UUID, role model.Role, to model.OrderStatus) (*model.Order, error) {
	if !model.ValidOrderStatus(to) {
		return nil, ErrIllegalTransition
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if role != model.RoleAdmin && !s.canView(order, actorID, role) {
		return nil, ErrOrderAccessDenied
	}
	if role == model.RoleVendor {
		// vendors move orders along the fulfillment path only
		if next, ok := model.NextFulfillmentStatus(order.Status); !ok || next != to {
			return nil, ErrIllegalTransition
		}
	}
	if !model.CanTransition(order.Status, to) {
		return nil, ErrIllegalTransition
	}

	if err := s.orderRepo.TransitionStatus(ctx, orderID, order.Status, to); err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return nil, ErrIllegalTransition
		}
		return nil, fmt.Errorf("update status: %w", err)
	}
	order.Status = to
	return order, nil
}
