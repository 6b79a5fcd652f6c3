package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frostcart/frostcart-api/internal/dto"
	"github.com/frostcart/frostcart-api/internal/model"
)

func testShipping() dto.ShippingAddressRequest {
	return dto.ShippingAddressRequest{
		Address: "1 Cone St", City: "Pune", State: "MH",
		Country: "IN", PostalCode: "411001", Phone: "5550001",
	}
}

type orderFixture struct {
	svc         *OrderService
	orderRepo   *mockOrderRepo
	cartRepo    *mockCartRepo
	productRepo *mockProductRepo
	couponRepo  *mockCouponRepo
}

func newOrderFixture() *orderFixture {
	f := &orderFixture{
		orderRepo:   newMockOrderRepo(),
		cartRepo:    newMockCartRepo(),
		productRepo: newMockProductRepo(),
		couponRepo:  newMockCouponRepo(),
	}
	f.svc = NewOrderService(f.orderRepo, f.cartRepo, f.productRepo, NewCouponService(f.couponRepo), nil, testPolicy())
	return f
}

func (f *orderFixture) addToCart(t *testing.T, userID uuid.UUID, vendorID uuid.UUID, price string, qty, stock int) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	pid := uuid.New()
	p, err := decimal.NewFromString(price)
	require.NoError(t, err)
	f.productRepo.products[pid] = &model.Product{ID: pid, VendorID: vendorID, Name: "Scoop", Price: p, Stock: stock}

	cart, err := f.cartRepo.GetOrCreateCart(ctx, userID)
	require.NoError(t, err)
	require.NoError(t, f.cartRepo.UpsertItem(ctx, &model.CartItem{
		CartID: cart.ID, ProductID: pid, Name: "Scoop", Price: p, Quantity: qty, Stock: stock,
	}))
	return pid
}

func TestOrderService_CreateOrder_EmptyCart(t *testing.T) {
	f := newOrderFixture()
	_, err := f.svc.CreateOrder(context.Background(), uuid.New(), dto.CreateOrderRequest{ShippingAddress: testShipping()})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestOrderService_CreateOrder_Totals(t *testing.T) {
	f := newOrderFixture()
	userID := uuid.New()
	f.addToCart(t, userID, uuid.New(), "100", 2, 10)

	order, err := f.svc.CreateOrder(context.Background(), userID, dto.CreateOrderRequest{ShippingAddress: testShipping()})
	require.NoError(t, err)

	assert.Equal(t, model.OrderStatusProcessing, order.Status)
	assert.True(t, order.Subtotal.Equal(decimal.NewFromInt(200)))
	assert.True(t, order.ShippingFee.Equal(decimal.NewFromInt(200)))
	assert.True(t, order.Tax.Equal(decimal.NewFromInt(36)))
	assert.True(t, order.TotalPrice.Equal(decimal.NewFromInt(436)))
	require.Len(t, order.Items, 1)

	// the cart is emptied after checkout
	cart, _ := f.cartRepo.GetOrCreateCart(context.Background(), userID)
	withItems, _ := f.cartRepo.GetCartWithItems(context.Background(), cart.ID)
	assert.Empty(t, withItems.Items)
}

func TestOrderService_CreateOrder_WithCoupon(t *testing.T) {
	f := newOrderFixture()
	userID := uuid.New()
	f.addToCart(t, userID, uuid.New(), "600", 2, 10)
	seedCoupon(f.couponRepo, model.Coupon{
		Code: "FLAT100", Kind: model.CouponFixed, Value: decimal.NewFromInt(100),
		ExpiresAt: time.Now().Add(time.Hour), Active: true,
	})

	order, err := f.svc.CreateOrder(context.Background(), userID, dto.CreateOrderRequest{
		ShippingAddress: testShipping(), CouponCode: "flat100",
	})
	require.NoError(t, err)

	assert.True(t, order.Subtotal.Equal(decimal.NewFromInt(1200)))
	assert.True(t, order.ShippingFee.IsZero())
	assert.True(t, order.Tax.Equal(decimal.NewFromInt(216)))
	assert.True(t, order.Discount.Equal(decimal.NewFromInt(100)))
	assert.True(t, order.TotalPrice.Equal(decimal.NewFromInt(1316)))
	assert.Equal(t, "FLAT100", order.CouponCode)
}

func TestOrderService_CreateOrder_InvalidCouponAborts(t *testing.T) {
	f := newOrderFixture()
	userID := uuid.New()
	f.addToCart(t, userID, uuid.New(), "100", 1, 10)

	_, err := f.svc.CreateOrder(context.Background(), userID, dto.CreateOrderRequest{
		ShippingAddress: testShipping(), CouponCode: "NOPE",
	})
	assert.ErrorIs(t, err, ErrCouponInvalid)
	assert.Empty(t, f.orderRepo.orders)
}

func TestOrderService_CreateOrder_InsufficientStock(t *testing.T) {
	f := newOrderFixture()
	userID := uuid.New()
	pid := f.addToCart(t, userID, uuid.New(), "100", 5, 10)
	f.productRepo.products[pid].Stock = 2

	_, err := f.svc.CreateOrder(context.Background(), userID, dto.CreateOrderRequest{ShippingAddress: testShipping()})
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestOrderService_GetByID_Access(t *testing.T) {
	f := newOrderFixture()
	owner := uuid.New()
	vendor := uuid.New()
	stranger := uuid.New()
	orderID := uuid.New()
	f.orderRepo.orders[orderID] = &model.Order{
		ID: orderID, UserID: owner, Status: model.OrderStatusProcessing,
		Items: []model.OrderItem{{VendorID: vendor}},
	}
	ctx := context.Background()

	_, err := f.svc.GetByID(ctx, orderID, owner, model.RoleCustomer)
	require.NoError(t, err)

	_, err = f.svc.GetByID(ctx, orderID, vendor, model.RoleVendor)
	require.NoError(t, err)

	_, err = f.svc.GetByID(ctx, orderID, stranger, model.RoleAdmin)
	require.NoError(t, err)

	_, err = f.svc.GetByID(ctx, orderID, stranger, model.RoleCustomer)
	assert.ErrorIs(t, err, ErrOrderAccessDenied)
}

func TestOrderService_GetByID_NotFound(t *testing.T) {
	f := newOrderFixture()
	_, err := f.svc.GetByID(context.Background(), uuid.New(), uuid.New(), model.RoleAdmin)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_Cancel(t *testing.T) {
	f := newOrderFixture()
	owner := uuid.New()
	orderID := uuid.New()
	f.orderRepo.orders[orderID] = &model.Order{ID: orderID, UserID: owner, Status: model.OrderStatusProcessing}
	ctx := context.Background()

	require.NoError(t, f.svc.Cancel(ctx, orderID, owner))
	assert.Equal(t, model.OrderStatusCancelled, f.orderRepo.orders[orderID].Status)

	// a second cancel is illegal
	assert.ErrorIs(t, f.svc.Cancel(ctx, orderID, owner), ErrIllegalTransition)
}

func TestOrderService_Cancel_AfterShipmentIllegal(t *testing.T) {
	f := newOrderFixture()
	owner := uuid.New()
	orderID := uuid.New()
	f.orderRepo.orders[orderID] = &model.Order{ID: orderID, UserID: owner, Status: model.OrderStatusShipped}

	assert.ErrorIs(t, f.svc.Cancel(context.Background(), orderID, owner), ErrIllegalTransition)
}

func TestOrderService_Cancel_NotOwner(t *testing.T) {
	f := newOrderFixture()
	orderID := uuid.New()
	f.orderRepo.orders[orderID] = &model.Order{ID: orderID, UserID: uuid.New(), Status: model.OrderStatusProcessing}

	assert.ErrorIs(t, f.svc.Cancel(context.Background(), orderID, uuid.New()), ErrOrderAccessDenied)
}

func TestOrderService_RequestReturn(t *testing.T) {
	f := newOrderFixture()
	owner := uuid.New()
	orderID := uuid.New()
	f.orderRepo.orders[orderID] = &model.Order{ID: orderID, UserID: owner, Status: model.OrderStatusDelivered}
	ctx := context.Background()

	require.NoError(t, f.svc.RequestReturn(ctx, orderID, owner, "melted on arrival", []string{"/uploads/evidence.jpg"}))
	order := f.orderRepo.orders[orderID]
	assert.Equal(t, model.OrderStatusReturnRequested, order.Status)
	assert.Equal(t, "melted on arrival", order.ReturnReason)

	// only delivered orders can be returned
	assert.ErrorIs(t, f.svc.RequestReturn(ctx, orderID, owner, "again", nil), ErrIllegalTransition)
}

func TestOrderService_UpdateStatus_AdminAdvances(t *testing.T) {
	f := newOrderFixture()
	orderID := uuid.New()
	f.orderRepo.orders[orderID] = &model.Order{ID: orderID, UserID: uuid.New(), Status: model.OrderStatusProcessing}
	ctx := context.Background()

	order, err := f.svc.UpdateStatus(ctx, orderID, uuid.New(), model.RoleAdmin, model.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusShipped, order.Status)

	// skipping a step is rejected
	_, err = f.svc.UpdateStatus(ctx, orderID, uuid.New(), model.RoleAdmin, model.OrderStatusReturned)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestOrderService_UpdateStatus_ReturnDecision(t *testing.T) {
	f := newOrderFixture()
	orderID := uuid.New()
	f.orderRepo.orders[orderID] = &model.Order{ID: orderID, UserID: uuid.New(), Status: model.OrderStatusReturnRequested}
	ctx := context.Background()
	admin := uuid.New()

	// rejection drops the order back to delivered
	order, err := f.svc.UpdateStatus(ctx, orderID, admin, model.RoleAdmin, model.OrderStatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusDelivered, order.Status)
}

func TestOrderService_UpdateStatus_VendorRules(t *testing.T) {
	f := newOrderFixture()
	vendor := uuid.New()
	orderID := uuid.New()
	f.orderRepo.orders[orderID] = &model.Order{
		ID: orderID, UserID: uuid.New(), Status: model.OrderStatusProcessing,
		Items: []model.OrderItem{{VendorID: vendor}},
	}
	ctx := context.Background()

	// a vendor with no items in the order cannot touch it
	_, err := f.svc.UpdateStatus(ctx, orderID, uuid.New(), model.RoleVendor, model.OrderStatusShipped)
	assert.ErrorIs(t, err, ErrOrderAccessDenied)

	// the order's vendor may only step forward along fulfillment
	_, err = f.svc.UpdateStatus(ctx, orderID, vendor, model.RoleVendor, model.OrderStatusCancelled)
	assert.ErrorIs(t, err, ErrIllegalTransition)

	order, err := f.svc.UpdateStatus(ctx, orderID, vendor, model.RoleVendor, model.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusShipped, order.Status)
}

func TestOrderService_UpdateStatus_UnknownLabel(t *testing.T) {
	f := newOrderFixture()
	orderID := uuid.New()
	f.orderRepo.orders[orderID] = &model.Order{ID: orderID, Status: model.OrderStatusProcessing}

	_, err := f.svc.UpdateStatus(context.Background(), orderID, uuid.New(), model.RoleAdmin, "pending")
	assert.ErrorIs(t, err, ErrIllegalTransition)
}
