package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frostcart/frostcart-api/internal/model"
)

func TestCartService_AddItem(t *testing.T) {
	cartRepo := newMockCartRepo()
	productRepo := newMockProductRepo()
	pid := uuid.New()
	productRepo.products[pid] = &model.Product{ID: pid, Name: "Mango Sorbet", Price: decimal.NewFromInt(120), Stock: 100}
	svc := NewCartService(cartRepo, productRepo, testPolicy())

	err := svc.AddItem(context.Background(), uuid.New(), pid, 2)
	require.NoError(t, err)
	assert.Len(t, cartRepo.items, 1)
}

func TestCartService_AddItem_ExistingProductReplacesLine(t *testing.T) {
	cartRepo := newMockCartRepo()
	productRepo := newMockProductRepo()
	pid := uuid.New()
	productRepo.products[pid] = &model.Product{ID: pid, Name: "Mango Sorbet", Price: decimal.NewFromInt(120), Stock: 100}
	svc := NewCartService(cartRepo, productRepo, testPolicy())
	userID := uuid.New()
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, userID, pid, 2))
	require.NoError(t, svc.AddItem(ctx, userID, pid, 7))

	// still one line, quantity replaced not accumulated
	require.Len(t, cartRepo.items, 1)
	for _, item := range cartRepo.items {
		assert.Equal(t, 7, item.Quantity)
	}
}

func TestCartService_AddItem_NewProductGrowsCart(t *testing.T) {
	cartRepo := newMockCartRepo()
	productRepo := newMockProductRepo()
	svc := NewCartService(cartRepo, productRepo, testPolicy())
	userID := uuid.New()
	ctx := context.Background()

	for _, name := range []string{"Kulfi", "Gelato"} {
		pid := uuid.New()
		productRepo.products[pid] = &model.Product{ID: pid, Name: name, Price: decimal.NewFromInt(80), Stock: 10}
		require.NoError(t, svc.AddItem(ctx, userID, pid, 1))
	}
	assert.Len(t, cartRepo.items, 2)
}

func TestCartService_AddItem_ProductNotFound(t *testing.T) {
	svc := NewCartService(newMockCartRepo(), newMockProductRepo(), testPolicy())
	err := svc.AddItem(context.Background(), uuid.New(), uuid.New(), 2)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCartService_AddItem_InsufficientStock(t *testing.T) {
	cartRepo := newMockCartRepo()
	productRepo := newMockProductRepo()
	pid := uuid.New()
	productRepo.products[pid] = &model.Product{ID: pid, Price: decimal.NewFromInt(50), Stock: 3}
	svc := NewCartService(cartRepo, productRepo, testPolicy())

	err := svc.AddItem(context.Background(), uuid.New(), pid, 4)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestCartService_DeleteItem(t *testing.T) {
	cartRepo := newMockCartRepo()
	svc := NewCartService(cartRepo, newMockProductRepo(), testPolicy())
	userID := uuid.New()
	ctx := context.Background()

	cart, _ := cartRepo.GetOrCreateCart(ctx, userID)
	item := &model.CartItem{ID: uuid.New(), CartID: cart.ID, ProductID: uuid.New(), Quantity: 1}
	cartRepo.items[item.ID] = item

	require.NoError(t, svc.DeleteItem(ctx, userID, item.ID))
	assert.Empty(t, cartRepo.items)
}

func TestCartService_DeleteItem_AbsentIsNoop(t *testing.T) {
	cartRepo := newMockCartRepo()
	svc := NewCartService(cartRepo, newMockProductRepo(), testPolicy())
	userID := uuid.New()
	ctx := context.Background()

	cart, _ := cartRepo.GetOrCreateCart(ctx, userID)
	item := &model.CartItem{ID: uuid.New(), CartID: cart.ID, ProductID: uuid.New(), Quantity: 1}
	cartRepo.items[item.ID] = item

	require.NoError(t, svc.DeleteItem(ctx, userID, uuid.New()))
	assert.Len(t, cartRepo.items, 1)
}

func TestCartService_RemoveProduct_AbsentIsNoop(t *testing.T) {
	cartRepo := newMockCartRepo()
	productRepo := newMockProductRepo()
	pid := uuid.New()
	productRepo.products[pid] = &model.Product{ID: pid, Price: decimal.NewFromInt(50), Stock: 10}
	svc := NewCartService(cartRepo, productRepo, testPolicy())
	userID := uuid.New()
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, userID, pid, 1))

	require.NoError(t, svc.RemoveProduct(ctx, userID, uuid.New()))
	assert.Len(t, cartRepo.items, 1)

	require.NoError(t, svc.RemoveProduct(ctx, userID, pid))
	assert.Empty(t, cartRepo.items)
}

func TestCartService_GetCart_QuoteAndStockConflict(t *testing.T) {
	cartRepo := newMockCartRepo()
	productRepo := newMockProductRepo()
	svc := NewCartService(cartRepo, productRepo, testPolicy())
	userID := uuid.New()
	ctx := context.Background()

	pid := uuid.New()
	productRepo.products[pid] = &model.Product{ID: pid, Name: "Kulfi", Price: decimal.NewFromInt(100), Stock: 5}
	require.NoError(t, svc.AddItem(ctx, userID, pid, 2))

	resp, err := svc.GetCart(ctx, userID)
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.False(t, resp.Items[0].StockConflict)
	assert.True(t, resp.CanCheckout)
	assert.True(t, resp.Subtotal.Equal(decimal.NewFromInt(200)))
	assert.True(t, resp.ShippingFee.Equal(decimal.NewFromInt(200)))
	assert.True(t, resp.Tax.Equal(decimal.NewFromInt(36)))
	assert.True(t, resp.GrandTotal.Equal(decimal.NewFromInt(436)))

	// live stock drops below the line quantity: checkout blocked
	productRepo.products[pid].Stock = 1
	resp, err = svc.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.True(t, resp.Items[0].StockConflict)
	assert.False(t, resp.CanCheckout)
}

func TestCartService_GetCart_EmptyCannotCheckout(t *testing.T) {
	svc := NewCartService(newMockCartRepo(), newMockProductRepo(), testPolicy())
	resp, err := svc.GetCart(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
	assert.False(t, resp.CanCheckout)
}
