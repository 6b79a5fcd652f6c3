package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/frostcart/frostcart-api/internal/dto"
	"github.com/frostcart/frostcart-api/internal/model"
	"github.com/frostcart/frostcart-api/internal/pricing"
	"github.com/frostcart/frostcart-api/internal/repository"
)

var (
	ErrCartItemNotFound  = errors.New("cart item not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	policy      pricing.Policy
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository, policy pricing.Policy) *CartService {
	return &CartService{cartRepo: cartRepo, productRepo: productRepo, policy: policy}
}

// GetCart returns the cart with a quote and per-line stock-conflict flags.
// Checkout is allowed only when every line fits its product's live stock.
func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*dto.CartResponse, error) {
	cart, err := s.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &dto.CartResponse{ID: cart.ID, Items: make([]dto.CartItemResponse, 0, len(cart.Items)), CanCheckout: true}
	for _, item := range cart.Items {
		conflict := false
		// re-check against live stock, not the snapshot
		product, err := s.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("get product: %w", err)
		}
		liveStock := item.Stock
		if product != nil {
			liveStock = product.Stock
		}
		if item.Quantity > liveStock || product == nil {
			conflict = true
			resp.CanCheckout = false
		}
		resp.Items = append(resp.Items, dto.CartItemResponse{
			ID: item.ID, ProductID: item.ProductID, Name: item.Name,
			Price: item.Price, Quantity: item.Quantity, Stock: liveStock,
			Image: item.Image, StockConflict: conflict,
		})
	}
	if len(cart.Items) == 0 {
		resp.CanCheckout = false
	}

	quote := s.policy.QuoteCart(cart.Items, nil)
	resp.Subtotal = quote.Subtotal
	resp.ShippingFee = quote.ShippingFee
	resp.Tax = quote.Tax
	resp.GrandTotal = quote.GrandTotal
	return resp, nil
}

// AddItem puts a product in the cart. Adding a product already present
// replaces its line (quantity and snapshot) rather than duplicating it.
func (s *CartService) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) error {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return ErrProductNotFound
	}
	if quantity > product.Stock {
		return ErrInsufficientStock
	}

	cart, err := s.cartRepo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return fmt.Errorf("get or create cart: %w", err)
	}

	image := ""
	if len(product.Images) > 0 {
		image = product.Images[0]
	}
	return s.cartRepo.UpsertItem(ctx, &model.CartItem{
		CartID:    cart.ID,
		ProductID: productID,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  quantity,
		Stock:     product.Stock,
		Image:     image,
	})
}

func (s *CartService) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, quantity int) error {
	cart, err := s.loadCart(ctx, userID)
	if err != nil {
		return err
	}
	item := findItem(cart.Items, itemID)
	if item == nil {
		return ErrCartItemNotFound
	}

	product, err := s.productRepo.GetByID(ctx, item.ProductID)
	if err != nil {
		return fmt.Errorf("get product: %w", err)
	}
	if product != nil && quantity > product.Stock {
		return ErrInsufficientStock
	}
	return s.cartRepo.UpdateItem(ctx, &model.CartItem{ID: itemID, Quantity: quantity})
}

// DeleteItem removes a line by item id; an id not in the caller's cart is a
// no-op, matching the remove-absent-product contract.
func (s *CartService) DeleteItem(ctx context.Context, userID, itemID uuid.UUID) error {
	cart, err := s.loadCart(ctx, userID)
	if err != nil {
		return err
	}
	if findItem(cart.Items, itemID) == nil {
		return nil
	}
	return s.cartRepo.DeleteItem(ctx, itemID)
}

// RemoveProduct drops the line holding a product; removing a product that is
// not in the cart is a no-op.
func (s *CartService) RemoveProduct(ctx context.Context, userID, productID uuid.UUID) error {
	cart, err := s.cartRepo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return fmt.Errorf("get cart: %w", err)
	}
	return s.cartRepo.DeleteItemByProduct(ctx, cart.ID, productID)
}

func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) error {
	cart, err := s.cartRepo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return fmt.Errorf("get cart: %w", err)
	}
	return s.cartRepo.ClearCart(ctx, cart.ID)
}

func (s *CartService) loadCart(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	cart, err := s.cartRepo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get or create cart: %w", err)
	}
	withItems, err := s.cartRepo.GetCartWithItems(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("get cart items: %w", err)
	}
	if withItems == nil {
		return cart, nil
	}
	return withItems, nil
}

func findItem(items []model.CartItem, id uuid.UUID) *model.CartItem {
	for i := range items {
		if items[i].ID == id {
			return &items[i]
		}
	}
	return nil
}
