package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/frostcart/frostcart-api/internal/model"
	"github.com/frostcart/frostcart-api/internal/pricing"
	"github.com/frostcart/frostcart-api/internal/repository"
)

func testPolicy() pricing.Policy {
	return pricing.Policy{
		TaxRate:               decimal.NewFromFloat(0.18),
		FreeShippingThreshold: decimal.NewFromInt(1000),
		ShippingFlatFee:       decimal.NewFromInt(200),
	}
}

// --- users ---

type mockUserRepo struct {
	users map[string]*model.User
	byID  map[uuid.UUID]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User), byID: make(map[uuid.UUID]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	m.users[user.Email] = user
	m.byID[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	return m.byID[id], nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	return m.users[email], nil
}

func (m *mockUserRepo) List(_ context.Context, _, _ int) ([]model.User, int, error) {
	var users []model.User
	for _, u := range m.byID {
		users = append(users, *u)
	}
	return users, len(users), nil
}

func (m *mockUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	if u, ok := m.byID[id]; ok {
		u.Password = hash
	}
	return nil
}

func (m *mockUserRepo) UpdateVendorApplication(_ context.Context, id uuid.UUID, name string, status model.VendorStatus) error {
	if u, ok := m.byID[id]; ok {
		u.BusinessName = name
		u.VendorStatus = status
	}
	return nil
}

func (m *mockUserRepo) UpdateRole(_ context.Context, id uuid.UUID, role model.Role) error {
	if u, ok := m.byID[id]; ok {
		u.Role = role
	}
	return nil
}

// --- products ---

type mockProductRepo struct {
	products map[uuid.UUID]*model.Product
	reviews  map[uuid.UUID][]model.Review
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{
		products: make(map[uuid.UUID]*model.Product),
		reviews:  make(map[uuid.UUID][]model.Review),
	}
}

func (m *mockProductRepo) Create(_ context.Context, p *model.Product) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	m.products[p.ID] = p
	return nil
}

func (m *mockProductRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	return m.products[id], nil
}

func (m *mockProductRepo) List(_ context.Context, f repository.ProductFilter) ([]model.Product, int, error) {
	var all []model.Product
	for _, p := range m.products {
		if f.VendorID != uuid.Nil && p.VendorID != f.VendorID {
			continue
		}
		all = append(all, *p)
	}
	return all, len(all), nil
}

func (m *mockProductRepo) Update(_ context.Context, p *model.Product) error {
	m.products[p.ID] = p
	return nil
}

func (m *mockProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.products, id)
	return nil
}

func (m *mockProductRepo) DecrementStock(_ context.Context, _ pgx.Tx, productID uuid.UUID, quantity int) error {
	if p, ok := m.products[productID]; ok {
		p.Stock -= quantity
	}
	return nil
}

func (m *mockProductRepo) UpsertReview(_ context.Context, review *model.Review) error {
	review.ID = uuid.New()
	m.reviews[review.ProductID] = append(m.reviews[review.ProductID], *review)
	return nil
}

func (m *mockProductRepo) ListReviews(_ context.Context, productID uuid.UUID) ([]model.Review, error) {
	return m.reviews[productID], nil
}

// --- categories ---

type mockCategoryRepo struct {
	categories map[uuid.UUID]*model.Category
}

func newMockCategoryRepo() *mockCategoryRepo {
	return &mockCategoryRepo{categories: make(map[uuid.UUID]*model.Category)}
}

func (m *mockCategoryRepo) Create(_ context.Context, c *model.Category) error {
	c.ID = uuid.New()
	m.categories[c.ID] = c
	return nil
}

func (m *mockCategoryRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Category, error) {
	return m.categories[id], nil
}

func (m *mockCategoryRepo) List(_ context.Context) ([]model.Category, error) {
	var all []model.Category
	for _, c := range m.categories {
		all = append(all, *c)
	}
	return all, nil
}

func (m *mockCategoryRepo) Update(_ context.Context, c *model.Category) error {
	m.categories[c.ID] = c
	return nil
}

func (m *mockCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.categories, id)
	return nil
}

// --- carts ---

type mockCartRepo struct {
	carts map[uuid.UUID]*model.Cart
	items map[uuid.UUID]*model.CartItem
}

func newMockCartRepo() *mockCartRepo {
	return &mockCartRepo{carts: make(map[uuid.UUID]*model.Cart), items: make(map[uuid.UUID]*model.CartItem)}
}

func (m *mockCartRepo) GetOrCreateCart(_ context.Context, userID uuid.UUID) (*model.Cart, error) {
	for _, c := range m.carts {
		if c.UserID == userID {
			return c, nil
		}
	}
	cart := &model.Cart{ID: uuid.New(), UserID: userID}
	m.carts[cart.ID] = cart
	return cart, nil
}

func (m *mockCartRepo) GetCartWithItems(_ context.Context, cartID uuid.UUID) (*model.Cart, error) {
	cart, ok := m.carts[cartID]
	if !ok {
		return nil, nil
	}
	out := &model.Cart{ID: cart.ID, UserID: cart.UserID}
	for _, item := range m.items {
		if item.CartID == cartID {
			out.Items = append(out.Items, *item)
		}
	}
	return out, nil
}

// UpsertItem mirrors the DB's one-line-per-product rule: an existing line
// for the product is replaced, never duplicated.
func (m *mockCartRepo) UpsertItem(_ context.Context, item *model.CartItem) error {
	for _, existing := range m.items {
		if existing.CartID == item.CartID && existing.ProductID == item.ProductID {
			existing.Name = item.Name
			existing.Price = item.Price
			existing.Quantity = item.Quantity
			existing.Stock = item.Stock
			item.ID = existing.ID
			return nil
		}
	}
	item.ID = uuid.New()
	m.items[item.ID] = item
	return nil
}

func (m *mockCartRepo) UpdateItem(_ context.Context, item *model.CartItem) error {
	if existing, ok := m.items[item.ID]; ok {
		existing.Quantity = item.Quantity
	}
	return nil
}

func (m *mockCartRepo) DeleteItem(_ context.Context, itemID uuid.UUID) error {
	delete(m.items, itemID)
	return nil
}

func (m *mockCartRepo) DeleteItemByProduct(_ context.Context, cartID, productID uuid.UUID) error {
	for id, item := range m.items {
		if item.CartID == cartID && item.ProductID == productID {
			delete(m.items, id)
		}
	}
	return nil
}

func (m *mockCartRepo) ClearCart(_ context.Context, cartID uuid.UUID) error {
	for id, item := range m.items {
		if item.CartID == cartID {
			delete(m.items, id)
		}
	}
	return nil
}

// --- coupons ---

type mockCouponRepo struct {
	coupons map[string]*model.Coupon
}

func newMockCouponRepo() *mockCouponRepo {
	return &mockCouponRepo{coupons: make(map[string]*model.Coupon)}
}

func (m *mockCouponRepo) Create(_ context.Context, c *model.Coupon) error {
	c.ID = uuid.New()
	m.coupons[c.Code] = c
	return nil
}

func (m *mockCouponRepo) GetByCode(_ context.Context, code string) (*model.Coupon, error) {
	return m.coupons[normalizeCode(code)], nil
}

func (m *mockCouponRepo) List(_ context.Context) ([]model.Coupon, error) {
	var all []model.Coupon
	for _, c := range m.coupons {
		all = append(all, *c)
	}
	return all, nil
}

func (m *mockCouponRepo) Update(_ context.Context, c *model.Coupon) error {
	m.coupons[c.Code] = c
	return nil
}

func (m *mockCouponRepo) Delete(_ context.Context, id uuid.UUID) error {
	for code, c := range m.coupons {
		if c.ID == id {
			delete(m.coupons, code)
		}
	}
	return nil
}

func normalizeCode(code string) string {
	out := make([]rune, 0, len(code))
	for _, r := range code {
		if 'a' <= r && r <= 'z' {
			r -= 'a' - 'A'
		}
		out = append(out, r)
	}
	return string(out)
}

// --- orders ---

type mockOrderRepo struct {
	orders map[uuid.UUID]*model.Order
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[uuid.UUID]*model.Order)}
}

func (m *mockOrderRepo) Create(_ context.Context, order *model.Order) error {
	order.ID = uuid.New()
	order.CreatedAt = time.Now()
	m.orders[order.ID] = order
	return nil
}

func (m *mockOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	return m.orders[id], nil
}

func (m *mockOrderRepo) ListByUserID(_ context.Context, userID uuid.UUID) ([]model.Order, error) {
	var orders []model.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			orders = append(orders, *o)
		}
	}
	return orders, nil
}

func (m *mockOrderRepo) ListByVendorID(_ context.Context, vendorID uuid.UUID) ([]model.Order, error) {
	var orders []model.Order
	for _, o := range m.orders {
		for _, it := range o.Items {
			if it.VendorID == vendorID {
				orders = append(orders, *o)
				break
			}
		}
	}
	return orders, nil
}

func (m *mockOrderRepo) ListAll(_ context.Context, _, _ int) ([]model.Order, int, error) {
	var orders []model.Order
	for _, o := range m.orders {
		orders = append(orders, *o)
	}
	return orders, len(orders), nil
}

func (m *mockOrderRepo) TransitionStatus(_ context.Context, id uuid.UUID, from, to model.OrderStatus) error {
	o, ok := m.orders[id]
	if !ok || o.Status != from {
		return repository.ErrStaleStatus
	}
	o.Status = to
	return nil
}

func (m *mockOrderRepo) SetReturnRequest(_ context.Context, id uuid.UUID, reason string, images []string) error {
	o, ok := m.orders[id]
	if !ok || o.Status != model.OrderStatusDelivered {
		return repository.ErrStaleStatus
	}
	o.Status = model.OrderStatusReturnRequested
	o.ReturnReason = reason
	o.ReturnImages = images
	return nil
}

func (m *mockOrderRepo) BeginTx(_ context.Context) (pgx.Tx, error) {
	return nil, nil
}

// --- content ---

type mockContentRepo struct {
	items map[uuid.UUID]*model.ContentItem
}

func newMockContentRepo() *mockContentRepo {
	return &mockContentRepo{items: make(map[uuid.UUID]*model.ContentItem)}
}

func (m *mockContentRepo) Create(_ context.Context, item *model.ContentItem) error {
	item.ID = uuid.New()
	m.items[item.ID] = item
	return nil
}

func (m *mockContentRepo) GetByID(_ context.Context, id uuid.UUID) (*model.ContentItem, error) {
	return m.items[id], nil
}

func (m *mockContentRepo) ListActive(_ context.Context, contentType model.ContentType) ([]model.ContentItem, error) {
	var items []model.ContentItem
	for _, it := range m.items {
		if it.Type == contentType && it.Active {
			items = append(items, *it)
		}
	}
	return items, nil
}

func (m *mockContentRepo) ListAll(_ context.Context) ([]model.ContentItem, error) {
	var items []model.ContentItem
	for _, it := range m.items {
		items = append(items, *it)
	}
	return items, nil
}

func (m *mockContentRepo) Update(_ context.Context, item *model.ContentItem) error {
	m.items[item.ID] = item
	return nil
}

func (m *mockContentRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}
