package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/frostcart/frostcart-api/internal/model"
)

// --- Auth ---

type RegisterInitiateRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
}

type RegisterVerifyRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

type ApplyVendorRequest struct {
	BusinessName string `json:"business_name" binding:"required"`
}

type ReviewVendorRequest struct {
	Approve bool `json:"approve"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID           uuid.UUID          `json:"id"`
	Email        string             `json:"email"`
	FirstName    string             `json:"first_name"`
	LastName     string             `json:"last_name"`
	Role         model.Role         `json:"role"`
	BusinessName string             `json:"business_name,omitempty"`
	VendorStatus model.VendorStatus `json:"vendor_status"`
}

// --- Product ---

type CreateProductRequest struct {
	Name        string          `form:"name" binding:"required"`
	Description string          `form:"description" binding:"required"`
	Price       decimal.Decimal `form:"price" binding:"required"`
	Stock       int             `form:"stock" binding:"min=0"`
	CategoryID  uuid.UUID       `form:"category_id" binding:"required"`
}

type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"`
	CategoryID  *uuid.UUID       `json:"category_id"`
}

type ListProductsRequest struct {
	Keyword    string  `form:"keyword"`
	Page       int     `form:"page,default=1" binding:"min=1"`
	Limit      int     `form:"limit,default=20" binding:"min=1,max=100"`
	PriceGTE   float64 `form:"price[gte]"`
	PriceLTE   float64 `form:"price[lte]"`
	CategoryID string  `form:"category"`
	RatingsGTE float64 `form:"ratings[gte]" binding:"max=5"`
	Sort       string  `form:"sort,default=created_at" binding:"oneof=name price rating created_at"`
	Order      string  `form:"order,default=desc" binding:"oneof=asc desc"`
}

type ProductResponse struct {
	ID          uuid.UUID       `json:"id"`
	VendorID    uuid.UUID       `json:"vendor_id"`
	CategoryID  uuid.UUID       `json:"category_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Images      []string        `json:"images"`
	Rating      decimal.Decimal `json:"rating"`
	NumReviews  int             `json:"num_reviews"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
}

type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

type ReviewResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// --- Category ---

type CategoryRequest struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug" binding:"required"`
}

type CategoryResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// --- Cart ---

type AddCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

type CartItemResponse struct {
	ID            uuid.UUID       `json:"id"`
	ProductID     uuid.UUID       `json:"product_id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	Quantity      int             `json:"quantity"`
	Stock         int             `json:"stock"`
	Image         string          `json:"image,omitempty"`
	StockConflict bool            `json:"stock_conflict"`
}

type CartResponse struct {
	ID          uuid.UUID          `json:"id"`
	Items       []CartItemResponse `json:"items"`
	Subtotal    decimal.Decimal    `json:"subtotal"`
	ShippingFee decimal.Decimal    `json:"shipping_fee"`
	Tax         decimal.Decimal    `json:"tax"`
	GrandTotal  decimal.Decimal    `json:"grand_total"`
	CanCheckout bool               `json:"can_checkout"`
}

// --- Coupon ---

type CouponRequest struct {
	Code          string          `json:"code" binding:"required"`
	Kind          string          `json:"kind" binding:"required,oneof=percent fixed"`
	Value         decimal.Decimal `json:"value" binding:"required"`
	MinOrderValue decimal.Decimal `json:"min_order_value"`
	ExpiresAt     time.Time       `json:"expires_at" binding:"required"`
	Active        *bool           `json:"active"`
}

type CouponResponse struct {
	ID            uuid.UUID       `json:"id"`
	Code          string          `json:"code"`
	Kind          string          `json:"kind"`
	Value         decimal.Decimal `json:"value"`
	MinOrderValue decimal.Decimal `json:"min_order_value"`
	ExpiresAt     time.Time       `json:"expires_at"`
	Active        bool            `json:"active"`
}

type ValidateCouponRequest struct {
	Code      string          `json:"code" binding:"required"`
	CartTotal decimal.Decimal `json:"cart_total" binding:"required"`
}

type ValidateCouponResponse struct {
	Success  bool            `json:"success"`
	Code     string          `json:"code"`
	Discount decimal.Decimal `json:"discount"`
}

// --- Order ---

type ShippingAddressRequest struct {
	Address    string `json:"address" binding:"required"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state" binding:"required"`
	Country    string `json:"country" binding:"required"`
	PostalCode string `json:"postal_code" binding:"required"`
	Phone      string `json:"phone" binding:"required"`
}

type CreateOrderRequest struct {
	ShippingAddress ShippingAddressRequest `json:"shipping_address" binding:"required"`
	CouponCode      string                 `json:"coupon_code"`
	PaymentIntentID string                 `json:"payment_intent_id"`
}

type UpdateOrderStatusRequest struct {
	Status model.OrderStatus `json:"status" binding:"required"`
}

type OrderItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Image     string          `json:"image,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

type OrderResponse struct {
	ID              uuid.UUID              `json:"id"`
	UserID          uuid.UUID              `json:"user_id"`
	Status          model.OrderStatus      `json:"status"`
	Items           []OrderItemResponse    `json:"items"`
	ShippingAddress ShippingAddressRequest `json:"shipping_address"`
	CouponCode      string                 `json:"coupon_code,omitempty"`
	Subtotal        decimal.Decimal        `json:"subtotal"`
	ShippingFee     decimal.Decimal        `json:"shipping_fee"`
	Tax             decimal.Decimal        `json:"tax"`
	Discount        decimal.Decimal        `json:"discount"`
	TotalPrice      decimal.Decimal        `json:"total_price"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int             `json:"total"`
}

// --- Content ---

type ContentItemRequest struct {
	Type     model.ContentType `json:"type" binding:"required,oneof=banner announcement"`
	Title    string            `json:"title" binding:"required"`
	Image    string            `json:"image"`
	Link     string            `json:"link"`
	Position int               `json:"position"`
	Active   *bool             `json:"active"`
}

type ContentItemResponse struct {
	ID       uuid.UUID         `json:"id"`
	Type     model.ContentType `json:"type"`
	Title    string            `json:"title"`
	Image    string            `json:"image,omitempty"`
	Link     string            `json:"link,omitempty"`
	Position int               `json:"position"`
	Active   bool              `json:"active"`
}

// --- Payment ---

type ProcessPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

type ProcessPaymentResponse struct {
	ClientSecret string `json:"client_secret"`
}
