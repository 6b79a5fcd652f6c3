package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleVendor   Role = "vendor"
	RoleAdmin    Role = "admin"
)

type VendorStatus string

const (
	VendorStatusNone     VendorStatus = "none"
	VendorStatusPending  VendorStatus = "pending"
	VendorStatusApproved VendorStatus = "approved"
	VendorStatusRejected VendorStatus = "rejected"
)

type User struct {
	ID           uuid.UUID
	Email        string
	Password     string
	FirstName    string
	LastName     string
	Role         Role
	BusinessName string
	VendorStatus VendorStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Category struct {
	ID        uuid.UUID
	Name      string
	Slug      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Product struct {
	ID          uuid.UUID
	VendorID    uuid.UUID
	CategoryID  uuid.UUID
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Images      []string
	Rating      decimal.Decimal
	NumReviews  int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Review struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	UserID    uuid.UUID
	Rating    int
	Comment   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Cart struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Items  []CartItem
}

// CartItem snapshots the product's name, price, and stock as of the last
// add/update so the cart can be priced and stock-checked without a join.
type CartItem struct {
	ID        uuid.UUID
	CartID    uuid.UUID
	ProductID uuid.UUID
	Name      string
	Price     decimal.Decimal
	Quantity  int
	Stock     int
	Image     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CouponKind string

const (
	CouponPercent CouponKind = "percent"
	CouponFixed   CouponKind = "fixed"
)

type Coupon struct {
	ID            uuid.UUID
	Code          string
	Kind          CouponKind
	Value         decimal.Decimal
	MinOrderValue decimal.Decimal
	ExpiresAt     time.Time
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type ShippingAddress struct {
	Address    string
	City       string
	State      string
	Country    string
	PostalCode string
	Phone      string
}

type PaymentInfo struct {
	IntentID string
	Status   string
}

type Order struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Status          OrderStatus
	Items           []OrderItem
	ShippingAddress ShippingAddress
	Payment         PaymentInfo
	CouponCode      string
	Subtotal        decimal.Decimal
	ShippingFee     decimal.Decimal
	Tax             decimal.Decimal
	Discount        decimal.Decimal
	TotalPrice      decimal.Decimal
	ReturnReason    string
	ReturnImages    []string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderItem is a point-in-time snapshot; later product edits never change
// what the customer was charged.
type OrderItem struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ProductID uuid.UUID
	VendorID  uuid.UUID
	Name      string
	Image     string
	Price     decimal.Decimal
	Quantity  int
}

type ContentType string

const (
	ContentBanner       ContentType = "banner"
	ContentAnnouncement ContentType = "announcement"
)

type ContentItem struct {
	ID        uuid.UUID
	Type      ContentType
	Title     string
	Image     string
	Link      string
	Position  int
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type FulfillmentMessage struct {
	OrderID uuid.UUID `json:"order_id"`
	UserID  uuid.UUID `json:"user_id"`
}
