package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/frostcart/frostcart-api/internal/model"
)

// ErrStaleStatus is returned by TransitionStatus when the order is no longer
// in the expected source status (already advanced, cancelled, or missing).
var ErrStaleStatus = errors.New("order status changed concurrently")

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]model.Order, error)
	ListByVendorID(ctx context.Context, vendorID uuid.UUID) ([]model.Order, error)
	ListAll(ctx context.Context, limit, offset int) ([]model.Order, int, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to model.OrderStatus) error
	SetReturnRequest(ctx context.Context, id uuid.UUID, reason string, images []string) error
	BeginTx(ctx context.Context) (pgx.Tx, error)
}

type pgOrderRepo struct{ pool *pgxpool.Pool }

func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &pgOrderRepo{pool: pool}
}

func (r *pgOrderRepo) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

const orderColumns = `id, user_id, status, coupon_code, subtotal, shipping_fee, tax, discount, total_price,
	ship_address, ship_city, ship_state, ship_country, ship_postal_code, ship_phone,
	payment_intent_id, payment_status, return_reason, return_images, created_at, updated_at`

func (r *pgOrderRepo) Create(ctx context.Context, order *model.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	order.ID = uuid.New()
	err = tx.QueryRow(ctx,
		`INSERT INTO orders (id, user_id, status, coupon_code, subtotal, shipping_fee, tax, discount, total_price,
			ship_address, ship_city, ship_state, ship_country, ship_postal_code, ship_phone,
			payment_intent_id, payment_status, return_reason, return_images, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, '', '{}', NOW(), NOW())
		 RETURNING created_at, updated_at`,
		order.ID, order.UserID, order.Status, order.CouponCode,
		order.Subtotal, order.ShippingFee, order.Tax, order.Discount, order.TotalPrice,
		order.ShippingAddress.Address, order.ShippingAddress.City, order.ShippingAddress.State,
		order.ShippingAddress.Country, order.ShippingAddress.PostalCode, order.ShippingAddress.Phone,
		order.Payment.IntentID, order.Payment.Status,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i := range order.Items {
		order.Items[i].ID = uuid.New()
		order.Items[i].OrderID = order.ID
		_, err = tx.Exec(ctx,
			`INSERT INTO order_items (id, order_id, product_id, vendor_id, name, image, price, quantity, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())`,
			order.Items[i].ID, order.ID, order.Items[i].ProductID, order.Items[i].VendorID,
			order.Items[i].Name, order.Items[i].Image, order.Items[i].Price, order.Items[i].Quantity,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return tx.Commit(ctx)
}

func scanOrder(row pgx.Row, o *model.Order) error {
	return row.Scan(
		&o.ID, &o.UserID, &o.Status, &o.CouponCode,
		&o.Subtotal, &o.ShippingFee, &o.Tax, &o.Discount, &o.TotalPrice,
		&o.ShippingAddress.Address, &o.ShippingAddress.City, &o.ShippingAddress.State,
		&o.ShippingAddress.Country, &o.ShippingAddress.PostalCode, &o.ShippingAddress.Phone,
		&o.Payment.IntentID, &o.Payment.Status, &o.ReturnReason, &o.ReturnImages,
		&o.CreatedAt, &o.UpdatedAt,
	)
}

func (r *pgOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order := &model.Order{}
	err := scanOrder(r.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id), order)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	items, err := r.loadItems(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

func (r *pgOrderRepo) loadItems(ctx context.Context, orderID uuid.UUID) ([]model.OrderItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, order_id, product_id, vendor_id, name, image, price, quantity
		 FROM order_items WHERE order_id = $1`, orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.VendorID, &it.Name, &it.Image, &it.Price, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, it)
	}
	return items, nil
}

func (r *pgOrderRepo) listByQuery(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		var o model.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	rows.Close()

	for i := range orders {
		items, err := r.loadItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

func (r *pgOrderRepo) ListByUserID(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	return r.listByQuery(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

// ListByVendorID returns orders containing at least one of the vendor's items.
func (r *pgOrderRepo) ListByVendorID(ctx context.Context, vendorID uuid.UUID) ([]model.Order, error) {
	return r.listByQuery(ctx,
		`SELECT `+orderColumns+` FROM orders
		 WHERE id IN (SELECT DISTINCT order_id FROM order_items WHERE vendor_id = $1)
		 ORDER BY created_at DESC`, vendorID)
}

func (r *pgOrderRepo) ListAll(ctx context.Context, limit, offset int) ([]model.Order, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}
	orders, err := r.listByQuery(ctx,
		`SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// TransitionStatus moves an order between two statuses. The source status is
// part of the WHERE clause so a raced duplicate request fails with
// ErrStaleStatus instead of applying twice.
func (r *pgOrderRepo) TransitionStatus(ctx context.Context, id uuid.UUID, from, to model.OrderStatus) error {
	ct, err := r.pool.Exec(ctx,
		`UPDATE orders SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2`,
		id, from, to,
	)
	if err != nil {
		return fmt.Errorf("transition status: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrStaleStatus
	}
	return nil
}

// SetReturnRequest records the return evidence and flips delivered →
// return_requested in one guarded statement.
func (r *pgOrderRepo) SetReturnRequest(ctx context.Context, id uuid.UUID, reason string, images []string) error {
	ct, err := r.pool.Exec(ctx,
		`UPDATE orders SET status = $2, return_reason = $3, return_images = $4, updated_at = NOW()
		 WHERE id = $1 AND status = $5`,
		id, model.OrderStatusReturnRequested, reason, images, model.OrderStatusDelivered,
	)
	if err != nil {
		return fmt.Errorf("set return request: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrStaleStatus
	}
	return nil
}
