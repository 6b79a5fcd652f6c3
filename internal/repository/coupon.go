package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/frostcart/frostcart-api/internal/model"
)

type CouponRepository interface {
	Create(ctx context.Context, coupon *model.Coupon) error
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)
	List(ctx context.Context) ([]model.Coupon, error)
	Update(ctx context.Context, coupon *model.Coupon) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type pgCouponRepo struct{ pool *pgxpool.Pool }

func NewCouponRepository(pool *pgxpool.Pool) CouponRepository {
	return &pgCouponRepo{pool: pool}
}

const couponColumns = `id, code, kind, value, min_order_value, expires_at, active, created_at, updated_at`

func (r *pgCouponRepo) Create(ctx context.Context, coupon *model.Coupon) error {
	coupon.ID = uuid.New()
	coupon.Code = strings.ToUpper(coupon.Code)
	err := r.pool.QueryRow(ctx,
		`INSERT INTO coupons (id, code, kind, value, min_order_value, expires_at, active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW()) RETURNING created_at, updated_at`,
		coupon.ID, coupon.Code, coupon.Kind, coupon.Value, coupon.MinOrderValue,
		coupon.ExpiresAt, coupon.Active,
	).Scan(&coupon.CreatedAt, &coupon.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create coupon: %w", err)
	}
	return nil
}

func (r *pgCouponRepo) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	c := &model.Coupon{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+couponColumns+` FROM coupons WHERE code = $1`, strings.ToUpper(code),
	).Scan(
		&c.ID, &c.Code, &c.Kind, &c.Value, &c.MinOrderValue,
		&c.ExpiresAt, &c.Active, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get coupon: %w", err)
	}
	return c, nil
}

func (r *pgCouponRepo) List(ctx context.Context) ([]model.Coupon, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+couponColumns+` FROM coupons ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	defer rows.Close()

	var coupons []model.Coupon
	for rows.Next() {
		var c model.Coupon
		if err := rows.Scan(
			&c.ID, &c.Code, &c.Kind, &c.Value, &c.MinOrderValue,
			&c.ExpiresAt, &c.Active, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan coupon: %w", err)
		}
		coupons = append(coupons, c)
	}
	return coupons, nil
}

func (r *pgCouponRepo) Update(ctx context.Context, coupon *model.Coupon) error {
	coupon.Code = strings.ToUpper(coupon.Code)
	err := r.pool.QueryRow(ctx,
		`UPDATE coupons SET code=$2, kind=$3, value=$4, min_order_value=$5, expires_at=$6, active=$7, updated_at=NOW()
		 WHERE id=$1 RETURNING updated_at`,
		coupon.ID, coupon.Code, coupon.Kind, coupon.Value, coupon.MinOrderValue,
		coupon.ExpiresAt, coupon.Active,
	).Scan(&coupon.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return pgx.ErrNoRows
		}
		return fmt.Errorf("update coupon: %w", err)
	}
	return nil
}

func (r *pgCouponRepo) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM coupons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete coupon: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
