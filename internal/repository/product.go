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

// ProductFilter narrows the catalog listing; zero values mean "no filter".
type ProductFilter struct {
	Keyword    string
	CategoryID uuid.UUID
	VendorID   uuid.UUID
	PriceGTE   float64
	PriceLTE   float64
	RatingsGTE float64
	Sort       string
	Order      string
	Limit      int
	Offset     int
}

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]model.Product, int, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	DecrementStock(ctx context.Context, tx pgx.Tx, productID uuid.UUID, quantity int) error
	UpsertReview(ctx context.Context, review *model.Review) error
	ListReviews(ctx context.Context, productID uuid.UUID) ([]model.Review, error)
}

type pgProductRepo struct{ pool *pgxpool.Pool }

func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &pgProductRepo{pool: pool}
}

const productColumns = `id, vendor_id, category_id, name, description, price, stock, images, rating, num_reviews, created_at, updated_at`

func (r *pgProductRepo) Create(ctx context.Context, product *model.Product) error {
	product.ID = uuid.New()
	query := `INSERT INTO products (id, vendor_id, category_id, name, description, price, stock, images, rating, num_reviews, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, 0, NOW(), NOW())
			  RETURNING created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		product.ID, product.VendorID, product.CategoryID, product.Name,
		product.Description, product.Price, product.Stock, product.Images,
	).Scan(&product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (r *pgProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	p := &model.Product{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id,
	).Scan(
		&p.ID, &p.VendorID, &p.CategoryID, &p.Name, &p.Description,
		&p.Price, &p.Stock, &p.Images, &p.Rating, &p.NumReviews,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *pgProductRepo) List(ctx context.Context, f ProductFilter) ([]model.Product, int, error) {
	allowedSorts := map[string]bool{"name": true, "price": true, "rating": true, "created_at": true}
	if !allowedSorts[f.Sort] {
		f.Sort = "created_at"
	}
	if f.Order != "asc" && f.Order != "desc" {
		f.Order = "desc"
	}

	var conds []string
	var args []any
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.Keyword != "" {
		args = append(args, f.Keyword)
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			`(name ILIKE '%%' || $%d || '%%' OR description ILIKE '%%' || $%d || '%%')`, n, n))
	}
	if f.CategoryID != uuid.Nil {
		add(`category_id = $%d`, f.CategoryID)
	}
	if f.VendorID != uuid.Nil {
		add(`vendor_id = $%d`, f.VendorID)
	}
	if f.PriceGTE > 0 {
		add(`price >= $%d`, f.PriceGTE)
	}
	if f.PriceLTE > 0 {
		add(`price <= $%d`, f.PriceLTE)
	}
	if f.RatingsGTE > 0 {
		add(`rating >= $%d`, f.RatingsGTE)
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	query := fmt.Sprintf(`SELECT `+productColumns+` FROM products%s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		where, f.Sort, f.Order, len(args)+1, len(args)+2)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(
			&p.ID, &p.VendorID, &p.CategoryID, &p.Name, &p.Description,
			&p.Price, &p.Stock, &p.Images, &p.Rating, &p.NumReviews,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, total, nil
}

func (r *pgProductRepo) Update(ctx context.Context, product *model.Product) error {
	query := `UPDATE products SET category_id=$2, name=$3, description=$4, price=$5, stock=$6, images=$7, updated_at=NOW()
			  WHERE id=$1 RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		product.ID, product.CategoryID, product.Name, product.Description,
		product.Price, product.Stock, product.Images,
	).Scan(&product.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

func (r *pgProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *pgProductRepo) DecrementStock(ctx context.Context, tx pgx.Tx, productID uuid.UUID, quantity int) error {
	ct, err := tx.Exec(ctx,
		`UPDATE products SET stock = stock - $2, updated_at = NOW() WHERE id = $1 AND stock >= $2`,
		productID, quantity,
	)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("insufficient stock for product %s", productID)
	}
	return nil
}

// UpsertReview writes the caller's review (one per user per product) and
// refreshes the product's denormalized rating aggregate in one transaction.
func (r *pgProductRepo) UpsertReview(ctx context.Context, review *model.Review) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	review.ID = uuid.New()
	err = tx.QueryRow(ctx,
		`INSERT INTO reviews (id, product_id, user_id, rating, comment, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		 ON CONFLICT (product_id, user_id) DO UPDATE SET rating = $4, comment = $5, updated_at = NOW()
		 RETURNING id, created_at, updated_at`,
		review.ID, review.ProductID, review.UserID, review.Rating, review.Comment,
	).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert review: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE products SET
			rating = (SELECT COALESCE(AVG(rating), 0) FROM reviews WHERE product_id = $1),
			num_reviews = (SELECT COUNT(*) FROM reviews WHERE product_id = $1),
			updated_at = NOW()
		 WHERE id = $1`,
		review.ProductID,
	)
	if err != nil {
		return fmt.Errorf("refresh rating: %w", err)
	}
	return tx.Commit(ctx)
}

func (r *pgProductRepo) ListReviews(ctx context.Context, productID uuid.UUID) ([]model.Review, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, product_id, user_id, rating, comment, created_at, updated_at
		 FROM reviews WHERE product_id = $1 ORDER BY created_at DESC`, productID,
	)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []model.Review
	for rows.Next() {
		var rv model.Review
		if err := rows.Scan(&rv.ID, &rv.ProductID, &rv.UserID, &rv.Rating, &rv.Comment, &rv.CreatedAt, &rv.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}
	return reviews, nil
}
