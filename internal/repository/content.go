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

type ContentRepository interface {
	Create(ctx context.Context, item *model.ContentItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.ContentItem, error)
	ListActive(ctx context.Context, contentType model.ContentType) ([]model.ContentItem, error)
	ListAll(ctx context.Context) ([]model.ContentItem, error)
	Update(ctx context.Context, item *model.ContentItem) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type pgContentRepo struct{ pool *pgxpool.Pool }

func NewContentRepository(pool *pgxpool.Pool) ContentRepository {
	return &pgContentRepo{pool: pool}
}

const contentColumns = `id, type, title, image, link, position, active, created_at, updated_at`

func (r *pgContentRepo) Create(ctx context.Context, item *model.ContentItem) error {
	item.ID = uuid.New()
	err := r.pool.QueryRow(ctx,
		`INSERT INTO content_items (id, type, title, image, link, position, active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW()) RETURNING created_at, updated_at`,
		item.ID, item.Type, item.Title, item.Image, item.Link, item.Position, item.Active,
	).Scan(&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create content item: %w", err)
	}
	return nil
}

func (r *pgContentRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.ContentItem, error) {
	item := &model.ContentItem{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+contentColumns+` FROM content_items WHERE id = $1`, id,
	).Scan(&item.ID, &item.Type, &item.Title, &item.Image, &item.Link, &item.Position, &item.Active, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get content item: %w", err)
	}
	return item, nil
}

func (r *pgContentRepo) scanItems(rows pgx.Rows) ([]model.ContentItem, error) {
	defer rows.Close()
	var items []model.ContentItem
	for rows.Next() {
		var it model.ContentItem
		if err := rows.Scan(&it.ID, &it.Type, &it.Title, &it.Image, &it.Link, &it.Position, &it.Active, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan content item: %w", err)
		}
		items = append(items, it)
	}
	return items, nil
}

func (r *pgContentRepo) ListActive(ctx context.Context, contentType model.ContentType) ([]model.ContentItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+contentColumns+` FROM content_items WHERE type = $1 AND active ORDER BY position ASC`,
		contentType,
	)
	if err != nil {
		return nil, fmt.Errorf("list content items: %w", err)
	}
	return r.scanItems(rows)
}

func (r *pgContentRepo) ListAll(ctx context.Context) ([]model.ContentItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+contentColumns+` FROM content_items ORDER BY type, position ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list content items: %w", err)
	}
	return r.scanItems(rows)
}

func (r *pgContentRepo) Update(ctx context.Context, item *model.ContentItem) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE content_items SET type=$2, title=$3, image=$4, link=$5, position=$6, active=$7, updated_at=NOW()
		 WHERE id=$1 RETURNING updated_at`,
		item.ID, item.Type, item.Title, item.Image, item.Link, item.Position, item.Active,
	).Scan(&item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return pgx.ErrNoRows
		}
		return fmt.Errorf("update content item: %w", err)
	}
	return nil
}

func (r *pgContentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM content_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete content item: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
