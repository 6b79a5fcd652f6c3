package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/frostcart/frostcart-api/internal/dto"
	"github.com/frostcart/frostcart-api/internal/model"
	"github.com/frostcart/frostcart-api/internal/repository"
)

var ErrContentNotFound = errors.New("content item not found")

type ContentService struct {
	contentRepo repository.ContentRepository
}

func NewContentService(contentRepo repository.ContentRepository) *ContentService {
	return &ContentService{contentRepo: contentRepo}
}

func (s *ContentService) Banners(ctx context.Context) ([]dto.ContentItemResponse, error) {
	return s.listActive(ctx, model.ContentBanner)
}

func (s *ContentService) ItemsByType(ctx context.Context, contentType model.ContentType) ([]dto.ContentItemResponse, error) {
	return s.listActive(ctx, contentType)
}

func (s *ContentService) listActive(ctx context.Context, contentType model.ContentType) ([]dto.ContentItemResponse, error) {
	items, err := s.contentRepo.ListActive(ctx, contentType)
	if err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	resp := make([]dto.ContentItemResponse, 0, len(items))
	for i := range items {
		resp = append(resp, toContentResponse(&items[i]))
	}
	return resp, nil
}

func (s *ContentService) ListAll(ctx context.Context) ([]dto.ContentItemResponse, error) {
	items, err := s.contentRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	resp := make([]dto.ContentItemResponse, 0, len(items))
	for i := range items {
		resp = append(resp, toContentResponse(&items[i]))
	}
	return resp, nil
}

func (s *ContentService) Create(ctx context.Context, req dto.ContentItemRequest) (*dto.ContentItemResponse, error) {
	item := &model.ContentItem{
		Type:     req.Type,
		Title:    req.Title,
		Image:    req.Image,
		Link:     req.Link,
		Position: req.Position,
		Active:   req.Active == nil || *req.Active,
	}
	if err := s.contentRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create content: %w", err)
	}
	resp := toContentResponse(item)
	return &resp, nil
}

func (s *ContentService) Update(ctx context.Context, id uuid.UUID, req dto.ContentItemRequest) (*dto.ContentItemResponse, error) {
	item, err := s.contentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get content: %w", err)
	}
	if item == nil {
		return nil, ErrContentNotFound
	}

	item.Type = req.Type
	item.Title = req.Title
	item.Image = req.Image
	item.Link = req.Link
	item.Position = req.Position
	if req.Active != nil {
		item.Active = *req.Active
	}
	if err := s.contentRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("update content: %w", err)
	}
	resp := toContentResponse(item)
	return &resp, nil
}

func (s *ContentService) Delete(ctx context.Context, id uuid.UUID) error {
	item, err := s.contentRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get content: %w", err)
	}
	if item == nil {
		return ErrContentNotFound
	}
	return s.contentRepo.Delete(ctx, id)
}

func toContentResponse(item *model.ContentItem) dto.ContentItemResponse {
	return dto.ContentItemResponse{
		ID:       item.ID,
		Type:     item.Type,
		Title:    item.Title,
		Image:    item.Image,
		Link:     item.Link,
		Position: item.Position,
		Active:   item.Active,
	}
}
