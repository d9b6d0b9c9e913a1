package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pharmamart/backend/internal/core/domain"
	"github.com/pharmamart/backend/internal/core/port"
)

type CategoryService struct {
	categories port.CategoryRepository
	logger     *zap.Logger
}

func NewCategoryService(categories port.CategoryRepository, logger *zap.Logger) (*CategoryService, error) {
	return &CategoryService{categories: categories, logger: logger}, nil
}

func (s *CategoryService) CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	category.ID = uuid.New()
	created, err := s.categories.CreateCategory(ctx, category)
	if err != nil {
		if errors.Is(err, domain.ErrConflictingData) {
			return nil, err
		}
		s.logger.Error("create category", zap.Error(err))
		return nil, domain.ErrInternal
	}
	return created, nil
}

func (s *CategoryService) GetCategory(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	category, err := s.categories.ReadCategory(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrDataNotFound) {
			return nil, err
		}
		s.logger.Error("read category", zap.Error(err))
		return nil, domain.ErrInternal
	}
	return category, nil
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	list, err := s.categories.ListCategories(ctx)
	if err != nil {
		s.logger.Error("list categories", zap.Error(err))
		return nil, domain.ErrInternal
	}
	return list, nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	updated, err := s.categories.UpdateCategory(ctx, category)
	if err != nil {
		if errors.Is(err, domain.ErrDataNotFound) || errors.Is(err, domain.ErrConflictingData) {
			return nil, err
		}
		s.logger.Error("update category", zap.Error(err))
		return nil, domain.ErrInternal
	}
	return updated, nil
}

func (s *CategoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	err := s.categories.DeleteCategory(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrDataNotFound) {
			return err
		}
		s.logger.Error("delete category", zap.Error(err))
		return domain.ErrInternal
	}
	return nil
}
