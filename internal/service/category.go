package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"arsip/internal/model"
	"arsip/internal/repository"
)

// CategoryService reads the category tree.
type CategoryService interface {
	// List returns all categories with document counts. The result is cached
	// until the next document write.
	List(ctx context.Context) ([]model.Category, error)
	Get(ctx context.Context, id int64) (*model.Category, error)
	// Documents lists the category's documents; a root category includes
	// its children.
	Documents(ctx context.Context, id int64, p PageParams) (*DocumentListResult, error)
}

type categoryService struct {
	*archiver
}

func NewCategoryService(d Deps) CategoryService {
	return &categoryService{archiver: newArchiver(d)}
}

func (s *categoryService) List(ctx context.Context) ([]model.Category, error) {
	var cached []model.Category
	hit, err := s.Cache.GetJSON(ctx, cacheKeyCategories, &cached)
	if err != nil {
		s.Log.Warn("cache_read_failed", zap.String("key", cacheKeyCategories), zap.Error(err))
	}
	if hit {
		return cached, nil
	}

	cats, err := s.Categories.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.Cache.SetJSON(ctx, cacheKeyCategories, cats, s.CacheTTL); err != nil {
		s.Log.Warn("cache_write_failed", zap.String("key", cacheKeyCategories), zap.Error(err))
	}
	return cats, nil
}

func (s *categoryService) Get(ctx context.Context, id int64) (*model.Category, error) {
	if id <= 0 {
		return nil, ErrIDRequired
	}
	cat, err := s.Categories.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return cat, nil
}

func (s *categoryService) Documents(ctx context.Context, id int64, p PageParams) (*DocumentListResult, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.list(ctx, repository.DocumentFilter{CategoryID: id}, p)
}
