package service

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/catalog_api/internal/events"
	"github.com/Skotchmaster/catalog_api/internal/logging"
	"github.com/Skotchmaster/catalog_api/internal/models"
	"github.com/Skotchmaster/catalog_api/internal/repo"
)

type CategoryService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
	// Index, when set, gets the products whose category changed.
	Index ProductIndex
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.Repo.ListCategories(ctx)
}

func (s *CategoryService) Get(ctx context.Context, id uint) (*models.Category, error) {
	cat, err := s.Repo.GetCategory(ctx, id)
	return cat, translate(err, "category")
}

func (s *CategoryService) Create(ctx context.Context, name string) (*models.Category, error) {
	name = normalize(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is empty", ErrValidation)
	}
	if err := s.ensureFree(ctx, name, 0); err != nil {
		return nil, err
	}

	cat := &models.Category{Name: name}
	if err := s.Repo.CreateCategory(ctx, cat); err != nil {
		return nil, translate(err, "category")
	}

	publish(ctx, s.Events, events.New(events.EntityCategory, "created", cat.ID, cat.Name))
	return cat, nil
}

func (s *CategoryService) Rename(ctx context.Context, id uint, name string) (*models.Category, error) {
	name = normalize(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is empty", ErrValidation)
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.ensureFree(ctx, name, id); err != nil {
		return nil, err
	}

	cat, err := s.Repo.RenameCategory(ctx, id, name)
	if err != nil {
		return nil, translate(err, "category")
	}

	publish(ctx, s.Events, events.New(events.EntityCategory, "updated", cat.ID, cat.Name))
	s.reindex(ctx, id)
	return cat, nil
}

func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	var affected []uint
	if s.Index != nil {
		ids, err := s.Repo.ProductIDsInCategory(ctx, id)
		if err != nil {
			return err
		}
		affected = ids
	}
	if err := translate(s.Repo.DeleteCategory(ctx, id), "category"); err != nil {
		return err
	}
	publish(ctx, s.Events, events.New(events.EntityCategory, "deleted", id, ""))
	reindex(ctx, s.Repo, s.Index, affected)
	return nil
}

func (s *CategoryService) reindex(ctx context.Context, id uint) {
	if s.Index == nil {
		return
	}
	ids, err := s.Repo.ProductIDsInCategory(ctx, id)
	if err != nil {
		logging.FromContext(ctx).Error("reindex_products_failed", "category_id", id, "error", err)
		return
	}
	reindex(ctx, s.Repo, s.Index, ids)
}

func (s *CategoryService) ensureFree(ctx context.Context, name string, self uint) error {
	taken, err := s.Repo.CategoryNameTaken(ctx, name, self)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: category %q", ErrConflict, name)
	}
	return nil
}
