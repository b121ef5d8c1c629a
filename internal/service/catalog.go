package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Skotchmaster/catalog_api/internal/events"
	"github.com/Skotchmaster/catalog_api/internal/logging"
	"github.com/Skotchmaster/catalog_api/internal/models"
	"github.com/Skotchmaster/catalog_api/internal/repo"
	"github.com/Skotchmaster/catalog_api/internal/transport"
	"github.com/Skotchmaster/catalog_api/internal/util"
)

// ProductIndex is the full-text search backend kept in sync with the catalog.
type ProductIndex interface {
	Index(ctx context.Context, p models.Product) error
	Delete(ctx context.Context, id uint) error
	Search(ctx context.Context, query string, from, size int) (int64, []uint, error)
}

type CatalogService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
	// Index is optional; without it search falls back to the database.
	Index ProductIndex
}

func (s *CatalogService) ListProducts(ctx context.Context, f repo.ProductFilter) ([]models.Product, error) {
	return s.Repo.ListProducts(ctx, f)
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	return p, translate(err, "product")
}

func (s *CatalogService) CreateProduct(ctx context.Context, caller Caller, req transport.CreateProductRequest) (*models.Product, error) {
	name := normalize(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is empty", ErrValidation)
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}
	if err := s.ensureNameFree(ctx, name, 0); err != nil {
		return nil, err
	}

	prod := &models.Product{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Price:       req.Price,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
	}
	if caller.ID != 0 {
		owner := caller.ID
		prod.OwnerID = &owner
	}

	created, err := s.Repo.CreateProduct(ctx, prod, req.TagIDs)
	if err != nil {
		return nil, translate(err, "product")
	}

	s.changed(ctx, "created", caller, created)
	return created, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, caller Caller, id uint, req transport.UpdateProductRequest) (*models.Product, error) {
	if _, err := s.GetProduct(ctx, id); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Name != nil {
		name := normalize(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name is empty", ErrValidation)
		}
		if err := s.ensureNameFree(ctx, name, id); err != nil {
			return nil, err
		}
		fields["name"] = name
	}
	if req.Description != nil {
		fields["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, fmt.Errorf("%w: price cannot be negative", ErrValidation)
		}
		fields["price"] = *req.Price
	}
	if req.Stock != nil {
		fields["stock"] = *req.Stock
	}

	updated, err := s.Repo.UpdateProduct(ctx, id, fields)
	if err != nil {
		return nil, translate(err, "product")
	}

	s.changed(ctx, "updated", caller, updated)
	return updated, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, caller Caller, id uint) error {
	if err := translate(s.Repo.DeleteProduct(ctx, id), "product"); err != nil {
		return err
	}

	e := events.New(events.EntityProduct, "deleted", id, "")
	e.ActorID = caller.ID
	publish(ctx, s.Events, e)

	if s.Index != nil {
		if err := s.Index.Delete(ctx, id); err != nil {
			logging.FromContext(ctx).Error("unindex_product_failed", "product_id", id, "error", err)
		}
	}
	return nil
}

func (s *CatalogService) ProductTags(ctx context.Context, id uint) ([]models.Tag, error) {
	tags, err := s.Repo.ProductTags(ctx, id)
	return tags, translate(err, "product")
}

func (s *CatalogService) ReplaceTags(ctx context.Context, caller Caller, id uint, tagIDs []uint) (*models.Product, error) {
	p, err := s.Repo.ReplaceProductTags(ctx, id, tagIDs)
	return s.tagsChanged(ctx, caller, p, err)
}

func (s *CatalogService) AddTags(ctx context.Context, caller Caller, id uint, tagIDs []uint) (*models.Product, error) {
	p, err := s.Repo.AddProductTags(ctx, id, tagIDs)
	return s.tagsChanged(ctx, caller, p, err)
}

func (s *CatalogService) RemoveTags(ctx context.Context, caller Caller, id uint, tagIDs []uint) (*models.Product, error) {
	p, err := s.Repo.RemoveProductTags(ctx, id, tagIDs)
	return s.tagsChanged(ctx, caller, p, err)
}

func (s *CatalogService) SetCategory(ctx context.Context, caller Caller, id uint, categoryID *uint) (*models.Product, error) {
	p, err := s.Repo.SetProductCategory(ctx, id, categoryID)
	if err != nil {
		return nil, translate(err, "product or category")
	}
	s.changed(ctx, "category_changed", caller, p)
	return p, nil
}

type SearchResult struct {
	Items []models.Product
	Total int64
	Page  int
	Size  int
}

// Search queries the search index when one is configured and the database
// otherwise, or when the index is unreachable.
func (s *CatalogService) Search(ctx context.Context, query string, page, size int) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is empty", ErrValidation)
	}
	if page < 1 {
		page = 1
	}
	offset, limit := util.Calculate(page, size)

	if s.Index != nil {
		total, ids, err := s.Index.Search(ctx, query, offset, limit)
		if err == nil {
			items, err := s.Repo.ProductsByIDs(ctx, ids)
			if err != nil {
				return nil, err
			}
			return &SearchResult{Items: items, Total: total, Page: page, Size: limit}, nil
		}
		logging.FromContext(ctx).Warn("search_index_failed", "fallback", "database", "error", err)
	}

	total, items, err := s.Repo.SearchProducts(ctx, query, offset, limit)
	if err != nil {
		return nil, err
	}
	return &SearchResult{Items: items, Total: total, Page: page, Size: limit}, nil
}

func (s *CatalogService) ensureNameFree(ctx context.Context, name string, self uint) error {
	taken, err := s.Repo.ProductNameTaken(ctx, name, self)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: product %q", ErrConflict, name)
	}
	return nil
}

func (s *CatalogService) tagsChanged(ctx context.Context, caller Caller, p *models.Product, err error) (*models.Product, error) {
	if err != nil {
		return nil, translate(err, "product or tag")
	}
	s.changed(ctx, "tags_changed", caller, p)
	return p, nil
}

// changed publishes the product event and refreshes the search document.
func (s *CatalogService) changed(ctx context.Context, action string, caller Caller, p *models.Product) {
	e := events.New(events.EntityProduct, action, p.ID, p.Name)
	e.ActorID = caller.ID
	for _, t := range p.Tags {
		e.TagIDs = append(e.TagIDs, t.ID)
	}
	publish(ctx, s.Events, e)

	if s.Index != nil {
		if err := s.Index.Index(ctx, *p); err != nil {
			logging.FromContext(ctx).Error("index_product_failed", "product_id", p.ID, "error", err)
		}
	}
}
