package service

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/catalog_api/internal/events"
	"github.com/Skotchmaster/catalog_api/internal/logging"
	"github.com/Skotchmaster/catalog_api/internal/models"
	"github.com/Skotchmaster/catalog_api/internal/repo"
)

type TagService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
	// Index, when set, gets the products whose tag changed.
	Index ProductIndex
}

func (s *TagService) List(ctx context.Context) ([]models.Tag, error) {
	return s.Repo.ListTags(ctx)
}

func (s *TagService) Get(ctx context.Context, id uint) (*models.Tag, error) {
	tag, err := s.Repo.GetTag(ctx, id)
	return tag, translate(err, "tag")
}

func (s *TagService) Create(ctx context.Context, name string) (*models.Tag, error) {
	name = normalize(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is empty", ErrValidation)
	}
	if err := s.ensureFree(ctx, name, 0); err != nil {
		return nil, err
	}

	tag := &models.Tag{Name: name}
	if err := s.Repo.CreateTag(ctx, tag); err != nil {
		return nil, translate(err, "tag")
	}

	publish(ctx, s.Events, events.New(events.EntityTag, "created", tag.ID, tag.Name))
	return tag, nil
}

func (s *TagService) Rename(ctx context.Context, id uint, name string) (*models.Tag, error) {
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

	tag, err := s.Repo.RenameTag(ctx, id, name)
	if err != nil {
		return nil, translate(err, "tag")
	}

	publish(ctx, s.Events, events.New(events.EntityTag, "updated", tag.ID, tag.Name))
	s.reindex(ctx, id)
	return tag, nil
}

func (s *TagService) Delete(ctx context.Context, id uint) error {
	var affected []uint
	if s.Index != nil {
		ids, err := s.Repo.ProductIDsWithTag(ctx, id)
		if err != nil {
			return err
		}
		affected = ids
	}
	if err := translate(s.Repo.DeleteTag(ctx, id), "tag"); err != nil {
		return err
	}
	publish(ctx, s.Events, events.New(events.EntityTag, "deleted", id, ""))
	reindex(ctx, s.Repo, s.Index, affected)
	return nil
}

func (s *TagService) reindex(ctx context.Context, id uint) {
	if s.Index == nil {
		return
	}
	ids, err := s.Repo.ProductIDsWithTag(ctx, id)
	if err != nil {
		logging.FromContext(ctx).Error("reindex_products_failed", "tag_id", id, "error", err)
		return
	}
	reindex(ctx, s.Repo, s.Index, ids)
}

func (s *TagService) ensureFree(ctx context.Context, name string, self uint) error {
	taken, err := s.Repo.TagNameTaken(ctx, name, self)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: tag %q", ErrConflict, name)
	}
	return nil
}
