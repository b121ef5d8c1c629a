package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/catalog_api/internal/models"
)

func (r *GormRepo) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *GormRepo) GetTag(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := r.DB.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *GormRepo) TagNameTaken(ctx context.Context, name string, excludeID uint) (bool, error) {
	return r.taken(ctx, &models.Tag{}, "name", name, excludeID)
}

func (r *GormRepo) CreateTag(ctx context.Context, tag *models.Tag) error {
	return r.DB.WithContext(ctx).Create(tag).Error
}

func (r *GormRepo) RenameTag(ctx context.Context, id uint, name string) (*models.Tag, error) {
	var tag models.Tag
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&tag, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&tag).Update("name", name).Error; err != nil {
			return err
		}
		tag.Name = name
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// DeleteTag detaches the tag from every product before removing it.
func (r *GormRepo) DeleteTag(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tag models.Tag
		if err := tx.First(&tag, id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM product_tags WHERE tag_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&tag).Error
	})
}

// findTags loads every tag in ids and fails when any of them is missing.
func findTags(tx *gorm.DB, ids []uint) ([]models.Tag, error) {
	ids = UniqueIDs(ids)
	if len(ids) == 0 {
		return nil, nil
	}

	var tags []models.Tag
	if err := tx.Where("id IN ?", ids).Order("id ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	if len(tags) == len(ids) {
		return tags, nil
	}

	found := make(map[uint]struct{}, len(tags))
	for _, t := range tags {
		found[t.ID] = struct{}{}
	}
	var missing []uint
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	return nil, notFound("tags", missing)
}
