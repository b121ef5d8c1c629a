package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/catalog_api/internal/models"
)

func (r *GormRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&cats).Error; err != nil {
		return nil, err
	}
	return cats, nil
}

func (r *GormRepo) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	var cat models.Category
	if err := r.DB.WithContext(ctx).First(&cat, id).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

func (r *GormRepo) CategoryNameTaken(ctx context.Context, name string, excludeID uint) (bool, error) {
	return r.taken(ctx, &models.Category{}, "name", name, excludeID)
}

func (r *GormRepo) CreateCategory(ctx context.Context, cat *models.Category) error {
	return r.DB.WithContext(ctx).Create(cat).Error
}

func (r *GormRepo) RenameCategory(ctx context.Context, id uint, name string) (*models.Category, error) {
	var cat models.Category
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&cat, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&cat).Update("name", name).Error; err != nil {
			return err
		}
		cat.Name = name
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// DeleteCategory leaves its products uncategorised.
func (r *GormRepo) DeleteCategory(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cat models.Category
		if err := tx.First(&cat, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Product{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&cat).Error
	})
}
