package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/catalog_api/internal/models"
)

// ProductFilter narrows ListProducts. Zero ids and an empty TagIDs
// slice mean "no restriction".
type ProductFilter struct {
	CategoryID uint
	OwnerID    uint
	TagIDs     []uint
}

func (r *GormRepo) withRelations(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).
		Preload("Category").
		Preload("Owner").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") })
}

// ListProducts returns the products matching f. When f.TagIDs is set only
// products carrying every one of those tags are returned, and each product's
// Tags is cut down to the requested ones.
func (r *GormRepo) ListProducts(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	q := r.withRelations(ctx).Model(&models.Product{})

	if f.CategoryID != 0 {
		q = q.Where("products.category_id = ?", f.CategoryID)
	}
	if f.OwnerID != 0 {
		q = q.Where("products.owner_id = ?", f.OwnerID)
	}

	tagIDs := UniqueIDs(f.TagIDs)
	if len(tagIDs) > 0 {
		hasAll := r.DB.WithContext(ctx).
			Table("product_tags").
			Select("product_id").
			Where("tag_id IN ?", tagIDs).
			Group("product_id").
			Having("COUNT(DISTINCT tag_id) = ?", len(tagIDs))
		q = q.Where("products.id IN (?)", hasAll)
	}

	products := make([]models.Product, 0)
	if err := q.Order("products.id ASC").Find(&products).Error; err != nil {
		return nil, err
	}

	if len(tagIDs) > 0 {
		TrimTags(products, tagIDs)
	}
	return products, nil
}

// TrimTags keeps only the tags listed in ids on every product, in place.
func TrimTags(products []models.Product, ids []uint) {
	keep := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		keep[id] = struct{}{}
	}
	for i := range products {
		tags := products[i].Tags[:0]
		for _, t := range products[i].Tags {
			if _, ok := keep[t.ID]; ok {
				tags = append(tags, t)
			}
		}
		products[i].Tags = tags
	}
}

func (r *GormRepo) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.withRelations(ctx).First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormRepo) ProductsByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	ids = UniqueIDs(ids)
	if len(ids) == 0 {
		return []models.Product{}, nil
	}

	var found []models.Product
	if err := r.withRelations(ctx).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]models.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	out := make([]models.Product, 0, len(found))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *GormRepo) ProductNameTaken(ctx context.Context, name string, excludeID uint) (bool, error) {
	return r.taken(ctx, &models.Product{}, "name", name, excludeID)
}

// CreateProduct inserts prod attached to tagIDs. Every tag and the category,
// when set, must already exist.
func (r *GormRepo) CreateProduct(ctx context.Context, prod *models.Product, tagIDs []uint) (*models.Product, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if prod.CategoryID != nil {
			if err := tx.Select("id").First(&models.Category{}, *prod.CategoryID).Error; err != nil {
				return err
			}
		}
		tags, err := findTags(tx, tagIDs)
		if err != nil {
			return err
		}
		prod.Tags = tags
		return tx.Create(prod).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetProduct(ctx, prod.ID)
}

// UpdateProduct writes the given scalar columns of an existing product.
func (r *GormRepo) UpdateProduct(ctx context.Context, id uint, fields map[string]any) (*models.Product, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var prod models.Product
		if err := r.forUpdate(tx).First(&prod, id).Error; err != nil {
			return err
		}
		if len(fields) == 0 {
			return nil
		}
		return tx.Model(&prod).Updates(fields).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetProduct(ctx, id)
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var prod models.Product
		if err := tx.First(&prod, id).Error; err != nil {
			return err
		}
		return tx.Select("Tags").Delete(&prod).Error
	})
}

func (r *GormRepo) ProductTags(ctx context.Context, id uint) ([]models.Tag, error) {
	prod, err := r.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	return prod.Tags, nil
}

// ReplaceProductTags makes tagIDs the product's whole tag set.
func (r *GormRepo) ReplaceProductTags(ctx context.Context, id uint, tagIDs []uint) (*models.Product, error) {
	return r.updateProductTags(ctx, id, tagIDs, func(_, requested []models.Tag) []models.Tag {
		return requested
	})
}

// AddProductTags unions tagIDs into the product's tag set.
func (r *GormRepo) AddProductTags(ctx context.Context, id uint, tagIDs []uint) (*models.Product, error) {
	return r.updateProductTags(ctx, id, tagIDs, func(current, requested []models.Tag) []models.Tag {
		have := make(map[uint]struct{}, len(current))
		next := make([]models.Tag, 0, len(current)+len(requested))
		for _, t := range current {
			have[t.ID] = struct{}{}
			next = append(next, t)
		}
		for _, t := range requested {
			if _, ok := have[t.ID]; !ok {
				next = append(next, t)
			}
		}
		return next
	})
}

// RemoveProductTags drops tagIDs from the product's tag set.
func (r *GormRepo) RemoveProductTags(ctx context.Context, id uint, tagIDs []uint) (*models.Product, error) {
	return r.updateProductTags(ctx, id, tagIDs, func(current, requested []models.Tag) []models.Tag {
		drop := make(map[uint]struct{}, len(requested))
		for _, t := range requested {
			drop[t.ID] = struct{}{}
		}
		next := make([]models.Tag, 0, len(current))
		for _, t := range current {
			if _, ok := drop[t.ID]; !ok {
				next = append(next, t)
			}
		}
		return next
	})
}

type tagMerge func(current, requested []models.Tag) []models.Tag

// updateProductTags reads the product and its tags, merges in memory and
// replaces the relation, all inside one transaction holding the product row.
func (r *GormRepo) updateProductTags(ctx context.Context, id uint, tagIDs []uint, merge tagMerge) (*models.Product, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var prod models.Product
		if err := r.forUpdate(tx).First(&prod, id).Error; err != nil {
			return err
		}

		var current []models.Tag
		if err := tx.Model(&prod).Association("Tags").Find(&current); err != nil {
			return err
		}

		requested, err := findTags(tx, tagIDs)
		if err != nil {
			return err
		}

		next := merge(current, requested)
		if len(next) == 0 {
			return tx.Model(&prod).Association("Tags").Clear()
		}
		return tx.Model(&prod).Association("Tags").Replace(next)
	})
	if err != nil {
		return nil, err
	}
	return r.GetProduct(ctx, id)
}

// SetProductCategory assigns the product's single category slot; nil clears it.
func (r *GormRepo) SetProductCategory(ctx context.Context, id uint, categoryID *uint) (*models.Product, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var prod models.Product
		if err := r.forUpdate(tx).First(&prod, id).Error; err != nil {
			return err
		}

		var value any
		if categoryID != nil {
			if err := tx.Select("id").First(&models.Category{}, *categoryID).Error; err != nil {
				return err
			}
			value = *categoryID
		}
		return tx.Model(&prod).Update("category_id", value).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetProduct(ctx, id)
}

// SearchProducts is the database fallback for full-text search: a
// case-insensitive substring match over name and description.
func (r *GormRepo) SearchProducts(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error) {
	pattern := "%" + escapeLike(strings.ToLower(strings.TrimSpace(q))) + "%"
	where := "LOWER(name) LIKE ? ESCAPE '\\' OR LOWER(description) LIKE ? ESCAPE '\\'"

	var total int64
	if err := r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Where(where, pattern, pattern).
		Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Product, 0, limit)
	if err := r.withRelations(ctx).
		Model(&models.Product{}).
		Where(where, pattern, pattern).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}

	return total, items, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// ProductIDsWithTag lists the products currently carrying tagID.
func (r *GormRepo) ProductIDsWithTag(ctx context.Context, tagID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.WithContext(ctx).
		Table("product_tags").
		Where("tag_id = ?", tagID).
		Order("product_id ASC").
		Pluck("product_id", &ids).Error
	return ids, err
}

// ProductIDsInCategory lists the products assigned to categoryID.
func (r *GormRepo) ProductIDsInCategory(ctx context.Context, categoryID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Where("category_id = ?", categoryID).
		Order("id ASC").
		Pluck("id", &ids).Error
	return ids, err
}
