package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormRepo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}

// forUpdate locks the selected rows until the surrounding transaction ends.
// sqlite has no row locks and serialises writers on its own.
func (r *GormRepo) forUpdate(tx *gorm.DB) *gorm.DB {
	if r.DB.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// taken reports whether another row of model already holds value in column.
func (r *GormRepo) taken(ctx context.Context, model any, column, value string, excludeID uint) (bool, error) {
	q := r.DB.WithContext(ctx).Model(model).Where(column+" = ?", value)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// UniqueIDs drops zero and repeated ids, keeping first-seen order.
func UniqueIDs(ids []uint) []uint {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func notFound(what string, ids []uint) error {
	return fmt.Errorf("%w: %s %v", gorm.ErrRecordNotFound, what, ids)
}
