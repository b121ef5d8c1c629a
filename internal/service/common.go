package service

import (
	"context"
	"strings"
	"time"

	"github.com/Skotchmaster/catalog_api/internal/events"
	"github.com/Skotchmaster/catalog_api/internal/logging"
	"github.com/Skotchmaster/catalog_api/internal/models"
	"github.com/Skotchmaster/catalog_api/internal/repo"
)

const publishTimeout = 5 * time.Second

// Caller is the authenticated principal behind a request.
type Caller struct {
	ID   uint
	Role models.Role
}

func (c Caller) IsAdmin() bool { return c.Role == models.RoleAdmin }

// CanActOn reports whether the caller may modify the user with id.
func (c Caller) CanActOn(id uint) bool {
	return c.IsAdmin() || c.ID == id
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// publish never fails the calling operation; delivery problems are logged.
func publish(ctx context.Context, p events.Publisher, e events.Event) {
	if p == nil {
		return
	}
	pctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := p.Publish(pctx, e); err != nil {
		logging.FromContext(ctx).Error("publish_event_failed", "type", e.Type, "key", e.Key(), "error", err)
	}
}

// reindex refreshes the search documents of products whose tag or category
// names changed. Failures are logged and never fail the caller.
func reindex(ctx context.Context, r *repo.GormRepo, idx ProductIndex, ids []uint) {
	if idx == nil || len(ids) == 0 {
		return
	}
	l := logging.FromContext(ctx)

	products, err := r.ProductsByIDs(ctx, ids)
	if err != nil {
		l.Error("reindex_products_failed", "products", len(ids), "error", err)
		return
	}
	for _, p := range products {
		if err := idx.Index(ctx, p); err != nil {
			l.Error("index_product_failed", "product_id", p.ID, "error", err)
		}
	}
}
