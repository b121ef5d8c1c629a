package handlers

import (
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/catalog_api/internal/logging"
	"github.com/Skotchmaster/catalog_api/internal/models"
	"github.com/Skotchmaster/catalog_api/internal/repo"
	"github.com/Skotchmaster/catalog_api/internal/service"
	"github.com/Skotchmaster/catalog_api/internal/transport"
	"github.com/Skotchmaster/catalog_api/internal/util"
)

type ProductHandler struct {
	Svc *service.CatalogService
}

// ListProducts serves GET /products?categoryId=&ownerId=&tagIds=1,2.
// A product matches tagIds only when it carries every listed tag.
func (h *ProductHandler) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.list_products")

	var f repo.ProductFilter
	if v := c.QueryParam("categoryId"); v != "" {
		id, err := util.ParseID(v)
		if err != nil {
			l.Warn("list_products_failed", "status", http.StatusBadRequest, "reason", "bad categoryId", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "categoryId must be a non-negative integer")
		}
		f.CategoryID = id
	}
	if v := c.QueryParam("ownerId"); v != "" {
		id, err := util.ParseID(v)
		if err != nil {
			l.Warn("list_products_failed", "status", http.StatusBadRequest, "reason", "bad ownerId", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "ownerId must be a non-negative integer")
		}
		f.OwnerID = id
	}
	tagIDs, err := util.ParseIDList(c.QueryParam("tagIds"))
	if err != nil {
		l.Warn("list_products_failed", "status", http.StatusBadRequest, "reason", "bad tagIds", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "tagIds must be a comma separated list of integers")
	}
	if slices.Contains(tagIDs, 0) {
		l.Warn("list_products_failed", "status", http.StatusBadRequest, "reason", "zero tag id")
		return echo.NewHTTPError(http.StatusBadRequest, "tagIds must be positive integers")
	}
	f.TagIDs = tagIDs

	products, err := h.Svc.ListProducts(ctx, f)
	if err != nil {
		return fail(l, "list_products", err)
	}
	if products == nil {
		products = []models.Product{}
	}
	return c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_product")

	id, err := pathID(c, l, "get_product")
	if err != nil {
		return err
	}
	p, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		return fail(l, "get_product", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create_product")

	var req transport.CreateProductRequest
	if err := bind(c, l, "create_product", &req); err != nil {
		return err
	}
	p, err := h.Svc.CreateProduct(ctx, callerFrom(c), req)
	if err != nil {
		return fail(l, "create_product", err)
	}

	l.Info("create_product_success", "product_id", p.ID)
	return c.JSON(http.StatusCreated, p)
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.update_product")

	id, err := pathID(c, l, "update_product")
	if err != nil {
		return err
	}
	var req transport.UpdateProductRequest
	if err := bind(c, l, "update_product", &req); err != nil {
		return err
	}
	p, err := h.Svc.UpdateProduct(ctx, callerFrom(c), id, req)
	if err != nil {
		return fail(l, "update_product", err)
	}

	l.Info("update_product_success", "product_id", p.ID)
	return c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.delete_product")

	id, err := pathID(c, l, "delete_product")
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteProduct(ctx, callerFrom(c), id); err != nil {
		return fail(l, "delete_product", err)
	}

	l.Info("delete_product_success", "product_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *ProductHandler) ProductTags(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.product_tags")

	id, err := pathID(c, l, "product_tags")
	if err != nil {
		return err
	}
	tags, err := h.Svc.ProductTags(ctx, id)
	if err != nil {
		return fail(l, "product_tags", err)
	}
	if tags == nil {
		tags = []models.Tag{}
	}
	return c.JSON(http.StatusOK, tags)
}

// ReplaceTags makes the product's tag set exactly tag_ids; an empty list
// clears it.
func (h *ProductHandler) ReplaceTags(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.replace_tags")

	id, err := pathID(c, l, "replace_tags")
	if err != nil {
		return err
	}
	var req transport.ReplaceTagsRequest
	if err := bind(c, l, "replace_tags", &req); err != nil {
		return err
	}
	p, err := h.Svc.ReplaceTags(ctx, callerFrom(c), id, req.TagIDs)
	if err != nil {
		return fail(l, "replace_tags", err)
	}

	l.Info("replace_tags_success", "product_id", p.ID, "tags", len(p.Tags))
	return c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) AddTags(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.add_tags")

	id, err := pathID(c, l, "add_tags")
	if err != nil {
		return err
	}
	var req transport.TagDeltaRequest
	if err := bind(c, l, "add_tags", &req); err != nil {
		return err
	}
	p, err := h.Svc.AddTags(ctx, callerFrom(c), id, req.TagIDs)
	if err != nil {
		return fail(l, "add_tags", err)
	}

	l.Info("add_tags_success", "product_id", p.ID, "tags", len(p.Tags))
	return c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) RemoveTags(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.remove_tags")

	id, err := pathID(c, l, "remove_tags")
	if err != nil {
		return err
	}
	var req transport.TagDeltaRequest
	if err := bind(c, l, "remove_tags", &req); err != nil {
		return err
	}
	p, err := h.Svc.RemoveTags(ctx, callerFrom(c), id, req.TagIDs)
	if err != nil {
		return fail(l, "remove_tags", err)
	}

	l.Info("remove_tags_success", "product_id", p.ID, "tags", len(p.Tags))
	return c.JSON(http.StatusOK, p)
}

// SetCategory assigns the single category slot; a null category_id clears it.
func (h *ProductHandler) SetCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.set_category")

	id, err := pathID(c, l, "set_category")
	if err != nil {
		return err
	}
	var req transport.SetCategoryRequest
	if err := bind(c, l, "set_category", &req); err != nil {
		return err
	}
	p, err := h.Svc.SetCategory(ctx, callerFrom(c), id, req.CategoryID)
	if err != nil {
		return fail(l, "set_category", err)
	}

	l.Info("set_category_success", "product_id", p.ID)
	return c.JSON(http.StatusOK, p)
}
