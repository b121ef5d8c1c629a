package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/catalog_api/internal/logging"
	"github.com/Skotchmaster/catalog_api/internal/service"
	"github.com/Skotchmaster/catalog_api/internal/transport"
)

type CategoryHandler struct {
	Svc *service.CategoryService
}

func (h *CategoryHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.list")

	cats, err := h.Svc.List(ctx)
	if err != nil {
		return fail(l, "list_categories", err)
	}
	return c.JSON(http.StatusOK, cats)
}

func (h *CategoryHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.get")

	id, err := pathID(c, l, "get_category")
	if err != nil {
		return err
	}
	cat, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "get_category", err)
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *CategoryHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.create")

	var req transport.NameRequest
	if err := bind(c, l, "create_category", &req); err != nil {
		return err
	}
	cat, err := h.Svc.Create(ctx, req.Name)
	if err != nil {
		return fail(l, "create_category", err)
	}

	l.Info("create_category_success", "category_id", cat.ID)
	return c.JSON(http.StatusCreated, cat)
}

func (h *CategoryHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.update")

	id, err := pathID(c, l, "update_category")
	if err != nil {
		return err
	}
	var req transport.NameRequest
	if err := bind(c, l, "update_category", &req); err != nil {
		return err
	}
	cat, err := h.Svc.Rename(ctx, id, req.Name)
	if err != nil {
		return fail(l, "update_category", err)
	}

	l.Info("update_category_success", "category_id", cat.ID)
	return c.JSON(http.StatusOK, cat)
}

func (h *CategoryHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.delete")

	id, err := pathID(c, l, "delete_category")
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return fail(l, "delete_category", err)
	}

	l.Info("delete_category_success", "category_id", id)
	return c.NoContent(http.StatusNoContent)
}

type TagHandler struct {
	Svc *service.TagService
}

func (h *TagHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tag.list")

	tags, err := h.Svc.List(ctx)
	if err != nil {
		return fail(l, "list_tags", err)
	}
	return c.JSON(http.StatusOK, tags)
}

func (h *TagHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tag.get")

	id, err := pathID(c, l, "get_tag")
	if err != nil {
		return err
	}
	tag, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "get_tag", err)
	}
	return c.JSON(http.StatusOK, tag)
}

func (h *TagHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tag.create")

	var req transport.NameRequest
	if err := bind(c, l, "create_tag", &req); err != nil {
		return err
	}
	tag, err := h.Svc.Create(ctx, req.Name)
	if err != nil {
		return fail(l, "create_tag", err)
	}

	l.Info("create_tag_success", "tag_id", tag.ID)
	return c.JSON(http.StatusCreated, tag)
}

func (h *TagHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tag.update")

	id, err := pathID(c, l, "update_tag")
	if err != nil {
		return err
	}
	var req transport.NameRequest
	if err := bind(c, l, "update_tag", &req); err != nil {
		return err
	}
	tag, err := h.Svc.Rename(ctx, id, req.Name)
	if err != nil {
		return fail(l, "update_tag", err)
	}

	l.Info("update_tag_success", "tag_id", tag.ID)
	return c.JSON(http.StatusOK, tag)
}

func (h *TagHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tag.delete")

	id, err := pathID(c, l, "delete_tag")
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return fail(l, "delete_tag", err)
	}

	l.Info("delete_tag_success", "tag_id", id)
	return c.NoContent(http.StatusNoContent)
}
