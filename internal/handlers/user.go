package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/catalog_api/internal/logging"
	"github.com/Skotchmaster/catalog_api/internal/models"
	"github.com/Skotchmaster/catalog_api/internal/service"
	"github.com/Skotchmaster/catalog_api/internal/transport"
)

type UserHandler struct {
	Svc *service.UserService
}

func (h *UserHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.list")

	users, err := h.Svc.List(ctx)
	if err != nil {
		return fail(l, "list_users", err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *UserHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.get")

	id, err := pathID(c, l, "get_user")
	if err != nil {
		return err
	}
	user, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "get_user", err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.create")

	var req transport.CreateUserRequest
	if err := bind(c, l, "create_user", &req); err != nil {
		return err
	}
	user, err := h.Svc.Create(ctx, req)
	if err != nil {
		return fail(l, "create_user", err)
	}

	l.Info("create_user_success", "user_id", user.ID, "role", user.Role)
	return c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.update")

	id, err := pathID(c, l, "update_user")
	if err != nil {
		return err
	}
	var req transport.UpdateUserRequest
	if err := bind(c, l, "update_user", &req); err != nil {
		return err
	}
	user, err := h.Svc.Update(ctx, callerFrom(c), id, req)
	if err != nil {
		return fail(l, "update_user", err)
	}

	l.Info("update_user_success", "user_id", user.ID)
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) SetRole(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.set_role")

	id, err := pathID(c, l, "set_role")
	if err != nil {
		return err
	}
	var req transport.UpdateRoleRequest
	if err := bind(c, l, "set_role", &req); err != nil {
		return err
	}
	user, err := h.Svc.SetRole(ctx, id, models.Role(req.Role))
	if err != nil {
		return fail(l, "set_role", err)
	}

	l.Info("set_role_success", "user_id", user.ID, "role", user.Role)
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.delete")

	id, err := pathID(c, l, "delete_user")
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(ctx, callerFrom(c), id); err != nil {
		return fail(l, "delete_user", err)
	}

	l.Info("delete_user_success", "user_id", id)
	return c.NoContent(http.StatusNoContent)
}
