package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/catalog_api/internal/db"
	"github.com/Skotchmaster/catalog_api/internal/logging"
)

type HealthHandler struct {
	DB *gorm.DB
}

func (h *HealthHandler) Live(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

// Ready reports 503 until the database answers a ping.
func (h *HealthHandler) Ready(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := db.Ping(ctx, h.DB); err != nil {
		logging.FromContext(ctx).Warn("readiness_failed", "status", http.StatusServiceUnavailable, "error", err)
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "unavailable"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
