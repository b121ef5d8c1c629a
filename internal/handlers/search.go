package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/catalog_api/internal/logging"
	"github.com/Skotchmaster/catalog_api/internal/models"
	"github.com/Skotchmaster/catalog_api/internal/service"
	"github.com/Skotchmaster/catalog_api/internal/transport"
	"github.com/Skotchmaster/catalog_api/internal/util"
)

type SearchHandler struct {
	Svc *service.CatalogService
}

// Search serves GET /products/search?q=&page=&size= as a paged response.
func (h *SearchHandler) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "search.search")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	res, err := h.Svc.Search(ctx, c.QueryParam("q"), page, size)
	if err != nil {
		return fail(l, "search_products", err)
	}

	items := res.Items
	if items == nil {
		items = []models.Product{}
	}
	pages := util.TotalPages(res.Total, res.Size)
	return c.JSON(http.StatusOK, transport.Page[models.Product]{
		Data: items,
		Meta: transport.PageMeta{
			Page:       res.Page,
			Size:       res.Size,
			Total:      res.Total,
			TotalPages: pages,
			HasPrev:    res.Page > 1,
			HasNext:    int64(res.Page) < pages,
		},
	})
}
