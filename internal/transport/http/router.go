package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/catalog_api/internal/handlers"
	authmw "github.com/Skotchmaster/catalog_api/internal/middleware/auth"
	"github.com/Skotchmaster/catalog_api/internal/models"
)

type Deps struct {
	Guard           *authmw.Guard
	HealthHandler   *handlers.HealthHandler
	AuthHandler     *handlers.AuthHandler
	UserHandler     *handlers.UserHandler
	ProductHandler  *handlers.ProductHandler
	SearchHandler   *handlers.SearchHandler
	CategoryHandler *handlers.CategoryHandler
	TagHandler      *handlers.TagHandler
}

// Policy is the role table for every guarded route. Routes not listed
// accept any authenticated user.
func Policy() authmw.Policy {
	admin := models.RoleAdmin
	p := authmw.Policy{}

	p.Allow(http.MethodGet, "/users", admin)
	p.Allow(http.MethodPost, "/users", admin)
	p.Allow(http.MethodPatch, "/users/:id/role", admin)

	p.Allow(http.MethodGet, "/categories", admin)
	p.Allow(http.MethodPost, "/categories", admin)
	p.Allow(http.MethodGet, "/categories/:id", admin)
	p.Allow(http.MethodPatch, "/categories/:id", admin)
	p.Allow(http.MethodDelete, "/categories/:id", admin)

	p.Allow(http.MethodPost, "/tags", admin)
	p.Allow(http.MethodPatch, "/tags/:id", admin)
	p.Allow(http.MethodDelete, "/tags/:id", admin)

	return p
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", d.HealthHandler.Live)
	e.GET("/health/ready", d.HealthHandler.Ready)

	authGroup := e.Group("/auth")
	authGroup.POST("/register", d.AuthHandler.Register)
	authGroup.POST("/login", d.AuthHandler.Login)
	authGroup.GET("/status", d.AuthHandler.Status, d.Guard.RequireAuth)
	authGroup.POST("/logout", d.AuthHandler.Logout, d.Guard.RequireAuth)

	products := e.Group("/products", d.Guard.RequireAuth)
	products.GET("", d.ProductHandler.ListProducts)
	products.POST("", d.ProductHandler.CreateProduct)
	products.GET("/search", d.SearchHandler.Search)
	products.GET("/:id", d.ProductHandler.GetProduct)
	products.PATCH("/:id", d.ProductHandler.UpdateProduct)
	products.DELETE("/:id", d.ProductHandler.DeleteProduct)
	products.GET("/:id/tags", d.ProductHandler.ProductTags)
	products.PATCH("/:id/tags", d.ProductHandler.ReplaceTags)
	products.POST("/:id/tags", d.ProductHandler.AddTags)
	products.DELETE("/:id/tags", d.ProductHandler.RemoveTags)
	products.PUT("/:id/category", d.ProductHandler.SetCategory)

	categories := e.Group("/categories", d.Guard.RequireAuth)
	categories.GET("", d.CategoryHandler.List)
	categories.POST("", d.CategoryHandler.Create)
	categories.GET("/:id", d.CategoryHandler.Get)
	categories.PATCH("/:id", d.CategoryHandler.Update)
	categories.DELETE("/:id", d.CategoryHandler.Delete)

	tags := e.Group("/tags", d.Guard.RequireAuth)
	tags.GET("", d.TagHandler.List)
	tags.POST("", d.TagHandler.Create)
	tags.GET("/:id", d.TagHandler.Get)
	tags.PATCH("/:id", d.TagHandler.Update)
	tags.DELETE("/:id", d.TagHandler.Delete)

	users := e.Group("/users", d.Guard.RequireAuth)
	users.GET("", d.UserHandler.List)
	users.POST("", d.UserHandler.Create)
	users.GET("/:id", d.UserHandler.Get)
	users.PATCH("/:id", d.UserHandler.Update)
	users.DELETE("/:id", d.UserHandler.Delete)
	users.PATCH("/:id/role", d.UserHandler.SetRole)
}
