package ecommerce_routes

import (
	"time"

	"github.com/gin-gonic/gin"
	store_category "github.com/kitcomfeedback-cell/kitchen-store/controllers/ecommerce/category_controller"
	store_filter "github.com/kitcomfeedback-cell/kitchen-store/controllers/ecommerce/filter_controller"
	store_product "github.com/kitcomfeedback-cell/kitchen-store/controllers/ecommerce/product_controller"
	"github.com/kitcomfeedback-cell/kitchen-store/middleware"
	"github.com/kitcomfeedback-cell/kitchen-store/storefront"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type StorefrontDeps struct {
	Service *storefront.Service
	Log     *zap.Logger
	// Redis enables rate limiting when set.
	Redis      redis.Cmdable
	RateLimit  int
	RateWindow time.Duration
}

func SetupStorefrontRoutes(router *gin.RouterGroup, deps StorefrontDeps) {
	products := store_product.New(deps.Service, deps.Log)
	categories := store_category.New(deps.Service, deps.Log)
	filters := store_filter.New(deps.Service, deps.Log)

	// Storefront routes (public, no auth required)
	store := router.Group("/store")
	store.Use(middleware.TabIdentity())
	if deps.Redis != nil && deps.RateLimit > 0 {
		store.Use(middleware.RateLimiter(deps.Redis, deps.RateLimit, deps.RateWindow, deps.Log))
	}

	// Product routes
	productRoutes := store.Group("/products")
	{
		productRoutes.GET("", products.GetStorefrontProducts)        // Activate selector
		productRoutes.GET("/suggestions", products.GetSuggestions)   // Autocomplete
		productRoutes.POST("/more", products.LoadMoreProducts)       // Infinite scroll
		productRoutes.POST("/sort", products.SortProducts)           // Secondary sort
		productRoutes.GET("/:id", products.GetStorefrontProductByID) // Single product
	}

	// Session routes
	sessionRoutes := store.Group("/session")
	{
		sessionRoutes.GET("/restore", products.RestoreSession)
		sessionRoutes.POST("/scroll", products.SaveScroll)
		sessionRoutes.POST("/navigate", products.NavigateToProduct)
		sessionRoutes.POST("/events", products.DispatchEvent)
		sessionRoutes.DELETE("", products.ResetSession)
	}

	// Category routes
	categoryRoutes := store.Group("/categories")
	{
		categoryRoutes.GET("", categories.GetCategories)
		categoryRoutes.GET("/:name", categories.GetCategoryByName)
	}

	store.GET("/filters/metadata", filters.GetFilterMetadata)
	store.GET("/price-ranges", filters.GetPriceRanges)
}
