package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flavorforge/backend/internal/api"
	"github.com/flavorforge/backend/internal/middleware"
)

// SetupRouter configures the application routes
func SetupRouter(
	authHandler *api.AuthHandler,
	recipeHandler *api.RecipeHandler,
	inventoryHandler *api.InventoryHandler,
	validator middleware.TokenValidator,
	rateLimiter *middleware.RateLimiter,
) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORS())

	router.GET("/", api.Welcome)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public auth routes
	authHandler.RegisterRoutes(v1)

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(validator))
	{
		authHandler.RegisterProtectedRoutes(protected)

		var rateLimit gin.HandlerFunc
		if rateLimiter != nil {
			rateLimit = rateLimiter.RateLimitMiddleware()
		}
		recipeHandler.RegisterRoutes(protected, rateLimit)
		inventoryHandler.RegisterRoutes(protected)
	}

	return router
}
