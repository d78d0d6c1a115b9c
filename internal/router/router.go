package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mealwise/mealwise-backend/internal/api"
	"github.com/mealwise/mealwise-backend/internal/middleware"
)

// SetupRouter configures the application routes
func SetupRouter(
	chatHandler *api.ChatHandler,
	healthHandler *api.HealthHandler,
	validator middleware.TokenValidator,
	rateLimiter *middleware.RateLimiter,
	allowedOrigins []string,
	logger *zap.SugaredLogger,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.CORS(allowedOrigins))

	healthHandler.RegisterRoutes(router)

	v1 := router.Group("/api/v1")
	v1.Use(middleware.Auth(validator))
	if rateLimiter != nil {
		v1.Use(rateLimiter.RateLimitMiddleware())
	}
	chatHandler.RegisterRoutes(v1)

	return router
}
