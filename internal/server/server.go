package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mealwise/mealwise-backend/config"
	"github.com/mealwise/mealwise-backend/internal/api"
	"github.com/mealwise/mealwise-backend/internal/database"
	"github.com/mealwise/mealwise-backend/internal/middleware"
	"github.com/mealwise/mealwise-backend/internal/router"
	"github.com/mealwise/mealwise-backend/internal/service"
	"github.com/mealwise/mealwise-backend/internal/types"
)

// Server wires the full chat pipeline behind an HTTP listener.
type Server struct {
	engine *gin.Engine
	http   *http.Server
	logger *zap.SugaredLogger
}

// New assembles every service from configuration and returns a ready
// server.
func New(cfg *config.Config, rawDB *database.DB, gormDB *gorm.DB, redisClient *redis.Client, logger *zap.SugaredLogger) *Server {
	embedder := service.NewEmbeddingService(cfg.EmbeddingAPIURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModel, logger)
	gemini := service.NewCompletionService("gemini", cfg.GeminiAPIURL, cfg.GeminiAPIKey, cfg.GeminiModel, logger)
	openai := service.NewCompletionService("openai", cfg.OpenAIAPIURL, cfg.OpenAIAPIKey, cfg.OpenAIModel, logger)
	web := service.NewWebAnswerService(cfg.WebSearchAPIURL, cfg.WebSearchAPIKey, cfg.WebSearchModel, logger)

	routeCache := service.NewRouteCache(service.NewGormRouteStore(gormDB), logger)
	semRouter := service.NewSemanticRouter(embedder, routeCache, cfg.DefaultRoute, logger)
	intent := service.NewIntentService(semRouter, logger)

	nutritionCache := service.NewNutritionCacheStore(redisClient, gormDB, logger)
	resolver := service.NewBrandResolverProvider(gemini, nutritionCache, logger)
	lookup := service.NewMacroLookupService(
		nutritionCache,
		service.NewBrandProvider(),
		service.NewGenericProvider(),
		service.NewLLMMacroProvider(gemini, types.SourceGemini, logger),
		service.NewLLMMacroProvider(openai, types.SourceOpenAI, logger),
		resolver,
		cfg.PrimaryLLMDisabled,
		logger,
	)

	energy := service.NewEnergyService(gormDB, logger)
	chat := service.NewChatService(
		intent,
		service.NewNormalizerService(gemini, logger),
		service.NewPortionResolver(),
		lookup,
		service.NewVerificationBuilder(energy),
		service.NewMealLogService(rawDB, gormDB, logger),
		energy,
		gemini,
		web,
		logger,
	)

	engine := router.SetupRouter(
		api.NewChatHandler(chat),
		api.NewHealthHandler(rawDB, redisClient),
		service.NewTokenService(cfg.JWTSecret),
		middleware.NewChatRateLimiter(redisClient),
		cfg.AllowedOrigins,
		logger,
	)

	return &Server{
		engine: engine,
		http: &http.Server{
			Addr:    fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
			Handler: engine,
		},
		logger: logger,
	}
}

// Start begins serving and blocks until the listener stops.
func (s *Server) Start() error {
	s.logger.Infow("starting server", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
