package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mealwise/mealwise-backend/config"
	"github.com/mealwise/mealwise-backend/internal/database"
	"github.com/mealwise/mealwise-backend/internal/logging"
	"github.com/mealwise/mealwise-backend/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(string(config.GetEnvironment()))
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	rawDB, err := database.New(cfg)
	if err != nil {
		logger.Fatalw("failed to connect to database", "error", err)
	}
	defer rawDB.Close()

	gormDB, err := database.NewGorm(cfg)
	if err != nil {
		logger.Fatalw("failed to open gorm connection", "error", err)
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		logger.Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	srv := server.New(cfg, rawDB, gormDB, redisClient, logger)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logger.Fatalw("server error", "error", err)
		}
	case sig := <-quit:
		logger.Infow("received signal, shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalw("server shutdown error", "error", err)
	}
	logger.Info("server stopped")
}
