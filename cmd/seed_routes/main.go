package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm/clause"

	"github.com/mealwise/mealwise-backend/config"
	"github.com/mealwise/mealwise-backend/internal/database"
	"github.com/mealwise/mealwise-backend/internal/logging"
	"github.com/mealwise/mealwise-backend/internal/models"
	"github.com/mealwise/mealwise-backend/internal/service"
)

// seedRoute is one intent route to embed and store.
type seedRoute struct {
	Name         string
	Examples     []string
	HiThreshold  float64
	MidThreshold float64
}

var seedRoutes = []seedRoute{
	{
		Name:         service.RouteMealLog,
		HiThreshold:  0.85,
		MidThreshold: 0.60,
		Examples: []string{
			"I ate 2 eggs and toast for breakfast",
			"I had a chicken salad with avocado for lunch",
			"Log a protein bar and a banana",
			"I just had a bowl of oatmeal with milk",
			"Add 200g of salmon and rice to my log",
			"I'm eating a Fage greek yogurt right now",
		},
	},
	{
		Name:         service.RouteFoodQuestion,
		HiThreshold:  0.85,
		MidThreshold: 0.60,
		Examples: []string{
			"How many calories are in 2 eggs?",
			"What are the macros for a slice of toast?",
			"How much protein does a chicken breast have?",
			"Tell me the carbs in a cup of cooked rice",
			"Is a Quest bar high in fiber?",
			"What's the fat content of an avocado?",
		},
	},
	{
		Name:         service.RouteGeneralChat,
		HiThreshold:  0.80,
		MidThreshold: 0.55,
		Examples: []string{
			"Hey, how are you?",
			"What should I cook tonight?",
			"Any tips for eating healthier?",
			"Thanks, that was helpful",
			"Can you suggest a high-protein breakfast?",
		},
	},
}

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

	db, err := database.NewGorm(cfg)
	if err != nil {
		logger.Fatalw("failed to connect to database", "error", err)
	}

	embedder := service.NewEmbeddingService(cfg.EmbeddingAPIURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModel, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	for _, route := range seedRoutes {
		centroid, err := embedCentroid(ctx, embedder, route.Examples)
		if err != nil {
			logger.Fatalw("failed to embed route examples", "route", route.Name, "error", err)
		}

		row := models.IntentRoute{
			Name:         route.Name,
			ExampleTexts: models.ExampleTextList(route.Examples),
			Embedding:    pgvector.NewVector(centroid),
			HiThreshold:  route.HiThreshold,
			MidThreshold: route.MidThreshold,
		}
		err = db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"example_texts", "embedding", "hi_threshold", "mid_threshold",
			}),
		}).Create(&row).Error
		if err != nil {
			logger.Fatalw("failed to upsert route", "route", route.Name, "error", err)
		}
		logger.Infow("seeded route", "route", route.Name, "examples", len(route.Examples))
	}

	logger.Info("route seeding complete")
}

// embedCentroid embeds every example and averages the vectors into one
// route representative. The provider must return same-length vectors for
// the whole route; a mismatch means the centroid would be garbage.
func embedCentroid(ctx context.Context, embedder service.EmbeddingClientInterface, examples []string) ([]float32, error) {
	if len(examples) == 0 {
		return nil, fmt.Errorf("route has no example texts")
	}

	var sum []float32
	for _, text := range examples {
		vec, err := embedder.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		if len(vec) == 0 {
			return nil, fmt.Errorf("empty embedding for %q", text)
		}
		if sum == nil {
			sum = make([]float32, len(vec))
		} else if len(vec) != len(sum) {
			return nil, fmt.Errorf("embedding length changed mid-route for %q: got %d, want %d", text, len(vec), len(sum))
		}
		for i := range vec {
			sum[i] += vec[i]
		}
	}

	n := float32(len(examples))
	for i := range sum {
		sum[i] /= n
	}
	return sum, nil
}
