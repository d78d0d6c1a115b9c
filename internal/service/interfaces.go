package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/mealwise/mealwise-backend/internal/models"
	"github.com/mealwise/mealwise-backend/internal/types"
)

// EmbeddingClientInterface turns text into a fixed-length vector. An empty
// vector signals provider failure; implementations never panic into the
// router.
type EmbeddingClientInterface interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// CompletionClientInterface is a chat/completion provider. Primary and
// secondary providers are interchangeable behind this.
type CompletionClientInterface interface {
	Complete(ctx context.Context, systemPrompt, userMessage string, temperature float64) (string, error)
	Name() string
}

// WebAnswerInterface answers a prompt grounded in live web search.
type WebAnswerInterface interface {
	Answer(ctx context.Context, prompt string) (*types.WebAnswer, error)
}

// RouteStoreInterface reads the seeded intent routes. The write path is the
// offline seeding command.
type RouteStoreInterface interface {
	ListRoutes(ctx context.Context) ([]models.IntentRoute, error)
}

// NutritionProvider resolves one normalized item to macro data. A nil
// result with nil error means the provider has nothing for this item.
type NutritionProvider interface {
	Name() string
	Resolve(ctx context.Context, item types.NormalizedItem) (*types.MacroResult, error)
}

// NormalizerInterface converts raw meal text into structured food mentions.
type NormalizerInterface interface {
	Normalize(ctx context.Context, message string) []types.NormalizedItem
}

// MacroLookupInterface runs the provider cascade for a whole meal.
type MacroLookupInterface interface {
	Lookup(ctx context.Context, items []types.NormalizedItem) types.LookupResult
}

// MealCommitInterface persists a confirmed meal.
type MealCommitInterface interface {
	Commit(ctx context.Context, view *types.VerificationView, userID uuid.UUID, edits []types.MacroResult) (string, error)
}
