package service

import (
	"context"
	"testing"

	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"

	"github.com/mealwise/mealwise-backend/internal/logging"
	"github.com/mealwise/mealwise-backend/internal/models"
	"github.com/mealwise/mealwise-backend/internal/types"
)

type stubEmbedder struct {
	vec    []float32
	err    error
	called bool
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	s.called = true
	return s.vec, s.err
}

func testRoutes() []models.IntentRoute {
	return []models.IntentRoute{
		{Name: RouteMealLog, Embedding: pgvector.NewVector([]float32{1, 0, 0, 0}), HiThreshold: 0.85, MidThreshold: 0.60},
		{Name: RouteFoodQuestion, Embedding: pgvector.NewVector([]float32{0, 1, 0, 0}), HiThreshold: 0.85, MidThreshold: 0.60},
		{Name: RouteGeneralChat, Embedding: pgvector.NewVector([]float32{0, 0, 1, 0}), HiThreshold: 0.80, MidThreshold: 0.55},
	}
}

func newTestRouter(embedder EmbeddingClientInterface) *SemanticRouter {
	cache := NewRouteCache(&countingRouteStore{routes: testRoutes()}, logging.Nop())
	return NewSemanticRouter(embedder, cache, RouteGeneralChat, logging.Nop())
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 2, 3}, []float32{1, 2, 3}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	assert.Equal(t, 0.0, cosineSimilarity([]float32{0, 0}, []float32{1, 0}))
	assert.Equal(t, 0.0, cosineSimilarity([]float32{1}, []float32{1, 0}))
	assert.Equal(t, 0.0, cosineSimilarity(nil, []float32{1}))
}

func TestSemanticRouter_HighConfidenceMatch(t *testing.T) {
	router := newTestRouter(&stubEmbedder{vec: []float32{1, 0, 0, 0}})

	decision := router.Route(context.Background(), "I ate 2 eggs and toast")
	assert.Equal(t, RouteMealLog, decision.RouteName)
	assert.Equal(t, types.ConfidenceHigh, decision.Confidence)
	assert.InDelta(t, 1.0, decision.Similarity, 1e-6)
}

func TestSemanticRouter_MidConfidenceMatch(t *testing.T) {
	// cos with the meal_log anchor is 0.7: above mid, below hi. The other
	// components keep every other route below its own mid threshold.
	router := newTestRouter(&stubEmbedder{vec: []float32{0.7, 0.505, 0.505, 0}})

	decision := router.Route(context.Background(), "eggs maybe")
	assert.Equal(t, RouteMealLog, decision.RouteName)
	assert.Equal(t, types.ConfidenceMid, decision.Confidence)
}

func TestSemanticRouter_LowSimilarityFallsBackToDefault(t *testing.T) {
	// Mostly off-axis: every route scores ~0.29, below every mid threshold.
	router := newTestRouter(&stubEmbedder{vec: []float32{0.3, 0.3, 0.3, 0.9}})

	decision := router.Route(context.Background(), "mumble mumble")
	assert.Equal(t, RouteGeneralChat, decision.RouteName)
	assert.Equal(t, types.ConfidenceLow, decision.Confidence)
}

func TestSemanticRouter_ZeroThresholdRouteStillClassifies(t *testing.T) {
	// A route seeded with zero thresholds accepts any non-negative match;
	// sim >= hi means high even when hi is 0.
	routes := []models.IntentRoute{
		{Name: RouteMealLog, Embedding: pgvector.NewVector([]float32{1, 0, 0, 0})},
	}
	cache := NewRouteCache(&countingRouteStore{routes: routes}, logging.Nop())
	router := NewSemanticRouter(&stubEmbedder{vec: []float32{1, 0, 0, 0}}, cache, RouteGeneralChat, logging.Nop())

	decision := router.Route(context.Background(), "I ate 2 eggs")
	assert.Equal(t, RouteMealLog, decision.RouteName)
	assert.Equal(t, types.ConfidenceHigh, decision.Confidence)
}

func TestSemanticRouter_EmbeddingFailureDegrades(t *testing.T) {
	router := newTestRouter(&stubEmbedder{err: assert.AnError})

	decision := router.Route(context.Background(), "anything at all here")
	assert.Equal(t, RouteGeneralChat, decision.RouteName)
	assert.Equal(t, types.ConfidenceLow, decision.Confidence)
	assert.Equal(t, "embedding failed", decision.Reasoning)
}

func TestSemanticRouter_EmptyStoreUsesDefault(t *testing.T) {
	cache := NewRouteCache(&countingRouteStore{}, logging.Nop())
	router := NewSemanticRouter(&stubEmbedder{vec: []float32{1, 0, 0, 0}}, cache, RouteGeneralChat, logging.Nop())

	decision := router.Route(context.Background(), "I ate 2 eggs and toast")
	assert.Equal(t, RouteGeneralChat, decision.RouteName)
	assert.Equal(t, types.ConfidenceLow, decision.Confidence)
}
