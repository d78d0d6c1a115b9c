package service

import (
	"context"
	"math"

	"go.uber.org/zap"

	"github.com/mealwise/mealwise-backend/internal/models"
	"github.com/mealwise/mealwise-backend/internal/types"
)

// Route names seeded by cmd/seed_routes. RouteGeneralChat is the
// answer-from-knowledge fallback and always exists even with an empty store.
const (
	RouteMealLog      = "meal_log"
	RouteFoodQuestion = "food_question"
	RouteGeneralChat  = "general_chat"
)

// SemanticRouter scores a message against every cached route by cosine
// similarity and classifies confidence with the route's own thresholds.
type SemanticRouter struct {
	embedder     EmbeddingClientInterface
	cache        *RouteCache
	defaultRoute string
	logger       *zap.SugaredLogger
}

// NewSemanticRouter creates a new SemanticRouter instance
func NewSemanticRouter(embedder EmbeddingClientInterface, cache *RouteCache, defaultRoute string, logger *zap.SugaredLogger) *SemanticRouter {
	if defaultRoute == "" {
		defaultRoute = RouteGeneralChat
	}
	return &SemanticRouter{
		embedder:     embedder,
		cache:        cache,
		defaultRoute: defaultRoute,
		logger:       logger,
	}
}

// Route embeds the message and picks the best-matching route. Embedding
// failure degrades to the default route at low confidence; it never fails
// the request.
func (r *SemanticRouter) Route(ctx context.Context, message string) types.RouteDecision {
	vec, err := r.embedder.Embed(ctx, message)
	if err != nil || len(vec) == 0 {
		if err != nil {
			r.logger.Warnw("embedding failed, using default route", "error", err)
		}
		return types.RouteDecision{
			RouteName:  r.defaultRoute,
			Confidence: types.ConfidenceLow,
			Similarity: 0,
			Reasoning:  "embedding failed",
		}
	}

	routes := r.cache.Load(ctx)

	// The default route enters the pool at -1 so any real route with a
	// non-negative score beats it. Its zero thresholds are unreachable: it
	// only wins when no route scored at all.
	best := models.IntentRoute{Name: r.defaultRoute}
	bestSim := -1.0
	for _, route := range routes {
		emb := route.Embedding.Slice()
		if len(emb) == 0 {
			continue
		}
		sim := cosineSimilarity(vec, emb)
		if sim > bestSim {
			best = route
			bestSim = sim
		}
	}

	decision := types.RouteDecision{
		RouteName:  best.Name,
		Similarity: bestSim,
		Reasoning:  "best cosine match",
	}
	switch {
	case bestSim >= best.HiThreshold:
		decision.Confidence = types.ConfidenceHigh
	case bestSim >= best.MidThreshold:
		decision.Confidence = types.ConfidenceMid
	default:
		// Low similarity everywhere means no route is trusted.
		decision.Confidence = types.ConfidenceLow
		decision.RouteName = r.defaultRoute
		decision.Reasoning = "below mid threshold, falling back to default route"
	}

	return decision
}

// cosineSimilarity is dot(a,b) / (|a|*|b|), 0 for zero-norm or mismatched
// vectors.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
