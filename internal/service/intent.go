package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/mealwise/mealwise-backend/internal/types"
)

// DebugPrefix bypasses all classification and makes the pipeline return
// canned data. Not part of the production decision surface; it exists so
// the pipeline can be exercised deterministically.
const DebugPrefix = "!!pipeline"

// fastPathMaxWords is the word count under which a message skips embedding
// entirely, unless it carries a grounding trigger.
const fastPathMaxWords = 4

// groundingTriggers are terms that suggest the user wants cited or recent
// information, disqualifying the fast path.
var groundingTriggers = []string{
	"http", "www.", "cite", "citation", "source", "link",
	"latest", "today", "current", "recent", "news",
	"2023", "2024", "2025", "2026",
}

// webOptOut phrases switch a conversational answer from web-grounded to
// the model's own knowledge.
var webOptOut = []string{
	"no web", "offline", "from memory", "without searching", "don't search",
}

// eatingPhrases mark a message as a loggable meal statement.
var eatingPhrases = []string{
	"i ate", "i had", "i just ate", "i just had", "log ", "add to my log", "i'm eating", "i am eating",
}

// questionPhrases mark a message as an information request, which keeps the
// nutrition pipeline from silently treating it as a meal to log.
var questionPhrases = []string{
	"what are", "what is", "what's", "how many", "how much", "tell me", "do you know", "?",
}

// IntentService wraps the semantic router with fast-path heuristics, the
// web channel choice and the meal-statement vs question distinction.
type IntentService struct {
	router *SemanticRouter
	logger *zap.SugaredLogger
}

// NewIntentService creates a new IntentService instance
func NewIntentService(router *SemanticRouter, logger *zap.SugaredLogger) *IntentService {
	return &IntentService{router: router, logger: logger}
}

// IsDebug reports whether the message invokes the deterministic test path.
func (s *IntentService) IsDebug(message string) bool {
	return strings.HasPrefix(strings.TrimSpace(message), DebugPrefix)
}

// Decide classifies one message. It never returns an error: every failure
// mode inside degrades to the default conversational route.
func (s *IntentService) Decide(ctx context.Context, message string) types.IntentDecision {
	lower := strings.ToLower(strings.TrimSpace(message))
	useWeb := !containsAny(lower, webOptOut)

	// Fast path: short, low-signal messages skip the embedding round trip.
	if wordCount(lower) < fastPathMaxWords && !containsAny(lower, groundingTriggers) {
		return types.IntentDecision{
			Route: types.RouteDecision{
				RouteName:  s.router.defaultRoute,
				Confidence: types.ConfidenceLow,
				Similarity: 0,
				Reasoning:  "fast path: short message without grounding triggers",
			},
			UseWeb:         useWeb,
			Classification: s.router.defaultRoute,
		}
	}

	decision := s.router.Route(ctx, message)

	out := types.IntentDecision{
		Route:          decision,
		UseWeb:         useWeb,
		Classification: decision.RouteName,
	}

	if decision.RouteName == RouteMealLog || decision.RouteName == RouteFoodQuestion {
		// A statement needs an eating-action phrase and no question phrase;
		// "tell me the macros for 4 eggs" must not silently become a log.
		if containsAny(lower, eatingPhrases) && !containsAny(lower, questionPhrases) {
			out.Classification = RouteMealLog
		} else {
			out.Classification = RouteFoodQuestion
		}
		// The log action is offered either way; classification only moves
		// its prominence.
		out.NeedsCommitAction = true
	}

	return out
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
