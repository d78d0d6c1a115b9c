package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mealwise/mealwise-backend/internal/types"
)

const conversationalSystemPrompt = `You are a friendly nutrition assistant.
Answer briefly and practically. Stay on food, nutrition and eating habits;
politely redirect anything else.`

// ChatService is the top of the pipeline: intent decision, then either the
// nutrition resolution path or a conversational answer.
type ChatService struct {
	intent       *IntentService
	normalizer   NormalizerInterface
	portions     *PortionResolver
	lookup       MacroLookupInterface
	verification *VerificationBuilder
	commits      MealCommitInterface
	energy       *EnergyService
	llm          CompletionClientInterface
	web          WebAnswerInterface
	logger       *zap.SugaredLogger
}

// NewChatService creates a new ChatService instance
func NewChatService(
	intent *IntentService,
	normalizer NormalizerInterface,
	portions *PortionResolver,
	lookup MacroLookupInterface,
	verification *VerificationBuilder,
	commits MealCommitInterface,
	energy *EnergyService,
	llm CompletionClientInterface,
	web WebAnswerInterface,
	logger *zap.SugaredLogger,
) *ChatService {
	return &ChatService{
		intent:       intent,
		normalizer:   normalizer,
		portions:     portions,
		lookup:       lookup,
		verification: verification,
		commits:      commits,
		energy:       energy,
		llm:          llm,
		web:          web,
		logger:       logger,
	}
}

// HandleMessage processes one chat message end to end. It always produces a
// reply; provider failures degrade the answer rather than erroring out.
func (s *ChatService) HandleMessage(ctx context.Context, userID uuid.UUID, req types.HandleMessageRequest) *types.HandleMessageResponse {
	if s.intent.IsDebug(req.Message) {
		return s.debugResponse(ctx, userID, req.Message)
	}

	decision := s.intent.Decide(ctx, req.Message)
	s.logger.Infow("message routed",
		"route", decision.Route.RouteName,
		"confidence", decision.Route.Confidence,
		"similarity", decision.Route.Similarity,
		"classification", decision.Classification)

	if decision.NeedsCommitAction {
		return s.handleNutrition(ctx, userID, req.Message, decision)
	}
	return s.handleConversational(ctx, userID, req.Message, decision)
}

// handleNutrition runs normalize, sanitize, portion-resolve, cascade and
// verification for both meal statements and nutrition questions.
func (s *ChatService) handleNutrition(ctx context.Context, userID uuid.UUID, message string, decision types.IntentDecision) *types.HandleMessageResponse {
	items := s.normalizer.Normalize(ctx, message)
	items = SanitizeItems(items)
	items = s.portions.Resolve(items)

	if len(items) == 0 {
		return &types.HandleMessageResponse{
			Reply:      "I couldn't find any foods in that. Could you rephrase, e.g. \"I ate 2 eggs and toast\"?",
			RouteUsed:  decision.Route.RouteName,
			Confidence: decision.Route.Confidence,
		}
	}

	lookup := s.lookup.Lookup(ctx, items)
	view := s.verification.Build(ctx, userID, lookup, decision.Classification)

	reply := s.renderSummary(view, decision.Classification)
	return &types.HandleMessageResponse{
		Reply:      reply,
		RouteUsed:  decision.Route.RouteName,
		Confidence: decision.Route.Confidence,
		RoleData:   view,
	}
}

func (s *ChatService) renderSummary(view *types.VerificationView, classification string) string {
	var b strings.Builder
	if classification == RouteMealLog {
		fmt.Fprintf(&b, "Here's your %s, ready to log:\n", view.MealSlot)
	} else {
		b.WriteString("Here's what I found:\n")
	}
	for _, row := range view.Rows {
		fmt.Fprintf(&b, "- %g %s %s: %d kcal, %dg protein, %dg carbs, %dg fat\n",
			row.Quantity, row.Unit, row.Name, row.Calories, row.ProteinG, row.CarbsG, row.FatG)
	}
	fmt.Fprintf(&b, "Total: %d kcal (%dg protein, %dg carbs, %dg fat). About %d kcal left today.",
		roundInt(view.Totals.Calories), roundInt(view.Totals.ProteinG),
		roundInt(view.Totals.CarbsG), roundInt(view.Totals.FatG),
		roundInt(view.TDEERemaining))
	for _, w := range view.Warnings {
		b.WriteString("\nNote: " + w)
	}
	return b.String()
}

// handleConversational answers from the web channel when selected, falling
// back to the model's own knowledge with a visible disclosure.
func (s *ChatService) handleConversational(ctx context.Context, userID uuid.UUID, message string, decision types.IntentDecision) *types.HandleMessageResponse {
	resp := &types.HandleMessageResponse{
		RouteUsed:  decision.Route.RouteName,
		Confidence: decision.Route.Confidence,
	}

	if decision.UseWeb && s.web != nil {
		answer, err := s.web.Answer(ctx, message)
		if err == nil && answer != nil && answer.Text != "" {
			resp.Reply = answer.Text
			resp.CitationURL = answer.CitationURL
			resp.CitationTitle = answer.CitationTitle
			return resp
		}
		if err != nil {
			s.logger.Warnw("web answer failed, falling back to model knowledge", "error", err)
		}
		resp.Reply = "(web search unavailable, answering from my own knowledge) "
	}

	system := conversationalSystemPrompt
	if s.energy != nil {
		if pref := s.energy.PreferenceText(ctx, userID); pref != "" {
			system += "\nThe user's dietary preferences: " + pref
		}
	}

	text, err := s.llm.Complete(ctx, system, message, 0.7)
	if err != nil {
		s.logger.Errorw("conversational completion failed", "provider", s.llm.Name(), "error", err)
		resp.Reply = "Sorry, I'm having trouble answering right now. Please try again."
		return resp
	}
	resp.Reply += text
	return resp
}

// CommitMeal persists an approved verification view.
func (s *ChatService) CommitMeal(ctx context.Context, userID uuid.UUID, req types.CommitMealRequest) *types.CommitMealResponse {
	logID, err := s.commits.Commit(ctx, &req.View, userID, req.Edits)
	if err != nil {
		s.logger.Errorw("meal commit failed", "user_id", userID, "error", err)
		return &types.CommitMealResponse{OK: false, Error: "failed to save meal"}
	}
	return &types.CommitMealResponse{OK: true, LogID: logID}
}

// debugResponse exercises the full nutrition path with a fixed meal so the
// pipeline can be verified without live providers.
func (s *ChatService) debugResponse(ctx context.Context, userID uuid.UUID, message string) *types.HandleMessageResponse {
	payload := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(message), DebugPrefix))
	if payload == "" {
		payload = "2 eggs and 1 slice of toast"
	}

	decision := types.IntentDecision{
		Route: types.RouteDecision{
			RouteName:  RouteMealLog,
			Confidence: types.ConfidenceHigh,
			Similarity: 1,
			Reasoning:  "debug prefix",
		},
		NeedsCommitAction: true,
		Classification:    RouteMealLog,
	}
	return s.handleNutrition(ctx, userID, payload, decision)
}
