package service

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mealwise/mealwise-backend/internal/types"
)

const normalizerSystemPrompt = `You extract foods from a meal description.
Respond ONLY with JSON of this exact shape, no prose, no markdown:
{"items":[{"name":"egg","amount":2,"unit":"piece"}]}
Rules:
- name is the food in singular, lowercase, without quantities.
- amount is a number or null when the user did not state one.
- unit is a short unit string ("piece", "slice", "cup", "g") or null.
- Include a "brand" field only when a brand name is mentioned.`

var (
	leadingQuantityRe = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*(.+)$`)
	splitRe           = regexp.MustCompile(`,|\band\b|\bwith\b|\bplus\b`)
)

// fillerTokens are discarded outright by the rule-based parser.
var fillerTokens = map[string]bool{
	"a": true, "an": true, "the": true, "some": true, "of": true,
}

// questionLeadTokens are stripped from the front of question-phrased
// messages so "how many calories in 2 eggs" parses down to the foods.
var questionLeadTokens = map[string]bool{
	"how": true, "many": true, "much": true, "what": true, "what's": true,
	"whats": true, "is": true, "are": true, "the": true, "in": true,
	"for": true, "of": true, "does": true, "do": true, "you": true,
	"know": true, "tell": true, "me": true, "about": true,
	"calories": true, "macros": true, "macro": true, "nutrition": true,
	"a": true, "an": true,
}

// NormalizerService turns raw meal text into structured food mentions. The
// LLM path is primary; the rule-based splitter guarantees the pipeline
// still produces items when the provider is down or returns garbage.
type NormalizerService struct {
	llm     CompletionClientInterface
	decoder *LenientDecoder
	logger  *zap.SugaredLogger
}

// NewNormalizerService creates a new NormalizerService instance
func NewNormalizerService(llm CompletionClientInterface, logger *zap.SugaredLogger) *NormalizerService {
	return &NormalizerService{
		llm:     llm,
		decoder: NewLenientDecoder(),
		logger:  logger,
	}
}

type normalizedPayload struct {
	Items []struct {
		Name   string   `json:"name"`
		Amount *float64 `json:"amount"`
		Unit   *string  `json:"unit"`
		Brand  string   `json:"brand"`
	} `json:"items"`
}

// Normalize extracts food mentions from the message. It never returns an
// empty-handed error: LLM failure falls back to the rule-based parser.
func (s *NormalizerService) Normalize(ctx context.Context, message string) []types.NormalizedItem {
	raw, err := s.llm.Complete(ctx, normalizerSystemPrompt, message, 0.1)
	if err != nil {
		s.logger.Warnw("normalizer LLM call failed, using rule-based parser",
			"provider", s.llm.Name(), "error", err)
		return s.ruleParse(message)
	}

	var payload normalizedPayload
	if err := s.decoder.Decode(raw, &payload); err != nil || len(payload.Items) == 0 {
		s.logger.Warnw("normalizer output unparseable, using rule-based parser",
			"provider", s.llm.Name(), "error", err)
		return s.ruleParse(message)
	}

	items := make([]types.NormalizedItem, 0, len(payload.Items))
	for _, it := range payload.Items {
		name := strings.TrimSpace(strings.ToLower(it.Name))
		if name == "" {
			continue
		}
		items = append(items, types.NormalizedItem{
			Name:      name,
			Amount:    it.Amount,
			Unit:      it.Unit,
			Brand:     strings.TrimSpace(it.Brand),
			IsBranded: strings.TrimSpace(it.Brand) != "",
		})
	}
	if len(items) == 0 {
		return s.ruleParse(message)
	}
	return items
}

// ruleParse is the deterministic fallback: strip the eating-action prefix,
// split on conjunctions and commas, and pull a leading quantity off each
// token.
func (s *NormalizerService) ruleParse(message string) []types.NormalizedItem {
	text := strings.ToLower(strings.TrimSpace(message))
	text = strings.NewReplacer("?", "", "!", "").Replace(text)
	for _, phrase := range eatingPhrases {
		text = strings.TrimSpace(strings.TrimPrefix(text, phrase))
	}

	fields := strings.Fields(text)
	lead := 0
	for lead < len(fields) && questionLeadTokens[fields[lead]] {
		lead++
	}
	text = strings.Join(fields[lead:], " ")

	var items []types.NormalizedItem
	for _, token := range splitRe.Split(text, -1) {
		token = stripFiller(strings.TrimSpace(token))
		if token == "" {
			continue
		}

		item := types.NormalizedItem{Name: token}
		if m := leadingQuantityRe.FindStringSubmatch(token); m != nil {
			if amount, err := strconv.ParseFloat(m[1], 64); err == nil {
				item.Amount = &amount
				item.Name = strings.TrimSpace(m[2])
			}
		}
		if item.Name == "" {
			continue
		}
		items = append(items, item)
	}
	return items
}

// stripFiller drops articles and similar glue words from a token.
func stripFiller(token string) string {
	fields := strings.Fields(token)
	kept := fields[:0]
	for _, f := range fields {
		if !fillerTokens[f] {
			kept = append(kept, f)
		}
	}
	return strings.Join(kept, " ")
}
