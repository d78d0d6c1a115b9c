package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mealwise/mealwise-backend/internal/models"
	"github.com/mealwise/mealwise-backend/internal/types"
)

// macrosPerServing holds nutrition values for one canonical serving.
type macrosPerServing struct {
	Calories float64
	ProteinG float64
	CarbsG   float64
	FatG     float64
	FiberG   float64
}

// brandTable covers branded products we ship values for, keyed by
// "name|brand" in lowercase. Anything outside it falls through to the
// brand resolver.
var brandTable = map[string]macrosPerServing{
	"greek yogurt|fage":        {Calories: 90, ProteinG: 18, CarbsG: 5, FatG: 0},
	"protein bar|quest":        {Calories: 190, ProteinG: 21, CarbsG: 21, FatG: 8, FiberG: 13},
	"oat milk|oatly":           {Calories: 120, ProteinG: 3, CarbsG: 16, FatG: 5, FiberG: 2},
	"peanut butter|jif":        {Calories: 190, ProteinG: 7, CarbsG: 8, FatG: 16, FiberG: 2},
	"cereal|cheerios":          {Calories: 140, ProteinG: 5, CarbsG: 29, FatG: 2.5, FiberG: 4},
	"ice cream|ben and jerrys": {Calories: 250, ProteinG: 4, CarbsG: 28, FatG: 14, FiberG: 1},
}

// genericTable covers common unbranded whole foods, per serving as defined
// by the portion table. Values come from standard food composition data.
var genericTable = map[string]macrosPerServing{
	"egg":     {Calories: 70, ProteinG: 6, CarbsG: 0.5, FatG: 5},
	"toast":   {Calories: 75, ProteinG: 2, CarbsG: 14, FatG: 1, FiberG: 1},
	"bread":   {Calories: 75, ProteinG: 2, CarbsG: 14, FatG: 1, FiberG: 1},
	"rice":    {Calories: 205, ProteinG: 4.3, CarbsG: 44.5, FatG: 0.4, FiberG: 0.6},
	"oatmeal": {Calories: 166, ProteinG: 5.9, CarbsG: 28.1, FatG: 3.6, FiberG: 4},
	"banana":  {Calories: 105, ProteinG: 1.3, CarbsG: 27, FatG: 0.4, FiberG: 3.1},
	"apple":   {Calories: 95, ProteinG: 0.5, CarbsG: 25, FatG: 0.3, FiberG: 4.4},
	"chicken": {Calories: 165, ProteinG: 31, CarbsG: 0, FatG: 3.6},
	"salmon":  {Calories: 208, ProteinG: 20, CarbsG: 0, FatG: 13},
	"milk":    {Calories: 122, ProteinG: 8.1, CarbsG: 11.7, FatG: 4.8},
	"yogurt":  {Calories: 149, ProteinG: 8.5, CarbsG: 11.4, FatG: 8},
	"pasta":   {Calories: 221, ProteinG: 8.1, CarbsG: 43.2, FatG: 1.3, FiberG: 2.5},
	"avocado": {Calories: 240, ProteinG: 3, CarbsG: 12.8, FatG: 22, FiberG: 10},
}

func itemQuantity(item types.NormalizedItem) (float64, string) {
	qty := 1.0
	if item.Amount != nil {
		qty = *item.Amount
	}
	unit := "serving"
	if item.Unit != nil {
		unit = *item.Unit
	}
	return qty, unit
}

func scaledResult(item types.NormalizedItem, m macrosPerServing, source types.MacroSource, provider string, confidence float64) *types.MacroResult {
	qty, unit := itemQuantity(item)
	return &types.MacroResult{
		Name:       item.Name,
		Quantity:   qty,
		Unit:       unit,
		Calories:   m.Calories * qty,
		ProteinG:   m.ProteinG * qty,
		CarbsG:     m.CarbsG * qty,
		FatG:       m.FatG * qty,
		FiberG:     m.FiberG * qty,
		Confidence: confidence,
		Source:     source,
		Provider:   provider,
	}
}

// BrandProvider resolves branded items against the built-in brand table.
type BrandProvider struct{}

// NewBrandProvider creates a new BrandProvider instance
func NewBrandProvider() *BrandProvider {
	return &BrandProvider{}
}

func (p *BrandProvider) Name() string { return "brand" }

func (p *BrandProvider) Resolve(_ context.Context, item types.NormalizedItem) (*types.MacroResult, error) {
	if item.Brand == "" {
		return nil, nil
	}
	key := strings.ToLower(item.Name) + "|" + strings.ToLower(item.Brand)
	m, ok := brandTable[key]
	if !ok {
		return nil, nil
	}
	return scaledResult(item, m, types.SourceBrand, p.Name(), 0.9), nil
}

// GenericProvider resolves unbranded whole foods against the built-in
// composition table.
type GenericProvider struct{}

// NewGenericProvider creates a new GenericProvider instance
func NewGenericProvider() *GenericProvider {
	return &GenericProvider{}
}

func (p *GenericProvider) Name() string { return "generic" }

func (p *GenericProvider) Resolve(_ context.Context, item types.NormalizedItem) (*types.MacroResult, error) {
	m, ok := genericTable[item.Name]
	if !ok {
		// Plural or compound names: match on any word.
		for _, word := range strings.Fields(item.Name) {
			if m, ok = genericTable[strings.TrimSuffix(word, "s")]; ok {
				break
			}
		}
	}
	if !ok {
		return nil, nil
	}
	return scaledResult(item, m, types.SourceGeneric, p.Name(), 0.85), nil
}

const macroSystemPrompt = `You are a nutrition database. Given one food with a quantity,
respond ONLY with JSON of this exact shape, no prose, no markdown:
{"calories":140,"protein_g":12,"carbs_g":1,"fat_g":10,"fiber_g":0}
Values must be for the TOTAL stated quantity, not per serving.
If you cannot identify the food, respond with {"calories":0}.`

type macroPayload struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
	FiberG   float64 `json:"fiber_g"`
}

func describeItem(item types.NormalizedItem) string {
	qty, unit := itemQuantity(item)
	desc := fmt.Sprintf("%g %s %s", qty, unit, item.Name)
	if item.Brand != "" {
		desc += " by " + item.Brand
	}
	if item.SizeLabel != "" {
		desc += " (" + item.SizeLabel + ")"
	}
	return desc
}

// LLMMacroProvider estimates macros with a chat completion model. Results
// carry medium confidence regardless of how sure the model sounds.
type LLMMacroProvider struct {
	llm     CompletionClientInterface
	source  types.MacroSource
	decoder *LenientDecoder
	logger  *zap.SugaredLogger
}

// NewLLMMacroProvider creates a new LLMMacroProvider instance
func NewLLMMacroProvider(llm CompletionClientInterface, source types.MacroSource, logger *zap.SugaredLogger) *LLMMacroProvider {
	return &LLMMacroProvider{
		llm:     llm,
		source:  source,
		decoder: NewLenientDecoder(),
		logger:  logger,
	}
}

func (p *LLMMacroProvider) Name() string { return string(p.source) }

func (p *LLMMacroProvider) Resolve(ctx context.Context, item types.NormalizedItem) (*types.MacroResult, error) {
	raw, err := p.llm.Complete(ctx, macroSystemPrompt, describeItem(item), 0.2)
	if err != nil {
		return nil, fmt.Errorf("macro completion failed: %w", err)
	}

	var payload macroPayload
	if err := p.decoder.Decode(raw, &payload); err != nil {
		return nil, fmt.Errorf("macro completion unparseable: %w", err)
	}
	if payload.Calories <= 0 {
		return nil, nil
	}

	qty, unit := itemQuantity(item)
	return &types.MacroResult{
		Name:       item.Name,
		Quantity:   qty,
		Unit:       unit,
		Calories:   payload.Calories,
		ProteinG:   payload.ProteinG,
		CarbsG:     payload.CarbsG,
		FatG:       payload.FatG,
		FiberG:     payload.FiberG,
		Confidence: 0.6,
		Source:     p.source,
		Provider:   p.Name(),
	}, nil
}

// BrandResolverProvider is the cascade's last stop: an LLM resolution with
// brand context that writes successful answers back to the shared cache so
// the next lookup for the same product never reaches this far.
type BrandResolverProvider struct {
	llm     CompletionClientInterface
	cache   *NutritionCacheStore
	decoder *LenientDecoder
	logger  *zap.SugaredLogger
}

// NewBrandResolverProvider creates a new BrandResolverProvider instance
func NewBrandResolverProvider(llm CompletionClientInterface, cache *NutritionCacheStore, logger *zap.SugaredLogger) *BrandResolverProvider {
	return &BrandResolverProvider{
		llm:     llm,
		cache:   cache,
		decoder: NewLenientDecoder(),
		logger:  logger,
	}
}

func (p *BrandResolverProvider) Name() string { return string(types.SourceBrandResolver) }

const brandResolverSystemPrompt = `You are a packaged-food nutrition expert. Given a product,
use your knowledge of real brands and typical formulations to estimate its nutrition.
Respond ONLY with JSON of this exact shape, no prose, no markdown:
{"calories":140,"protein_g":12,"carbs_g":1,"fat_g":10,"fiber_g":0,"serving_label":"1 bar (60g)"}
Values must be for the TOTAL stated quantity, not per serving.
If you cannot identify the product at all, respond with {"calories":0}.`

type brandResolverPayload struct {
	macroPayload
	ServingLabel string `json:"serving_label"`
}

func (p *BrandResolverProvider) Resolve(ctx context.Context, item types.NormalizedItem) (*types.MacroResult, error) {
	raw, err := p.llm.Complete(ctx, brandResolverSystemPrompt, describeItem(item), 0.2)
	if err != nil {
		return nil, fmt.Errorf("brand resolution failed: %w", err)
	}

	var payload brandResolverPayload
	if err := p.decoder.Decode(raw, &payload); err != nil {
		return nil, fmt.Errorf("brand resolution unparseable: %w", err)
	}
	if payload.Calories <= 0 {
		return nil, nil
	}

	qty, unit := itemQuantity(item)
	result := &types.MacroResult{
		Name:       item.Name,
		Quantity:   qty,
		Unit:       unit,
		Calories:   payload.Calories,
		ProteinG:   payload.ProteinG,
		CarbsG:     payload.CarbsG,
		FatG:       payload.FatG,
		FiberG:     payload.FiberG,
		Confidence: 0.65,
		Source:     types.SourceBrandResolver,
		Provider:   p.Name(),
	}

	// Write back per-serving values so every later lookup short-circuits
	// at the cache.
	if p.cache != nil && qty > 0 {
		entry := &models.NutritionCacheEntry{
			NormalizedName: item.Name,
			Brand:          item.Brand,
			ServingLabel:   payload.ServingLabel,
			Calories:       payload.Calories / qty,
			ProteinG:       payload.ProteinG / qty,
			CarbsG:         payload.CarbsG / qty,
			FatG:           payload.FatG / qty,
			FiberG:         payload.FiberG / qty,
			Source:         string(types.SourceBrandResolver),
			Confidence:     0.65,
		}
		if err := p.cache.Upsert(ctx, entry); err != nil {
			p.logger.Warnw("brand resolver cache write-back failed",
				"item", item.Name, "brand", item.Brand, "error", err)
		}
	}

	return result, nil
}
