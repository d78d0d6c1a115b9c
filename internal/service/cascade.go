package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/mealwise/mealwise-backend/internal/models"
	"github.com/mealwise/mealwise-backend/internal/types"
)

// confidenceVerifyThreshold is the floor below which an item gets a
// low-confidence warning on the verification view.
const confidenceVerifyThreshold = 0.7

// MacroLookupService runs the per-item resolution cascade: shared cache
// first, then a provider chain ordered by whether the item is branded, with
// the brand resolver as the last stop before a stub.
type MacroLookupService struct {
	cache           *NutritionCacheStore
	brand           NutritionProvider
	generic         NutritionProvider
	primary         NutritionProvider
	secondary       NutritionProvider
	resolver        NutritionProvider
	primaryDisabled bool
	logger          *zap.SugaredLogger
}

// NewMacroLookupService creates a new MacroLookupService instance. When
// primaryDisabled is set, the secondary model takes the primary's slot in
// every chain.
func NewMacroLookupService(
	cache *NutritionCacheStore,
	brand, generic, primary, secondary, resolver NutritionProvider,
	primaryDisabled bool,
	logger *zap.SugaredLogger,
) *MacroLookupService {
	return &MacroLookupService{
		cache:           cache,
		brand:           brand,
		generic:         generic,
		primary:         primary,
		secondary:       secondary,
		resolver:        resolver,
		primaryDisabled: primaryDisabled,
		logger:          logger,
	}
}

// Lookup resolves every item and accumulates meal totals. It never fails a
// whole meal: items nothing could resolve come back as zero-value stubs
// with a warning.
func (s *MacroLookupService) Lookup(ctx context.Context, items []types.NormalizedItem) types.LookupResult {
	var result types.LookupResult
	for i, item := range items {
		res := s.resolveItem(ctx, item, &result.ProvidersFired)
		result.Items = append(result.Items, *res)
		result.Totals.Add(*res)

		switch {
		case res.AllZero():
			result.Warnings = append(result.Warnings, types.ItemWarning{
				Index:   i,
				Item:    res.Name,
				Code:    types.WarnMissingPortion,
				Message: "couldn't determine nutrition for this item, please edit it before saving",
			})
		case res.Confidence < confidenceVerifyThreshold:
			result.Warnings = append(result.Warnings, types.ItemWarning{
				Index:   i,
				Item:    res.Name,
				Code:    types.WarnLowConfidence,
				Message: "estimated values, please verify",
			})
		}
	}
	return result
}

func (s *MacroLookupService) resolveItem(ctx context.Context, item types.NormalizedItem, fired *[]string) *types.MacroResult {
	if s.cache != nil {
		if entry := s.cache.Get(ctx, item.Name, item.Brand); entry != nil {
			*fired = append(*fired, string(types.SourceGlobalCache))
			return resultFromCache(item, entry)
		}
	}

	for _, p := range s.chainFor(item) {
		res, err := p.Resolve(ctx, item)
		if err != nil {
			s.logger.Warnw("nutrition provider failed, continuing cascade",
				"provider", p.Name(), "item", item.Name, "error", err)
			continue
		}
		if res == nil || res.Calories <= 0 {
			continue
		}
		*fired = append(*fired, p.Name())
		return res
	}

	// Last resort: one more resolver attempt before giving up. Transient
	// provider errors earlier in the chain make this worth the extra call.
	if s.resolver != nil {
		if res, err := s.resolver.Resolve(ctx, item); err == nil && res != nil && res.Calories > 0 {
			*fired = append(*fired, s.resolver.Name())
			return res
		}
	}

	*fired = append(*fired, string(types.SourceStub))
	return stubResult(item)
}

// chainFor orders providers for one item. Branded items try the static
// brand table first; unbranded items skip straight to the composition
// table. The resolver always anchors the chain.
func (s *MacroLookupService) chainFor(item types.NormalizedItem) []NutritionProvider {
	primary := s.primary
	if s.primaryDisabled {
		primary = s.secondary
	}

	var chain []NutritionProvider
	if item.IsBranded {
		chain = []NutritionProvider{s.brand, primary, s.generic, s.resolver}
	} else {
		chain = []NutritionProvider{s.generic, primary, s.resolver}
	}

	out := chain[:0]
	for _, p := range chain {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

func resultFromCache(item types.NormalizedItem, entry *models.NutritionCacheEntry) *types.MacroResult {
	qty, unit := itemQuantity(item)
	return &types.MacroResult{
		Name:       item.Name,
		Quantity:   qty,
		Unit:       unit,
		Calories:   entry.Calories * qty,
		ProteinG:   entry.ProteinG * qty,
		CarbsG:     entry.CarbsG * qty,
		FatG:       entry.FatG * qty,
		FiberG:     entry.FiberG * qty,
		Confidence: 0.95,
		Source:     types.SourceGlobalCache,
		Provider:   string(types.SourceGlobalCache),
	}
}

func stubResult(item types.NormalizedItem) *types.MacroResult {
	qty, unit := itemQuantity(item)
	return &types.MacroResult{
		Name:       item.Name,
		Quantity:   qty,
		Unit:       unit,
		Confidence: 0.1,
		Source:     types.SourceStub,
		Provider:   string(types.SourceStub),
	}
}
