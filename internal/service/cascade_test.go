package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealwise/mealwise-backend/internal/logging"
	"github.com/mealwise/mealwise-backend/internal/models"
	"github.com/mealwise/mealwise-backend/internal/testhelpers"
	"github.com/mealwise/mealwise-backend/internal/types"
)

// fakeProvider is a scripted cascade member that records invocations.
type fakeProvider struct {
	name   string
	result *types.MacroResult
	err    error
	calls  int
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Resolve(ctx context.Context, item types.NormalizedItem) (*types.MacroResult, error) {
	p.calls++
	return p.result, p.err
}

func macroFor(name string, calories float64) *types.MacroResult {
	return &types.MacroResult{
		Name:       name,
		Quantity:   1,
		Unit:       "serving",
		Calories:   calories,
		ProteinG:   10,
		Confidence: 0.9,
		Source:     types.SourceGeneric,
		Provider:   "generic",
	}
}

func genericItem(name string) types.NormalizedItem {
	one := 1.0
	unit := "serving"
	return types.NormalizedItem{Name: name, Amount: &one, Unit: &unit}
}

func brandedItem(name, brand string) types.NormalizedItem {
	item := genericItem(name)
	item.Brand = brand
	item.IsBranded = true
	return item
}

func TestMacroLookup_GenericChainOrder(t *testing.T) {
	generic := &fakeProvider{name: "generic", result: macroFor("rice", 205)}
	primary := &fakeProvider{name: "gemini"}
	resolver := &fakeProvider{name: "brand_resolver"}

	svc := NewMacroLookupService(nil, &fakeProvider{name: "brand"}, generic, primary, nil, resolver, false, logging.Nop())
	result := svc.Lookup(context.Background(), []types.NormalizedItem{genericItem("rice")})

	require.Len(t, result.Items, 1)
	assert.Equal(t, 1, generic.calls)
	assert.Equal(t, 0, primary.calls)
	assert.Equal(t, 0, resolver.calls)
	assert.Equal(t, []string{"generic"}, result.ProvidersFired)
	assert.Equal(t, 205.0, result.Totals.Calories)
}

func TestMacroLookup_BrandedTriesBrandFirst(t *testing.T) {
	brand := &fakeProvider{name: "brand", result: macroFor("protein bar", 190)}
	generic := &fakeProvider{name: "generic"}

	svc := NewMacroLookupService(nil, brand, generic, &fakeProvider{name: "gemini"}, nil, &fakeProvider{name: "brand_resolver"}, false, logging.Nop())
	result := svc.Lookup(context.Background(), []types.NormalizedItem{brandedItem("protein bar", "Quest")})

	assert.Equal(t, 1, brand.calls)
	assert.Equal(t, 0, generic.calls)
	assert.Equal(t, []string{"brand"}, result.ProvidersFired)
}

func TestMacroLookup_ErrorContinuesCascade(t *testing.T) {
	generic := &fakeProvider{name: "generic", err: assert.AnError}
	primary := &fakeProvider{name: "gemini", result: macroFor("quinoa", 222)}

	svc := NewMacroLookupService(nil, nil, generic, primary, nil, &fakeProvider{name: "brand_resolver"}, false, logging.Nop())
	result := svc.Lookup(context.Background(), []types.NormalizedItem{genericItem("quinoa")})

	assert.Equal(t, 1, generic.calls)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, []string{"gemini"}, result.ProvidersFired)
}

func TestMacroLookup_KillSwitchSwapsPrimary(t *testing.T) {
	primary := &fakeProvider{name: "gemini", result: macroFor("quinoa", 222)}
	secondary := &fakeProvider{name: "openai", result: macroFor("quinoa", 220)}

	svc := NewMacroLookupService(nil, nil, &fakeProvider{name: "generic"}, primary, secondary, &fakeProvider{name: "brand_resolver"}, true, logging.Nop())
	result := svc.Lookup(context.Background(), []types.NormalizedItem{genericItem("quinoa")})

	assert.Equal(t, 0, primary.calls)
	assert.Equal(t, 1, secondary.calls)
	assert.Equal(t, []string{"openai"}, result.ProvidersFired)
}

func TestMacroLookup_StubWhenNothingResolves(t *testing.T) {
	resolver := &fakeProvider{name: "brand_resolver"}

	svc := NewMacroLookupService(nil, nil, &fakeProvider{name: "generic"}, &fakeProvider{name: "gemini"}, nil, resolver, false, logging.Nop())
	result := svc.Lookup(context.Background(), []types.NormalizedItem{genericItem("mystery dish")})

	// Once in the chain, once as the last resort.
	assert.Equal(t, 2, resolver.calls)

	require.Len(t, result.Items, 1)
	stub := result.Items[0]
	assert.Equal(t, types.SourceStub, stub.Source)
	assert.Equal(t, 0.1, stub.Confidence)
	assert.True(t, stub.AllZero())

	require.Len(t, result.Warnings, 1)
	assert.Equal(t, types.WarnMissingPortion, result.Warnings[0].Code)
	assert.Equal(t, "mystery dish", result.Warnings[0].Item)
}

func TestMacroLookup_LowConfidenceWarning(t *testing.T) {
	llmResult := macroFor("casserole", 350)
	llmResult.Confidence = 0.6
	primary := &fakeProvider{name: "gemini", result: llmResult}

	svc := NewMacroLookupService(nil, nil, &fakeProvider{name: "generic"}, primary, nil, &fakeProvider{name: "brand_resolver"}, false, logging.Nop())
	result := svc.Lookup(context.Background(), []types.NormalizedItem{genericItem("casserole")})

	require.Len(t, result.Warnings, 1)
	assert.Equal(t, types.WarnLowConfidence, result.Warnings[0].Code)
}

func TestMacroLookup_TotalsAccumulateUnrounded(t *testing.T) {
	generic := &fakeProvider{name: "generic", result: &types.MacroResult{
		Name: "egg", Quantity: 1, Unit: "piece",
		Calories: 71.5, ProteinG: 6.3, CarbsG: 0.4, FatG: 4.8,
		Confidence: 0.85, Source: types.SourceGeneric, Provider: "generic",
	}}

	svc := NewMacroLookupService(nil, nil, generic, nil, nil, nil, false, logging.Nop())
	result := svc.Lookup(context.Background(), []types.NormalizedItem{genericItem("egg"), genericItem("egg")})

	assert.InDelta(t, 143.0, result.Totals.Calories, 1e-9)
	assert.InDelta(t, 12.6, result.Totals.ProteinG, 1e-9)
}

func TestMacroLookup_CacheShortCircuits(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	store := NewNutritionCacheStore(nil, db, logging.Nop())
	require.NoError(t, store.Upsert(context.Background(), &models.NutritionCacheEntry{
		NormalizedName: "protein bar",
		Brand:          "Quest",
		Calories:       190,
		ProteinG:       21,
		Source:         string(types.SourceBrandResolver),
		Confidence:     0.65,
	}))

	brand := &fakeProvider{name: "brand"}
	resolver := &fakeProvider{name: "brand_resolver"}

	svc := NewMacroLookupService(store, brand, &fakeProvider{name: "generic"}, &fakeProvider{name: "gemini"}, nil, resolver, false, logging.Nop())
	result := svc.Lookup(context.Background(), []types.NormalizedItem{brandedItem("protein bar", "Quest")})

	assert.Equal(t, 0, brand.calls)
	assert.Equal(t, 0, resolver.calls)
	assert.Equal(t, []string{string(types.SourceGlobalCache)}, result.ProvidersFired)

	require.Len(t, result.Items, 1)
	assert.Equal(t, types.SourceGlobalCache, result.Items[0].Source)
	assert.Equal(t, 190.0, result.Items[0].Calories)
	assert.Equal(t, 0.95, result.Items[0].Confidence)
}

func TestBrandResolver_WritesBackToCache(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	store := NewNutritionCacheStore(nil, db, logging.Nop())

	llm := &scriptedCompletion{response: `{"calories":380,"protein_g":42,"carbs_g":42,"fat_g":16,"fiber_g":26,"serving_label":"1 bar (60g)"}`}
	resolver := NewBrandResolverProvider(llm, store, logging.Nop())

	item := brandedItem("protein bar", "Quest")
	*item.Amount = 2
	result, err := resolver.Resolve(context.Background(), item)
	require.NoError(t, err)
	assert.Equal(t, 380.0, result.Calories)
	assert.Equal(t, types.SourceBrandResolver, result.Source)

	// Per-serving values were written back for the next lookup.
	entry := store.Get(context.Background(), "protein bar", "Quest")
	require.NotNil(t, entry)
	assert.Equal(t, 190.0, entry.Calories)
	assert.Equal(t, "1 bar (60g)", entry.ServingLabel)
}

// scriptedCompletion returns a fixed completion response.
type scriptedCompletion struct {
	response string
	err      error
}

func (s *scriptedCompletion) Complete(ctx context.Context, systemPrompt, userMessage string, temperature float64) (string, error) {
	return s.response, s.err
}

func (s *scriptedCompletion) Name() string { return "scripted" }
