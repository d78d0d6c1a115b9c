package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealwise/mealwise-backend/internal/types"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestSanitizeItems_QuantityInUnit(t *testing.T) {
	items := SanitizeItems([]types.NormalizedItem{
		{Name: "Toast", Unit: strPtr("2 slices")},
	})

	require.Len(t, items, 1)
	assert.Equal(t, "toast", items[0].Name)
	require.NotNil(t, items[0].Amount)
	assert.Equal(t, 2.0, *items[0].Amount)
	assert.Equal(t, "slice", *items[0].Unit)
}

func TestSanitizeItems_QuantityInName(t *testing.T) {
	items := SanitizeItems([]types.NormalizedItem{
		{Name: "2 eggs"},
	})

	require.Len(t, items, 1)
	assert.Equal(t, "eggs", items[0].Name)
	require.NotNil(t, items[0].Amount)
	assert.Equal(t, 2.0, *items[0].Amount)
}

func TestSanitizeItems_UnitSynonyms(t *testing.T) {
	items := SanitizeItems([]types.NormalizedItem{
		{Name: "rice", Amount: floatPtr(1), Unit: strPtr("Cups")},
		{Name: "chicken", Amount: floatPtr(200), Unit: strPtr("grams")},
	})

	require.Len(t, items, 2)
	assert.Equal(t, "cup", *items[0].Unit)
	assert.Equal(t, "g", *items[1].Unit)
}

func TestSanitizeItems_DropsEmptyNames(t *testing.T) {
	items := SanitizeItems([]types.NormalizedItem{
		{Name: "  "},
		{Name: "egg"},
	})
	require.Len(t, items, 1)
	assert.Equal(t, "egg", items[0].Name)
}

func TestSanitizeItems_BrandFlag(t *testing.T) {
	items := SanitizeItems([]types.NormalizedItem{
		{Name: "greek yogurt", Brand: " Fage "},
		{Name: "egg"},
	})

	assert.True(t, items[0].IsBranded)
	assert.Equal(t, "Fage", items[0].Brand)
	assert.False(t, items[1].IsBranded)
}

func TestPortionResolver_FillsDefaults(t *testing.T) {
	resolver := NewPortionResolver()

	items := resolver.Resolve([]types.NormalizedItem{
		{Name: "eggs", Amount: floatPtr(2)},
		{Name: "toast"},
		{Name: "dragonfruit smoothie"},
	})

	require.Len(t, items, 3)

	assert.Equal(t, 2.0, *items[0].Amount)
	assert.Equal(t, "piece", *items[0].Unit)

	assert.Equal(t, 1.0, *items[1].Amount)
	assert.Equal(t, "slice", *items[1].Unit)
	assert.Equal(t, "1 slice", items[1].ServingLabel)

	// Unknown foods default to one generic serving.
	assert.Equal(t, 1.0, *items[2].Amount)
	assert.Equal(t, "serving", *items[2].Unit)
}

func TestPortionResolver_KeepsExplicitValues(t *testing.T) {
	resolver := NewPortionResolver()

	items := resolver.Resolve([]types.NormalizedItem{
		{Name: "rice", Amount: floatPtr(2), Unit: strPtr("cup")},
	})

	assert.Equal(t, 2.0, *items[0].Amount)
	assert.Equal(t, "cup", *items[0].Unit)
}
