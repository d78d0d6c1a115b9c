package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealwise/mealwise-backend/internal/logging"
	"github.com/mealwise/mealwise-backend/internal/models"
	"github.com/mealwise/mealwise-backend/internal/testhelpers"
	"github.com/mealwise/mealwise-backend/internal/types"
)

func TestMealSlotForHour(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{0, "snack"},
		{5, "snack"},
		{6, "breakfast"},
		{10, "breakfast"},
		{11, "lunch"},
		{15, "lunch"},
		{16, "dinner"},
		{21, "dinner"},
		{22, "snack"},
		{23, "snack"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, mealSlotForHour(tt.hour), "hour %d", tt.hour)
	}
}

func TestTEFKcal(t *testing.T) {
	// 100g protein = 400 kcal, 25% thermic effect.
	assert.InDelta(t, 100.0, TEFKcal(types.MealTotals{ProteinG: 100}), 1e-9)
	// 100g carbs = 400 kcal at 8%, 100g fat = 900 kcal at 3%.
	assert.InDelta(t, 32.0, TEFKcal(types.MealTotals{CarbsG: 100}), 1e-9)
	assert.InDelta(t, 27.0, TEFKcal(types.MealTotals{FatG: 100}), 1e-9)
}

func lookupFixture() types.LookupResult {
	var result types.LookupResult
	items := []types.MacroResult{
		{Name: "egg", Quantity: 2, Unit: "piece", Calories: 140.4, ProteinG: 12.6, CarbsG: 1.1, FatG: 9.6, Confidence: 0.85, Source: types.SourceGeneric, Provider: "generic"},
		{Name: "toast", Quantity: 1, Unit: "slice", Calories: 74.5, ProteinG: 2.2, CarbsG: 13.8, FatG: 1.2, Confidence: 0.85, Source: types.SourceGeneric, Provider: "generic"},
	}
	for _, it := range items {
		result.Items = append(result.Items, it)
		result.Totals.Add(it)
	}
	return result
}

func newTestBuilder(energy *EnergyService, at time.Time) *VerificationBuilder {
	b := NewVerificationBuilder(energy)
	b.now = func() time.Time { return at }
	return b
}

func TestVerificationBuilder_RoundsForDisplayOnly(t *testing.T) {
	builder := newTestBuilder(nil, time.Date(2026, 8, 29, 8, 0, 0, 0, time.UTC))

	view := builder.Build(context.Background(), uuid.New(), lookupFixture(), RouteMealLog)

	require.Len(t, view.Rows, 2)
	assert.Equal(t, 140, view.Rows[0].Calories)
	assert.Equal(t, 13, view.Rows[0].ProteinG)
	assert.Equal(t, 75, view.Rows[1].Calories)

	// Exact values survive untouched for commit.
	assert.InDelta(t, 214.9, view.Totals.Calories, 1e-9)
	assert.Equal(t, 140.4, view.Items[0].Calories)
}

func TestVerificationBuilder_MealSlotFromClock(t *testing.T) {
	builder := newTestBuilder(nil, time.Date(2026, 8, 29, 19, 30, 0, 0, time.UTC))

	view := builder.Build(context.Background(), uuid.New(), lookupFixture(), RouteMealLog)
	assert.Equal(t, "dinner", view.MealSlot)
}

func TestVerificationBuilder_ActionsAlwaysOffered(t *testing.T) {
	builder := newTestBuilder(nil, time.Now())

	statement := builder.Build(context.Background(), uuid.New(), lookupFixture(), RouteMealLog)
	assert.Equal(t, []string{types.ActionCommit, types.ActionEdit, types.ActionCancel}, statement.Actions)
	assert.Equal(t, types.ActionCommit, statement.PrimaryAction)

	question := builder.Build(context.Background(), uuid.New(), lookupFixture(), RouteFoodQuestion)
	assert.Equal(t, []string{types.ActionCommit, types.ActionEdit, types.ActionCancel}, question.Actions)
	assert.Equal(t, types.ActionCancel, question.PrimaryAction)
}

func TestVerificationBuilder_WarningsSurface(t *testing.T) {
	builder := newTestBuilder(nil, time.Now())

	lookup := lookupFixture()
	lookup.Warnings = append(lookup.Warnings, types.ItemWarning{
		Item: "egg", Code: types.WarnLowConfidence, Message: "estimated values, please verify",
	})

	view := builder.Build(context.Background(), uuid.New(), lookup, RouteMealLog)
	require.Len(t, view.Warnings, 1)
	assert.Equal(t, types.WarnLowConfidence, view.Rows[0].Warning)
	assert.Empty(t, view.Rows[1].Warning)
}

func TestVerificationBuilder_DuplicateNamesKeepWarningsApart(t *testing.T) {
	builder := newTestBuilder(nil, time.Now())

	// Same food twice; only the second occurrence is a stub.
	var lookup types.LookupResult
	items := []types.MacroResult{
		{Name: "egg", Quantity: 1, Unit: "piece", Calories: 70, ProteinG: 6, Confidence: 0.85, Source: types.SourceGeneric, Provider: "generic"},
		{Name: "egg", Quantity: 1, Unit: "piece", Confidence: 0.1, Source: types.SourceStub, Provider: "stub"},
	}
	for _, it := range items {
		lookup.Items = append(lookup.Items, it)
		lookup.Totals.Add(it)
	}
	lookup.Warnings = []types.ItemWarning{
		{Index: 1, Item: "egg", Code: types.WarnMissingPortion, Message: "couldn't determine nutrition for this item, please edit it before saving"},
	}

	view := builder.Build(context.Background(), uuid.New(), lookup, RouteMealLog)
	require.Len(t, view.Rows, 2)
	assert.Empty(t, view.Rows[0].Warning)
	assert.Equal(t, types.WarnMissingPortion, view.Rows[1].Warning)
}

func TestEnergyService_RemainingKcal(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	energy := NewEnergyService(db, logging.Nop())
	userID := uuid.New()
	day := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	// No preference row: default 2000 target, nothing consumed.
	assert.InDelta(t, 1785.0, energy.RemainingKcal(context.Background(), userID, day, 215), 1e-9)

	require.NoError(t, db.Create(&models.UserPreference{
		UserID:          userID,
		DailyKcalTarget: 2500,
	}).Error)
	require.NoError(t, db.Create(&models.DailyTotal{
		UserID:   userID,
		Day:      "2026-08-29",
		Calories: 600,
	}).Error)

	assert.InDelta(t, 1685.0, energy.RemainingKcal(context.Background(), userID, day, 215), 1e-9)
}

func TestVerificationBuilder_TDEERemaining(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	energy := NewEnergyService(db, logging.Nop())
	builder := newTestBuilder(energy, time.Date(2026, 8, 29, 8, 0, 0, 0, time.UTC))

	view := builder.Build(context.Background(), uuid.New(), lookupFixture(), RouteMealLog)
	assert.InDelta(t, 2000-214.9, view.TDEERemaining, 1e-9)
}
