package service

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/mealwise/mealwise-backend/internal/types"
)

// VerificationBuilder renders a lookup result into the confirmation payload
// the user approves before anything is persisted. Display rounding happens
// here and nowhere upstream.
type VerificationBuilder struct {
	energy *EnergyService
	// now is injected so meal-slot bucketing is testable.
	now func() time.Time
}

// NewVerificationBuilder creates a new VerificationBuilder instance
func NewVerificationBuilder(energy *EnergyService) *VerificationBuilder {
	return &VerificationBuilder{energy: energy, now: time.Now}
}

// Build assembles the verification view. The commit, edit and cancel
// actions are always offered; classification only decides which one leads.
func (b *VerificationBuilder) Build(ctx context.Context, userID uuid.UUID, lookup types.LookupResult, classification string) *types.VerificationView {
	eatenAt := b.now()

	view := &types.VerificationView{
		Totals:        lookup.Totals,
		TEFKcal:       TEFKcal(lookup.Totals),
		MealSlot:      mealSlotForHour(eatenAt.Hour()),
		EatenAt:       eatenAt,
		Actions:       []string{types.ActionCommit, types.ActionEdit, types.ActionCancel},
		PrimaryAction: types.ActionCommit,
		Items:         lookup.Items,
	}
	if classification == RouteFoodQuestion {
		view.PrimaryAction = types.ActionCancel
	}

	// Warnings key on item position, not name: a meal can list the same
	// food twice with only one occurrence flagged.
	warningsByIndex := make(map[int]string, len(lookup.Warnings))
	for _, w := range lookup.Warnings {
		warningsByIndex[w.Index] = w.Code
		view.Warnings = append(view.Warnings, w.Code+": "+w.Item)
	}

	for i, item := range lookup.Items {
		view.Rows = append(view.Rows, types.VerificationRow{
			Name:     item.Name,
			Quantity: item.Quantity,
			Unit:     item.Unit,
			Calories: roundInt(item.Calories),
			ProteinG: roundInt(item.ProteinG),
			CarbsG:   roundInt(item.CarbsG),
			FatG:     roundInt(item.FatG),
			FiberG:   roundInt(item.FiberG),
			Source:   string(item.Source),
			Warning:  warningsByIndex[i],
		})
	}

	if b.energy != nil {
		view.TDEERemaining = b.energy.RemainingKcal(ctx, userID, eatenAt, lookup.Totals.Calories)
	}

	return view
}

// mealSlotForHour buckets a local hour into a meal slot.
func mealSlotForHour(hour int) string {
	switch {
	case hour >= 6 && hour <= 10:
		return "breakfast"
	case hour >= 11 && hour <= 15:
		return "lunch"
	case hour >= 16 && hour <= 21:
		return "dinner"
	default:
		return "snack"
	}
}

func roundInt(v float64) int {
	return int(math.Round(v))
}
