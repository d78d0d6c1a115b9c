package service

import (
	"strings"

	"github.com/mealwise/mealwise-backend/internal/types"
)

// canonicalServing describes the default portion for a food when the user
// gave no amount or unit.
type canonicalServing struct {
	Unit  string
	Grams float64
	Label string
}

// servingTable covers common whole foods. Anything missing defaults to one
// 100 g serving.
var servingTable = map[string]canonicalServing{
	"egg":     {Unit: "piece", Grams: 50, Label: "1 large egg"},
	"toast":   {Unit: "slice", Grams: 30, Label: "1 slice"},
	"bread":   {Unit: "slice", Grams: 30, Label: "1 slice"},
	"rice":    {Unit: "cup", Grams: 158, Label: "1 cup cooked"},
	"oatmeal": {Unit: "cup", Grams: 234, Label: "1 cup cooked"},
	"banana":  {Unit: "piece", Grams: 118, Label: "1 medium banana"},
	"apple":   {Unit: "piece", Grams: 182, Label: "1 medium apple"},
	"chicken": {Unit: "g", Grams: 100, Label: "100 g"},
	"salmon":  {Unit: "g", Grams: 100, Label: "100 g"},
	"milk":    {Unit: "cup", Grams: 244, Label: "1 cup"},
	"yogurt":  {Unit: "cup", Grams: 245, Label: "1 cup"},
	"pasta":   {Unit: "cup", Grams: 140, Label: "1 cup cooked"},
	"avocado": {Unit: "piece", Grams: 150, Label: "1 medium avocado"},
}

// PortionResolver maps sanitized items to canonical serving sizes and
// units so downstream providers work with consistent quantities.
type PortionResolver struct{}

// NewPortionResolver creates a new PortionResolver instance
func NewPortionResolver() *PortionResolver {
	return &PortionResolver{}
}

// Resolve fills missing amounts and units from the serving table. Items
// the table doesn't know keep a one-serving default.
func (r *PortionResolver) Resolve(items []types.NormalizedItem) []types.NormalizedItem {
	out := make([]types.NormalizedItem, 0, len(items))
	for _, item := range items {
		serving, known := lookupServing(item.Name)

		if item.Amount == nil {
			one := 1.0
			item.Amount = &one
		}
		if item.Unit == nil {
			unit := "serving"
			if known {
				unit = serving.Unit
			}
			item.Unit = &unit
		}
		if item.ServingLabel == "" && known {
			item.ServingLabel = serving.Label
		}
		out = append(out, item)
	}
	return out
}

func lookupServing(name string) (canonicalServing, bool) {
	if s, ok := servingTable[name]; ok {
		return s, true
	}
	// Plural or compound names: match on any word.
	for _, word := range strings.Fields(name) {
		word = strings.TrimSuffix(word, "s")
		if s, ok := servingTable[word]; ok {
			return s, true
		}
	}
	return canonicalServing{}, false
}
