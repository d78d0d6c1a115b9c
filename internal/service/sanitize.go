package service

import (
	"strconv"
	"strings"

	"github.com/mealwise/mealwise-backend/internal/types"
)

// unitSynonyms maps the unit spellings normalizer output tends to produce
// onto canonical singular forms.
var unitSynonyms = map[string]string{
	"pieces": "piece", "pcs": "piece", "pc": "piece",
	"slices": "slice",
	"cups":   "cup",
	"grams":  "g", "gram": "g", "gr": "g",
	"ounces": "oz", "ounce": "oz",
	"tablespoons": "tbsp", "tablespoon": "tbsp",
	"teaspoons": "tsp", "teaspoon": "tsp",
	"servings": "serving",
	"bowls":    "bowl",
	"glasses":  "glass",
}

// SanitizeItems repairs common normalizer mistakes before portion
// resolution: quantities folded into unit strings, quantities left in the
// name, and non-canonical unit spellings.
func SanitizeItems(items []types.NormalizedItem) []types.NormalizedItem {
	out := make([]types.NormalizedItem, 0, len(items))
	for _, item := range items {
		item.Name = strings.TrimSpace(strings.ToLower(item.Name))
		if item.Name == "" {
			continue
		}

		// "unit": "2 slices" puts the quantity where amount belongs.
		if item.Unit != nil {
			unit := strings.TrimSpace(strings.ToLower(*item.Unit))
			if fields := strings.Fields(unit); len(fields) == 2 {
				if qty, err := strconv.ParseFloat(fields[0], 64); err == nil {
					if item.Amount == nil {
						item.Amount = &qty
					}
					unit = fields[1]
				}
			}
			if canonical, ok := unitSynonyms[unit]; ok {
				unit = canonical
			}
			if unit == "" {
				item.Unit = nil
			} else {
				item.Unit = &unit
			}
		}

		// "name": "2 eggs" with no amount gets the same repair.
		if item.Amount == nil {
			if m := leadingQuantityRe.FindStringSubmatch(item.Name); m != nil {
				if qty, err := strconv.ParseFloat(m[1], 64); err == nil {
					item.Amount = &qty
					item.Name = strings.TrimSpace(m[2])
				}
			}
		}

		item.Brand = strings.TrimSpace(item.Brand)
		item.IsBranded = item.Brand != ""
		out = append(out, item)
	}
	return out
}
