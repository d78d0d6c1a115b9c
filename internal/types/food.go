package types

// MacroSource identifies which provider in the lookup cascade produced a
// macro result. Confidence conventions follow provenance: cache and static
// lookups are high, LLM resolution is medium, stub is low.
type MacroSource string

const (
	SourceGlobalCache   MacroSource = "global_cache"
	SourceBrand         MacroSource = "brand"
	SourceGeneric       MacroSource = "generic"
	SourceGemini        MacroSource = "gemini"
	SourceOpenAI        MacroSource = "openai"
	SourceBrandResolver MacroSource = "brand_resolver"
	SourceStub          MacroSource = "stub"
)

// NormalizedItem is a single structured food mention extracted from free
// text. Amount and Unit are nil when the user didn't state them.
type NormalizedItem struct {
	Name         string   `json:"name"`
	Amount       *float64 `json:"amount"`
	Unit         *string  `json:"unit"`
	Brand        string   `json:"brand,omitempty"`
	ServingLabel string   `json:"serving_label,omitempty"`
	SizeLabel    string   `json:"size_label,omitempty"`
	IsBranded    bool     `json:"is_branded"`
}

// MacroResult holds resolved nutrition data for one item.
type MacroResult struct {
	Name       string      `json:"name"`
	Quantity   float64     `json:"quantity"`
	Unit       string      `json:"unit"`
	Calories   float64     `json:"calories"`
	ProteinG   float64     `json:"protein_g"`
	CarbsG     float64     `json:"carbs_g"`
	FatG       float64     `json:"fat_g"`
	FiberG     float64     `json:"fiber_g"`
	Confidence float64     `json:"confidence"`
	Source     MacroSource `json:"source"`
	Provider   string      `json:"provider"`
}

// AllZero reports whether every macro field is exactly zero, which is how a
// stub ("could not determine") is distinguished from a real food.
func (r MacroResult) AllZero() bool {
	return r.Calories == 0 && r.ProteinG == 0 && r.CarbsG == 0 && r.FatG == 0
}

// MealTotals accumulates item-level macro values. Values stay unrounded;
// rounding happens only when a verification view is rendered.
type MealTotals struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
	FiberG   float64 `json:"fiber_g"`
}

// Add folds one item's values into the totals.
func (t *MealTotals) Add(r MacroResult) {
	t.Calories += r.Calories
	t.ProteinG += r.ProteinG
	t.CarbsG += r.CarbsG
	t.FatG += r.FatG
	t.FiberG += r.FiberG
}

// ItemWarning flags a low-trust or unresolved item for the user. Index
// points into LookupResult.Items so duplicate names stay distinguishable.
type ItemWarning struct {
	Index   int    `json:"index"`
	Item    string `json:"item"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	WarnLowConfidence  = "low_confidence"
	WarnMissingPortion = "missing_portion"
)

// LookupResult is the output of the macro lookup cascade for a whole meal.
type LookupResult struct {
	Items          []MacroResult `json:"items"`
	Totals         MealTotals    `json:"totals"`
	ProvidersFired []string      `json:"providers_fired"`
	Warnings       []ItemWarning `json:"warnings"`
}
