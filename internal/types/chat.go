package types

import "time"

// ConfidenceLevel classifies how strongly a message matched a route.
type ConfidenceLevel string

const (
	ConfidenceHigh ConfidenceLevel = "high"
	ConfidenceMid  ConfidenceLevel = "mid"
	ConfidenceLow  ConfidenceLevel = "low"
)

// RouteDecision is the per-message output of the semantic router.
type RouteDecision struct {
	RouteName  string          `json:"route_name"`
	Confidence ConfidenceLevel `json:"confidence"`
	Similarity float64         `json:"similarity"`
	Reasoning  string          `json:"reasoning"`
}

// IntentDecision wraps a route decision with the channel and action flags
// the chat pipeline needs downstream.
type IntentDecision struct {
	Route RouteDecision `json:"route"`
	// UseWeb selects web-grounded answering for conversational replies.
	UseWeb bool `json:"use_web"`
	// NeedsCommitAction is set whenever the nutrition pipeline runs, so the
	// verification view can offer a log action even for info-only queries.
	NeedsCommitAction bool `json:"needs_commit_action"`
	// Classification distinguishes a loggable meal statement from a
	// nutrition question. Both run the same pipeline.
	Classification string `json:"classification"`
}

// VerificationRow is one food line of the confirmation payload. Numeric
// fields are rounded for display here and nowhere else.
type VerificationRow struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Calories int     `json:"calories"`
	ProteinG int     `json:"protein_g"`
	CarbsG   int     `json:"carbs_g"`
	FatG     int     `json:"fat_g"`
	FiberG   int     `json:"fiber_g"`
	Source   string  `json:"source"`
	Warning  string  `json:"warning,omitempty"`
}

// VerificationView is the structured confirmation a user approves before a
// meal is persisted. Rows and Totals carry display-rounded values; Items
// keeps the exact per-item figures and is what commit persists.
type VerificationView struct {
	Rows          []VerificationRow `json:"rows"`
	Totals        MealTotals        `json:"totals"`
	TEFKcal       float64           `json:"tef_kcal"`
	TDEERemaining float64           `json:"tdee_remaining_kcal"`
	MealSlot      string            `json:"meal_slot"`
	EatenAt       time.Time         `json:"eaten_at"`
	Actions       []string          `json:"actions"`
	PrimaryAction string            `json:"primary_action"`
	Warnings      []string          `json:"warnings"`
	Items         []MacroResult     `json:"items"`
}

const (
	ActionCommit = "commit"
	ActionEdit   = "edit"
	ActionCancel = "cancel"
)

// HandleMessageRequest is the chat entry point payload.
type HandleMessageRequest struct {
	Message   string `json:"message" binding:"required"`
	SessionID string `json:"session_id"`
}

// HandleMessageResponse carries the reply plus, for nutrition routes, the
// verification view for the UI to render.
type HandleMessageResponse struct {
	Reply         string            `json:"reply"`
	RouteUsed     string            `json:"route_used"`
	Confidence    ConfidenceLevel   `json:"confidence"`
	CitationURL   string            `json:"citation_url,omitempty"`
	CitationTitle string            `json:"citation_title,omitempty"`
	RoleData      *VerificationView `json:"role_data,omitempty"`
}

// CommitMealRequest persists a confirmed verification view. Edits, when
// present, replace the view's items wholesale.
type CommitMealRequest struct {
	View  VerificationView `json:"view" binding:"required"`
	Edits []MacroResult    `json:"edits,omitempty"`
}

// CommitMealResponse reports the outcome of a meal commit.
type CommitMealResponse struct {
	OK    bool   `json:"ok"`
	LogID string `json:"log_id,omitempty"`
	Error string `json:"error,omitempty"`
}

// WebAnswer is a web-grounded reply with an optional citation.
type WebAnswer struct {
	Text          string `json:"text"`
	CitationURL   string `json:"citation_url,omitempty"`
	CitationTitle string `json:"citation_title,omitempty"`
}
