package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// ExampleTextList holds a route's example utterances as a JSONB array. The
// texts are stored alongside the centroid so a re-seed can recompute
// embeddings without the original seed file.
type ExampleTextList []string

func (l ExampleTextList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

func (l *ExampleTextList) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into ExampleTextList", value)
	}
}

// IntentRoute is a named intent category with example phrasings and a
// precomputed embedding used as a similarity anchor. Routes are written by
// the offline seeding command and read-only at request time.
//
// Thresholds are per-route: some intents have tight, literal example
// phrasing while others are loose chit-chat, so a single global cutoff
// would over- or under-trigger. Invariant: 0 <= MidThreshold <= HiThreshold <= 1.
type IntentRoute struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Name         string          `gorm:"size:100;not null;uniqueIndex" json:"name"`
	ExampleTexts ExampleTextList `gorm:"type:jsonb;not null;default:'[]'" json:"example_texts"`
	Embedding    pgvector.Vector `gorm:"type:vector(1536)" json:"-"`
	HiThreshold  float64         `gorm:"type:float;not null" json:"hi_threshold"`
	MidThreshold float64         `gorm:"type:float;not null" json:"mid_threshold"`
}

func (r *IntentRoute) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
