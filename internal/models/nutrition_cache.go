package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NutritionCacheEntry is a resolved food shared by all users. The brand
// resolver writes an entry after a successful AI resolution; every later
// lookup for the same normalized name and brand is served from here.
type NutritionCacheEntry struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	NormalizedName  string    `gorm:"size:255;not null;uniqueIndex:idx_nutrition_cache_name_brand" json:"normalized_name"`
	Brand           string    `gorm:"size:255;uniqueIndex:idx_nutrition_cache_name_brand" json:"brand"`
	ServingLabel    string    `gorm:"size:100" json:"serving_label"`
	GramsPerServing float64   `gorm:"type:float" json:"grams_per_serving"`
	Calories        float64   `gorm:"type:float" json:"calories"`
	ProteinG        float64   `gorm:"type:float" json:"protein_g"`
	CarbsG          float64   `gorm:"type:float" json:"carbs_g"`
	FatG            float64   `gorm:"type:float" json:"fat_g"`
	FiberG          float64   `gorm:"type:float" json:"fiber_g"`
	Source          string    `gorm:"size:50" json:"source"`
	Confidence      float64   `gorm:"type:float" json:"confidence"`
}

func (e *NutritionCacheEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
