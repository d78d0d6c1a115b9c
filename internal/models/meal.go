package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MealLog is a confirmed, persisted meal. Immutable once created.
type MealLog struct {
	ID        uuid.UUID     `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	UserID    uuid.UUID     `gorm:"type:uuid;not null;index" json:"user_id"`
	EatenAt   time.Time     `gorm:"not null" json:"eaten_at"`
	MealSlot  string        `gorm:"size:20;not null" json:"meal_slot"`
	Calories  float64       `gorm:"type:float" json:"calories"`
	ProteinG  float64       `gorm:"type:float" json:"protein_g"`
	CarbsG    float64       `gorm:"type:float" json:"carbs_g"`
	FatG      float64       `gorm:"type:float" json:"fat_g"`
	FiberG    float64       `gorm:"type:float" json:"fiber_g"`
	TEFKcal   float64       `gorm:"type:float" json:"tef_kcal"`
	Source    string        `gorm:"size:50" json:"source"`
	Items     []MealLogItem `gorm:"foreignKey:MealLogID" json:"items"`
}

// MealLogItem is one food line of a persisted meal.
type MealLogItem struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	MealLogID  uuid.UUID `gorm:"type:uuid;not null;index" json:"meal_log_id"`
	Name       string    `gorm:"size:255;not null" json:"name"`
	Quantity   float64   `gorm:"type:float" json:"quantity"`
	Unit       string    `gorm:"size:50" json:"unit"`
	Calories   float64   `gorm:"type:float" json:"calories"`
	ProteinG   float64   `gorm:"type:float" json:"protein_g"`
	CarbsG     float64   `gorm:"type:float" json:"carbs_g"`
	FatG       float64   `gorm:"type:float" json:"fat_g"`
	FiberG     float64   `gorm:"type:float" json:"fiber_g"`
	Source     string    `gorm:"size:50" json:"source"`
	Confidence float64   `gorm:"type:float" json:"confidence"`
}

// BeforeCreate assigns the meal log ID so items can reference it before the
// insert returns.
func (m *MealLog) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (i *MealLogItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// DailyTotal is a derived per-day aggregate kept as a read optimization for
// dashboards. Updates after commit are best-effort; a failed update never
// fails the commit.
type DailyTotal struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_daily_totals_user_day" json:"user_id"`
	Day       string    `gorm:"size:10;not null;uniqueIndex:idx_daily_totals_user_day" json:"day"`
	Calories  float64   `gorm:"type:float" json:"calories"`
	ProteinG  float64   `gorm:"type:float" json:"protein_g"`
	CarbsG    float64   `gorm:"type:float" json:"carbs_g"`
	FatG      float64   `gorm:"type:float" json:"fat_g"`
	TEFKcal   float64   `gorm:"type:float" json:"tef_kcal"`
}

func (d *DailyTotal) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
