package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserPreference stores free-text dietary preferences injected into
// conversational system prompts. Written by the profile surface, read here.
type UserPreference struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	PreferenceText string    `gorm:"type:text" json:"preference_text"`
	// DailyKcalTarget is the user's calorie budget for TDEE remaining math.
	DailyKcalTarget float64 `gorm:"type:float;default:2000" json:"daily_kcal_target"`
}

func (p *UserPreference) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
