package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mealwise/mealwise-backend/internal/models"
	"github.com/mealwise/mealwise-backend/internal/types"
)

// defaultDailyKcalTarget applies when the user has no stored preference row.
const defaultDailyKcalTarget = 2000

// Thermic effect of food, as a fraction of each macro's energy.
const (
	tefProteinFraction = 0.25
	tefCarbFraction    = 0.08
	tefFatFraction     = 0.03

	kcalPerGramProtein = 4
	kcalPerGramCarb    = 4
	kcalPerGramFat     = 9
)

// TEFKcal estimates the thermic effect of a meal from its macro split.
func TEFKcal(t types.MealTotals) float64 {
	return t.ProteinG*kcalPerGramProtein*tefProteinFraction +
		t.CarbsG*kcalPerGramCarb*tefCarbFraction +
		t.FatG*kcalPerGramFat*tefFatFraction
}

// EnergyService answers budget questions: how many calories the user has
// left today once this meal is counted.
type EnergyService struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// NewEnergyService creates a new EnergyService instance
func NewEnergyService(db *gorm.DB, logger *zap.SugaredLogger) *EnergyService {
	return &EnergyService{db: db, logger: logger}
}

// RemainingKcal returns the user's calorie budget minus what they've logged
// today minus the pending meal. Missing data degrades to the default target
// and zero consumed rather than failing the view.
func (s *EnergyService) RemainingKcal(ctx context.Context, userID uuid.UUID, day time.Time, mealKcal float64) float64 {
	target := float64(defaultDailyKcalTarget)
	consumed := 0.0

	if s.db != nil {
		var pref models.UserPreference
		err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&pref).Error
		switch {
		case err == nil && pref.DailyKcalTarget > 0:
			target = pref.DailyKcalTarget
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			s.logger.Warnw("preference lookup failed, using default target", "user_id", userID, "error", err)
		}

		var total models.DailyTotal
		err = s.db.WithContext(ctx).
			Where("user_id = ? AND day = ?", userID, day.Format("2006-01-02")).
			First(&total).Error
		switch {
		case err == nil:
			consumed = total.Calories
		case !errors.Is(err, gorm.ErrRecordNotFound):
			s.logger.Warnw("daily total lookup failed, assuming zero consumed", "user_id", userID, "error", err)
		}
	}

	return target - consumed - mealKcal
}

// PreferenceText returns the user's stored dietary preference text, or ""
// when none exists.
func (s *EnergyService) PreferenceText(ctx context.Context, userID uuid.UUID) string {
	if s.db == nil {
		return ""
	}
	var pref models.UserPreference
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&pref).Error; err != nil {
		return ""
	}
	return pref.PreferenceText
}
