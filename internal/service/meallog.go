package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mealwise/mealwise-backend/internal/database"
	"github.com/mealwise/mealwise-backend/internal/models"
	"github.com/mealwise/mealwise-backend/internal/types"
)

// MealLogService persists confirmed meals. The stored procedure commits the
// header and all items in one transaction; when the raw connection isn't
// available the gorm fallback inserts sequentially and compensates on
// failure so no orphan header survives.
type MealLogService struct {
	raw    *database.DB
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// NewMealLogService creates a new MealLogService instance. raw may be nil;
// the service then always uses the gorm path.
func NewMealLogService(raw *database.DB, db *gorm.DB, logger *zap.SugaredLogger) *MealLogService {
	return &MealLogService{raw: raw, db: db, logger: logger}
}

// Commit persists an approved verification view. Edits, when non-nil,
// replace the view's items wholesale and totals are recomputed from them.
func (s *MealLogService) Commit(ctx context.Context, view *types.VerificationView, userID uuid.UUID, edits []types.MacroResult) (string, error) {
	items := view.Items
	totals := view.Totals
	if edits != nil {
		items = edits
		totals = types.MealTotals{}
		for _, it := range items {
			totals.Add(it)
		}
	}
	if len(items) == 0 {
		return "", fmt.Errorf("cannot commit a meal with no items")
	}

	log := models.MealLog{
		UserID:   userID,
		EatenAt:  view.EatenAt,
		MealSlot: view.MealSlot,
		Calories: totals.Calories,
		ProteinG: totals.ProteinG,
		CarbsG:   totals.CarbsG,
		FatG:     totals.FatG,
		FiberG:   totals.FiberG,
		TEFKcal:  TEFKcal(totals),
		Source:   "chat",
	}

	logID, err := s.commitAtomic(ctx, &log, items)
	if err != nil {
		s.logger.Warnw("atomic meal commit unavailable, using sequential fallback", "error", err)
		logID, err = s.commitSequential(ctx, &log, items)
		if err != nil {
			return "", err
		}
	}

	s.updateDailyTotal(ctx, &log)
	return logID, nil
}

// commitAtomic calls the log_meal_atomic stored procedure, which inserts
// the header and item rows in a single transaction and returns the log id.
func (s *MealLogService) commitAtomic(ctx context.Context, log *models.MealLog, items []types.MacroResult) (string, error) {
	if s.raw == nil {
		return "", fmt.Errorf("raw database connection not configured")
	}

	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("failed to encode meal items: %w", err)
	}

	var logID string
	err = s.raw.QueryRowContext(ctx,
		`SELECT log_meal_atomic($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		log.UserID, log.EatenAt, log.MealSlot,
		log.Calories, log.ProteinG, log.CarbsG, log.FatG, log.FiberG,
		log.TEFKcal, itemsJSON,
	).Scan(&logID)
	if err != nil {
		return "", fmt.Errorf("stored procedure commit failed: %w", err)
	}
	return logID, nil
}

// commitSequential inserts the header then the items. An item failure
// deletes whatever was written so the database never holds a partial meal.
func (s *MealLogService) commitSequential(ctx context.Context, log *models.MealLog, items []types.MacroResult) (string, error) {
	if err := s.db.WithContext(ctx).Create(log).Error; err != nil {
		return "", fmt.Errorf("failed to insert meal log: %w", err)
	}

	for _, it := range items {
		row := models.MealLogItem{
			MealLogID:  log.ID,
			Name:       it.Name,
			Quantity:   it.Quantity,
			Unit:       it.Unit,
			Calories:   it.Calories,
			ProteinG:   it.ProteinG,
			CarbsG:     it.CarbsG,
			FatG:       it.FatG,
			FiberG:     it.FiberG,
			Source:     string(it.Source),
			Confidence: it.Confidence,
		}
		if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
			s.compensate(ctx, log.ID)
			return "", fmt.Errorf("failed to insert meal item %q: %w", it.Name, err)
		}
	}

	return log.ID.String(), nil
}

func (s *MealLogService) compensate(ctx context.Context, logID uuid.UUID) {
	if err := s.db.WithContext(ctx).Where("meal_log_id = ?", logID).Delete(&models.MealLogItem{}).Error; err != nil {
		s.logger.Errorw("compensating item delete failed", "log_id", logID, "error", err)
	}
	if err := s.db.WithContext(ctx).Delete(&models.MealLog{}, "id = ?", logID).Error; err != nil {
		s.logger.Errorw("compensating log delete failed", "log_id", logID, "error", err)
	}
}

// updateDailyTotal folds the meal into the per-day aggregate. Best effort:
// a failure is logged and swallowed, the committed meal stands.
func (s *MealLogService) updateDailyTotal(ctx context.Context, log *models.MealLog) {
	day := log.EatenAt.Format("2006-01-02")
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "day"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"calories":  gorm.Expr("daily_totals.calories + ?", log.Calories),
			"protein_g": gorm.Expr("daily_totals.protein_g + ?", log.ProteinG),
			"carbs_g":   gorm.Expr("daily_totals.carbs_g + ?", log.CarbsG),
			"fat_g":     gorm.Expr("daily_totals.fat_g + ?", log.FatG),
			"tef_kcal":  gorm.Expr("daily_totals.tef_kcal + ?", log.TEFKcal),
		}),
	}).Create(&models.DailyTotal{
		UserID:   log.UserID,
		Day:      day,
		Calories: log.Calories,
		ProteinG: log.ProteinG,
		CarbsG:   log.CarbsG,
		FatG:     log.FatG,
		TEFKcal:  log.TEFKcal,
	}).Error
	if err != nil {
		s.logger.Warnw("daily total update failed after commit", "user_id", log.UserID, "day", day, "error", err)
	}
}
