package database

import (
	"gorm.io/gorm"

	"github.com/mealwise/mealwise-backend/internal/models"
)

// logMealAtomicSQL defines the stored procedure the commit path prefers:
// meal header and all item rows land in one transaction.
const logMealAtomicSQL = `
CREATE OR REPLACE FUNCTION log_meal_atomic(
	p_user_id uuid,
	p_eaten_at timestamptz,
	p_meal_slot text,
	p_calories float8,
	p_protein_g float8,
	p_carbs_g float8,
	p_fat_g float8,
	p_fiber_g float8,
	p_tef_kcal float8,
	p_items jsonb
) RETURNS uuid AS $$
DECLARE
	v_log_id uuid;
BEGIN
	INSERT INTO meal_logs (id, created_at, user_id, eaten_at, meal_slot,
		calories, protein_g, carbs_g, fat_g, fiber_g, tef_kcal, source)
	VALUES (gen_random_uuid(), now(), p_user_id, p_eaten_at, p_meal_slot,
		p_calories, p_protein_g, p_carbs_g, p_fat_g, p_fiber_g, p_tef_kcal, 'chat')
	RETURNING id INTO v_log_id;

	INSERT INTO meal_log_items (id, meal_log_id, name, quantity, unit,
		calories, protein_g, carbs_g, fat_g, fiber_g, source, confidence)
	SELECT gen_random_uuid(), v_log_id,
		item->>'name',
		(item->>'quantity')::float8,
		item->>'unit',
		(item->>'calories')::float8,
		(item->>'protein_g')::float8,
		(item->>'carbs_g')::float8,
		(item->>'fat_g')::float8,
		(item->>'fiber_g')::float8,
		item->>'source',
		(item->>'confidence')::float8
	FROM jsonb_array_elements(p_items) AS item;

	RETURN v_log_id;
END;
$$ LANGUAGE plpgsql;
`

// RunMigrations applies the schema for all persisted models. Postgres also
// needs the pgvector extension for route embeddings and the atomic commit
// procedure; sqlite (tests) skips both.
func RunMigrations(db *gorm.DB) error {
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
			return err
		}
	}
	err := db.AutoMigrate(
		&models.IntentRoute{},
		&models.NutritionCacheEntry{},
		&models.MealLog{},
		&models.MealLogItem{},
		&models.DailyTotal{},
		&models.UserPreference{},
	)
	if err != nil {
		return err
	}
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec(logMealAtomicSQL).Error; err != nil {
			return err
		}
	}
	return nil
}
