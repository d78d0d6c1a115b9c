package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mealwise/mealwise-backend/internal/models"
)

// nutritionCacheTTL bounds how long a redis entry lives. The database row
// is durable and re-primes redis, so a flush only costs one read.
const nutritionCacheTTL = 30 * 24 * time.Hour

// NutritionCacheStore is the shared food cache: redis in front, a durable
// table behind. Population happens exclusively as a write-through side
// effect of brand-resolver successes.
type NutritionCacheStore struct {
	redis  *redis.Client
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// NewNutritionCacheStore creates a new NutritionCacheStore instance. The
// redis client may be nil; the store then works from the database alone.
func NewNutritionCacheStore(redisClient *redis.Client, db *gorm.DB, logger *zap.SugaredLogger) *NutritionCacheStore {
	return &NutritionCacheStore{redis: redisClient, db: db, logger: logger}
}

func cacheKey(name, brand string) string {
	return fmt.Sprintf("nutrition:cache:%s|%s", strings.ToLower(strings.TrimSpace(name)), strings.ToLower(strings.TrimSpace(brand)))
}

// Get returns the cached entry for (normalized name, brand), or nil on a
// miss. Redis errors degrade to the database; database errors degrade to a
// miss.
func (s *NutritionCacheStore) Get(ctx context.Context, name, brand string) *models.NutritionCacheEntry {
	key := cacheKey(name, brand)

	if s.redis != nil {
		data, err := s.redis.Get(ctx, key).Bytes()
		if err == nil {
			var entry models.NutritionCacheEntry
			if jsonErr := json.Unmarshal(data, &entry); jsonErr == nil {
				return &entry
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warnw("nutrition cache redis read failed", "key", key, "error", err)
		}
	}

	if s.db == nil {
		return nil
	}

	var entry models.NutritionCacheEntry
	err := s.db.WithContext(ctx).
		Where("normalized_name = ? AND brand = ?", strings.ToLower(strings.TrimSpace(name)), strings.TrimSpace(brand)).
		First(&entry).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warnw("nutrition cache db read failed", "name", name, "error", err)
		}
		return nil
	}

	s.prime(ctx, key, &entry)
	return &entry
}

// Upsert writes an entry to the durable table and redis. Called by the
// brand resolver after a successful AI resolution.
func (s *NutritionCacheStore) Upsert(ctx context.Context, entry *models.NutritionCacheEntry) error {
	entry.NormalizedName = strings.ToLower(strings.TrimSpace(entry.NormalizedName))
	entry.Brand = strings.TrimSpace(entry.Brand)

	if s.db != nil {
		err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "normalized_name"}, {Name: "brand"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"serving_label", "grams_per_serving", "calories",
				"protein_g", "carbs_g", "fat_g", "fiber_g",
				"source", "confidence",
			}),
		}).Create(entry).Error
		if err != nil {
			return fmt.Errorf("failed to upsert nutrition cache entry: %w", err)
		}
	}

	s.prime(ctx, cacheKey(entry.NormalizedName, entry.Brand), entry)
	return nil
}

func (s *NutritionCacheStore) prime(ctx context.Context, key string, entry *models.NutritionCacheEntry) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, data, nutritionCacheTTL).Err(); err != nil {
		s.logger.Warnw("nutrition cache redis write failed", "key", key, "error", err)
	}
}
