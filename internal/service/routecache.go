package service

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/mealwise/mealwise-backend/internal/models"
)

// RouteCache memoizes the seeded intent routes for the process lifetime.
// The first Load fetches from the store exactly once, even under concurrent
// first access; a fetch failure caches an empty list so routing degrades to
// the default route instead of crashing the pipeline.
type RouteCache struct {
	store  RouteStoreInterface
	logger *zap.SugaredLogger

	mu     sync.RWMutex
	routes []models.IntentRoute
	loaded bool
	group  singleflight.Group
}

// NewRouteCache creates a new RouteCache instance
func NewRouteCache(store RouteStoreInterface, logger *zap.SugaredLogger) *RouteCache {
	return &RouteCache{store: store, logger: logger}
}

// Load returns the cached routes, fetching from the store on first call.
func (c *RouteCache) Load(ctx context.Context) []models.IntentRoute {
	c.mu.RLock()
	if c.loaded {
		defer c.mu.RUnlock()
		return c.routes
	}
	c.mu.RUnlock()

	result, _, _ := c.group.Do("routes", func() (interface{}, error) {
		// Re-check under the lock: another flight may have finished
		// between the RUnlock above and entering the group.
		c.mu.RLock()
		if c.loaded {
			routes := c.routes
			c.mu.RUnlock()
			return routes, nil
		}
		c.mu.RUnlock()

		routes, err := c.store.ListRoutes(ctx)
		if err != nil {
			c.logger.Errorw("failed to load intent routes, caching empty list", "error", err)
			routes = []models.IntentRoute{}
		}

		c.mu.Lock()
		c.routes = routes
		c.loaded = true
		c.mu.Unlock()
		return routes, nil
	})

	return result.([]models.IntentRoute)
}

// Peek returns the current cache without triggering a load. Empty before
// the first Load.
func (c *RouteCache) Peek() []models.IntentRoute {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.routes
}

// Invalidate clears the cache so the next Load refetches. Exposed so tests
// and the seeding command can reset state without a process restart.
func (c *RouteCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.routes = nil
	c.loaded = false
}

// GormRouteStore reads routes from the database.
type GormRouteStore struct {
	db *gorm.DB
}

// NewGormRouteStore creates a new GormRouteStore instance
func NewGormRouteStore(db *gorm.DB) *GormRouteStore {
	return &GormRouteStore{db: db}
}

// ListRoutes returns every seeded route.
func (s *GormRouteStore) ListRoutes(ctx context.Context) ([]models.IntentRoute, error) {
	var routes []models.IntentRoute
	if err := s.db.WithContext(ctx).Find(&routes).Error; err != nil {
		return nil, err
	}
	return routes, nil
}
