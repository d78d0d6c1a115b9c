package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mealwise/mealwise-backend/internal/logging"
	"github.com/mealwise/mealwise-backend/internal/models"
)

type countingRouteStore struct {
	calls  int32
	routes []models.IntentRoute
	err    error
}

func (s *countingRouteStore) ListRoutes(ctx context.Context) ([]models.IntentRoute, error) {
	atomic.AddInt32(&s.calls, 1)
	return s.routes, s.err
}

func TestRouteCache_LoadOnce(t *testing.T) {
	store := &countingRouteStore{routes: []models.IntentRoute{{Name: RouteMealLog}}}
	cache := NewRouteCache(store, logging.Nop())

	routes := cache.Load(context.Background())
	assert.Len(t, routes, 1)

	cache.Load(context.Background())
	cache.Load(context.Background())
	assert.Equal(t, int32(1), atomic.LoadInt32(&store.calls))
}

func TestRouteCache_ConcurrentFirstLoad(t *testing.T) {
	store := &countingRouteStore{routes: []models.IntentRoute{{Name: RouteFoodQuestion}}}
	cache := NewRouteCache(store, logging.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			routes := cache.Load(context.Background())
			assert.Len(t, routes, 1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&store.calls))
}

func TestRouteCache_FetchFailureCachesEmpty(t *testing.T) {
	store := &countingRouteStore{err: assert.AnError}
	cache := NewRouteCache(store, logging.Nop())

	routes := cache.Load(context.Background())
	assert.Empty(t, routes)

	// The failure is cached; no retry storm on every message.
	cache.Load(context.Background())
	assert.Equal(t, int32(1), atomic.LoadInt32(&store.calls))
}

func TestRouteCache_InvalidateRefetches(t *testing.T) {
	store := &countingRouteStore{routes: []models.IntentRoute{{Name: RouteMealLog}}}
	cache := NewRouteCache(store, logging.Nop())

	cache.Load(context.Background())
	cache.Invalidate()
	assert.Empty(t, cache.Peek())

	cache.Load(context.Background())
	assert.Equal(t, int32(2), atomic.LoadInt32(&store.calls))
}
