package application

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/1010nishant/BookMyTrip/internal/domain/entity"
)

var (
	tourCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "natours_tour_cache_hits_total",
		Help: "Tour lookups served from the in-memory cache.",
	})
	tourCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "natours_tour_cache_misses_total",
		Help: "Tour lookups that went to the store.",
	})
)

// TourCache is a per-instance LRU of tours by id with a TTL. A nil
// *TourCache is valid and caches nothing.
type TourCache struct {
	lru *expirable.LRU[string, entity.Tour]
}

func NewTourCache(size int, ttl time.Duration) *TourCache {
	if size <= 0 {
		return nil
	}
	return &TourCache{lru: expirable.NewLRU[string, entity.Tour](size, nil, ttl)}
}

// Get returns a copy so callers cannot mutate the cached value.
func (c *TourCache) Get(id string) (*entity.Tour, bool) {
	if c == nil {
		return nil, false
	}
	t, ok := c.lru.Get(id)
	if !ok {
		tourCacheMissesTotal.Inc()
		return nil, false
	}
	tourCacheHitsTotal.Inc()
	return &t, true
}

func (c *TourCache) Add(t *entity.Tour) {
	if c == nil || t == nil {
		return
	}
	c.lru.Add(t.ID, *t)
}

func (c *TourCache) Remove(id string) {
	if c == nil {
		return
	}
	c.lru.Remove(id)
}

func (c *TourCache) Len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}
