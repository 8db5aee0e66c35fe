package cache

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/trip-planner/internal/domain"
	"github.com/spec-kit/trip-planner/internal/persistence"
)

const keyPrefix = "itinerary:"

// ItineraryCache is a redis-backed read-through cache for itinerary documents.
// Cache failures are logged and never surfaced; every write path invalidates.
type ItineraryCache struct {
	redis  *persistence.Redis
	ttl    time.Duration
	logger *zap.Logger
}

// NewItineraryCache constructs the cache.
func NewItineraryCache(redis *persistence.Redis, ttl time.Duration, logger *zap.Logger) *ItineraryCache {
	return &ItineraryCache{redis: redis, ttl: ttl, logger: logger}
}

type cachedItinerary struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Doc       domain.Itinerary
}

// Get returns the cached itinerary for id, if present and decodable.
func (c *ItineraryCache) Get(ctx context.Context, id string) (*domain.Itinerary, bool) {
	if c == nil || c.redis == nil || c.redis.Client == nil {
		return nil, false
	}
	raw, err := c.redis.Client.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		return nil, false
	}
	var entry cachedItinerary
	if err := json.Unmarshal(raw, &entry); err != nil {
		c.logger.Debug("itinerary cache decode failed", zap.String("id", id), zap.Error(err))
		return nil, false
	}
	it := entry.Doc
	it.ID = entry.ID
	it.OwnerID = entry.OwnerID
	it.Version = entry.Version
	it.CreatedAt = entry.CreatedAt
	it.UpdatedAt = entry.UpdatedAt
	return &it, true
}

// Set stores the itinerary with the configured TTL.
func (c *ItineraryCache) Set(ctx context.Context, it *domain.Itinerary) {
	if c == nil || c.redis == nil || c.redis.Client == nil {
		return
	}
	raw, err := json.Marshal(cachedItinerary{
		ID:        it.ID,
		OwnerID:   it.OwnerID,
		Version:   it.Version,
		CreatedAt: it.CreatedAt,
		UpdatedAt: it.UpdatedAt,
		Doc:       *it,
	})
	if err != nil {
		c.logger.Debug("itinerary cache encode failed", zap.String("id", it.ID), zap.Error(err))
		return
	}
	if err := c.redis.Client.Set(ctx, keyPrefix+it.ID, raw, c.ttl).Err(); err != nil {
		c.logger.Debug("itinerary cache set failed", zap.String("id", it.ID), zap.Error(err))
	}
}

// Invalidate drops the cached document for id.
func (c *ItineraryCache) Invalidate(ctx context.Context, id string) {
	if c == nil || c.redis == nil || c.redis.Client == nil {
		return
	}
	if err := c.redis.Client.Del(ctx, keyPrefix+id).Err(); err != nil {
		c.logger.Debug("itinerary cache invalidate failed", zap.String("id", id), zap.Error(err))
	}
}
