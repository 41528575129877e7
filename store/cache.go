package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/Davsooonowy/TripWhizz/models"
)

// BalanceCache keeps computed trip balances in Redis. The cache is an
// optimization only: a nil client or any Redis failure falls back to
// direct computation.
type BalanceCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewBalanceCache(client *redis.Client, ttl time.Duration) *BalanceCache {
	return &BalanceCache{client: client, ttl: ttl}
}

func balanceKey(tripID uuid.UUID) string {
	return "trip:" + tripID.String() + ":balances"
}

func (c *BalanceCache) Get(ctx context.Context, tripID uuid.UUID) ([]models.BalanceEntry, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, balanceKey(tripID)).Bytes()
	if err != nil {
		return nil, false
	}
	var entries []models.BalanceEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, false
	}
	return entries, true
}

func (c *BalanceCache) Set(ctx context.Context, tripID uuid.UUID, entries []models.BalanceEntry) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, balanceKey(tripID), raw, c.ttl).Err(); err != nil {
		log.Debug().Err(err).Msg("balance cache set failed")
	}
}

// Invalidate drops a trip's cached balances. Called after every expense
// or settlement mutation.
func (c *BalanceCache) Invalidate(ctx context.Context, tripID uuid.UUID) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, balanceKey(tripID)).Err(); err != nil {
		log.Debug().Err(err).Msg("balance cache invalidation failed")
	}
}
