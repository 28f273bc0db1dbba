package engine

import (
	"context"
	"encoding/json"
	"time"

	"github.com/joripage/matching-engine/pkg/engine/model"
	"github.com/redis/go-redis/v9"
)

const bboKeyPrefix = "marketdata:bbo:"

// BBOCache keeps the latest best-bid-offer per symbol in redis so query
// services can read the top of book without touching the engine.
type BBOCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewBBOCache(rdb *redis.Client, ttl time.Duration) *BBOCache {
	return &BBOCache{rdb: rdb, ttl: ttl}
}

func (c *BBOCache) PublishMarketData(ctx context.Context, md *model.MarketDataUpdate) error {
	b, err := json.Marshal(md)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, bboKeyPrefix+md.Symbol, b, c.ttl).Err()
}

func (c *BBOCache) Get(ctx context.Context, symbol string) (*model.MarketDataUpdate, error) {
	b, err := c.rdb.Get(ctx, bboKeyPrefix+symbol).Bytes()
	if err != nil {
		return nil, err
	}
	md := &model.MarketDataUpdate{}
	if err := json.Unmarshal(b, md); err != nil {
		return nil, err
	}
	return md, nil
}
