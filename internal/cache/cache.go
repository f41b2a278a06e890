package cache

import (
	"context"
	"time"
)

// StockCache is an eventually-consistent read cache for the stock listing.
// It is only ever consulted for display; transitions always re-read
// authoritative state inside their own transaction.
type StockCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

type NoopStockCache struct{}

func (NoopStockCache) Get(_ context.Context, _ string) ([]byte, bool, error) {
	return nil, false, nil
}

func (NoopStockCache) Set(_ context.Context, _ string, _ []byte, _ time.Duration) error {
	return nil
}

func (NoopStockCache) Invalidate(_ context.Context, _ string) error {
	return nil
}
