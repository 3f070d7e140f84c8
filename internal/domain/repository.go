package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for the shared key-value cache.
// Get returns ErrCacheMiss when the key is absent or expired.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// NutritionSearcher defines the external nutrition search. Records are per
// 100g. An empty slice with a nil error means the search succeeded but found
// nothing.
type NutritionSearcher interface {
	SearchFoods(ctx context.Context, query string) ([]FoodRecord, error)
}

// FeedbackSink receives user reports about incorrect nutrition values
type FeedbackSink interface {
	Submit(ctx context.Context, feedback NutritionFeedback) error
}
