package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// markerTTL outlives any month so the key is present for the whole period and
// gone well before the same period key could ever repeat.
const markerTTL = 40 * 24 * time.Hour

// CycleMarker records which billing periods have already run, so the daily
// scheduler does not re-trigger a cycle for a month that completed. The cycle
// itself is idempotent; the marker only avoids redundant work.
// Key format: billing:cycle:<period>  (period = "2006-01")
type CycleMarker struct {
	client *redis.Client
}

// NewCycleMarker creates a CycleMarker wrapping the given Redis client.
func NewCycleMarker(client *redis.Client) *CycleMarker {
	return &CycleMarker{client: client}
}

// AlreadyRan reports whether a completed cycle was recorded for the period.
func (m *CycleMarker) AlreadyRan(ctx context.Context, period string) (bool, error) {
	n, err := m.client.Exists(ctx, m.key(period)).Result()
	if err != nil {
		return false, fmt.Errorf("cycle marker check: %w", err)
	}
	return n > 0, nil
}

// Mark records that the period's cycle completed (expires after markerTTL).
func (m *CycleMarker) Mark(ctx context.Context, period string) error {
	return m.client.Set(ctx, m.key(period), "1", markerTTL).Err()
}

func (m *CycleMarker) key(period string) string {
	return fmt.Sprintf("billing:cycle:%s", period)
}
