package client

import (
	"context"
	"time"

	"pointmap/internal/model"
)

// PointAPI is the subset of *API the point cache needs.
type PointAPI interface {
	ListPoints(ctx context.Context, token string) ([]model.Point, error)
	CreatePoint(ctx context.Context, token string, p NewPoint) (uint, error)
	ClearPoints(ctx context.Context, token string) error
}

// PointCache mirrors the points the server shows the current user. Every
// successful mutation is followed by a full reload, so the cache only ever
// holds a list the server just returned. That costs one extra round trip per
// mutation.
type PointCache struct {
	api      PointAPI
	points   []model.Point
	loadedAt time.Time
}

// NewPointCache creates an empty point cache.
func NewPointCache(api PointAPI) *PointCache {
	return &PointCache{api: api}
}

// Points returns a copy of the cached points.
func (c *PointCache) Points() []model.Point {
	out := make([]model.Point, len(c.points))
	copy(out, c.points)
	return out
}

// LoadedAt is when the cache was last replaced; zero if never.
func (c *PointCache) LoadedAt() time.Time {
	return c.loadedAt
}

// Reset empties the cache, e.g. after logout.
func (c *PointCache) Reset() {
	c.points = nil
	c.loadedAt = time.Time{}
}

// Reload replaces the cache contents with the server's list. On error the
// previous contents are kept.
func (c *PointCache) Reload(ctx context.Context, token string) error {
	points, err := c.api.ListPoints(ctx, token)
	if err != nil {
		return err
	}
	c.points = points
	c.loadedAt = time.Now()
	return nil
}

// Create stores p and reloads.
func (c *PointCache) Create(ctx context.Context, token string, p NewPoint) (uint, error) {
	id, err := c.api.CreatePoint(ctx, token, p)
	if err != nil {
		return 0, err
	}
	return id, c.Reload(ctx, token)
}

// Clear removes every point on the server and reloads.
func (c *PointCache) Clear(ctx context.Context, token string) error {
	if err := c.api.ClearPoints(ctx, token); err != nil {
		return err
	}
	return c.Reload(ctx, token)
}
