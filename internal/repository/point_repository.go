package repository

import (
	"context"

	"gorm.io/gorm"

	"pointmap/internal/model"
)

// PointRepository defines annotation persistence operations.
// Listings are returned in insertion (id) order.
type PointRepository interface {
	Create(ctx context.Context, point *model.Point) error
	List(ctx context.Context) ([]model.Point, error)
	ListByOwner(ctx context.Context, owner string) ([]model.Point, error)
	DeleteAll(ctx context.Context) (int64, error)
}

type pointRepository struct {
	db *gorm.DB
}

// NewPointRepository creates a new point repository.
func NewPointRepository(db *gorm.DB) PointRepository {
	return &pointRepository{db: db}
}

// Create inserts a point and fills in its ID.
func (r *pointRepository) Create(ctx context.Context, point *model.Point) error {
	return r.db.WithContext(ctx).Create(point).Error
}

// List returns every point regardless of owner.
func (r *pointRepository) List(ctx context.Context) ([]model.Point, error) {
	points := []model.Point{}
	if err := r.db.WithContext(ctx).Order("id").Find(&points).Error; err != nil {
		return nil, err
	}
	return points, nil
}

// ListByOwner returns the points owned by owner.
func (r *pointRepository) ListByOwner(ctx context.Context, owner string) ([]model.Point, error) {
	points := []model.Point{}
	if err := r.db.WithContext(ctx).Where("owner = ?", owner).Order("id").Find(&points).Error; err != nil {
		return nil, err
	}
	return points, nil
}

// DeleteAll removes every point and reports how many rows were deleted.
func (r *pointRepository) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Point{})
	return res.RowsAffected, res.Error
}
