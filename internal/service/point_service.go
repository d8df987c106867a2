package service

import (
	"context"
	"fmt"

	"pointmap/internal/auth"
	apperrors "pointmap/internal/errors"
	"pointmap/internal/logging"
	"pointmap/internal/metrics"
	"pointmap/internal/model"
	"pointmap/internal/repository"
)

// Draft is the client-supplied part of a new point.
type Draft struct {
	Name        string
	Description string
	Timestamp   string
	Image       string
	Coordinates model.Coordinates
	// Owner is whatever the client claimed. It is never stored.
	Owner string
}

// PointService applies the visibility and mutation policy for points.
type PointService interface {
	List(ctx context.Context, identity auth.Identity) ([]model.Point, error)
	Create(ctx context.Context, identity auth.Identity, draft Draft) (uint, error)
	ClearAll(ctx context.Context, identity auth.Identity) (int64, error)
}

type pointService struct {
	repo repository.PointRepository
}

// NewPointService creates a new point service.
func NewPointService(repo repository.PointRepository) PointService {
	return &pointService{repo: repo}
}

// List returns every point for admins and only the caller's own points otherwise.
func (s *pointService) List(ctx context.Context, identity auth.Identity) ([]model.Point, error) {
	if identity.IsZero() {
		return nil, apperrors.ErrUnauthenticated
	}

	var (
		points []model.Point
		err    error
	)
	if identity.IsAdmin {
		points, err = s.repo.List(ctx)
	} else {
		points, err = s.repo.ListByOwner(ctx, identity.Username)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	return points, nil
}

// Create stores a new point owned by the caller.
func (s *pointService) Create(ctx context.Context, identity auth.Identity, draft Draft) (uint, error) {
	if identity.IsZero() {
		return 0, apperrors.ErrUnauthenticated
	}
	if err := draft.Coordinates.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	if draft.Owner != "" && draft.Owner != identity.Username {
		logging.Warn().
			Str("user", identity.Username).
			Str("claimed_owner", draft.Owner).
			Msg("ignoring client-supplied owner")
	}

	point := &model.Point{
		Name:        draft.Name,
		Description: draft.Description,
		Timestamp:   draft.Timestamp,
		Image:       draft.Image,
		Coordinates: draft.Coordinates,
		Owner:       identity.Username,
	}
	if err := s.repo.Create(ctx, point); err != nil {
		return 0, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	metrics.PointsCreated.Inc()
	return point.ID, nil
}

// ClearAll deletes every point. Admin only.
func (s *pointService) ClearAll(ctx context.Context, identity auth.Identity) (int64, error) {
	if identity.IsZero() {
		return 0, apperrors.ErrUnauthenticated
	}
	if !identity.IsAdmin {
		return 0, apperrors.ErrForbidden
	}

	removed, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	metrics.PointsCleared.Add(float64(removed))
	logging.Info().Str("user", identity.Username).Int64("removed", removed).Msg("points cleared")
	return removed, nil
}
