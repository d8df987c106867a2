package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"pointmap/internal/model"
	"pointmap/internal/service"
)

// PointHandler handles point endpoints.
type PointHandler struct {
	pointService service.PointService
}

// NewPointHandler creates a new point handler.
func NewPointHandler(pointService service.PointService) *PointHandler {
	return &PointHandler{pointService: pointService}
}

// CreatePointRequest is the body of POST /points.
type CreatePointRequest struct {
	Name        string    `json:"name" validate:"max=255"`
	Description string    `json:"description"`
	Timestamp   string    `json:"timestamp" validate:"max=64"`
	Image       string    `json:"image"`
	Coordinates []float64 `json:"coordinates" validate:"required,len=2"`
	// User is accepted for compatibility and ignored; the owner is the token's user.
	User string `json:"user,omitempty"`
}

// CreatePointResponse carries the new point ID.
type CreatePointResponse struct {
	ID uint `json:"id"`
}

// ClearPointsResponse reports a bulk clear.
type ClearPointsResponse struct {
	Success bool  `json:"success"`
	Removed int64 `json:"removed"`
}

// ListPoints godoc
// @Summary List points visible to the caller
// @Description Admins receive every point; other users receive only their own.
// @Tags points
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Point
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /points [get]
func (h *PointHandler) ListPoints(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}

	points, err := h.pointService.List(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	if points == nil {
		points = []model.Point{}
	}

	return c.JSON(http.StatusOK, points)
}

// CreatePoint godoc
// @Summary Create a point owned by the caller
// @Tags points
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreatePointRequest true "Point data"
// @Success 200 {object} CreatePointResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /points [post]
func (h *PointHandler) CreatePoint(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}

	var req CreatePointRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(err.Error())
	}

	pointID, err := h.pointService.Create(c.Request().Context(), id, service.Draft{
		Name:        req.Name,
		Description: req.Description,
		Timestamp:   req.Timestamp,
		Image:       req.Image,
		Coordinates: model.Coordinates(req.Coordinates),
		Owner:       req.User,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, CreatePointResponse{ID: pointID})
}

// ClearPoints godoc
// @Summary Delete every point
// @Description Admin only. Removes all points regardless of owner.
// @Tags points
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ClearPointsResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /points [delete]
func (h *PointHandler) ClearPoints(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}

	removed, err := h.pointService.ClearAll(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, ClearPointsResponse{Success: true, Removed: removed})
}
