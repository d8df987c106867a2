package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"pointmap/internal/auth"
	apperrors "pointmap/internal/errors"
	"pointmap/internal/logging"
)

// respondError converts a service error into the JSON error envelope.
func respondError(c echo.Context, err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		logging.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	}
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

func badRequest(message string) error {
	return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
		Error: message,
		Code:  "VALIDATION_ERROR",
	})
}

// identity pulls the verified identity; a missing one means the route was
// registered without the auth middleware and is treated as unauthenticated.
func identity(c echo.Context) (auth.Identity, error) {
	id, ok := auth.IdentityFromContext(c)
	if !ok {
		return auth.Identity{}, respondError(c, apperrors.ErrUnauthenticated)
	}
	return id, nil
}
