package auth

import (
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	apperrors "pointmap/internal/errors"
	"pointmap/internal/logging"
)

// Middleware authenticates requests from an "Authorization: Bearer <token>"
// header. Missing, malformed, forged or expired tokens all end in 401.
func Middleware(jwtService *JWTService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  ContextKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			return jwtService.ValidateToken(auth)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			logging.Debug().Err(err).Str("path", c.Path()).Msg("rejected session token")
			return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
				Error: apperrors.ErrUnauthenticated.Error(),
				Code:  "UNAUTHENTICATED",
			})
		},
	})
}
