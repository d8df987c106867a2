package router

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"pointmap/internal/auth"
	apperrors "pointmap/internal/errors"
	"pointmap/internal/handler"
	"pointmap/internal/logging"
	"pointmap/internal/metrics"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	jwtService *auth.JWTService,
	authHandler *handler.AuthHandler,
	pointHandler *handler.PointHandler,
) {
	e.Use(middleware.RequestID())
	e.Use(logging.RequestLogger())
	e.Use(middleware.Recover())
	e.Use(metrics.Middleware())

	e.Validator = &CustomValidator{validator: validator.New()}
	e.HTTPErrorHandler = errorHandler(e)

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/metrics", metrics.Handler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/login", authHandler.Login)
	api.POST("/register", authHandler.Register)

	// Secured routes (require a session token)
	secured := api.Group("", auth.Middleware(jwtService))

	secured.GET("/points", pointHandler.ListPoints)
	secured.POST("/points", pointHandler.CreatePoint)
	secured.DELETE("/points", pointHandler.ClearPoints)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// errorHandler makes every error body an apperrors.ErrorResponse, including
// echo's own 404/405 and errors that are not *echo.HTTPError.
func errorHandler(e *echo.Echo) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var he *echo.HTTPError
		if !errors.As(err, &he) {
			he = echo.NewHTTPError(http.StatusInternalServerError, apperrors.ErrorResponse{
				Error: "internal server error",
				Code:  "INTERNAL_ERROR",
			})
		} else if msg, ok := he.Message.(string); ok {
			he = echo.NewHTTPError(he.Code, apperrors.ErrorResponse{
				Error: msg,
				Code:  statusCode(he.Code),
			})
		}
		e.DefaultHTTPErrorHandler(he, c)
	}
}

// statusCode turns 404 into NOT_FOUND, 405 into METHOD_NOT_ALLOWED and so on.
func statusCode(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "HTTP_ERROR"
	}
	return strings.ToUpper(strings.ReplaceAll(text, " ", "_"))
}
