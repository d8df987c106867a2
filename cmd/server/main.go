package main

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"pointmap/docs" // swagger docs
	"pointmap/internal/auth"
	"pointmap/internal/cache"
	"pointmap/internal/config"
	"pointmap/internal/db"
	"pointmap/internal/handler"
	"pointmap/internal/logging"
	"pointmap/internal/repository"
	"pointmap/internal/router"
	"pointmap/internal/service"
)

// @title Point Map API
// @version 1.0
// @description Shared map annotations with per-user visibility and JWT sessions.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	e := echo.New()
	e.HideBanner = true

	gormDB, err := db.Open(cfg)
	if err != nil {
		logging.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("database init")
	}

	if cfg.ResetDB {
		logging.Warn().Msg("RESET_DB=true detected, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			logging.Warn().Err(err).Msg("failed to drop tables (may not exist)")
		}
	}

	if err := db.Migrate(gormDB); err != nil {
		logging.Fatal().Err(err).Msg("migrate")
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	if err := cacheClient.Ping(pingCtx); err != nil {
		logging.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable, credential lookups go straight to the database")
	}
	cancel()

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	pointRepo := repository.NewPointRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL)
	credentials := auth.NewCredentialCache(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, credentials)
	pointService := service.NewPointService(pointRepo)

	// Register routes
	router.Register(
		e,
		jwtService,
		handler.NewAuthHandler(authService),
		handler.NewPointHandler(pointService),
	)

	docsURL := swaggerURL(cfg.SwaggerHost, cfg.ServerPort)
	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "http://"), "https://")
	}
	logging.Info().Str("url", docsURL).Msg("swagger documentation available")

	addr := ":" + cfg.ServerPort
	logging.Info().Str("addr", addr).Str("driver", cfg.DBDriver).Msg("server starting")
	if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logging.Fatal().Err(err).Msg("server start")
	}
}

// swaggerURL builds the UI address; host may already carry a scheme.
func swaggerURL(host, port string) string {
	switch {
	case host == "":
		return "http://localhost:" + port + "/swagger/index.html"
	case strings.HasPrefix(host, "http://"), strings.HasPrefix(host, "https://"):
		return host + "/swagger/index.html"
	default:
		return "http://" + host + "/swagger/index.html"
	}
}
