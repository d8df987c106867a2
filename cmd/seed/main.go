package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"pointmap/internal/auth"
	"pointmap/internal/cache"
	"pointmap/internal/config"
	"pointmap/internal/db"
	"pointmap/internal/logging"
	"pointmap/internal/repository"
	"pointmap/internal/service"
)

const defaultSeedUsers = "admin:admin:admin,user1:user1,user2:user2"

func main() {
	cfg := config.Load()
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	logging.Info().Msg("starting seed script")

	users, err := parseSeedUsers(getEnv("SEED_USERS", defaultSeedUsers))
	if err != nil {
		logging.Fatal().Err(err).Msg("invalid SEED_USERS")
	}

	gormDB, err := db.Open(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to database")
	}
	logging.Info().Str("driver", cfg.DBDriver).Msg("connected to database")

	// Run migrations to ensure schema is up to date
	if err := db.Migrate(gormDB); err != nil {
		logging.Fatal().Err(err).Msg("failed to run migrations")
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()

	userService := service.NewUserService(
		repository.NewUserRepository(gormDB),
		auth.NewCredentialCache(cacheClient),
	)

	created, skipped, err := userService.Seed(context.Background(), users)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to seed users")
	}

	logging.Info().
		Int("created", created).
		Int("skipped", skipped).
		Msg("seed completed")

	all, err := userService.ListUsers(context.Background())
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to list users")
	}
	for _, u := range all {
		logging.Info().Str("username", u.Username).Bool("admin", u.IsAdmin).Msg("user")
	}
}

// parseSeedUsers reads "name:secret[:admin]" entries separated by commas.
func parseSeedUsers(raw string) ([]service.SeedUser, error) {
	var users []service.SeedUser
	seen := make(map[string]bool)

	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		parts := strings.Split(entry, ":")
		if len(parts) < 2 || len(parts) > 3 {
			return nil, fmt.Errorf("entry %q: want name:secret[:admin]", entry)
		}

		user := service.SeedUser{
			Username: strings.TrimSpace(parts[0]),
			Password: parts[1],
		}
		if user.Username == "" || user.Password == "" {
			return nil, fmt.Errorf("entry %q: empty name or secret", entry)
		}
		if len(parts) == 3 {
			if parts[2] != "admin" {
				return nil, fmt.Errorf("entry %q: unknown role %q", entry, parts[2])
			}
			user.IsAdmin = true
		}
		if seen[user.Username] {
			return nil, fmt.Errorf("entry %q: duplicate user", entry)
		}
		seen[user.Username] = true

		users = append(users, user)
	}

	if len(users) == 0 {
		return nil, fmt.Errorf("no users given")
	}
	return users, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
