package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"pointmap/internal/auth"
	"pointmap/internal/model"
	"pointmap/internal/repository"
)

// SeedUser describes a credential store entry to create.
type SeedUser struct {
	Username string
	Password string
	IsAdmin  bool
}

// UserService manages the credential store outside the login path.
type UserService interface {
	Seed(ctx context.Context, users []SeedUser) (created int, skipped int, err error)
	ListUsers(ctx context.Context) ([]model.User, error)
}

type userService struct {
	repo        repository.UserRepository
	credentials auth.CredentialCacheInterface
}

// NewUserService builds a UserService.
func NewUserService(repo repository.UserRepository, credentials auth.CredentialCacheInterface) UserService {
	return &userService{repo: repo, credentials: credentials}
}

// Seed creates missing users. Users are immutable once created, so existing
// usernames are skipped and keep their secret and role.
func (s *userService) Seed(ctx context.Context, users []SeedUser) (created int, skipped int, err error) {
	for _, u := range users {
		_, err := s.repo.FindByUsername(ctx, u.Username)
		if err == nil {
			skipped++
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, skipped, fmt.Errorf("error checking user %s: %w", u.Username, err)
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcryptCost)
		if err != nil {
			return created, skipped, fmt.Errorf("hash password for %s: %w", u.Username, err)
		}

		user := &model.User{Username: u.Username, PasswordHash: string(hashed), IsAdmin: u.IsAdmin}
		if err := s.repo.Create(ctx, user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				skipped++
				continue
			}
			return created, skipped, fmt.Errorf("error creating user %s: %w", u.Username, err)
		}
		created++

		// Redis outlives a RESET_DB, so a record cached before the reset must go.
		_ = s.credentials.Forget(ctx, u.Username)
	}
	return created, skipped, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.repo.List(ctx)
}
