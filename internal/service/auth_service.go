package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"pointmap/internal/auth"
	apperrors "pointmap/internal/errors"
	"pointmap/internal/logging"
	"pointmap/internal/metrics"
	"pointmap/internal/model"
	"pointmap/internal/repository"
)

const bcryptCost = 10

// LoginResult is what a successful login hands back to the caller.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Identity  auth.Identity
}

// AuthService handles authentication operations.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Register(ctx context.Context, username, password string) (*model.User, error)
}

type authService struct {
	userRepo    repository.UserRepository
	jwtService  *auth.JWTService
	credentials auth.CredentialCacheInterface
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, credentials auth.CredentialCacheInterface) AuthService {
	return &authService{
		userRepo:    userRepo,
		jwtService:  jwtService,
		credentials: credentials,
	}
}

// dummyHash is compared against when the username is unknown so both failure
// paths cost one bcrypt comparison.
var dummyHash = sync.OnceValue(func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("pointmap-dummy-secret"), bcryptCost)
	return h
})

// Login checks the credentials and issues a session token. Unknown usernames
// and wrong secrets fail identically with ErrInvalidCredentials.
func (s *authService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.lookupUser(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
			metrics.LoginAttempts.WithLabelValues(metrics.OutcomeInvalid).Inc()
		} else {
			metrics.LoginAttempts.WithLabelValues(metrics.OutcomeError).Inc()
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		metrics.LoginAttempts.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return nil, apperrors.ErrInvalidCredentials
	}

	identity := auth.Identity{Username: user.Username, IsAdmin: user.IsAdmin}
	token, expiresAt, err := s.jwtService.GenerateToken(identity)
	if err != nil {
		metrics.LoginAttempts.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("generate token: %w", err)
	}
	metrics.LoginAttempts.WithLabelValues(metrics.OutcomeSuccess).Inc()

	logging.Info().Str("user", user.Username).Bool("admin", user.IsAdmin).Msg("session issued")

	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		Identity:  identity,
	}, nil
}

// lookupUser reads the credential store through the cache.
func (s *authService) lookupUser(ctx context.Context, username string) (*model.User, error) {
	if strings.TrimSpace(username) == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	if user, ok := s.credentials.Get(ctx, username); ok {
		return user, nil
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	_ = s.credentials.Put(ctx, user)
	return user, nil
}

// Register creates a regular (non-admin) user.
func (s *authService) Register(ctx context.Context, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", apperrors.ErrValidation)
	}

	existing, err := s.userRepo.FindByUsername(ctx, username)
	if err == nil && existing != nil {
		return nil, apperrors.ErrUserAlreadyExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: check user existence: %v", apperrors.ErrStorage, err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: string(hashed),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// A concurrent registration can win between the check above and the insert.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("%w: create user: %v", apperrors.ErrStorage, err)
	}

	return user, nil
}
