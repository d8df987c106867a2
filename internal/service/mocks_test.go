package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"pointmap/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

// MockPointRepository is a mock implementation of PointRepository.
type MockPointRepository struct {
	mock.Mock
}

func (m *MockPointRepository) Create(ctx context.Context, point *model.Point) error {
	args := m.Called(ctx, point)
	return args.Error(0)
}

func (m *MockPointRepository) List(ctx context.Context) ([]model.Point, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Point), args.Error(1)
}

func (m *MockPointRepository) ListByOwner(ctx context.Context, owner string) ([]model.Point, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Point), args.Error(1)
}

func (m *MockPointRepository) DeleteAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockCredentialCache is a mock implementation of CredentialCacheInterface.
type MockCredentialCache struct {
	mock.Mock
}

func (m *MockCredentialCache) Get(ctx context.Context, username string) (*model.User, bool) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*model.User), args.Bool(1)
}

func (m *MockCredentialCache) Put(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockCredentialCache) Forget(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}
