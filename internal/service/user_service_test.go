package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"pointmap/internal/model"
)

func TestUserService_Seed(t *testing.T) {
	repo := new(MockUserRepository)
	creds := new(MockCredentialCache)

	existing := &model.User{ID: 1, Username: "admin", PasswordHash: "old", IsAdmin: true}
	repo.On("FindByUsername", mock.Anything, "admin").Return(existing, nil)
	repo.On("FindByUsername", mock.Anything, "user1").Return(nil, gorm.ErrRecordNotFound)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Username == "user1" && !u.IsAdmin &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("user1pw")) == nil
	})).Return(nil)
	creds.On("Forget", mock.Anything, "user1").Return(nil)

	created, skipped, err := NewUserService(repo, creds).Seed(context.Background(), []SeedUser{
		{Username: "admin", Password: "new-secret", IsAdmin: false},
		{Username: "user1", Password: "user1pw"},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, created)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, "old", existing.PasswordHash)
	assert.True(t, existing.IsAdmin)
	repo.AssertExpectations(t)
	creds.AssertExpectations(t)
	creds.AssertNotCalled(t, "Forget", mock.Anything, "admin")
}

func TestUserService_SeedDuplicateInsertIsSkipped(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("FindByUsername", mock.Anything, "user1").Return(nil, gorm.ErrRecordNotFound)
	repo.On("Create", mock.Anything, mock.Anything).Return(gorm.ErrDuplicatedKey)

	created, skipped, err := NewUserService(repo, new(MockCredentialCache)).Seed(context.Background(), []SeedUser{
		{Username: "user1", Password: "pw"},
	})

	require.NoError(t, err)
	assert.Zero(t, created)
	assert.Equal(t, 1, skipped)
}

func TestUserService_SeedStopsOnError(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("FindByUsername", mock.Anything, "user1").Return(nil, errors.New("boom"))

	created, skipped, err := NewUserService(repo, new(MockCredentialCache)).Seed(context.Background(), []SeedUser{
		{Username: "user1", Password: "pw"},
		{Username: "user2", Password: "pw"},
	})

	assert.Error(t, err)
	assert.Zero(t, created)
	assert.Zero(t, skipped)
	repo.AssertExpectations(t)
}

func TestUserService_ListUsers(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("List", mock.Anything).Return([]model.User{{Username: "admin"}}, nil)

	users, err := NewUserService(repo, new(MockCredentialCache)).ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
