package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"pointmap/internal/db"
	"pointmap/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gormDB, err := db.NewSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))
	t.Cleanup(func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gormDB
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	require.NoError(t, repo.Create(ctx, &model.User{Username: "admin", PasswordHash: "h1", IsAdmin: true}))
	require.NoError(t, repo.Create(ctx, &model.User{Username: "user1", PasswordHash: "h2"}))

	t.Run("find by username", func(t *testing.T) {
		user, err := repo.FindByUsername(ctx, "admin")
		require.NoError(t, err)
		assert.True(t, user.IsAdmin)
		assert.Equal(t, "h1", user.PasswordHash)
	})

	t.Run("unknown username", func(t *testing.T) {
		_, err := repo.FindByUsername(ctx, "ghost")
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("duplicate username rejected", func(t *testing.T) {
		err := repo.Create(ctx, &model.User{Username: "user1", PasswordHash: "other"})
		assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

		user, err := repo.FindByUsername(ctx, "user1")
		require.NoError(t, err)
		assert.Equal(t, "h2", user.PasswordHash)
	})

	t.Run("list", func(t *testing.T) {
		users, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, "admin", users[0].Username)
	})
}

func TestPointRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewPointRepository(newTestDB(t))

	first := &model.Point{Name: "Elogio", Coordinates: model.NewCoordinates(10, 20), Owner: "user1"}
	second := &model.Point{Name: "Sugestão", Coordinates: model.NewCoordinates(-4286218.991500869, -419618.8159614294), Owner: "user2"}
	third := &model.Point{Name: "Reclamação", Coordinates: model.NewCoordinates(1, 2), Owner: "user1"}
	for _, p := range []*model.Point{first, second, third} {
		require.NoError(t, repo.Create(ctx, p))
	}

	assert.Less(t, first.ID, second.ID)
	assert.Less(t, second.ID, third.ID)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []uint{first.ID, second.ID, third.ID}, []uint{all[0].ID, all[1].ID, all[2].ID})
	assert.Equal(t, second.Coordinates, all[1].Coordinates)

	mine, err := repo.ListByOwner(ctx, "user1")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	for _, p := range mine {
		assert.Equal(t, "user1", p.Owner)
	}

	none, err := repo.ListByOwner(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	removed, err := repo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)

	removed, err = repo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), removed)

	all, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestPointRepository_RejectsMalformedCoordinates(t *testing.T) {
	repo := NewPointRepository(newTestDB(t))
	err := repo.Create(context.Background(), &model.Point{Coordinates: model.Coordinates{1}, Owner: "user1"})
	assert.Error(t, err)
}
