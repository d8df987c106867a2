package client

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "pointmap/internal/errors"
)

type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Login(ctx context.Context, username, password string) (*Session, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Session), args.Error(1)
}

type MockPrompter struct {
	mock.Mock
}

func (m *MockPrompter) PromptCredentials(ctx context.Context, reason string) (Credentials, error) {
	args := m.Called(ctx, reason)
	return args.Get(0).(Credentials), args.Error(1)
}

var user1Session = &Session{Token: "tok-1", User: User{Username: "user1"}}

func TestSessionCache_CachedSessionRunsImmediately(t *testing.T) {
	auth := new(MockAuthenticator)
	prompter := new(MockPrompter)
	store := &MemorySessionStore{}
	require.NoError(t, store.Save(*user1Session))

	cache := NewSessionCache(auth, store, prompter)

	calls := 0
	err := cache.Do(context.Background(), "list points", func(ctx context.Context, s Session) error {
		calls++
		assert.Equal(t, "tok-1", s.Token)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	prompter.AssertNotCalled(t, "PromptCredentials", mock.Anything, mock.Anything)
	auth.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
}

func TestSessionCache_ResumesAfterLogin(t *testing.T) {
	ctx := context.Background()
	auth := new(MockAuthenticator)
	prompter := new(MockPrompter)
	store := &MemorySessionStore{}
	cache := NewSessionCache(auth, store, prompter)

	wizard := NewWizard([]float64{10, 20})
	require.NoError(t, wizard.SelectCategory(CategoryCompliment))
	require.NoError(t, wizard.EnterDetails("clean square", ""))

	prompter.On("PromptCredentials", ctx, "create point").Run(func(args mock.Arguments) {
		pending, ok := cache.Pending()
		require.True(t, ok)
		assert.Equal(t, "create point", pending.Description)
	}).Return(Credentials{Username: "user1", Password: "pw"}, nil).Once()
	auth.On("Login", ctx, "user1", "pw").Return(user1Session, nil).Once()

	calls := 0
	err := cache.Do(ctx, "create point", func(ctx context.Context, s Session) error {
		calls++
		assert.Equal(t, "user1", s.User.Username)
		// Input entered before the prompt is still there.
		assert.Equal(t, Confirming, wizard.State())
		assert.Equal(t, CategoryCompliment, wizard.Category())
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	_, pending := cache.Pending()
	assert.False(t, pending)

	stored, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, user1Session, stored)

	prompter.AssertExpectations(t)
	auth.AssertExpectations(t)
}

func TestSessionCache_FailedLoginDiscardsAction(t *testing.T) {
	ctx := context.Background()
	auth := new(MockAuthenticator)
	prompter := new(MockPrompter)
	cache := NewSessionCache(auth, &MemorySessionStore{}, prompter)

	prompter.On("PromptCredentials", ctx, "clear").Return(Credentials{Username: "user1", Password: "bad"}, nil)
	auth.On("Login", ctx, "user1", "bad").Return(nil, apperrors.ErrInvalidCredentials)

	err := cache.Do(ctx, "clear", func(ctx context.Context, s Session) error {
		t.Fatal("action must not run")
		return nil
	})

	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	_, pending := cache.Pending()
	assert.False(t, pending)
	_, ok := cache.Current()
	assert.False(t, ok)
}

func TestSessionCache_AbandonedLoginDiscardsAction(t *testing.T) {
	ctx := context.Background()
	auth := new(MockAuthenticator)
	prompter := new(MockPrompter)
	cache := NewSessionCache(auth, &MemorySessionStore{}, prompter)

	prompter.On("PromptCredentials", ctx, "list").Return(Credentials{}, ErrLoginAbandoned)

	err := cache.Do(ctx, "list", func(ctx context.Context, s Session) error {
		t.Fatal("action must not run")
		return nil
	})

	assert.ErrorIs(t, err, ErrLoginAbandoned)
	_, pending := cache.Pending()
	assert.False(t, pending)
	auth.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
}

func TestSessionCache_RejectedTokenDropsSession(t *testing.T) {
	store := &MemorySessionStore{}
	require.NoError(t, store.Save(*user1Session))
	cache := NewSessionCache(new(MockAuthenticator), store, new(MockPrompter))

	calls := 0
	err := cache.Do(context.Background(), "list", func(ctx context.Context, s Session) error {
		calls++
		return apperrors.ErrUnauthenticated
	})

	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
	assert.Equal(t, 1, calls)
	_, ok := cache.Current()
	assert.False(t, ok)
	stored, _ := store.Load()
	assert.Nil(t, stored)
}

func TestSessionCache_OtherErrorsKeepSession(t *testing.T) {
	store := &MemorySessionStore{}
	require.NoError(t, store.Save(*user1Session))
	cache := NewSessionCache(new(MockAuthenticator), store, new(MockPrompter))

	err := cache.Do(context.Background(), "clear", func(ctx context.Context, s Session) error {
		return apperrors.ErrForbidden
	})

	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	_, ok := cache.Current()
	assert.True(t, ok)
}

type failingStore struct {
	MemorySessionStore
	cleared bool
}

func (f *failingStore) Load() (*Session, error) { return nil, errors.New("corrupt") }

func (f *failingStore) Clear() error {
	f.cleared = true
	return nil
}

func TestSessionCache_UnreadableStoreIsCleared(t *testing.T) {
	store := &failingStore{}
	cache := NewSessionCache(new(MockAuthenticator), store, new(MockPrompter))

	_, ok := cache.Current()
	assert.False(t, ok)
	assert.True(t, store.cleared)
}

func TestSessionCache_Logout(t *testing.T) {
	store := &MemorySessionStore{}
	require.NoError(t, store.Save(*user1Session))
	cache := NewSessionCache(new(MockAuthenticator), store, new(MockPrompter))

	_, ok := cache.Current()
	require.True(t, ok)

	require.NoError(t, cache.Logout())
	_, ok = cache.Current()
	assert.False(t, ok)
	stored, _ := store.Load()
	assert.Nil(t, stored)
}
