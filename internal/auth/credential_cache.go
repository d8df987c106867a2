package auth

import (
	"context"
	"time"

	"pointmap/internal/cache"
	"pointmap/internal/model"
)

const (
	credentialKeyPrefix = "user:"
	// CredentialCacheTTL bounds how long a user record is served from Redis.
	CredentialCacheTTL = 5 * time.Minute
)

// CredentialCacheInterface defines the interface for cached credential lookups.
type CredentialCacheInterface interface {
	Get(ctx context.Context, username string) (*model.User, bool)
	Put(ctx context.Context, user *model.User) error
	Forget(ctx context.Context, username string) error
}

// CredentialCache keeps user records in Redis. Users are immutable once
// created, so entries only need a TTL and an explicit Forget after seeding.
type CredentialCache struct {
	cache *cache.Client
}

var _ CredentialCacheInterface = (*CredentialCache)(nil)

// NewCredentialCache creates a new credential cache.
func NewCredentialCache(cache *cache.Client) *CredentialCache {
	return &CredentialCache{cache: cache}
}

// cachedUser mirrors model.User including the hash, which model.User hides from JSON.
type cachedUser struct {
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
	IsAdmin      bool   `json:"is_admin"`
}

// Get returns the cached user record, if any.
func (s *CredentialCache) Get(ctx context.Context, username string) (*model.User, bool) {
	var entry cachedUser
	if !s.cache.GetJSON(ctx, credentialKeyPrefix+username, &entry) {
		return nil, false
	}
	if entry.Username != username || entry.PasswordHash == "" {
		return nil, false
	}
	return &model.User{
		ID:           entry.ID,
		Username:     entry.Username,
		PasswordHash: entry.PasswordHash,
		IsAdmin:      entry.IsAdmin,
	}, true
}

// Put stores a user record with CredentialCacheTTL.
func (s *CredentialCache) Put(ctx context.Context, user *model.User) error {
	entry := cachedUser{
		ID:           user.ID,
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		IsAdmin:      user.IsAdmin,
	}
	return s.cache.SetJSON(ctx, credentialKeyPrefix+user.Username, entry, CredentialCacheTTL)
}

// Forget drops a cached user record.
func (s *CredentialCache) Forget(ctx context.Context, username string) error {
	return s.cache.Delete(ctx, credentialKeyPrefix+username)
}
