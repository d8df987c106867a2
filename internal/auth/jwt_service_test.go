package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_RoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		identity Identity
	}{
		{name: "regular user", identity: Identity{Username: "user1"}},
		{name: "admin", identity: Identity{Username: "admin", IsAdmin: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewJWTService("test-secret", 0)

			token, expiresAt, err := svc.GenerateToken(tt.identity)
			require.NoError(t, err)
			assert.NotEmpty(t, token)
			assert.WithinDuration(t, time.Now().Add(24*time.Hour), expiresAt, 5*time.Second)

			claims, err := svc.ValidateToken(token)
			require.NoError(t, err)
			assert.Equal(t, tt.identity, claims.Identity())
			assert.Equal(t, tt.identity.Username, claims.Subject)
			assert.NotEmpty(t, claims.ID)
			assert.Equal(t, 24*time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
		})
	}
}

func TestJWTService_TokensAreUnique(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	a, _, err := svc.GenerateToken(Identity{Username: "user1"})
	require.NoError(t, err)
	b, _, err := svc.GenerateToken(Identity{Username: "user1"})
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestJWTService_Expired(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := svc.GenerateToken(Identity{Username: "user1"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_InvalidTokens(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty token", token: ""},
		{name: "garbage token", token: "not-a-jwt-token"},
		{name: "malformed JWT", token: "header.payload.signature"},
		{
			name: "wrong secret",
			token: func() string {
				other := NewJWTService("different-secret", time.Hour)
				token, _, _ := other.GenerateToken(Identity{Username: "admin", IsAdmin: true})
				return token
			}(),
		},
		{
			name: "unsigned token",
			token: func() string {
				token := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{Username: "admin", IsAdmin: true})
				signed, _ := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
				return signed
			}(),
		},
		{
			name: "missing username",
			token: func() string {
				token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
					RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
				})
				signed, _ := token.SignedString([]byte("test-secret"))
				return signed
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.ValidateToken(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}

func TestJWTService_TTL(t *testing.T) {
	assert.Equal(t, DefaultTokenExpiry, NewJWTService("s", 0).TTL())
	assert.Equal(t, time.Hour, NewJWTService("s", time.Hour).TTL())
}
