package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTMaker_GenerateAndParseToken(t *testing.T) {
	maker := NewJWTMaker("test_secret_key_1234567890", 15*time.Minute)

	tests := []struct {
		name     string
		userID   int64
		username string
	}{
		{name: "admin", userID: 1, username: "admin"},
		{name: "operator", userID: 42, username: "finance.ops"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := maker.GenerateToken(tt.userID, tt.username)
			require.NoError(t, err)
			assert.NotEmpty(t, token)

			claims, err := maker.ParseToken(token)
			require.NoError(t, err)

			id, err := claims.UserID()
			require.NoError(t, err)
			assert.Equal(t, tt.userID, id)
			assert.Equal(t, tt.username, claims.Username)
			assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt.Time, time.Second)
		})
	}
}

func TestJWTMaker_ParseToken_InvalidTokens(t *testing.T) {
	secret := "test_secret_key_1234567890"
	maker := NewJWTMaker(secret, 15*time.Minute)

	valid, err := maker.GenerateToken(1, "admin")
	require.NoError(t, err)

	expired, err := NewJWTMaker(secret, -time.Hour).GenerateToken(1, "admin")
	require.NoError(t, err)

	foreign, err := NewJWTMaker("wrong_secret_key", 15*time.Minute).GenerateToken(1, "admin")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty token", token: ""},
		{name: "malformed token", token: "invalid.token.here"},
		{name: "expired token", token: expired},
		{name: "wrong secret key", token: foreign},
		{name: "tampered token", token: valid + "tampered"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := maker.ParseToken(tt.token)
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}

func TestCustomClaims_UserID_InvalidSubject(t *testing.T) {
	c := &CustomClaims{}
	c.Subject = "not-a-number"

	_, err := c.UserID()
	assert.Error(t, err)

	c.Subject = "0"
	_, err = c.UserID()
	assert.Error(t, err)
}
