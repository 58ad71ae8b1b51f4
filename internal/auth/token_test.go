package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	manager := NewTokenManager("test-secret", 60)

	token, expiresAt, err := manager.GenerateToken(12345, RoleAdmin)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := manager.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(12345), claims.UserID)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.Equal(t, "12345", claims.Subject)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	manager := NewTokenManager("test-secret", 60)
	other := NewTokenManager("different-secret", 60)

	token, _, err := manager.GenerateToken(1, RoleUser)
	require.NoError(t, err)

	_, err = other.ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	manager := NewTokenManager("test-secret", 60)
	_, err := manager.ParseToken("not.a.token")
	assert.Error(t, err)
}

func TestHashAndCompareSecret(t *testing.T) {
	hashed, err := HashSecret("gateway-shared-key", 4)
	require.NoError(t, err)

	assert.NoError(t, CompareSecret(hashed, "gateway-shared-key"))
	assert.Error(t, CompareSecret(hashed, "wrong-key"))
}
