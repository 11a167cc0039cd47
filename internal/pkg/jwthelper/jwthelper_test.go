package jwthelper_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lunchpass/lunchpass-api/internal/pkg/jwthelper"
)

func TestGenerateAndParseToken(t *testing.T) {
	signingKey := []byte("test-signing-key")

	token, err := jwthelper.GenerateToken(signingKey, "user-123", "curl/8.0")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := jwthelper.ParseToken(signingKey, token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "curl/8.0", claims.UserAgent)
}

func TestParseTokenRejectsWrongKey(t *testing.T) {
	token, err := jwthelper.GenerateToken([]byte("key-one"), "user-123", "curl/8.0")
	require.NoError(t, err)

	_, err = jwthelper.ParseToken([]byte("key-two"), token)
	assert.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := jwthelper.ParseToken([]byte("key"), "not.a.token")
	assert.Error(t, err)
}
