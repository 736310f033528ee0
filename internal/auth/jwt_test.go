package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	pair, err := Issue("u1", "sam@uni.edu", "student", "collabdir", "secret", time.Hour, 24*time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.True(t, pair.RefreshExp.After(pair.AccessExp))

	claims, err := Parse(pair.AccessToken, "secret", "collabdir")
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, "sam@uni.edu", claims.Email)
	assert.Equal(t, "student", claims.UserType)
	assert.Equal(t, TokenAccess, claims.TokenType)
}

func TestTokenTypes(t *testing.T) {
	pair, err := Issue("u1", "sam@uni.edu", "student", "collabdir", "secret", time.Hour, 24*time.Hour)
	require.NoError(t, err)

	access, err := Parse(pair.AccessToken, "secret", "collabdir")
	require.NoError(t, err)
	assert.Equal(t, TokenAccess, access.TokenType)

	refresh, err := Parse(pair.RefreshToken, "secret", "collabdir")
	require.NoError(t, err)
	assert.Equal(t, TokenRefresh, refresh.TokenType)
}

func TestParse_WrongKey(t *testing.T) {
	pair, err := Issue("u1", "sam@uni.edu", "student", "collabdir", "secret", time.Hour, 24*time.Hour)
	require.NoError(t, err)

	_, err = Parse(pair.AccessToken, "other-secret", "collabdir")
	require.Error(t, err)
}

func TestParse_IssuerMismatch(t *testing.T) {
	pair, err := Issue("u1", "sam@uni.edu", "student", "someone-else", "secret", time.Hour, 24*time.Hour)
	require.NoError(t, err)

	_, err = Parse(pair.AccessToken, "secret", "collabdir")
	require.Error(t, err)
}

func TestParse_Expired(t *testing.T) {
	pair, err := Issue("u1", "sam@uni.edu", "student", "collabdir", "secret", -time.Minute, time.Hour)
	require.NoError(t, err)

	_, err = Parse(pair.AccessToken, "secret", "collabdir")
	require.Error(t, err)
}
