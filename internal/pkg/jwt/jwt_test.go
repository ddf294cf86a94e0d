package jwt

import (
	"testing"

	"saccohub/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken(42, "SCH-TEST0001", "alice", domain.RoleTreasurer, testSecret, 15)
	require.NoError(t, err)

	claims, err := ValidateAccessToken(token, testSecret)
	require.NoError(t, err)

	assert.Equal(t, uint(42), claims.MemberID)
	assert.Equal(t, "SCH-TEST0001", claims.MemberNo)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, domain.RoleTreasurer, claims.Role)
	assert.Equal(t, "saccohub", claims.Issuer)
}

func TestAccessTokenWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(1, "SCH-X", "bob", domain.RoleMember, testSecret, 15)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, "different-secret")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestAccessTokenExpired(t *testing.T) {
	token, err := GenerateAccessToken(1, "SCH-X", "bob", domain.RoleMember, testSecret, -1)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, testSecret)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	token, err := GenerateRefreshToken(7, "token-id-1", testSecret, 7)
	require.NoError(t, err)

	claims, err := ValidateRefreshToken(token, testSecret)
	require.NoError(t, err)

	assert.Equal(t, uint(7), claims.MemberID)
	assert.Equal(t, "token-id-1", claims.TokenID)
}

func TestRefreshTokenNotValidAsAccessSecret(t *testing.T) {
	token, err := GenerateRefreshToken(7, "token-id-2", "refresh-secret", 7)
	require.NoError(t, err)

	_, err = ValidateRefreshToken(token, "access-secret")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
