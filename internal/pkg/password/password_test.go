package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("secret-password")
	require.NoError(t, err)
	assert.NotEqual(t, "secret-password", hash)

	assert.True(t, Verify("secret-password", hash))
	assert.False(t, Verify("wrong-password", hash))
}

func TestHashToken(t *testing.T) {
	a := HashToken("some-refresh-token")
	b := HashToken("some-refresh-token")
	c := HashToken("another-token")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64) // sha256 hex
}

func TestAcceptable(t *testing.T) {
	assert.True(t, Acceptable("12345678"))
	assert.False(t, Acceptable("1234567"))
	assert.False(t, Acceptable(""))
}
