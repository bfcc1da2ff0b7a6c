package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCookieSigner_RoundTrip(t *testing.T) {
	signer := NewCookieSigner("secret")

	token, err := signer.Sign("handle-123", time.Now().Add(time.Hour))
	require.NoError(t, err)

	handle, err := signer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "handle-123", handle)
}

func TestCookieSigner_WrongSecret(t *testing.T) {
	token, err := NewCookieSigner("secret").Sign("handle-123", time.Now().Add(time.Hour))
	require.NoError(t, err)

	_, err = NewCookieSigner("other-secret").Parse(token)
	assert.Error(t, err)
}

func TestCookieSigner_ExpiredToken(t *testing.T) {
	signer := NewCookieSigner("secret")
	token, err := signer.Sign("handle-123", time.Now().Add(-time.Minute))
	require.NoError(t, err)

	_, err = signer.Parse(token)
	assert.Error(t, err)
}

func TestCookieSigner_Garbage(t *testing.T) {
	_, err := NewCookieSigner("secret").Parse("not-a-token")
	assert.Error(t, err)
}
