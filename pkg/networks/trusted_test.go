package networks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsTrusted(t *testing.T) {
	require.NoError(t, Init([]string{"127.0.0.0/8", "::1", " 10.1.0.0/16 ", ""}))

	assert.True(t, IsTrusted("127.0.0.1"))
	assert.True(t, IsTrusted("127.0.0.1:52311"))
	assert.True(t, IsTrusted("[::1]:3000"))
	assert.True(t, IsTrusted("10.1.200.3"))
	assert.False(t, IsTrusted("10.2.0.1"))
	assert.False(t, IsTrusted("not-an-ip"))
	assert.False(t, IsTrusted(""))
}

func TestInit_Replaces(t *testing.T) {
	require.NoError(t, Init([]string{"192.168.0.0/24"}))
	assert.True(t, IsTrusted("192.168.0.9"))

	require.NoError(t, Init(nil))
	assert.False(t, IsTrusted("192.168.0.9"))
}

func TestInit_Invalid(t *testing.T) {
	require.NoError(t, Init([]string{"127.0.0.1"}))

	assert.ErrorIs(t, Init([]string{"300.0.0.0/8"}), ErrInvalidNetwork)
	assert.ErrorIs(t, Init([]string{"nope"}), ErrInvalidNetwork)
	assert.True(t, IsTrusted("127.0.0.1"), "failed Init keeps previous networks")
}
