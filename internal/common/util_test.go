package common

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeRandHexString(t *testing.T) {
	for _, n := range []int{0, 12, 16} {
		s, err := MakeRandHexString(n)
		require.NoError(t, err)
		assert.Len(t, s, 2*n)

		raw, err := hex.DecodeString(s)
		require.NoError(t, err)
		assert.Len(t, raw, n)
	}

	a, _ := MakeRandHexString(16)
	b, _ := MakeRandHexString(16)
	assert.NotEqual(t, a, b)
}

func TestWipeByteArray(t *testing.T) {
	buf := []byte("hunter2")
	WipeByteArray(buf)
	assert.Equal(t, make([]byte, 7), buf)

	assert.NotPanics(t, func() { WipeByteArray(nil) })
}
