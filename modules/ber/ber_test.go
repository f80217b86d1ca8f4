package ber

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeScenarios(t *testing.T) {
	got, err := Decode([]byte{0x00, 0x83, 0x4D})
	require.NoError(t, err)
	assert.Equal(t, []uint64{0, 461}, got)

	got, err = Decode([]byte{0x83, 0x4D, 0x96, 0x14})
	require.NoError(t, err)
	assert.Equal(t, []uint64{461, 2836}, got)

	got, err = Decode([]byte{0x99, 0x61, 0x89, 0x12})
	require.NoError(t, err)
	assert.Equal(t, []uint64{3297, 1170}, got)
}

func TestDecodeEmpty(t *testing.T) {
	got, err := Decode(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDecodeTruncated(t *testing.T) {
	_, err := Decode([]byte{0x83, 0x4D, 0x96})
	assert.ErrorIs(t, err, ErrMalformedBER)
}
