package shortvec

import (
	"bytes"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeLen_KnownEncodings(t *testing.T) {
	for val, expected := range map[int][]byte{
		0:      {0x00},
		5:      {0x05},
		0x7f:   {0x7f},
		0x80:   {0x80, 0x01},
		0x3fff: {0xff, 0x7f},
		0x4000: {0x80, 0x80, 0x01},
		0xffff: {0xff, 0xff, 0x03},
	} {
		var buf bytes.Buffer
		n, err := EncodeLen(&buf, val)
		require.NoError(t, err)
		assert.Equal(t, len(expected), n)
		assert.Equal(t, expected, buf.Bytes(), "len %d", val)

		decoded, err := DecodeLen(&buf)
		require.NoError(t, err)
		assert.Equal(t, val, decoded)
		assert.Zero(t, buf.Len())
	}
}

func TestRoundTrip_AllLengths(t *testing.T) {
	var buf bytes.Buffer
	for val := 0; val <= math.MaxUint16; val++ {
		_, err := EncodeLen(&buf, val)
		require.NoError(t, err)
	}

	for val := 0; val <= math.MaxUint16; val++ {
		decoded, err := DecodeLen(&buf)
		require.NoError(t, err)
		require.Equal(t, val, decoded)
	}
}

func TestEncodeLen_OutOfRange(t *testing.T) {
	for _, val := range []int{-1, math.MaxUint16 + 1} {
		n, err := EncodeLen(&bytes.Buffer{}, val)
		assert.Error(t, err)
		assert.Zero(t, n)
	}
}

func TestDecodeLen_Malformed(t *testing.T) {
	_, err := DecodeLen(bytes.NewReader(nil))
	assert.Equal(t, io.EOF, err)

	_, err = DecodeLen(bytes.NewReader([]byte{0x80}))
	assert.Equal(t, io.EOF, err)

	_, err = DecodeLen(bytes.NewReader([]byte{0x80, 0x80, 0x80, 0x01}))
	assert.Error(t, err)
}
