// Package shortvec implements the compact-u16 length prefix used throughout the
// Solana wire format.
package shortvec

import (
	"io"
	"math"

	"github.com/pkg/errors"
)

// maxEncodedLen is the number of bytes needed to hold math.MaxUint16.
const maxEncodedLen = 3

// EncodeLen encodes the specified len into the writer.
//
// If len > math.MaxUint16, an error is returned.
func EncodeLen(w io.Writer, len int) (n int, err error) {
	if len < 0 || len > math.MaxUint16 {
		return 0, errors.Errorf("len out of range [0, %d]: %d", math.MaxUint16, len)
	}

	var encoded [maxEncodedLen]byte
	size := 0
	for {
		encoded[size] = byte(len & 0x7f)
		len >>= 7
		if len == 0 {
			size++
			break
		}

		encoded[size] |= 0x80
		size++
	}

	return w.Write(encoded[:size])
}

// DecodeLen decodes a shortvec encoded len from the reader.
func DecodeLen(r io.Reader) (val int, err error) {
	var b [1]byte
	for offset := 0; offset < maxEncodedLen; offset++ {
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, err
		}

		val |= int(b[0]&0x7f) << (offset * 7)
		if b[0]&0x80 == 0 {
			return val, nil
		}
	}

	return 0, errors.Errorf("invalid size: more than %d bytes", maxEncodedLen)
}
