package sol

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrToLamports(t *testing.T) {
	for _, tc := range []struct {
		in       string
		expected uint64
	}{
		{"0", 0},
		{"1", LamportsPerSol},
		{"1.5", 1_500_000_000},
		{"0.000000001", 1},
		{".25", 250_000_000},
		{"2.", 2 * LamportsPerSol},
		{" 0.1 ", 100_000_000},
		{"18446744073.709551615", math.MaxUint64},
	} {
		actual, err := StrToLamports(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.expected, actual, tc.in)
	}
}

func TestStrToLamports_Invalid(t *testing.T) {
	for _, tc := range []struct {
		in       string
		expected error
	}{
		{"", ErrInvalidAmount},
		{".", ErrInvalidAmount},
		{"abc", ErrInvalidAmount},
		{"-1", ErrInvalidAmount},
		{"+1", ErrInvalidAmount},
		{"1e9", ErrInvalidAmount},
		{"1.2.3", ErrInvalidAmount},
		{"1,5", ErrInvalidAmount},
		{"NaN", ErrInvalidAmount},
		{"0.0000000001", ErrAmountPrecision},
		{"18446744074", ErrAmountOverflow},
		{"18446744073.709551616", ErrAmountOverflow},
		{"99999999999999999999999", ErrAmountOverflow},
	} {
		_, err := StrToLamports(tc.in)
		assert.ErrorIs(t, err, tc.expected, tc.in)
	}

	assert.Panics(t, func() { MustStrToLamports("invalid") })
	assert.EqualValues(t, 3*LamportsPerSol, MustStrToLamports("3"))
}

func TestStrFromLamports(t *testing.T) {
	for _, tc := range []struct {
		in       uint64
		expected string
	}{
		{0, "0"},
		{1, "0.000000001"},
		{LamportsPerSol, "1"},
		{1_500_000_000, "1.5"},
		{10_010_000_000, "10.01"},
		{math.MaxUint64, "18446744073.709551615"},
	} {
		assert.Equal(t, tc.expected, StrFromLamports(tc.in))

		roundTrip, err := StrToLamports(tc.expected)
		require.NoError(t, err)
		assert.Equal(t, tc.in, roundTrip)
	}
}

func TestToFloat(t *testing.T) {
	assert.Equal(t, 1.5, ToFloat(1_500_000_000))
	assert.Equal(t, 0.0, ToFloat(0))
}
