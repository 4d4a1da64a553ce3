package sol

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	LamportsPerSol = 1_000_000_000
	Decimals       = 9
)

var (
	ErrInvalidAmount   = errors.New("invalid sol amount")
	ErrAmountPrecision = errors.New("sol amount exceeds lamport precision")
	ErrAmountOverflow  = errors.New("sol amount cannot be represented in lamports")
)

// StrToLamports converts a decimal string representation of SOL into the
// lamport value.
//
// Unlike parsing into a float, the conversion is exact. An error is returned
// for anything that isn't a plain, non-negative decimal number, for values
// with more than 9 fractional digits, and for values that don't fit in a u64.
func StrToLamports(val string) (uint64, error) {
	val = strings.TrimSpace(val)
	if len(val) == 0 {
		return 0, errors.Wrap(ErrInvalidAmount, "empty value")
	}

	parts := strings.Split(val, ".")
	if len(parts) > 2 {
		return 0, errors.Wrapf(ErrInvalidAmount, "%q", val)
	}

	whole, fraction := parts[0], ""
	if len(parts) == 2 {
		fraction = parts[1]
	}
	if len(whole) == 0 && len(fraction) == 0 {
		return 0, errors.Wrapf(ErrInvalidAmount, "%q", val)
	}
	if !isDigits(whole) || !isDigits(fraction) {
		return 0, errors.Wrapf(ErrInvalidAmount, "%q", val)
	}
	if len(fraction) > Decimals {
		return 0, errors.Wrapf(ErrAmountPrecision, "%q", val)
	}

	var sol uint64
	if len(whole) > 0 {
		var err error
		sol, err = strconv.ParseUint(whole, 10, 64)
		if err != nil {
			return 0, errors.Wrapf(ErrAmountOverflow, "%q", val)
		}
	}
	if sol > math.MaxUint64/LamportsPerSol {
		return 0, errors.Wrapf(ErrAmountOverflow, "%q", val)
	}

	var lamports uint64
	if len(fraction) > 0 {
		padded := fraction + strings.Repeat("0", Decimals-len(fraction))
		parsed, err := strconv.ParseUint(padded, 10, 64)
		if err != nil {
			return 0, errors.Wrap(ErrInvalidAmount, "invalid decimal component")
		}
		lamports = parsed
	}

	total := sol * LamportsPerSol
	if total > math.MaxUint64-lamports {
		return 0, errors.Wrapf(ErrAmountOverflow, "%q", val)
	}
	return total + lamports, nil
}

// MustStrToLamports calls StrToLamports, panicking if there's an error.
//
// This should only be used if you know for sure this will not panic.
func MustStrToLamports(val string) uint64 {
	result, err := StrToLamports(val)
	if err != nil {
		panic(err)
	}

	return result
}

// StrFromLamports converts lamports to the shortest exact decimal string
// representation of SOL.
func StrFromLamports(amount uint64) string {
	whole := amount / LamportsPerSol
	fraction := amount % LamportsPerSol
	if fraction == 0 {
		return strconv.FormatUint(whole, 10)
	}

	return strings.TrimRight(fmt.Sprintf("%d.%09d", whole, fraction), "0")
}

// ToFloat is a lossy conversion intended for display and ratio calculations
// only.
func ToFloat(amount uint64) float64 {
	f, _ := new(big.Rat).SetFrac(
		new(big.Int).SetUint64(amount),
		big.NewInt(LamportsPerSol),
	).Float64()
	return f
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
