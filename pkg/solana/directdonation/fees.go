package directdonation

import (
	"math"

	"github.com/pkg/errors"
)

const (
	// PlatformFeeDivisor mirrors the program: the platform receives
	// amount / 100 on top of the amount sent to the creator.
	PlatformFeeDivisor = 100
)

// PlatformFee is the amount, in lamports, transferred to the platform wallet
// for a donation of amount lamports.
func PlatformFee(amount uint64) uint64 {
	return amount / PlatformFeeDivisor
}

// TotalCost is the amount debited from the donor, excluding transaction fees.
func TotalCost(amount uint64) (uint64, error) {
	fee := PlatformFee(amount)
	if amount > math.MaxUint64-fee {
		return 0, errors.Wrap(ErrInvalidAmount, "amount overflows with platform fee")
	}
	return amount + fee, nil
}
