package transaction

import (
	"crypto/ed25519"

	"github.com/mr-tron/base58"
)

// DonationPayload is everything needed to build a single donation attempt.
type DonationPayload struct {
	// Amount is the donation in lamports, as received by the creator.
	Amount uint64

	Donor    ed25519.PublicKey
	Creator  ed25519.PublicKey
	Platform ed25519.PublicKey
	Program  ed25519.PublicKey

	// Memo is optional. When set, a memo instruction follows the donation.
	Memo string
}

func (p *DonationPayload) fields() map[string]interface{} {
	return map[string]interface{}{
		"amount":  p.Amount,
		"donor":   base58.Encode(p.Donor),
		"creator": base58.Encode(p.Creator),
	}
}
