package donation

import (
	"time"

	"github.com/pkg/errors"

	"github.com/solfund/solfund-server/pkg/pointer"
)

type State uint8

const (
	StateUnknown   State = iota
	StatePending         // Submitted, awaiting confirmation
	StateConfirmed       // Landed on chain at the confirmed commitment level
	StateFailed          // Failed on chain, or never landed
)

type Record struct {
	Id uint64

	CampaignId    string
	DonorWallet   string
	CreatorWallet string

	AmountLamports      uint64
	PlatformFeeLamports uint64

	Signature string
	State     State

	CreatedAt   time.Time
	ConfirmedAt *time.Time
}

func (r *Record) Validate() error {
	if len(r.CampaignId) == 0 {
		return errors.New("campaign id is required")
	}

	if len(r.DonorWallet) == 0 {
		return errors.New("donor wallet is required")
	}

	if len(r.CreatorWallet) == 0 {
		return errors.New("creator wallet is required")
	}

	if r.AmountLamports == 0 {
		return errors.New("amount must be positive")
	}

	if len(r.Signature) == 0 {
		return errors.New("signature is required")
	}

	switch r.State {
	case StateConfirmed:
		if r.ConfirmedAt == nil || r.ConfirmedAt.IsZero() {
			return errors.New("confirmation timestamp is required")
		}
	case StatePending, StateFailed:
		if r.ConfirmedAt != nil {
			return errors.New("confirmation timestamp cannot be set")
		}
	default:
		return errors.New("invalid state")
	}

	return nil
}

func (r *Record) Clone() Record {
	return Record{
		Id: r.Id,

		CampaignId:    r.CampaignId,
		DonorWallet:   r.DonorWallet,
		CreatorWallet: r.CreatorWallet,

		AmountLamports:      r.AmountLamports,
		PlatformFeeLamports: r.PlatformFeeLamports,

		Signature: r.Signature,
		State:     r.State,

		CreatedAt:   r.CreatedAt,
		ConfirmedAt: pointer.TimeCopy(r.ConfirmedAt),
	}
}

func (r *Record) CopyTo(dst *Record) {
	dst.Id = r.Id

	dst.CampaignId = r.CampaignId
	dst.DonorWallet = r.DonorWallet
	dst.CreatorWallet = r.CreatorWallet

	dst.AmountLamports = r.AmountLamports
	dst.PlatformFeeLamports = r.PlatformFeeLamports

	dst.Signature = r.Signature
	dst.State = r.State

	dst.CreatedAt = r.CreatedAt
	dst.ConfirmedAt = pointer.TimeCopy(r.ConfirmedAt)
}

func (s State) String() string {
	switch s {
	case StateUnknown:
		return "unknown"
	case StatePending:
		return "pending"
	case StateConfirmed:
		return "confirmed"
	case StateFailed:
		return "failed"
	}

	return "unknown"
}
