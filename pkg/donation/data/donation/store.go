package donation

import (
	"context"
	"errors"
	"time"

	"github.com/solfund/solfund-server/pkg/database/query"
)

var (
	ErrNotFound               = errors.New("donation not found")
	ErrExists                 = errors.New("donation already exists")
	ErrInvalidStateTransition = errors.New("invalid donation state transition")
)

type Store interface {
	// Put creates a new donation record. Signatures are unique.
	Put(ctx context.Context, record *Record) error

	// GetBySignature gets a donation by its transaction signature
	GetBySignature(ctx context.Context, signature string) (*Record, error)

	// GetAllByCampaign gets all donations to a campaign, oldest first
	GetAllByCampaign(ctx context.Context, campaignId string) ([]*Record, error)

	// GetAllByDonor gets a page of donations from a donor wallet, paged by
	// record id
	GetAllByDonor(ctx context.Context, donor string, cursor query.Cursor, limit uint64, direction query.Ordering) ([]*Record, error)

	// GetAllByState gets up to limit donations in a state, oldest first
	GetAllByState(ctx context.Context, state State, limit uint64) ([]*Record, error)

	// UpdateState moves a pending donation to a terminal state. The confirmation
	// timestamp is recorded when moving to StateConfirmed. Repeating the
	// current state is a no-op.
	UpdateState(ctx context.Context, signature string, state State, at time.Time) error
}
