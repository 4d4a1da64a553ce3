package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/solfund/solfund-server/pkg/database/query"
	"github.com/solfund/solfund-server/pkg/donation/data/donation"
	"github.com/solfund/solfund-server/pkg/pointer"
)

// store keeps records in insertion order, which is also id order.
type store struct {
	mu          sync.Mutex
	records     []*donation.Record
	bySignature map[string]*donation.Record
}

func New() donation.Store {
	s := &store{}
	s.reset()
	return s
}

func (s *store) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
	s.bySignature = make(map[string]*donation.Record)
}

// Put implements donation.Store.Put
func (s *store) Put(_ context.Context, record *donation.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bySignature[record.Signature]; ok {
		return donation.ErrExists
	}

	record.Id = uint64(len(s.records) + 1)
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	stored := record.Clone()
	s.records = append(s.records, &stored)
	s.bySignature[stored.Signature] = &stored
	return nil
}

// GetBySignature implements donation.Store.GetBySignature
func (s *store) GetBySignature(_ context.Context, signature string) (*donation.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.bySignature[signature]
	if !ok {
		return nil, donation.ErrNotFound
	}
	return clone(record), nil
}

// GetAllByCampaign implements donation.Store.GetAllByCampaign
func (s *store) GetAllByCampaign(_ context.Context, campaignId string) ([]*donation.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return collect(s.records, 0, func(r *donation.Record) bool {
		return r.CampaignId == campaignId
	})
}

// GetAllByDonor implements donation.Store.GetAllByDonor
func (s *store) GetAllByDonor(_ context.Context, donor string, cursor query.Cursor, limit uint64, direction query.Ordering) ([]*donation.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.records
	if direction == query.Descending {
		records = slices.Clone(records)
		slices.Reverse(records)
	}

	hasCursor := len(cursor) > 0
	var after uint64
	if hasCursor {
		after = cursor.ToUint64()
	}
	return collect(records, limit, func(r *donation.Record) bool {
		if r.DonorWallet != donor {
			return false
		}
		switch {
		case !hasCursor:
			return true
		case direction == query.Descending:
			return r.Id < after
		default:
			return r.Id > after
		}
	})
}

// GetAllByState implements donation.Store.GetAllByState
func (s *store) GetAllByState(_ context.Context, state donation.State, limit uint64) ([]*donation.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return collect(s.records, limit, func(r *donation.Record) bool {
		return r.State == state
	})
}

// UpdateState implements donation.Store.UpdateState
func (s *store) UpdateState(_ context.Context, signature string, state donation.State, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.bySignature[signature]
	switch {
	case !ok:
		return donation.ErrNotFound
	case record.State == state:
		return nil
	case record.State != donation.StatePending:
		return donation.ErrInvalidStateTransition
	}

	switch state {
	case donation.StateConfirmed:
		record.ConfirmedAt = pointer.Time(at)
	case donation.StateFailed:
	default:
		return donation.ErrInvalidStateTransition
	}
	record.State = state
	return nil
}

func clone(r *donation.Record) *donation.Record {
	cloned := r.Clone()
	return &cloned
}

// collect copies up to limit matching records, or all of them when limit is
// zero.
func collect(records []*donation.Record, limit uint64, match func(*donation.Record) bool) ([]*donation.Record, error) {
	var res []*donation.Record
	for _, r := range records {
		if limit > 0 && uint64(len(res)) == limit {
			break
		}
		if match(r) {
			res = append(res, clone(r))
		}
	}

	if len(res) == 0 {
		return nil, donation.ErrNotFound
	}
	return res, nil
}
