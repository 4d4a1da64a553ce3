package memory

import (
	"context"
	"sync"
	"time"

	"github.com/solfund/solfund-server/pkg/donation/data/campaign"
)

type store struct {
	mu      sync.Mutex
	ordered []*campaign.Record
	byId    map[string]*campaign.Record
}

func New() campaign.Store {
	s := &store{}
	s.reset()
	return s
}

func (s *store) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ordered = nil
	s.byId = make(map[string]*campaign.Record)
}

// Put implements campaign.Store.Put
func (s *store) Put(_ context.Context, record *campaign.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byId[record.CampaignId]; ok {
		return campaign.ErrExists
	}

	record.Id = uint64(len(s.ordered) + 1)
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	stored := record.Clone()
	s.ordered = append(s.ordered, &stored)
	s.byId[stored.CampaignId] = &stored
	return nil
}

// GetById implements campaign.Store.GetById
func (s *store) GetById(_ context.Context, campaignId string) (*campaign.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.byId[campaignId]
	if !ok {
		return nil, campaign.ErrNotFound
	}

	cloned := record.Clone()
	return &cloned, nil
}

// GetAll implements campaign.Store.GetAll
func (s *store) GetAll(_ context.Context) ([]*campaign.Record, error) {
	return s.selectWhere(func(*campaign.Record) bool { return true })
}

// GetAllByCreator implements campaign.Store.GetAllByCreator
func (s *store) GetAllByCreator(_ context.Context, creator string) ([]*campaign.Record, error) {
	return s.selectWhere(func(r *campaign.Record) bool {
		return r.CreatorWallet == creator
	})
}

func (s *store) selectWhere(match func(*campaign.Record) bool) ([]*campaign.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res []*campaign.Record
	for _, record := range s.ordered {
		if match(record) {
			cloned := record.Clone()
			res = append(res, &cloned)
		}
	}

	if len(res) == 0 {
		return nil, campaign.ErrNotFound
	}
	return res, nil
}
