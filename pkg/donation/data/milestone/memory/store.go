package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/solfund/solfund-server/pkg/donation/data/milestone"
	"github.com/solfund/solfund-server/pkg/pointer"
)

type store struct {
	mu         sync.Mutex
	nextId     uint64
	byId       map[string]*milestone.Record
	byCampaign map[string][]*milestone.Record
}

func New() milestone.Store {
	s := &store{}
	s.reset()
	return s
}

func (s *store) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextId = 1
	s.byId = make(map[string]*milestone.Record)
	s.byCampaign = make(map[string][]*milestone.Record)
}

// Put implements milestone.Store.Put
func (s *store) Put(_ context.Context, record *milestone.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	siblings := s.byCampaign[record.CampaignId]
	_, taken := slices.BinarySearchFunc(siblings, record.Index, byIndex)
	if _, ok := s.byId[record.MilestoneId]; ok || taken {
		return milestone.ErrExists
	}

	record.Id = s.nextId
	s.nextId++
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	stored := record.Clone()
	s.byId[stored.MilestoneId] = &stored

	pos, _ := slices.BinarySearchFunc(siblings, stored.Index, byIndex)
	s.byCampaign[stored.CampaignId] = slices.Insert(siblings, pos, &stored)
	return nil
}

// GetById implements milestone.Store.GetById
func (s *store) GetById(_ context.Context, milestoneId string) (*milestone.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.byId[milestoneId]
	if !ok {
		return nil, milestone.ErrNotFound
	}

	cloned := record.Clone()
	return &cloned, nil
}

// GetAllByCampaign implements milestone.Store.GetAllByCampaign
func (s *store) GetAllByCampaign(_ context.Context, campaignId string) ([]*milestone.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.byCampaign[campaignId]
	if len(records) == 0 {
		return nil, milestone.ErrNotFound
	}

	res := make([]*milestone.Record, len(records))
	for i, record := range records {
		cloned := record.Clone()
		res[i] = &cloned
	}
	return res, nil
}

// MarkCompleted implements milestone.Store.MarkCompleted
func (s *store) MarkCompleted(_ context.Context, milestoneId string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.byId[milestoneId]
	switch {
	case !ok:
		return milestone.ErrNotFound
	case record.IsCompleted:
		return milestone.ErrAlreadyCompleted
	}

	record.IsCompleted = true
	record.CompletedAt = pointer.Time(at)
	return nil
}

func byIndex(r *milestone.Record, index uint32) int {
	return cmp.Compare(r.Index, index)
}
