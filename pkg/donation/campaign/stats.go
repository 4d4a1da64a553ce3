package campaign

import (
	"time"

	campaign_data "github.com/solfund/solfund-server/pkg/donation/data/campaign"
	"github.com/solfund/solfund-server/pkg/donation/data/donation"
	"github.com/solfund/solfund-server/pkg/donation/data/milestone"
)

// Stats are derived from confirmed donations only
type Stats struct {
	RaisedLamports uint64
	DonationCount  int
	LastDonationAt *time.Time
}

// Progress is the share of the goal raised so far as a percentage. It may
// exceed 100.
func (s *Stats) Progress(goal uint64) float64 {
	if goal == 0 {
		return 0
	}
	return float64(s.RaisedLamports) / float64(goal) * 100
}

type Summary struct {
	Campaign *campaign_data.Record
	Stats    Stats
}

func (s *Summary) Progress() float64 {
	return s.Stats.Progress(s.Campaign.GoalLamports)
}

type Details struct {
	Summary

	Milestones []*milestone.Record
	Donations  []*donation.Record
}

type DonorDonation struct {
	Donation      *donation.Record
	CampaignTitle string
}

func computeStats(donations []*donation.Record) Stats {
	var stats Stats
	for _, record := range donations {
		if record.State != donation.StateConfirmed {
			continue
		}

		stats.RaisedLamports += record.AmountLamports
		stats.DonationCount++

		at := record.CreatedAt
		if stats.LastDonationAt == nil || at.After(*stats.LastDonationAt) {
			stats.LastDonationAt = &at
		}
	}
	return stats
}

func confirmedOnly(donations []*donation.Record) []*donation.Record {
	res := make([]*donation.Record, 0, len(donations))
	for _, record := range donations {
		if record.State == donation.StateConfirmed {
			res = append(res, record)
		}
	}
	return res
}
