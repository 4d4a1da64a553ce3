package milestone

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound         = errors.New("milestone not found")
	ErrExists           = errors.New("milestone already exists")
	ErrAlreadyCompleted = errors.New("milestone already completed")
)

type Store interface {
	// Put creates a new milestone. The index must be unique within the
	// campaign.
	Put(ctx context.Context, record *Record) error

	// GetById gets a milestone by its milestone id
	GetById(ctx context.Context, milestoneId string) (*Record, error)

	// GetAllByCampaign gets all milestones for a campaign, ordered by index
	GetAllByCampaign(ctx context.Context, campaignId string) ([]*Record, error)

	// MarkCompleted completes a milestone. ErrAlreadyCompleted is returned if
	// it was completed before.
	MarkCompleted(ctx context.Context, milestoneId string, at time.Time) error
}
