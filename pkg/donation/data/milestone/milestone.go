package milestone

import (
	"time"

	"github.com/pkg/errors"

	"github.com/solfund/solfund-server/pkg/pointer"
)

type Record struct {
	Id uint64

	MilestoneId string
	CampaignId  string

	// Index is the position of the milestone within its campaign
	Index uint32

	Title          string
	Description    string
	TargetLamports uint64

	IsCompleted bool
	CompletedAt *time.Time

	CreatedAt time.Time
}

func (r *Record) Validate() error {
	if len(r.MilestoneId) == 0 {
		return errors.New("milestone id is required")
	}

	if len(r.CampaignId) == 0 {
		return errors.New("campaign id is required")
	}

	if len(r.Title) == 0 {
		return errors.New("title is required")
	}

	if r.IsCompleted {
		if r.CompletedAt == nil || r.CompletedAt.IsZero() {
			return errors.New("completion timestamp is required")
		}
	} else if r.CompletedAt != nil {
		return errors.New("completion timestamp cannot be set")
	}

	return nil
}

func (r *Record) Clone() Record {
	return Record{
		Id: r.Id,

		MilestoneId: r.MilestoneId,
		CampaignId:  r.CampaignId,

		Index: r.Index,

		Title:          r.Title,
		Description:    r.Description,
		TargetLamports: r.TargetLamports,

		IsCompleted: r.IsCompleted,
		CompletedAt: pointer.TimeCopy(r.CompletedAt),

		CreatedAt: r.CreatedAt,
	}
}

func (r *Record) CopyTo(dst *Record) {
	dst.Id = r.Id

	dst.MilestoneId = r.MilestoneId
	dst.CampaignId = r.CampaignId

	dst.Index = r.Index

	dst.Title = r.Title
	dst.Description = r.Description
	dst.TargetLamports = r.TargetLamports

	dst.IsCompleted = r.IsCompleted
	dst.CompletedAt = pointer.TimeCopy(r.CompletedAt)

	dst.CreatedAt = r.CreatedAt
}
