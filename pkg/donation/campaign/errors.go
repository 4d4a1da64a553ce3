package campaign

import (
	"github.com/pkg/errors"
)

var (
	ErrInvalidCampaign           = errors.New("invalid campaign")
	ErrInvalidMilestone          = errors.New("invalid milestone")
	ErrInvalidCreatorWallet      = errors.New("creator wallet must be an on-curve solana address")
	ErrInvalidFilter             = errors.New("invalid campaign filter")
	ErrCampaignNotFound          = errors.New("campaign not found")
	ErrMilestoneNotFound         = errors.New("milestone not found")
	ErrNotCampaignCreator        = errors.New("only the campaign creator can perform this action")
	ErrMilestoneAlreadyCompleted = errors.New("milestone already completed")
	ErrMilestoneTargetNotReached = errors.New("campaign has not raised enough to complete milestone")
	ErrDonationExists            = errors.New("donation already recorded")
	ErrCreatorMismatch           = errors.New("donation recipient is not the campaign creator")
)
