package campaign

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/solfund/solfund-server/pkg/database/query"
	"github.com/solfund/solfund-server/pkg/donation/data"
	campaign_data "github.com/solfund/solfund-server/pkg/donation/data/campaign"
	"github.com/solfund/solfund-server/pkg/donation/data/donation"
	"github.com/solfund/solfund-server/pkg/donation/data/milestone"
	"github.com/solfund/solfund-server/pkg/metrics"
	"github.com/solfund/solfund-server/pkg/netutil"
	"github.com/solfund/solfund-server/pkg/solana"
	"github.com/solfund/solfund-server/pkg/solana/directdonation"
)

const (
	metricsStructName = "campaign.service"
)

// Service manages campaigns, their milestones and the donations recorded
// against them.
type Service struct {
	log  *logrus.Entry
	data data.Provider
}

func NewService(data data.Provider) *Service {
	return &Service{
		log:  logrus.StandardLogger().WithField("type", "donation/campaign"),
		data: data,
	}
}

// CreateCampaign persists a new campaign along with its milestones. Ids,
// milestone ordering and creation timestamps are assigned here.
func (s *Service) CreateCampaign(ctx context.Context, record *campaign_data.Record, milestones []*milestone.Record) error {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "CreateCampaign")
	defer tracer.End()

	log := s.log.WithFields(logrus.Fields{
		"method":  "CreateCampaign",
		"creator": record.CreatorWallet,
	})

	if err := validateCreatorWallet(record.CreatorWallet); err != nil {
		return err
	}
	for _, link := range []string{record.ImageUrl, record.WebsiteUrl, record.XUrl, record.TelegramUrl} {
		if err := validateLink(link); err != nil {
			return err
		}
	}

	now := time.Now()
	record.CampaignId = uuid.New().String()
	record.CreatedAt = now
	if err := record.Validate(); err != nil {
		return errors.Wrap(ErrInvalidCampaign, err.Error())
	}

	for i, m := range milestones {
		m.MilestoneId = uuid.New().String()
		m.CampaignId = record.CampaignId
		m.Index = uint32(i)
		m.IsCompleted = false
		m.CompletedAt = nil
		m.CreatedAt = now
		if err := m.Validate(); err != nil {
			return errors.Wrapf(ErrInvalidMilestone, "milestone %d: %s", i, err.Error())
		}
	}

	err := s.data.ExecuteInTx(ctx, sql.LevelDefault, func(ctx context.Context) error {
		if err := s.data.CreateCampaign(ctx, record); err != nil {
			return errors.Wrap(err, "error creating campaign")
		}

		for _, m := range milestones {
			if err := s.data.CreateMilestone(ctx, m); err != nil {
				return errors.Wrap(err, "error creating milestone")
			}
		}
		return nil
	})
	if err != nil {
		log.WithError(err).Warn("failure creating campaign")
		tracer.OnError(err)
		return err
	}

	log.WithField("campaign", record.CampaignId).Info("campaign created")
	return nil
}

// GetCampaign gets a campaign with its milestones, confirmed donations and
// stats
func (s *Service) GetCampaign(ctx context.Context, campaignId string) (*Details, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GetCampaign")
	defer tracer.End()

	record, err := s.data.GetCampaign(ctx, campaignId)
	if err == campaign_data.ErrNotFound {
		return nil, ErrCampaignNotFound
	} else if err != nil {
		tracer.OnError(err)
		return nil, err
	}

	milestones, err := s.data.GetAllMilestonesByCampaign(ctx, campaignId)
	if err == milestone.ErrNotFound {
		milestones = nil
	} else if err != nil {
		tracer.OnError(err)
		return nil, err
	}

	donations, err := s.getDonationsByCampaign(ctx, campaignId)
	if err != nil {
		tracer.OnError(err)
		return nil, err
	}

	return &Details{
		Summary: Summary{
			Campaign: record,
			Stats:    computeStats(donations),
		},
		Milestones: milestones,
		Donations:  confirmedOnly(donations),
	}, nil
}

// ListCampaigns lists campaigns matching the search query and creator, in the
// order dictated by the filter
func (s *Service) ListCampaigns(ctx context.Context, opts *ListOptions) ([]*Summary, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "ListCampaigns")
	defer tracer.End()

	var records []*campaign_data.Record
	var err error
	if len(opts.Creator) > 0 {
		records, err = s.data.GetAllCampaignsByCreator(ctx, opts.Creator)
	} else {
		records, err = s.data.GetAllCampaigns(ctx)
	}
	if err == campaign_data.ErrNotFound {
		return nil, nil
	} else if err != nil {
		tracer.OnError(err)
		return nil, err
	}

	query := strings.TrimSpace(opts.Query)

	var summaries []*Summary
	for _, record := range records {
		summary := &Summary{Campaign: record}
		if !matchesQuery(summary, query) {
			continue
		}

		donations, err := s.getDonationsByCampaign(ctx, record.CampaignId)
		if err != nil {
			tracer.OnError(err)
			return nil, err
		}
		summary.Stats = computeStats(donations)

		summaries = append(summaries, summary)
	}

	return applyFilter(summaries, opts.Filter), nil
}

// CompleteMilestone marks a milestone as completed. Only the campaign creator
// can do so, and only once the campaign has raised the milestone's target.
func (s *Service) CompleteMilestone(ctx context.Context, milestoneId, requester string) error {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "CompleteMilestone")
	defer tracer.End()

	log := s.log.WithFields(logrus.Fields{
		"method":    "CompleteMilestone",
		"milestone": milestoneId,
		"requester": requester,
	})

	record, err := s.data.GetMilestone(ctx, milestoneId)
	if err == milestone.ErrNotFound {
		return ErrMilestoneNotFound
	} else if err != nil {
		tracer.OnError(err)
		return err
	}

	if record.IsCompleted {
		return ErrMilestoneAlreadyCompleted
	}

	details, err := s.GetCampaign(ctx, record.CampaignId)
	if err != nil {
		tracer.OnError(err)
		return err
	}

	if details.Campaign.CreatorWallet != requester {
		return ErrNotCampaignCreator
	}

	if details.Stats.RaisedLamports < record.TargetLamports {
		return ErrMilestoneTargetNotReached
	}

	err = s.data.MarkMilestoneCompleted(ctx, milestoneId, time.Now())
	if err == milestone.ErrAlreadyCompleted {
		return ErrMilestoneAlreadyCompleted
	} else if err != nil {
		log.WithError(err).Warn("failure marking milestone completed")
		tracer.OnError(err)
		return err
	}

	log.Info("milestone completed")
	return nil
}

// GetDonationsByDonor gets a page of a donor's donation history with the
// title of each campaign. Without options, the newest donations come first.
func (s *Service) GetDonationsByDonor(ctx context.Context, donor string, opts ...query.Option) ([]*DonorDonation, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GetDonationsByDonor")
	defer tracer.End()

	opts = append([]query.Option{query.WithDirection(query.Descending)}, opts...)
	records, err := s.data.GetAllDonationsByDonor(ctx, donor, opts...)
	if err == donation.ErrNotFound {
		return nil, nil
	} else if err != nil {
		tracer.OnError(err)
		return nil, err
	}

	titles := make(map[string]string)
	res := make([]*DonorDonation, len(records))
	for i, record := range records {
		title, ok := titles[record.CampaignId]
		if !ok {
			c, err := s.data.GetCampaign(ctx, record.CampaignId)
			switch err {
			case nil:
				title = c.Title
			case campaign_data.ErrNotFound:
			default:
				tracer.OnError(err)
				return nil, err
			}
			titles[record.CampaignId] = title
		}

		res[i] = &DonorDonation{
			Donation:      record,
			CampaignTitle: title,
		}
	}
	return res, nil
}

// RecordDonation stores a submitted donation in the pending state. The
// platform fee is derived from the amount.
func (s *Service) RecordDonation(ctx context.Context, record *donation.Record) error {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "RecordDonation")
	defer tracer.End()

	c, err := s.data.GetCampaign(ctx, record.CampaignId)
	if err == campaign_data.ErrNotFound {
		return ErrCampaignNotFound
	} else if err != nil {
		tracer.OnError(err)
		return err
	}

	if c.CreatorWallet != record.CreatorWallet {
		return ErrCreatorMismatch
	}

	record.PlatformFeeLamports = directdonation.PlatformFee(record.AmountLamports)
	record.State = donation.StatePending
	record.ConfirmedAt = nil
	record.CreatedAt = time.Now()

	err = s.data.CreateDonation(ctx, record)
	if err == donation.ErrExists {
		return ErrDonationExists
	} else if err != nil {
		tracer.OnError(err)
		return err
	}

	if err := s.data.AddKnownSignature(ctx, []byte(record.Signature)); err != nil {
		s.log.WithError(err).Warn("failure adding known donation signature")
	}
	return nil
}

// IsKnownDonation reports whether a donation with the signature has already
// been recorded
func (s *Service) IsKnownDonation(ctx context.Context, signature string) (bool, error) {
	maybeKnown, err := s.data.TestForKnownSignature(ctx, []byte(signature))
	if err != nil {
		return false, err
	}
	if !maybeKnown {
		return false, nil
	}

	_, err = s.data.GetDonationBySignature(ctx, signature)
	if err == donation.ErrNotFound {
		return false, nil
	} else if err != nil {
		return false, err
	}
	return true, nil
}

// UpdateDonationState moves a pending donation to confirmed or failed
func (s *Service) UpdateDonationState(ctx context.Context, signature string, state donation.State) error {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "UpdateDonationState")
	defer tracer.End()

	err := s.data.UpdateDonationState(ctx, signature, state, time.Now())
	if err != nil {
		tracer.OnError(err)
	}
	return err
}

func (s *Service) getDonationsByCampaign(ctx context.Context, campaignId string) ([]*donation.Record, error) {
	donations, err := s.data.GetAllDonationsByCampaign(ctx, campaignId)
	if err == donation.ErrNotFound {
		return nil, nil
	}
	return donations, err
}

func validateCreatorWallet(wallet string) error {
	pub, err := solana.ParsePublicKey(wallet)
	if err != nil {
		return errors.Wrap(ErrInvalidCreatorWallet, err.Error())
	}
	if !solana.IsOnCurve(pub) {
		return ErrInvalidCreatorWallet
	}
	return nil
}

func validateLink(link string) error {
	if len(link) == 0 {
		return nil
	}

	if err := netutil.ValidateHttpUrl(link, false); err != nil {
		return errors.Wrapf(ErrInvalidCampaign, "invalid link %q: %s", link, err.Error())
	}
	return nil
}
