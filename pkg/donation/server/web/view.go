package web

import (
	"time"

	"golang.org/x/text/language"

	"github.com/solfund/solfund-server/pkg/donation/campaign"
	"github.com/solfund/solfund-server/pkg/donation/data/donation"
	"github.com/solfund/solfund-server/pkg/donation/data/milestone"
	"github.com/solfund/solfund-server/pkg/donation/localization"
	"github.com/solfund/solfund-server/pkg/sol"
)

type campaignView struct {
	Id          string `json:"id"`
	Creator     string `json:"creator"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageUrl    string `json:"imageUrl,omitempty"`

	GoalLamports   uint64  `json:"goalLamports"`
	GoalSol        string  `json:"goalSol"`
	RaisedLamports uint64  `json:"raisedLamports"`
	RaisedSol      string  `json:"raisedSol"`
	RaisedDisplay  string  `json:"raisedDisplay"`
	Progress       float64 `json:"progress"`
	DonationCount  int     `json:"donationCount"`

	LastDonationAt *time.Time `json:"lastDonationAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`

	WebsiteUrl  string `json:"websiteUrl,omitempty"`
	XUrl        string `json:"xUrl,omitempty"`
	TelegramUrl string `json:"telegramUrl,omitempty"`

	ShareLink    string `json:"shareLink,omitempty"`
	ShareOnXLink string `json:"shareOnXLink,omitempty"`
}

type milestoneView struct {
	Id             string     `json:"id"`
	Index          uint32     `json:"index"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	TargetLamports uint64     `json:"targetLamports"`
	TargetSol      string     `json:"targetSol"`
	IsCompleted    bool       `json:"isCompleted"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
}

type donationView struct {
	Signature     string     `json:"signature"`
	CampaignId    string     `json:"campaignId"`
	CampaignTitle string     `json:"campaignTitle,omitempty"`
	Donor         string     `json:"donor"`
	Creator       string     `json:"creator"`
	AmountSol     string     `json:"amountSol"`
	FeeSol        string     `json:"platformFeeSol"`
	State         string     `json:"state"`
	CreatedAt     time.Time  `json:"createdAt"`
	ConfirmedAt   *time.Time `json:"confirmedAt,omitempty"`
}

func (s *Server) toCampaignView(locale language.Tag, summary *campaign.Summary, shareBaseUrl string) *campaignView {
	record := summary.Campaign

	view := &campaignView{
		Id:          record.CampaignId,
		Creator:     record.CreatorWallet,
		Title:       record.Title,
		Description: record.Description,
		ImageUrl:    record.ImageUrl,

		GoalLamports:   record.GoalLamports,
		GoalSol:        sol.StrFromLamports(record.GoalLamports),
		RaisedLamports: summary.Stats.RaisedLamports,
		RaisedSol:      sol.StrFromLamports(summary.Stats.RaisedLamports),
		RaisedDisplay:  localization.FormatSol(locale, summary.Stats.RaisedLamports),
		Progress:       summary.Progress(),
		DonationCount:  summary.Stats.DonationCount,

		LastDonationAt: summary.Stats.LastDonationAt,
		CreatedAt:      record.CreatedAt,

		WebsiteUrl:  record.WebsiteUrl,
		XUrl:        record.XUrl,
		TelegramUrl: record.TelegramUrl,
	}

	if link, err := campaign.ShareLink(shareBaseUrl, record.CampaignId); err == nil {
		view.ShareLink = link
	} else {
		s.log.WithError(err).Warn("failure generating share link")
	}
	if link, err := campaign.ShareOnXLink(shareBaseUrl, record.CampaignId, record.Title); err == nil {
		view.ShareOnXLink = link
	}

	return view
}

func toMilestoneViews(records []*milestone.Record) []*milestoneView {
	res := make([]*milestoneView, len(records))
	for i, record := range records {
		res[i] = &milestoneView{
			Id:             record.MilestoneId,
			Index:          record.Index,
			Title:          record.Title,
			Description:    record.Description,
			TargetLamports: record.TargetLamports,
			TargetSol:      sol.StrFromLamports(record.TargetLamports),
			IsCompleted:    record.IsCompleted,
			CompletedAt:    record.CompletedAt,
		}
	}
	return res
}

func toDonationView(record *donation.Record, campaignTitle string) *donationView {
	return &donationView{
		Signature:     record.Signature,
		CampaignId:    record.CampaignId,
		CampaignTitle: campaignTitle,
		Donor:         record.DonorWallet,
		Creator:       record.CreatorWallet,
		AmountSol:     sol.StrFromLamports(record.AmountLamports),
		FeeSol:        sol.StrFromLamports(record.PlatformFeeLamports),
		State:         record.State.String(),
		CreatedAt:     record.CreatedAt,
		ConfirmedAt:   record.ConfirmedAt,
	}
}
