package campaign

import (
	"time"

	"github.com/pkg/errors"
)

type Record struct {
	Id uint64

	CampaignId    string
	CreatorWallet string

	Title       string
	Description string
	ImageUrl    string

	GoalLamports uint64

	WebsiteUrl  string
	XUrl        string
	TelegramUrl string

	CreatedAt time.Time
}

func (r *Record) Validate() error {
	if len(r.CampaignId) == 0 {
		return errors.New("campaign id is required")
	}

	if len(r.CreatorWallet) == 0 {
		return errors.New("creator wallet is required")
	}

	if len(r.Title) == 0 {
		return errors.New("title is required")
	}

	if r.GoalLamports == 0 {
		return errors.New("goal must be positive")
	}

	return nil
}

// SocialLinkCount is the number of optional links the creator provided.
func (r *Record) SocialLinkCount() int {
	var count int
	for _, link := range []string{r.WebsiteUrl, r.XUrl, r.TelegramUrl} {
		if len(link) > 0 {
			count++
		}
	}
	return count
}

func (r *Record) Clone() Record {
	return Record{
		Id: r.Id,

		CampaignId:    r.CampaignId,
		CreatorWallet: r.CreatorWallet,

		Title:       r.Title,
		Description: r.Description,
		ImageUrl:    r.ImageUrl,

		GoalLamports: r.GoalLamports,

		WebsiteUrl:  r.WebsiteUrl,
		XUrl:        r.XUrl,
		TelegramUrl: r.TelegramUrl,

		CreatedAt: r.CreatedAt,
	}
}

func (r *Record) CopyTo(dst *Record) {
	dst.Id = r.Id

	dst.CampaignId = r.CampaignId
	dst.CreatorWallet = r.CreatorWallet

	dst.Title = r.Title
	dst.Description = r.Description
	dst.ImageUrl = r.ImageUrl

	dst.GoalLamports = r.GoalLamports

	dst.WebsiteUrl = r.WebsiteUrl
	dst.XUrl = r.XUrl
	dst.TelegramUrl = r.TelegramUrl

	dst.CreatedAt = r.CreatedAt
}
