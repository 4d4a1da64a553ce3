package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	pgutil "github.com/solfund/solfund-server/pkg/database/postgres"
	"github.com/solfund/solfund-server/pkg/donation/data/campaign"
)

const (
	tableName = "solfund__core_campaign"

	allColumns = `id, campaign_id, creator_wallet, title, description, image_url, goal_lamports, website_url, x_url, telegram_url, created_at`
)

type model struct {
	Id sql.NullInt64 `db:"id"`

	CampaignId    string `db:"campaign_id"`
	CreatorWallet string `db:"creator_wallet"`

	Title       string `db:"title"`
	Description string `db:"description"`
	ImageUrl    string `db:"image_url"`

	GoalLamports int64 `db:"goal_lamports"`

	WebsiteUrl  string `db:"website_url"`
	XUrl        string `db:"x_url"`
	TelegramUrl string `db:"telegram_url"`

	CreatedAt time.Time `db:"created_at"`
}

func toModel(obj *campaign.Record) (*model, error) {
	if err := obj.Validate(); err != nil {
		return nil, err
	}

	if obj.CreatedAt.IsZero() {
		obj.CreatedAt = time.Now().UTC()
	}

	return &model{
		Id:            sql.NullInt64{Int64: int64(obj.Id), Valid: true},
		CampaignId:    obj.CampaignId,
		CreatorWallet: obj.CreatorWallet,
		Title:         obj.Title,
		Description:   obj.Description,
		ImageUrl:      obj.ImageUrl,
		GoalLamports:  int64(obj.GoalLamports),
		WebsiteUrl:    obj.WebsiteUrl,
		XUrl:          obj.XUrl,
		TelegramUrl:   obj.TelegramUrl,
		CreatedAt:     obj.CreatedAt,
	}, nil
}

func fromModel(obj *model) *campaign.Record {
	return &campaign.Record{
		Id:            uint64(obj.Id.Int64),
		CampaignId:    obj.CampaignId,
		CreatorWallet: obj.CreatorWallet,
		Title:         obj.Title,
		Description:   obj.Description,
		ImageUrl:      obj.ImageUrl,
		GoalLamports:  uint64(obj.GoalLamports),
		WebsiteUrl:    obj.WebsiteUrl,
		XUrl:          obj.XUrl,
		TelegramUrl:   obj.TelegramUrl,
		CreatedAt:     obj.CreatedAt,
	}
}

func (m *model) dbPut(ctx context.Context, db *sqlx.DB) error {
	return pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `INSERT INTO ` + tableName + `
			(campaign_id, creator_wallet, title, description, image_url, goal_lamports, website_url, x_url, telegram_url, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING ` + allColumns

		err := tx.QueryRowxContext(
			ctx,
			query,
			m.CampaignId,
			m.CreatorWallet,
			m.Title,
			m.Description,
			m.ImageUrl,
			m.GoalLamports,
			m.WebsiteUrl,
			m.XUrl,
			m.TelegramUrl,
			m.CreatedAt,
		).StructScan(m)

		return pgutil.CheckUniqueViolation(err, campaign.ErrExists)
	})
}

func dbGetById(ctx context.Context, db *sqlx.DB, campaignId string) (*model, error) {
	res := &model{}

	query := `SELECT ` + allColumns + ` FROM ` + tableName + `
		WHERE campaign_id = $1`

	err := db.GetContext(ctx, res, query, campaignId)
	if err != nil {
		return nil, pgutil.CheckNoRows(err, campaign.ErrNotFound)
	}
	return res, nil
}

func dbGetAll(ctx context.Context, db *sqlx.DB) ([]*model, error) {
	res := []*model{}

	query := `SELECT ` + allColumns + ` FROM ` + tableName + `
		ORDER BY id ASC`

	err := db.SelectContext(ctx, &res, query)
	if err != nil {
		return nil, pgutil.CheckNoRows(err, campaign.ErrNotFound)
	}
	if len(res) == 0 {
		return nil, campaign.ErrNotFound
	}
	return res, nil
}

func dbGetAllByCreator(ctx context.Context, db *sqlx.DB, creator string) ([]*model, error) {
	res := []*model{}

	query := `SELECT ` + allColumns + ` FROM ` + tableName + `
		WHERE creator_wallet = $1
		ORDER BY id ASC`

	err := db.SelectContext(ctx, &res, query, creator)
	if err != nil {
		return nil, pgutil.CheckNoRows(err, campaign.ErrNotFound)
	}
	if len(res) == 0 {
		return nil, campaign.ErrNotFound
	}
	return res, nil
}
