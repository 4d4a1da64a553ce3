package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	pgutil "github.com/solfund/solfund-server/pkg/database/postgres"
	q "github.com/solfund/solfund-server/pkg/database/query"
	"github.com/solfund/solfund-server/pkg/donation/data/donation"
	"github.com/solfund/solfund-server/pkg/pointer"
)

const (
	tableName = "solfund__core_donation"

	allColumns = `id, campaign_id, donor_wallet, creator_wallet, amount_lamports, platform_fee_lamports, signature, state, created_at, confirmed_at`
)

type model struct {
	Id sql.NullInt64 `db:"id"`

	CampaignId    string `db:"campaign_id"`
	DonorWallet   string `db:"donor_wallet"`
	CreatorWallet string `db:"creator_wallet"`

	AmountLamports      int64 `db:"amount_lamports"`
	PlatformFeeLamports int64 `db:"platform_fee_lamports"`

	Signature string `db:"signature"`
	State     uint   `db:"state"`

	CreatedAt   time.Time    `db:"created_at"`
	ConfirmedAt sql.NullTime `db:"confirmed_at"`
}

func toModel(obj *donation.Record) (*model, error) {
	if err := obj.Validate(); err != nil {
		return nil, err
	}

	if obj.CreatedAt.IsZero() {
		obj.CreatedAt = time.Now().UTC()
	}

	m := &model{
		Id:                  sql.NullInt64{Int64: int64(obj.Id), Valid: true},
		CampaignId:          obj.CampaignId,
		DonorWallet:         obj.DonorWallet,
		CreatorWallet:       obj.CreatorWallet,
		AmountLamports:      int64(obj.AmountLamports),
		PlatformFeeLamports: int64(obj.PlatformFeeLamports),
		Signature:           obj.Signature,
		State:               uint(obj.State),
		CreatedAt:           obj.CreatedAt,
	}
	if obj.ConfirmedAt != nil {
		m.ConfirmedAt = sql.NullTime{Time: *obj.ConfirmedAt, Valid: true}
	}
	return m, nil
}

func fromModel(obj *model) *donation.Record {
	return &donation.Record{
		Id:                  uint64(obj.Id.Int64),
		CampaignId:          obj.CampaignId,
		DonorWallet:         obj.DonorWallet,
		CreatorWallet:       obj.CreatorWallet,
		AmountLamports:      uint64(obj.AmountLamports),
		PlatformFeeLamports: uint64(obj.PlatformFeeLamports),
		Signature:           obj.Signature,
		State:               donation.State(obj.State),
		CreatedAt:           obj.CreatedAt,
		ConfirmedAt:         pointer.TimeIfValid(obj.ConfirmedAt.Valid, obj.ConfirmedAt.Time),
	}
}

func (m *model) dbPut(ctx context.Context, db *sqlx.DB) error {
	return pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `INSERT INTO ` + tableName + `
			(campaign_id, donor_wallet, creator_wallet, amount_lamports, platform_fee_lamports, signature, state, created_at, confirmed_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING ` + allColumns

		err := tx.QueryRowxContext(
			ctx,
			query,
			m.CampaignId,
			m.DonorWallet,
			m.CreatorWallet,
			m.AmountLamports,
			m.PlatformFeeLamports,
			m.Signature,
			m.State,
			m.CreatedAt,
			m.ConfirmedAt,
		).StructScan(m)

		return pgutil.CheckUniqueViolation(err, donation.ErrExists)
	})
}

func dbGetBySignature(ctx context.Context, db *sqlx.DB, signature string) (*model, error) {
	res := &model{}

	query := `SELECT ` + allColumns + ` FROM ` + tableName + `
		WHERE signature = $1`

	err := db.GetContext(ctx, res, query, signature)
	if err != nil {
		return nil, pgutil.CheckNoRows(err, donation.ErrNotFound)
	}
	return res, nil
}

func dbGetAllByCampaign(ctx context.Context, db *sqlx.DB, campaignId string) ([]*model, error) {
	query := `SELECT ` + allColumns + ` FROM ` + tableName + `
		WHERE campaign_id = $1
		ORDER BY id ASC`

	return dbSelect(ctx, db, query, campaignId)
}

func dbGetAllByDonor(ctx context.Context, db *sqlx.DB, donor string, cursor q.Cursor, limit uint64, direction q.Ordering) ([]*model, error) {
	opts := []interface{}{donor}
	query := `SELECT ` + allColumns + ` FROM ` + tableName + `
		WHERE (donor_wallet = $1)`

	query, opts = q.PaginateQuery(query, opts, cursor, limit, direction)
	return dbSelect(ctx, db, query, opts...)
}

func dbGetAllByState(ctx context.Context, db *sqlx.DB, state donation.State, limit uint64) ([]*model, error) {
	query := `SELECT ` + allColumns + ` FROM ` + tableName + `
		WHERE state = $1
		ORDER BY id ASC`

	if limit > 0 {
		query += ` LIMIT $2`
		return dbSelect(ctx, db, query, state, limit)
	}
	return dbSelect(ctx, db, query, state)
}

func dbSelect(ctx context.Context, db *sqlx.DB, query string, args ...interface{}) ([]*model, error) {
	res := []*model{}

	err := db.SelectContext(ctx, &res, query, args...)
	if err != nil {
		return nil, pgutil.CheckNoRows(err, donation.ErrNotFound)
	}
	if len(res) == 0 {
		return nil, donation.ErrNotFound
	}
	return res, nil
}

func dbUpdateState(ctx context.Context, db *sqlx.DB, signature string, state donation.State, at time.Time) error {
	return pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		var current uint
		query := `SELECT state FROM ` + tableName + `
			WHERE signature = $1
			FOR UPDATE`

		err := tx.GetContext(ctx, &current, query, signature)
		if err != nil {
			return pgutil.CheckNoRows(err, donation.ErrNotFound)
		}

		if donation.State(current) == state {
			return nil
		}
		if donation.State(current) != donation.StatePending {
			return donation.ErrInvalidStateTransition
		}

		var confirmedAt sql.NullTime
		switch state {
		case donation.StateConfirmed:
			confirmedAt = sql.NullTime{Time: at.UTC(), Valid: true}
		case donation.StateFailed:
		default:
			return donation.ErrInvalidStateTransition
		}

		query = `UPDATE ` + tableName + `
			SET state = $2, confirmed_at = $3
			WHERE signature = $1`

		_, err = tx.ExecContext(ctx, query, signature, uint(state), confirmedAt)
		return err
	})
}
