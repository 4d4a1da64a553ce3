package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	pgutil "github.com/solfund/solfund-server/pkg/database/postgres"
	"github.com/solfund/solfund-server/pkg/donation/data/milestone"
	"github.com/solfund/solfund-server/pkg/pointer"
)

const (
	tableName = "solfund__core_milestone"

	allColumns = `id, milestone_id, campaign_id, milestone_index, title, description, target_lamports, is_completed, completed_at, created_at`
)

type model struct {
	Id sql.NullInt64 `db:"id"`

	MilestoneId string `db:"milestone_id"`
	CampaignId  string `db:"campaign_id"`

	Index int64 `db:"milestone_index"`

	Title          string `db:"title"`
	Description    string `db:"description"`
	TargetLamports int64  `db:"target_lamports"`

	IsCompleted bool         `db:"is_completed"`
	CompletedAt sql.NullTime `db:"completed_at"`

	CreatedAt time.Time `db:"created_at"`
}

func toModel(obj *milestone.Record) (*model, error) {
	if err := obj.Validate(); err != nil {
		return nil, err
	}

	if obj.CreatedAt.IsZero() {
		obj.CreatedAt = time.Now().UTC()
	}

	m := &model{
		Id:             sql.NullInt64{Int64: int64(obj.Id), Valid: true},
		MilestoneId:    obj.MilestoneId,
		CampaignId:     obj.CampaignId,
		Index:          int64(obj.Index),
		Title:          obj.Title,
		Description:    obj.Description,
		TargetLamports: int64(obj.TargetLamports),
		IsCompleted:    obj.IsCompleted,
		CreatedAt:      obj.CreatedAt,
	}
	if obj.CompletedAt != nil {
		m.CompletedAt = sql.NullTime{Time: *obj.CompletedAt, Valid: true}
	}
	return m, nil
}

func fromModel(obj *model) *milestone.Record {
	return &milestone.Record{
		Id:             uint64(obj.Id.Int64),
		MilestoneId:    obj.MilestoneId,
		CampaignId:     obj.CampaignId,
		Index:          uint32(obj.Index),
		Title:          obj.Title,
		Description:    obj.Description,
		TargetLamports: uint64(obj.TargetLamports),
		IsCompleted:    obj.IsCompleted,
		CompletedAt:    pointer.TimeIfValid(obj.CompletedAt.Valid, obj.CompletedAt.Time),
		CreatedAt:      obj.CreatedAt,
	}
}

func (m *model) dbPut(ctx context.Context, db *sqlx.DB) error {
	return pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `INSERT INTO ` + tableName + `
			(milestone_id, campaign_id, milestone_index, title, description, target_lamports, is_completed, completed_at, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING ` + allColumns

		err := tx.QueryRowxContext(
			ctx,
			query,
			m.MilestoneId,
			m.CampaignId,
			m.Index,
			m.Title,
			m.Description,
			m.TargetLamports,
			m.IsCompleted,
			m.CompletedAt,
			m.CreatedAt,
		).StructScan(m)

		return pgutil.CheckUniqueViolation(err, milestone.ErrExists)
	})
}

func dbGetById(ctx context.Context, db *sqlx.DB, milestoneId string) (*model, error) {
	res := &model{}

	query := `SELECT ` + allColumns + ` FROM ` + tableName + `
		WHERE milestone_id = $1`

	err := db.GetContext(ctx, res, query, milestoneId)
	if err != nil {
		return nil, pgutil.CheckNoRows(err, milestone.ErrNotFound)
	}
	return res, nil
}

func dbGetAllByCampaign(ctx context.Context, db *sqlx.DB, campaignId string) ([]*model, error) {
	res := []*model{}

	query := `SELECT ` + allColumns + ` FROM ` + tableName + `
		WHERE campaign_id = $1
		ORDER BY milestone_index ASC`

	err := db.SelectContext(ctx, &res, query, campaignId)
	if err != nil {
		return nil, pgutil.CheckNoRows(err, milestone.ErrNotFound)
	}
	if len(res) == 0 {
		return nil, milestone.ErrNotFound
	}
	return res, nil
}

func dbMarkCompleted(ctx context.Context, db *sqlx.DB, milestoneId string, at time.Time) error {
	return pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		var isCompleted bool
		query := `SELECT is_completed FROM ` + tableName + `
			WHERE milestone_id = $1
			FOR UPDATE`

		err := tx.GetContext(ctx, &isCompleted, query, milestoneId)
		if err != nil {
			return pgutil.CheckNoRows(err, milestone.ErrNotFound)
		}
		if isCompleted {
			return milestone.ErrAlreadyCompleted
		}

		query = `UPDATE ` + tableName + `
			SET is_completed = TRUE, completed_at = $2
			WHERE milestone_id = $1`

		_, err = tx.ExecContext(ctx, query, milestoneId, at.UTC())
		return err
	})
}
