package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/solfund/solfund-server/pkg/donation/data/milestone"
)

type store struct {
	db *sqlx.DB
}

func New(db *sql.DB) milestone.Store {
	return &store{
		db: sqlx.NewDb(db, "pgx"),
	}
}

// Put implements milestone.Store.Put
func (s *store) Put(ctx context.Context, record *milestone.Record) error {
	m, err := toModel(record)
	if err != nil {
		return err
	}

	err = m.dbPut(ctx, s.db)
	if err != nil {
		return err
	}

	res := fromModel(m)
	res.CopyTo(record)

	return nil
}

// GetById implements milestone.Store.GetById
func (s *store) GetById(ctx context.Context, milestoneId string) (*milestone.Record, error) {
	m, err := dbGetById(ctx, s.db, milestoneId)
	if err != nil {
		return nil, err
	}
	return fromModel(m), nil
}

// GetAllByCampaign implements milestone.Store.GetAllByCampaign
func (s *store) GetAllByCampaign(ctx context.Context, campaignId string) ([]*milestone.Record, error) {
	models, err := dbGetAllByCampaign(ctx, s.db, campaignId)
	if err != nil {
		return nil, err
	}

	res := make([]*milestone.Record, len(models))
	for i, m := range models {
		res[i] = fromModel(m)
	}
	return res, nil
}

// MarkCompleted implements milestone.Store.MarkCompleted
func (s *store) MarkCompleted(ctx context.Context, milestoneId string, at time.Time) error {
	return dbMarkCompleted(ctx, s.db, milestoneId, at)
}
