package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/solfund/solfund-server/pkg/donation/data/campaign"
)

type store struct {
	db *sqlx.DB
}

func New(db *sql.DB) campaign.Store {
	return &store{
		db: sqlx.NewDb(db, "pgx"),
	}
}

// Put implements campaign.Store.Put
func (s *store) Put(ctx context.Context, record *campaign.Record) error {
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

// GetById implements campaign.Store.GetById
func (s *store) GetById(ctx context.Context, campaignId string) (*campaign.Record, error) {
	m, err := dbGetById(ctx, s.db, campaignId)
	if err != nil {
		return nil, err
	}
	return fromModel(m), nil
}

// GetAll implements campaign.Store.GetAll
func (s *store) GetAll(ctx context.Context) ([]*campaign.Record, error) {
	models, err := dbGetAll(ctx, s.db)
	if err != nil {
		return nil, err
	}
	return fromModels(models), nil
}

// GetAllByCreator implements campaign.Store.GetAllByCreator
func (s *store) GetAllByCreator(ctx context.Context, creator string) ([]*campaign.Record, error) {
	models, err := dbGetAllByCreator(ctx, s.db, creator)
	if err != nil {
		return nil, err
	}
	return fromModels(models), nil
}

func fromModels(models []*model) []*campaign.Record {
	res := make([]*campaign.Record, len(models))
	for i, m := range models {
		res[i] = fromModel(m)
	}
	return res
}
