package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/solfund/solfund-server/pkg/database/query"
	"github.com/solfund/solfund-server/pkg/donation/data/donation"
)

type store struct {
	db *sqlx.DB
}

func New(db *sql.DB) donation.Store {
	return &store{
		db: sqlx.NewDb(db, "pgx"),
	}
}

// Put implements donation.Store.Put
func (s *store) Put(ctx context.Context, record *donation.Record) error {
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

// GetBySignature implements donation.Store.GetBySignature
func (s *store) GetBySignature(ctx context.Context, signature string) (*donation.Record, error) {
	m, err := dbGetBySignature(ctx, s.db, signature)
	if err != nil {
		return nil, err
	}
	return fromModel(m), nil
}

// GetAllByCampaign implements donation.Store.GetAllByCampaign
func (s *store) GetAllByCampaign(ctx context.Context, campaignId string) ([]*donation.Record, error) {
	return fromModels(dbGetAllByCampaign(ctx, s.db, campaignId))
}

// GetAllByDonor implements donation.Store.GetAllByDonor
func (s *store) GetAllByDonor(ctx context.Context, donor string, cursor query.Cursor, limit uint64, direction query.Ordering) ([]*donation.Record, error) {
	return fromModels(dbGetAllByDonor(ctx, s.db, donor, cursor, limit, direction))
}

// GetAllByState implements donation.Store.GetAllByState
func (s *store) GetAllByState(ctx context.Context, state donation.State, limit uint64) ([]*donation.Record, error) {
	return fromModels(dbGetAllByState(ctx, s.db, state, limit))
}

// UpdateState implements donation.Store.UpdateState
func (s *store) UpdateState(ctx context.Context, signature string, state donation.State, at time.Time) error {
	return dbUpdateState(ctx, s.db, signature, state, at)
}

func fromModels(models []*model, err error) ([]*donation.Record, error) {
	if err != nil {
		return nil, err
	}

	res := make([]*donation.Record, len(models))
	for i, m := range models {
		res[i] = fromModel(m)
	}
	return res, nil
}
