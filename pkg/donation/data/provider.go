package data

import (
	pg "github.com/solfund/solfund-server/pkg/database/postgres"
)

// Provider is the single entry point to donation data: durable records in
// DatabaseData and probabilistic lookups in EstimatedData.
type Provider interface {
	DatabaseData
	EstimatedData

	GetDatabaseDataProvider() DatabaseData
	GetEstimatedDataProvider() EstimatedData
}

type provider struct {
	DatabaseData
	EstimatedData
}

func NewDataProvider(dbConfig *pg.Config) (Provider, error) {
	db, err := NewDatabaseProvider(dbConfig)
	if err != nil {
		return nil, err
	}
	return compose(db)
}

// NewMemoryDataProvider is backed by in memory stores, for deployments
// without a database. Nothing is persisted across restarts.
func NewMemoryDataProvider() (Provider, error) {
	return compose(NewMemoryDatabaseProvider())
}

func NewTestDataProvider() Provider {
	p, err := NewMemoryDataProvider()
	if err != nil {
		panic(err)
	}
	return p
}

func compose(db DatabaseData) (Provider, error) {
	estimated, err := NewEstimatedProvider()
	if err != nil {
		return nil, err
	}
	return &provider{DatabaseData: db, EstimatedData: estimated}, nil
}

func (p *provider) GetDatabaseDataProvider() DatabaseData   { return p.DatabaseData }
func (p *provider) GetEstimatedDataProvider() EstimatedData { return p.EstimatedData }
