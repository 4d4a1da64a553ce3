package campaign

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("campaign not found")
	ErrExists   = errors.New("campaign already exists")
)

type Store interface {
	// Put creates a new campaign
	Put(ctx context.Context, record *Record) error

	// GetById gets a campaign by its campaign id
	GetById(ctx context.Context, campaignId string) (*Record, error)

	// GetAll gets all campaigns in creation order
	GetAll(ctx context.Context) ([]*Record, error)

	// GetAllByCreator gets all campaigns launched by a creator wallet, in
	// creation order
	GetAllByCreator(ctx context.Context, creator string) ([]*Record, error)
}
