package data

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/solfund/solfund-server/pkg/cache"
	pg "github.com/solfund/solfund-server/pkg/database/postgres"
	"github.com/solfund/solfund-server/pkg/database/query"
	"github.com/solfund/solfund-server/pkg/retry"
	"github.com/solfund/solfund-server/pkg/retry/backoff"

	"github.com/solfund/solfund-server/pkg/donation/data/campaign"
	"github.com/solfund/solfund-server/pkg/donation/data/donation"
	"github.com/solfund/solfund-server/pkg/donation/data/milestone"

	campaign_memory_client "github.com/solfund/solfund-server/pkg/donation/data/campaign/memory"
	donation_memory_client "github.com/solfund/solfund-server/pkg/donation/data/donation/memory"
	milestone_memory_client "github.com/solfund/solfund-server/pkg/donation/data/milestone/memory"

	campaign_postgres_client "github.com/solfund/solfund-server/pkg/donation/data/campaign/postgres"
	donation_postgres_client "github.com/solfund/solfund-server/pkg/donation/data/donation/postgres"
	milestone_postgres_client "github.com/solfund/solfund-server/pkg/donation/data/milestone/postgres"
)

// Cache Constants
const (
	maxCampaignCacheBudget = 10_000
	singleCampaignWeight   = 1
)

const (
	maxDonationBatchReqSize = 1024
)

// Transaction retry constants
const (
	maxTxAttempts    = 5
	txRetryBaseDelay = 25 * time.Millisecond
	txRetryMaxDelay  = 500 * time.Millisecond
)

var (
	ErrRequestTooLarge = errors.New("request exceeds max batch size")
)

type DatabaseData interface {
	// Campaign
	// --------------------------------------------------------------------------------
	CreateCampaign(ctx context.Context, record *campaign.Record) error
	GetCampaign(ctx context.Context, campaignId string) (*campaign.Record, error)
	GetAllCampaigns(ctx context.Context) ([]*campaign.Record, error)
	GetAllCampaignsByCreator(ctx context.Context, creator string) ([]*campaign.Record, error)

	// Milestone
	// --------------------------------------------------------------------------------
	CreateMilestone(ctx context.Context, record *milestone.Record) error
	GetMilestone(ctx context.Context, milestoneId string) (*milestone.Record, error)
	GetAllMilestonesByCampaign(ctx context.Context, campaignId string) ([]*milestone.Record, error)
	MarkMilestoneCompleted(ctx context.Context, milestoneId string, at time.Time) error

	// Donation
	// --------------------------------------------------------------------------------
	CreateDonation(ctx context.Context, record *donation.Record) error
	GetDonationBySignature(ctx context.Context, signature string) (*donation.Record, error)
	GetAllDonationsByCampaign(ctx context.Context, campaignId string) ([]*donation.Record, error)
	GetAllDonationsByDonor(ctx context.Context, donor string, opts ...query.Option) ([]*donation.Record, error)
	GetAllDonationsByState(ctx context.Context, state donation.State, limit uint64) ([]*donation.Record, error)
	UpdateDonationState(ctx context.Context, signature string, state donation.State, at time.Time) error

	// ExecuteInTx executes fn within a single DB transaction. In-memory stores
	// have no transaction support, so fn is executed directly.
	ExecuteInTx(ctx context.Context, isolation sql.IsolationLevel, fn func(ctx context.Context) error) error
}

type DatabaseProvider struct {
	campaigns  campaign.Store
	milestones milestone.Store
	donations  donation.Store

	campaignCache cache.Cache[*campaign.Record]

	db *sqlx.DB
}

func NewDatabaseProvider(dbConfig *pg.Config) (DatabaseData, error) {
	db, err := pg.Open(dbConfig)
	if err != nil {
		return nil, err
	}

	return newDatabaseProviderFromDB(db, dbConfig), nil
}

func newDatabaseProviderFromDB(db *sql.DB, dbConfig *pg.Config) DatabaseData {
	if dbConfig.MaxOpenConnections > 0 {
		db.SetMaxOpenConns(dbConfig.MaxOpenConnections)
	}
	if dbConfig.MaxIdleConnections > 0 {
		db.SetMaxIdleConns(dbConfig.MaxIdleConnections)
	}
	db.SetConnMaxIdleTime(time.Hour)
	db.SetConnMaxLifetime(time.Hour)

	return &DatabaseProvider{
		campaigns:  campaign_postgres_client.New(db),
		milestones: milestone_postgres_client.New(db),
		donations:  donation_postgres_client.New(db),

		campaignCache: cache.New[*campaign.Record](maxCampaignCacheBudget),

		db: sqlx.NewDb(db, "pgx"),
	}
}

func NewMemoryDatabaseProvider() DatabaseData {
	return &DatabaseProvider{
		campaigns:  campaign_memory_client.New(),
		milestones: milestone_memory_client.New(),
		donations:  donation_memory_client.New(),

		campaignCache: cache.New[*campaign.Record](maxCampaignCacheBudget),
	}
}

func NewTestDatabaseProvider() DatabaseData {
	return NewMemoryDatabaseProvider()
}

func (dp *DatabaseProvider) ExecuteInTx(ctx context.Context, isolation sql.IsolationLevel, fn func(ctx context.Context) error) error {
	if dp.db == nil {
		return fn(ctx)
	}

	// Serialization failures abort the whole transaction, so the entire fn is
	// replayed in a fresh one
	_, err := retry.Retry(
		func() error {
			return pg.ExecuteTxWithinCtx(ctx, dp.db, isolation, fn)
		},
		retry.RetriableFunc(pg.IsSerializationFailure),
		retry.Limit(maxTxAttempts),
		retry.Context(ctx),
		retry.BackoffWithJitter(backoff.BinaryExponential(txRetryBaseDelay), txRetryMaxDelay, 0.2),
	)
	return err
}

// Campaign
// --------------------------------------------------------------------------------
func (dp *DatabaseProvider) CreateCampaign(ctx context.Context, record *campaign.Record) error {
	return dp.campaigns.Put(ctx, record)
}
func (dp *DatabaseProvider) GetCampaign(ctx context.Context, campaignId string) (*campaign.Record, error) {
	// Campaigns are immutable once created, so cached entries never go stale
	if cached, ok := dp.campaignCache.Retrieve(campaignId); ok {
		cloned := cached.Clone()
		return &cloned, nil
	}

	record, err := dp.campaigns.GetById(ctx, campaignId)
	if err != nil {
		return nil, err
	}

	cloned := record.Clone()
	dp.campaignCache.Insert(campaignId, &cloned, singleCampaignWeight)

	return record, nil
}
func (dp *DatabaseProvider) GetAllCampaigns(ctx context.Context) ([]*campaign.Record, error) {
	return dp.campaigns.GetAll(ctx)
}
func (dp *DatabaseProvider) GetAllCampaignsByCreator(ctx context.Context, creator string) ([]*campaign.Record, error) {
	return dp.campaigns.GetAllByCreator(ctx, creator)
}

// Milestone
// --------------------------------------------------------------------------------
func (dp *DatabaseProvider) CreateMilestone(ctx context.Context, record *milestone.Record) error {
	return dp.milestones.Put(ctx, record)
}
func (dp *DatabaseProvider) GetMilestone(ctx context.Context, milestoneId string) (*milestone.Record, error) {
	return dp.milestones.GetById(ctx, milestoneId)
}
func (dp *DatabaseProvider) GetAllMilestonesByCampaign(ctx context.Context, campaignId string) ([]*milestone.Record, error) {
	return dp.milestones.GetAllByCampaign(ctx, campaignId)
}
func (dp *DatabaseProvider) MarkMilestoneCompleted(ctx context.Context, milestoneId string, at time.Time) error {
	return dp.milestones.MarkCompleted(ctx, milestoneId, at)
}

// Donation
// --------------------------------------------------------------------------------
func (dp *DatabaseProvider) CreateDonation(ctx context.Context, record *donation.Record) error {
	return dp.donations.Put(ctx, record)
}
func (dp *DatabaseProvider) GetDonationBySignature(ctx context.Context, signature string) (*donation.Record, error) {
	return dp.donations.GetBySignature(ctx, signature)
}
func (dp *DatabaseProvider) GetAllDonationsByCampaign(ctx context.Context, campaignId string) ([]*donation.Record, error) {
	return dp.donations.GetAllByCampaign(ctx, campaignId)
}
func (dp *DatabaseProvider) GetAllDonationsByDonor(ctx context.Context, donor string, opts ...query.Option) ([]*donation.Record, error) {
	req, err := query.DefaultPaginationHandler(opts...)
	if err != nil {
		return nil, err
	}
	return dp.donations.GetAllByDonor(ctx, donor, req.Cursor, req.Limit, req.SortBy)
}
func (dp *DatabaseProvider) GetAllDonationsByState(ctx context.Context, state donation.State, limit uint64) ([]*donation.Record, error) {
	if limit == 0 || limit > maxDonationBatchReqSize {
		return nil, ErrRequestTooLarge
	}
	return dp.donations.GetAllByState(ctx, state, limit)
}
func (dp *DatabaseProvider) UpdateDonationState(ctx context.Context, signature string, state donation.State, at time.Time) error {
	return dp.donations.UpdateState(ctx, signature, state, at)
}
