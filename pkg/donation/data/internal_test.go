package data

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solfund/solfund-server/pkg/donation/data/campaign"
	"github.com/solfund/solfund-server/pkg/donation/data/donation"
)

func TestDatabaseProvider_CampaignCache(t *testing.T) {
	ctx := context.Background()
	dp := NewTestDatabaseProvider().(*DatabaseProvider)

	_, err := dp.GetCampaign(ctx, "campaign")
	assert.Equal(t, campaign.ErrNotFound, err)

	require.NoError(t, dp.CreateCampaign(ctx, &campaign.Record{
		CampaignId:    "campaign",
		CreatorWallet: "creator",
		Title:         "title",
		GoalLamports:  1_000_000_000,
		CreatedAt:     time.Now(),
	}))

	first, err := dp.GetCampaign(ctx, "campaign")
	require.NoError(t, err)
	assert.Equal(t, 1, dp.campaignCache.GetWeight())

	// Mutating a returned record must not leak into the cache
	first.Title = "mutated"

	second, err := dp.GetCampaign(ctx, "campaign")
	require.NoError(t, err)
	assert.Equal(t, "title", second.Title)
	assert.Equal(t, 1, dp.campaignCache.GetWeight())
}

func TestDatabaseProvider_DonationBatchLimits(t *testing.T) {
	ctx := context.Background()
	dp := NewTestDatabaseProvider()

	_, err := dp.GetAllDonationsByState(ctx, donation.StatePending, 0)
	assert.Equal(t, ErrRequestTooLarge, err)

	_, err = dp.GetAllDonationsByState(ctx, donation.StatePending, maxDonationBatchReqSize+1)
	assert.Equal(t, ErrRequestTooLarge, err)

	_, err = dp.GetAllDonationsByState(ctx, donation.StatePending, maxDonationBatchReqSize)
	assert.Equal(t, donation.ErrNotFound, err)
}

func TestDatabaseProvider_ExecuteInTxWithoutDatabase(t *testing.T) {
	ctx := context.Background()
	dp := NewTestDatabaseProvider()

	var called bool
	require.NoError(t, dp.ExecuteInTx(ctx, sql.LevelDefault, func(ctx context.Context) error {
		called = true
		return nil
	}))
	assert.True(t, called)

	expected := errors.New("failure")
	assert.Equal(t, expected, dp.ExecuteInTx(ctx, sql.LevelDefault, func(ctx context.Context) error {
		return expected
	}))
}

func TestProvider_Accessors(t *testing.T) {
	p := NewTestDataProvider()
	assert.NotNil(t, p.GetDatabaseDataProvider())
	assert.NotNil(t, p.GetEstimatedDataProvider())
}

func TestNewMemoryDataProvider(t *testing.T) {
	first, err := NewMemoryDataProvider()
	require.NoError(t, err)
	second, err := NewMemoryDataProvider()
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, first.CreateCampaign(ctx, &campaign.Record{
		CampaignId:    "campaign",
		CreatorWallet: "creator",
		Title:         "title",
		GoalLamports:  1_000_000_000,
		CreatedAt:     time.Now(),
	}))

	_, err = first.GetCampaign(ctx, "campaign")
	assert.NoError(t, err)
	_, err = second.GetCampaign(ctx, "campaign")
	assert.ErrorIs(t, err, campaign.ErrNotFound)
}
