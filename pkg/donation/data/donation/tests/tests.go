package tests

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solfund/solfund-server/pkg/database/query"
	"github.com/solfund/solfund-server/pkg/donation/data/donation"
)

func RunTests(t *testing.T, s donation.Store, teardown func()) {
	for _, tf := range []func(t *testing.T, s donation.Store){
		testRoundTrip,
		testGetAllByCampaign,
		testGetAllByDonor,
		testGetAllByState,
		testUpdateState,
	} {
		tf(t, s)
		teardown()
	}
}

func testRoundTrip(t *testing.T, s donation.Store) {
	t.Run("testRoundTrip", func(t *testing.T) {
		ctx := context.Background()

		actual, err := s.GetBySignature(ctx, "signature")
		assert.Equal(t, donation.ErrNotFound, err)
		assert.Nil(t, actual)

		expected := &donation.Record{
			CampaignId:          "campaign",
			DonorWallet:         "donor",
			CreatorWallet:       "creator",
			AmountLamports:      1_000_000_000,
			PlatformFeeLamports: 10_000_000,
			Signature:           "signature",
			State:               donation.StatePending,
			CreatedAt:           time.Now(),
		}
		cloned := expected.Clone()
		require.NoError(t, s.Put(ctx, expected))
		assert.EqualValues(t, 1, expected.Id)

		assert.Equal(t, donation.ErrExists, s.Put(ctx, &cloned))

		actual, err = s.GetBySignature(ctx, "signature")
		require.NoError(t, err)
		assert.Equal(t, expected.Id, actual.Id)
		assertEquivalentRecords(t, expected, actual)

		invalid := cloned.Clone()
		invalid.Signature = "other"
		invalid.AmountLamports = 0
		assert.Error(t, s.Put(ctx, &invalid))

		invalid = cloned.Clone()
		invalid.Signature = "other"
		invalid.State = donation.StateConfirmed
		assert.Error(t, s.Put(ctx, &invalid))

		invalid = cloned.Clone()
		invalid.Signature = "other"
		invalid.State = donation.StateUnknown
		assert.Error(t, s.Put(ctx, &invalid))
	})
}

func testGetAllByCampaign(t *testing.T, s donation.Store) {
	t.Run("testGetAllByCampaign", func(t *testing.T) {
		ctx := context.Background()

		_, err := s.GetAllByCampaign(ctx, "campaign1")
		assert.Equal(t, donation.ErrNotFound, err)

		for i := 0; i < 3; i++ {
			for _, campaignId := range []string{"campaign1", "campaign2"} {
				require.NoError(t, s.Put(ctx, newPendingRecord(campaignId, "donor", fmt.Sprintf("%s-signature%d", campaignId, i))))
			}
		}

		actual, err := s.GetAllByCampaign(ctx, "campaign1")
		require.NoError(t, err)
		require.Len(t, actual, 3)
		for i, record := range actual {
			assert.Equal(t, "campaign1", record.CampaignId)
			assert.Equal(t, fmt.Sprintf("campaign1-signature%d", i), record.Signature)
		}
	})
}

func testGetAllByDonor(t *testing.T, s donation.Store) {
	t.Run("testGetAllByDonor", func(t *testing.T) {
		ctx := context.Background()

		_, err := s.GetAllByDonor(ctx, "donor1", query.EmptyCursor, 10, query.Descending)
		assert.Equal(t, donation.ErrNotFound, err)

		for i := 0; i < 5; i++ {
			for _, donor := range []string{"donor1", "donor2"} {
				require.NoError(t, s.Put(ctx, newPendingRecord("campaign", donor, fmt.Sprintf("%s-signature%d", donor, i))))
			}
		}

		actual, err := s.GetAllByDonor(ctx, "donor1", query.EmptyCursor, 10, query.Descending)
		require.NoError(t, err)
		require.Len(t, actual, 5)
		for i, record := range actual {
			assert.Equal(t, "donor1", record.DonorWallet)
			assert.Equal(t, fmt.Sprintf("donor1-signature%d", 4-i), record.Signature)
		}

		actual, err = s.GetAllByDonor(ctx, "donor1", query.EmptyCursor, 10, query.Ascending)
		require.NoError(t, err)
		require.Len(t, actual, 5)
		for i, record := range actual {
			assert.Equal(t, fmt.Sprintf("donor1-signature%d", i), record.Signature)
		}

		page, err := s.GetAllByDonor(ctx, "donor1", query.EmptyCursor, 2, query.Descending)
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "donor1-signature4", page[0].Signature)
		assert.Equal(t, "donor1-signature3", page[1].Signature)

		page, err = s.GetAllByDonor(ctx, "donor1", query.ToCursor(page[1].Id), 2, query.Descending)
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "donor1-signature2", page[0].Signature)
		assert.Equal(t, "donor1-signature1", page[1].Signature)

		page, err = s.GetAllByDonor(ctx, "donor1", query.ToCursor(page[1].Id), 2, query.Descending)
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, "donor1-signature0", page[0].Signature)

		_, err = s.GetAllByDonor(ctx, "donor1", query.ToCursor(page[0].Id), 2, query.Descending)
		assert.Equal(t, donation.ErrNotFound, err)

		page, err = s.GetAllByDonor(ctx, "donor1", query.ToCursor(actual[2].Id), 10, query.Ascending)
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "donor1-signature3", page[0].Signature)
	})
}

func testGetAllByState(t *testing.T, s donation.Store) {
	t.Run("testGetAllByState", func(t *testing.T) {
		ctx := context.Background()

		_, err := s.GetAllByState(ctx, donation.StatePending, 10)
		assert.Equal(t, donation.ErrNotFound, err)

		for i := 0; i < 5; i++ {
			require.NoError(t, s.Put(ctx, newPendingRecord("campaign", "donor", fmt.Sprintf("signature%d", i))))
		}
		require.NoError(t, s.UpdateState(ctx, "signature0", donation.StateConfirmed, time.Now()))
		require.NoError(t, s.UpdateState(ctx, "signature1", donation.StateFailed, time.Now()))

		actual, err := s.GetAllByState(ctx, donation.StatePending, 2)
		require.NoError(t, err)
		require.Len(t, actual, 2)
		assert.Equal(t, "signature2", actual[0].Signature)
		assert.Equal(t, "signature3", actual[1].Signature)

		actual, err = s.GetAllByState(ctx, donation.StatePending, 0)
		require.NoError(t, err)
		assert.Len(t, actual, 3)

		actual, err = s.GetAllByState(ctx, donation.StateConfirmed, 10)
		require.NoError(t, err)
		require.Len(t, actual, 1)
		assert.Equal(t, "signature0", actual[0].Signature)

		actual, err = s.GetAllByState(ctx, donation.StateFailed, 10)
		require.NoError(t, err)
		require.Len(t, actual, 1)
		assert.Equal(t, "signature1", actual[0].Signature)
	})
}

func testUpdateState(t *testing.T, s donation.Store) {
	t.Run("testUpdateState", func(t *testing.T) {
		ctx := context.Background()

		assert.Equal(t, donation.ErrNotFound, s.UpdateState(ctx, "signature", donation.StateConfirmed, time.Now()))

		require.NoError(t, s.Put(ctx, newPendingRecord("campaign", "donor", "signature")))
		require.NoError(t, s.Put(ctx, newPendingRecord("campaign", "donor", "failed")))

		assert.Equal(t, donation.ErrInvalidStateTransition, s.UpdateState(ctx, "signature", donation.StateUnknown, time.Now()))

		confirmedAt := time.Now()
		require.NoError(t, s.UpdateState(ctx, "signature", donation.StateConfirmed, confirmedAt))
		require.NoError(t, s.UpdateState(ctx, "signature", donation.StateConfirmed, time.Now().Add(time.Hour)))
		assert.Equal(t, donation.ErrInvalidStateTransition, s.UpdateState(ctx, "signature", donation.StateFailed, time.Now()))

		actual, err := s.GetBySignature(ctx, "signature")
		require.NoError(t, err)
		assert.Equal(t, donation.StateConfirmed, actual.State)
		require.NotNil(t, actual.ConfirmedAt)
		assert.Equal(t, confirmedAt.Unix(), actual.ConfirmedAt.Unix())

		require.NoError(t, s.UpdateState(ctx, "failed", donation.StateFailed, time.Now()))
		assert.Equal(t, donation.ErrInvalidStateTransition, s.UpdateState(ctx, "failed", donation.StateConfirmed, time.Now()))

		actual, err = s.GetBySignature(ctx, "failed")
		require.NoError(t, err)
		assert.Equal(t, donation.StateFailed, actual.State)
		assert.Nil(t, actual.ConfirmedAt)
	})
}

func newPendingRecord(campaignId, donor, signature string) *donation.Record {
	return &donation.Record{
		CampaignId:          campaignId,
		DonorWallet:         donor,
		CreatorWallet:       "creator",
		AmountLamports:      1_000_000,
		PlatformFeeLamports: 10_000,
		Signature:           signature,
		State:               donation.StatePending,
		CreatedAt:           time.Now(),
	}
}

func assertEquivalentRecords(t *testing.T, obj1, obj2 *donation.Record) {
	assert.Equal(t, obj1.CampaignId, obj2.CampaignId)
	assert.Equal(t, obj1.DonorWallet, obj2.DonorWallet)
	assert.Equal(t, obj1.CreatorWallet, obj2.CreatorWallet)
	assert.Equal(t, obj1.AmountLamports, obj2.AmountLamports)
	assert.Equal(t, obj1.PlatformFeeLamports, obj2.PlatformFeeLamports)
	assert.Equal(t, obj1.Signature, obj2.Signature)
	assert.Equal(t, obj1.State, obj2.State)
	assert.Equal(t, obj1.ConfirmedAt == nil, obj2.ConfirmedAt == nil)
	assert.Equal(t, obj1.CreatedAt.Unix(), obj2.CreatedAt.Unix())
}

