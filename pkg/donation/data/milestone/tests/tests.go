package tests

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solfund/solfund-server/pkg/donation/data/milestone"
	"github.com/solfund/solfund-server/pkg/pointer"
)

func RunTests(t *testing.T, s milestone.Store, teardown func()) {
	for _, tf := range []func(t *testing.T, s milestone.Store){
		testRoundTrip,
		testGetAllByCampaign,
		testMarkCompleted,
	} {
		tf(t, s)
		teardown()
	}
}

func testRoundTrip(t *testing.T, s milestone.Store) {
	t.Run("testRoundTrip", func(t *testing.T) {
		ctx := context.Background()

		actual, err := s.GetById(ctx, "milestone")
		assert.Equal(t, milestone.ErrNotFound, err)
		assert.Nil(t, actual)

		expected := &milestone.Record{
			MilestoneId:    "milestone",
			CampaignId:     "campaign",
			Index:          0,
			Title:          "title",
			Description:    "description",
			TargetLamports: 1_000_000_000,
			CreatedAt:      time.Now(),
		}
		cloned := expected.Clone()
		require.NoError(t, s.Put(ctx, expected))
		assert.EqualValues(t, 1, expected.Id)

		assert.Equal(t, milestone.ErrExists, s.Put(ctx, &cloned))

		duplicateIndex := cloned.Clone()
		duplicateIndex.MilestoneId = "other"
		assert.Equal(t, milestone.ErrExists, s.Put(ctx, &duplicateIndex))

		actual, err = s.GetById(ctx, "milestone")
		require.NoError(t, err)
		assertEquivalentRecords(t, &cloned, actual)

		invalid := cloned.Clone()
		invalid.MilestoneId = "invalid"
		invalid.Index = 1
		invalid.CompletedAt = pointer.Time(time.Now())
		assert.Error(t, s.Put(ctx, &invalid))
	})
}

func testGetAllByCampaign(t *testing.T, s milestone.Store) {
	t.Run("testGetAllByCampaign", func(t *testing.T) {
		ctx := context.Background()

		_, err := s.GetAllByCampaign(ctx, "campaign1")
		assert.Equal(t, milestone.ErrNotFound, err)

		// Inserted out of order to verify ordering by index
		for _, index := range []uint32{2, 0, 1} {
			for _, campaignId := range []string{"campaign1", "campaign2"} {
				require.NoError(t, s.Put(ctx, &milestone.Record{
					MilestoneId: fmt.Sprintf("%s-milestone%d", campaignId, index),
					CampaignId:  campaignId,
					Index:       index,
					Title:       fmt.Sprintf("title%d", index),
					CreatedAt:   time.Now(),
				}))
			}
		}

		actual, err := s.GetAllByCampaign(ctx, "campaign1")
		require.NoError(t, err)
		require.Len(t, actual, 3)
		for i, record := range actual {
			assert.EqualValues(t, i, record.Index)
			assert.Equal(t, "campaign1", record.CampaignId)
			assert.Equal(t, fmt.Sprintf("campaign1-milestone%d", i), record.MilestoneId)
		}
	})
}

func testMarkCompleted(t *testing.T, s milestone.Store) {
	t.Run("testMarkCompleted", func(t *testing.T) {
		ctx := context.Background()

		assert.Equal(t, milestone.ErrNotFound, s.MarkCompleted(ctx, "milestone", time.Now()))

		require.NoError(t, s.Put(ctx, &milestone.Record{
			MilestoneId: "milestone",
			CampaignId:  "campaign",
			Title:       "title",
			CreatedAt:   time.Now(),
		}))

		completedAt := time.Now()
		require.NoError(t, s.MarkCompleted(ctx, "milestone", completedAt))
		assert.Equal(t, milestone.ErrAlreadyCompleted, s.MarkCompleted(ctx, "milestone", time.Now()))

		actual, err := s.GetById(ctx, "milestone")
		require.NoError(t, err)
		assert.True(t, actual.IsCompleted)
		require.NotNil(t, actual.CompletedAt)
		assert.Equal(t, completedAt.Unix(), actual.CompletedAt.Unix())
	})
}

func assertEquivalentRecords(t *testing.T, obj1, obj2 *milestone.Record) {
	assert.Equal(t, obj1.MilestoneId, obj2.MilestoneId)
	assert.Equal(t, obj1.CampaignId, obj2.CampaignId)
	assert.Equal(t, obj1.Index, obj2.Index)
	assert.Equal(t, obj1.Title, obj2.Title)
	assert.Equal(t, obj1.Description, obj2.Description)
	assert.Equal(t, obj1.TargetLamports, obj2.TargetLamports)
	assert.Equal(t, obj1.IsCompleted, obj2.IsCompleted)
	assert.Equal(t, obj1.CompletedAt == nil, obj2.CompletedAt == nil)
	if obj1.CompletedAt != nil && obj2.CompletedAt != nil {
		assert.Equal(t, obj1.CompletedAt.Unix(), obj2.CompletedAt.Unix())
	}
	assert.Equal(t, obj1.CreatedAt.Unix(), obj2.CreatedAt.Unix())
}
