package tests

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solfund/solfund-server/pkg/donation/data/campaign"
)

func RunTests(t *testing.T, s campaign.Store, teardown func()) {
	for _, tf := range []func(t *testing.T, s campaign.Store){
		testRoundTrip,
		testGetAll,
		testValidation,
	} {
		tf(t, s)
		teardown()
	}
}

func testRoundTrip(t *testing.T, s campaign.Store) {
	t.Run("testRoundTrip", func(t *testing.T) {
		ctx := context.Background()

		actual, err := s.GetById(ctx, "campaign")
		assert.Equal(t, campaign.ErrNotFound, err)
		assert.Nil(t, actual)

		expected := &campaign.Record{
			CampaignId:    "campaign",
			CreatorWallet: "creator",
			Title:         "title",
			Description:   "description",
			ImageUrl:      "https://example.com/image.png",
			GoalLamports:  5_000_000_000,
			WebsiteUrl:    "https://example.com",
			XUrl:          "https://x.com/example",
			TelegramUrl:   "",
			CreatedAt:     time.Now(),
		}
		cloned := expected.Clone()
		require.NoError(t, s.Put(ctx, expected))
		assert.EqualValues(t, 1, expected.Id)

		assert.Equal(t, campaign.ErrExists, s.Put(ctx, &cloned))

		actual, err = s.GetById(ctx, "campaign")
		require.NoError(t, err)
		assertEquivalentRecords(t, &cloned, actual)
		assert.EqualValues(t, 1, actual.Id)
		assert.Equal(t, 2, actual.SocialLinkCount())
	})
}

func testGetAll(t *testing.T, s campaign.Store) {
	t.Run("testGetAll", func(t *testing.T) {
		ctx := context.Background()

		_, err := s.GetAll(ctx)
		assert.Equal(t, campaign.ErrNotFound, err)

		var expected []*campaign.Record
		for i := 0; i < 5; i++ {
			record := &campaign.Record{
				CampaignId:    fmt.Sprintf("campaign%d", i),
				CreatorWallet: fmt.Sprintf("creator%d", i%2),
				Title:         fmt.Sprintf("title%d", i),
				GoalLamports:  uint64(i + 1),
				CreatedAt:     time.Now(),
			}
			require.NoError(t, s.Put(ctx, record))
			expected = append(expected, record)
		}

		actual, err := s.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, actual, len(expected))
		for i := range expected {
			assertEquivalentRecords(t, expected[i], actual[i])
		}

		actual, err = s.GetAllByCreator(ctx, "creator0")
		require.NoError(t, err)
		require.Len(t, actual, 3)
		assert.Equal(t, "campaign0", actual[0].CampaignId)
		assert.Equal(t, "campaign2", actual[1].CampaignId)
		assert.Equal(t, "campaign4", actual[2].CampaignId)

		_, err = s.GetAllByCreator(ctx, "unknown")
		assert.Equal(t, campaign.ErrNotFound, err)
	})
}

func testValidation(t *testing.T, s campaign.Store) {
	t.Run("testValidation", func(t *testing.T) {
		ctx := context.Background()

		for _, record := range []*campaign.Record{
			{CreatorWallet: "creator", Title: "title", GoalLamports: 1},
			{CampaignId: "campaign", Title: "title", GoalLamports: 1},
			{CampaignId: "campaign", CreatorWallet: "creator", GoalLamports: 1},
			{CampaignId: "campaign", CreatorWallet: "creator", Title: "title"},
		} {
			assert.Error(t, s.Put(ctx, record))
		}

		_, err := s.GetAll(ctx)
		assert.Equal(t, campaign.ErrNotFound, err)
	})
}

func assertEquivalentRecords(t *testing.T, obj1, obj2 *campaign.Record) {
	assert.Equal(t, obj1.CampaignId, obj2.CampaignId)
	assert.Equal(t, obj1.CreatorWallet, obj2.CreatorWallet)
	assert.Equal(t, obj1.Title, obj2.Title)
	assert.Equal(t, obj1.Description, obj2.Description)
	assert.Equal(t, obj1.ImageUrl, obj2.ImageUrl)
	assert.Equal(t, obj1.GoalLamports, obj2.GoalLamports)
	assert.Equal(t, obj1.WebsiteUrl, obj2.WebsiteUrl)
	assert.Equal(t, obj1.XUrl, obj2.XUrl)
	assert.Equal(t, obj1.TelegramUrl, obj2.TelegramUrl)
	assert.Equal(t, obj1.CreatedAt.Unix(), obj2.CreatedAt.Unix())
}
