package postgres

import (
	"database/sql"
	"testing"

	"github.com/solfund/solfund-server/pkg/donation/data/campaign"
	"github.com/solfund/solfund-server/pkg/donation/data/campaign/tests"

	postgrestest "github.com/solfund/solfund-server/pkg/database/postgres/test"
)

// The table and its migrations live outside this repository
var schema = postgrestest.Schema{
	Create: `
		CREATE TABLE solfund__core_campaign (
			id serial NOT NULL PRIMARY KEY,

			campaign_id text NOT NULL,
			creator_wallet text NOT NULL,

			title text NOT NULL,
			description text NOT NULL,
			image_url text NOT NULL,

			goal_lamports bigint NOT NULL CHECK (goal_lamports > 0),

			website_url text NOT NULL,
			x_url text NOT NULL,
			telegram_url text NOT NULL,

			created_at timestamp with time zone NOT NULL,

			CONSTRAINT solfund__core_campaign__uniq__campaign_id UNIQUE (campaign_id)
		);
	`,
	Destroy: `
		DROP TABLE solfund__core_campaign;
	`,
}

var (
	testStore campaign.Store
	teardown  func()
)

func TestMain(m *testing.M) {
	postgrestest.RunMain(m, schema, func(db *sql.DB, reset func()) {
		testStore = New(db)
		teardown = reset
	})
}

func TestCampaignPostgresStore(t *testing.T) {
	tests.RunTests(t, testStore, teardown)
}
