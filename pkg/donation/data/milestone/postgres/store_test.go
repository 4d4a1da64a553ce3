package postgres

import (
	"database/sql"
	"testing"

	"github.com/solfund/solfund-server/pkg/donation/data/milestone"
	"github.com/solfund/solfund-server/pkg/donation/data/milestone/tests"

	postgrestest "github.com/solfund/solfund-server/pkg/database/postgres/test"
)

// The table and its migrations live outside this repository
var schema = postgrestest.Schema{
	Create: `
		CREATE TABLE solfund__core_milestone (
			id serial NOT NULL PRIMARY KEY,

			milestone_id text NOT NULL,
			campaign_id text NOT NULL,
			milestone_index integer NOT NULL CHECK (milestone_index >= 0),

			title text NOT NULL,
			description text NOT NULL,
			target_lamports bigint NOT NULL CHECK (target_lamports >= 0),

			is_completed boolean NOT NULL DEFAULT FALSE,
			completed_at timestamp with time zone NULL,

			created_at timestamp with time zone NOT NULL,

			CONSTRAINT solfund__core_milestone__uniq__milestone_id UNIQUE (milestone_id),
			CONSTRAINT solfund__core_milestone__uniq__campaign_id__and__milestone_index UNIQUE (campaign_id, milestone_index)
		);
	`,
	Destroy: `
		DROP TABLE solfund__core_milestone;
	`,
}

var (
	testStore milestone.Store
	teardown  func()
)

func TestMain(m *testing.M) {
	postgrestest.RunMain(m, schema, func(db *sql.DB, reset func()) {
		testStore = New(db)
		teardown = reset
	})
}

func TestMilestonePostgresStore(t *testing.T) {
	tests.RunTests(t, testStore, teardown)
}
