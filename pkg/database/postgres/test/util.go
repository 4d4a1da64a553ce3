package test

import (
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	_ "github.com/jackc/pgx/v4/stdlib" //nolint:revive

	"github.com/solfund/solfund-server/pkg/retry"
	"github.com/solfund/solfund-server/pkg/retry/backoff"
)

const (
	imageRepository = "postgres"
	defaultImageTag = "15-alpine"
	imageTagEnvName = "POSTGRES_TEST_IMAGE_TAG"

	// Containers outlive a crashed test run by at most this long
	containerAutoKill = 120 * time.Second

	port     = 5432
	user     = "localtest"
	password = "localpassword"
	dbname   = "testdb"
)

// StartPostgresDB runs a throwaway postgres container and returns a client
// connected to it. closeFunc removes the container and is safe to call when
// err is set.
func StartPostgresDB(pool *dockertest.Pool) (db *sql.DB, closeFunc func(), err error) {
	closeFunc = func() {}

	tag := os.Getenv(imageTagEnvName)
	if len(tag) == 0 {
		tag = defaultImageTag
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: imageRepository,
		Tag:        tag,
		Env: []string{
			"POSTGRES_USER=" + user,
			"POSTGRES_PASSWORD=" + password,
			"POSTGRES_DB=" + dbname,
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return nil, closeFunc, errors.Wrapf(err, "failed to start %s:%s", imageRepository, tag)
	}

	closeFunc = func() {
		_ = pool.Purge(resource)
	}

	// Expire never returns an error
	_ = resource.Expire(uint(containerAutoKill.Seconds()))

	databaseUrl := fmt.Sprintf(
		"postgres://%s:%s@%s/%s?sslmode=disable",
		user,
		password,
		resource.GetHostPort(fmt.Sprintf("%d/tcp", port)),
		dbname,
	)

	_, err = retry.Retry(
		func() error {
			db, err = sql.Open("pgx", databaseUrl)
			if err != nil {
				return err
			}
			return db.Ping()
		},
		retry.Limit(60),
		retry.Backoff(backoff.Constant(500*time.Millisecond), 500*time.Millisecond),
	)
	if err != nil {
		closeFunc()
		return nil, func() {}, errors.Wrap(err, "timed out waiting for postgres container to become available")
	}

	return db, closeFunc, nil
}

// ResetSchema drops and recreates test tables between test cases.
func ResetSchema(db *sql.DB, destroy, create string) error {
	if _, err := db.Exec(destroy); err != nil {
		return errors.Wrap(err, "failed to drop test tables")
	}
	if _, err := db.Exec(create); err != nil {
		return errors.Wrap(err, "failed to create test tables")
	}
	return nil
}

// Schema is the DDL a package's store tests run against.
type Schema struct {
	Create  string
	Destroy string
}

// RunMain is a TestMain body for store packages. It starts a database, applies
// schema and hands setup the database along with a teardown that resets the
// schema between tests. RunMain does not return.
func RunMain(m *testing.M, schema Schema, setup func(db *sql.DB, teardown func())) {
	log := logrus.StandardLogger().WithField("type", "postgres/test")

	pool, err := dockertest.NewPool("")
	if err != nil {
		log.WithError(err).Error("error creating docker pool")
		os.Exit(1)
	}

	db, closeFunc, err := StartPostgresDB(pool)
	if err != nil {
		log.WithError(err).Error("error starting postgres image")
		os.Exit(1)
	}

	if _, err := db.Exec(schema.Create); err != nil {
		log.WithError(err).Error("error creating test tables")
		closeFunc()
		os.Exit(1)
	}

	setup(db, func() {
		if pc := recover(); pc != nil {
			closeFunc()
			panic(pc)
		}

		if err := ResetSchema(db, schema.Destroy, schema.Create); err != nil {
			log.WithError(err).Error("error resetting test tables")
			closeFunc()
			os.Exit(1)
		}
	})

	code := m.Run()
	db.Close()
	closeFunc()
	os.Exit(code)
}
