package pg

import (
	"database/sql"
	"fmt"
	"net/url"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/external"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/rds/rdsutils"
	"github.com/pkg/errors"

	_ "github.com/newrelic/go-agent/v3/integrations/nrpgx"
)

const (
	driverName = "nrpgx"

	defaultSslMode = "disable"
)

type Config struct {
	User     string
	Host     string
	Password string
	Port     int
	DbName   string

	// SslMode is passed through to the driver, and defaults to disable
	SslMode string

	// UseAwsIam authenticates with a short lived RDS token instead of the
	// password. AWS credentials are resolved from the environment.
	UseAwsIam bool

	MaxOpenConnections int
	MaxIdleConnections int
}

// Open gets a DB connection pool using the authentication method selected by
// the config
func Open(config *Config) (*sql.DB, error) {
	port := strconv.Itoa(config.Port)

	if config.UseAwsIam {
		awsConfig, err := external.LoadDefaultAWSConfig()
		if err != nil {
			return nil, errors.Wrap(err, "failed to load aws config")
		}
		return NewWithAwsIam(config.User, config.Host, port, config.DbName, awsConfig)
	}

	return newWithPassword(config.User, config.Password, config.Host, port, config.DbName, config.SslMode)
}

// Get a DB connection pool using AWS IAM credentials
//
// https://docs.aws.amazon.com/AmazonRDS/latest/AuroraUserGuide/UsingWithRDS.IAMDBAuth.Connecting.Go.html
func NewWithAwsIam(username, hostname, port, dbname string, config aws.Config) (*sql.DB, error) {
	// Only supported on provisioned Aurora RDS clusters
	rdsClient := rds.New(config)

	endpoint := fmt.Sprintf("%s:%s", hostname, port)
	authToken, err := rdsutils.BuildAuthToken(endpoint, rdsClient.Region, username, rdsClient.Credentials)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build rds auth token")
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s",
		hostname, port, username, authToken, dbname,
	)
	return open(dsn)
}

// Get a DB connection pool using username/password credentials
func NewWithUsernameAndPassword(username, password, hostname, port, dbname string) (*sql.DB, error) {
	return newWithPassword(username, password, hostname, port, dbname, defaultSslMode)
}

func newWithPassword(username, password, hostname, port, dbname, sslMode string) (*sql.DB, error) {
	if len(sslMode) == 0 {
		sslMode = defaultSslMode
	}

	dsn := (&url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(username, password),
		Host:     fmt.Sprintf("%s:%s", hostname, port),
		Path:     dbname,
		RawQuery: url.Values{"sslmode": []string{sslMode}}.Encode(),
	}).String()
	return open(dsn)
}

func open(dsn string) (*sql.DB, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	return db, nil
}
