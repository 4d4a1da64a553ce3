package main

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/mr-tron/base58"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/solfund/solfund-server/pkg/app"
	pg "github.com/solfund/solfund-server/pkg/database/postgres"
	async_reconciler "github.com/solfund/solfund-server/pkg/donation/async/reconciler"
	"github.com/solfund/solfund-server/pkg/donation/campaign"
	donation_config "github.com/solfund/solfund-server/pkg/donation/config"
	"github.com/solfund/solfund-server/pkg/donation/data"
	"github.com/solfund/solfund-server/pkg/donation/server/web"
	"github.com/solfund/solfund-server/pkg/donation/transaction"
	"github.com/solfund/solfund-server/pkg/metrics"
	"github.com/solfund/solfund-server/pkg/solana"
)

type appConfig struct {
	Database struct {
		User               string `mapstructure:"user"`
		Password           string `mapstructure:"password"`
		Host               string `mapstructure:"host"`
		Port               int    `mapstructure:"port"`
		DbName             string `mapstructure:"db_name"`
		SslMode            string `mapstructure:"ssl_mode"`
		UseAwsIam          bool   `mapstructure:"use_aws_iam"`
		MaxOpenConnections int    `mapstructure:"max_open_connections"`
		MaxIdleConnections int    `mapstructure:"max_idle_connections"`
	} `mapstructure:"database"`

	ReconcilerInterval time.Duration `mapstructure:"reconciler_interval"`
}

type solfundApp struct {
	log *logrus.Entry

	web *web.Server

	shutdownCh chan struct{}
	cancel     context.CancelFunc
	stopOnce   sync.Once
}

func (a *solfundApp) Init(config app.Config, metricsProvider *newrelic.Application) error {
	ctx, cancel := context.WithCancel(metrics.NewContext(context.Background(), metricsProvider))
	a.cancel = cancel

	var conf appConfig
	conf.ReconcilerInterval = time.Second
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.StringToTimeDurationHookFunc(),
		Result:     &conf,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(map[string]interface{}(config)); err != nil {
		return errors.Wrap(err, "invalid app config")
	}

	settings, err := donation_config.Load(ctx, donation_config.WithEnvConfigs())
	if err != nil {
		return err
	}
	if settings.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	var dataProvider data.Provider
	if len(conf.Database.Host) == 0 {
		a.log.Warn("no database configured, using in memory stores")
		dataProvider, err = data.NewMemoryDataProvider()
	} else {
		dataProvider, err = data.NewDataProvider(&pg.Config{
			User:               conf.Database.User,
			Password:           conf.Database.Password,
			Host:               conf.Database.Host,
			Port:               conf.Database.Port,
			DbName:             conf.Database.DbName,
			SslMode:            conf.Database.SslMode,
			UseAwsIam:          conf.Database.UseAwsIam,
			MaxOpenConnections: conf.Database.MaxOpenConnections,
			MaxIdleConnections: conf.Database.MaxIdleConnections,
		})
	}
	if err != nil {
		return errors.Wrap(err, "failed to initialize data provider")
	}

	solanaClient := solana.New(string(settings.Environment))
	submitter := transaction.NewSubmitter(
		solanaClient,
		settings.IDL,
		transaction.WithBlockhashRetries(settings.BlockhashRetries),
		transaction.WithPriorityFee(settings.ComputeUnitLimit, settings.ComputeUnitPrice),
	)

	a.web = web.NewServer(campaign.NewService(dataProvider), submitter, settings, web.WithEnvConfigs())

	reconciler := async_reconciler.New(dataProvider, solanaClient, async_reconciler.WithEnvConfigs())
	go func() {
		err := reconciler.Start(ctx, conf.ReconcilerInterval)
		if err != nil && !errors.Is(err, context.Canceled) {
			a.log.WithError(err).Error("reconciler stopped")
			a.Stop()
		}
	}()

	a.log.WithFields(logrus.Fields{
		"network": string(settings.Environment),
		"program": base58.Encode(settings.Program),
	}).Info("solfund initialized")

	return nil
}

func (a *solfundApp) RegisterWithHTTP(mux *http.ServeMux) {
	for path, handler := range a.web.GetHandlers() {
		mux.HandleFunc(path, handler)
	}
}

func (a *solfundApp) ShutdownChan() <-chan struct{} {
	return a.shutdownCh
}

func (a *solfundApp) Stop() {
	a.stopOnce.Do(func() {
		if a.cancel != nil {
			a.cancel()
		}
		close(a.shutdownCh)
	})
}

func main() {
	a := &solfundApp{
		log:        logrus.StandardLogger().WithField("type", "solfund-server"),
		shutdownCh: make(chan struct{}),
	}

	if err := app.Run(a); err != nil {
		logrus.WithError(err).Fatal("error running service")
	}
}
