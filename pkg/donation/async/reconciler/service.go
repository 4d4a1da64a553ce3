package async_reconciler

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/solfund/solfund-server/pkg/donation/async"
	"github.com/solfund/solfund-server/pkg/donation/data"
	"github.com/solfund/solfund-server/pkg/solana"
	sync_util "github.com/solfund/solfund-server/pkg/sync"
)

type service struct {
	log           *logrus.Entry
	conf          *conf
	data          data.Provider
	solanaClient  solana.Client
	donationLocks *sync_util.StripedLock

	metricsMu          sync.Mutex
	confirmedDonations int
	failedDonations    int
}

// New returns a service that moves pending donations to their final state
// once the network reports an outcome for them
func New(data data.Provider, solanaClient solana.Client, configProvider ConfigProvider) async.Service {
	return &service{
		log:           logrus.StandardLogger().WithField("service", "reconciler"),
		conf:          configProvider(),
		data:          data,
		solanaClient:  solanaClient,
		donationLocks: sync_util.NewStripedLock(1024),
	}
}

func (p *service) Start(ctx context.Context, interval time.Duration) error {
	go func() {
		err := p.worker(ctx, interval)
		if err != nil && err != context.Canceled {
			p.log.WithError(err).Warn("donation reconciliation loop terminated unexpectedly")
		}
	}()

	go func() {
		err := p.metricsGaugeWorker(ctx)
		if err != nil && err != context.Canceled {
			p.log.WithError(err).Warn("donation metrics gauge loop terminated unexpectedly")
		}
	}()

	<-ctx.Done()
	return ctx.Err()
}
