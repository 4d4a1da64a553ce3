package async_reconciler

import (
	"context"
	"time"

	"github.com/solfund/solfund-server/pkg/metrics"
)

const (
	reconciledDonationsEventName = "ReconciledDonationsPollingCheck"
)

func (p *service) metricsGaugeWorker(ctx context.Context) error {
	delay := time.Second

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			start := time.Now()

			p.recordReconciledDonationsEvent(ctx)

			delay = time.Second - time.Since(start)
		}
	}
}

func (p *service) recordReconciledDonationsEvent(ctx context.Context) {
	p.metricsMu.Lock()
	confirmed := p.confirmedDonations
	failed := p.failedDonations
	p.confirmedDonations = 0
	p.failedDonations = 0
	p.metricsMu.Unlock()

	metrics.RecordEvent(ctx, reconciledDonationsEventName, map[string]interface{}{
		"confirmed": confirmed,
		"failed":    failed,
	})
}
