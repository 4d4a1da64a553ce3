package async_reconciler

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/solfund/solfund-server/pkg/donation/data/donation"
	"github.com/solfund/solfund-server/pkg/metrics"
	"github.com/solfund/solfund-server/pkg/retry"
	"github.com/solfund/solfund-server/pkg/solana"
)

func (p *service) worker(serviceCtx context.Context, interval time.Duration) error {
	delay := interval

	err := retry.Loop(
		func() (err error) {
			time.Sleep(delay)

			tracedCtx, end := metrics.StartTransaction(serviceCtx, "async__reconciler_service__handle_"+donation.StatePending.String())
			defer func() { end(err) }()

			return p.reconcileBatch(tracedCtx)
		},
		retry.NonRetriableErrors(context.Canceled),
	)

	return err
}

// reconcileBatch checks the network status of the oldest pending donations
// with a single RPC call
func (p *service) reconcileBatch(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	records, err := p.data.GetAllDonationsByState(ctx, donation.StatePending, p.conf.batchSize.Get(ctx))
	if err == donation.ErrNotFound {
		return nil
	} else if err != nil {
		return err
	}

	var valid []*donation.Record
	var sigs []solana.Signature
	for _, record := range records {
		sig, err := solana.ParseSignature(record.Signature)
		if err != nil {
			// Can never land, so there's no point in asking the network
			p.log.WithError(err).WithField("signature", record.Signature).Warn("pending donation has a malformed signature")
			if err := p.updateState(ctx, record, donation.StateFailed); err != nil {
				return err
			}
			continue
		}

		valid = append(valid, record)
		sigs = append(sigs, sig)
	}

	if len(sigs) == 0 {
		return nil
	}

	statuses, err := p.solanaClient.GetSignatureStatuses(sigs)
	if err != nil {
		return errors.Wrap(err, "error getting signature statuses")
	}
	if len(statuses) != len(sigs) {
		return errors.Errorf("expected %d signature statuses, got %d", len(sigs), len(statuses))
	}

	var errs []error
	for i, record := range valid {
		if err := p.handlePending(ctx, record, statuses[i]); err != nil {
			errs = append(errs, err)
		}
	}
	return joinErrors(errs)
}

func (p *service) handlePending(ctx context.Context, record *donation.Record, status *solana.SignatureStatus) error {
	log := p.log.WithFields(logrus.Fields{
		"method":    "handlePending",
		"signature": record.Signature,
		"campaign":  record.CampaignId,
	})

	if record.State != donation.StatePending {
		return errors.New("record is not in pending state")
	}

	switch {
	case status == nil:
		if time.Since(record.CreatedAt) < p.conf.pendingTimeout.Get(ctx) {
			return nil
		}
		log.Info("donation never landed, marking as failed")
		return p.updateState(ctx, record, donation.StateFailed)
	case status.ErrorResult != nil:
		log.WithError(status.ErrorResult).Info("donation failed on chain")
		return p.updateState(ctx, record, donation.StateFailed)
	case status.Reached(solana.CommitmentConfirmed):
		return p.updateState(ctx, record, donation.StateConfirmed)
	}

	return nil
}

func (p *service) updateState(ctx context.Context, record *donation.Record, state donation.State) error {
	mu := p.donationLocks.Get([]byte(record.Signature))
	mu.Lock()
	defer mu.Unlock()

	err := p.data.UpdateDonationState(ctx, record.Signature, state, time.Now())
	if err == donation.ErrInvalidStateTransition {
		// Resolved concurrently, likely by the submitting request
		return nil
	} else if err != nil {
		return err
	}

	p.metricsMu.Lock()
	switch state {
	case donation.StateConfirmed:
		p.confirmedDonations++
	case donation.StateFailed:
		p.failedDonations++
	}
	p.metricsMu.Unlock()

	return nil
}

func joinErrors(errs []error) error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	}
	return errors.Errorf("%d donations failed reconciliation, first: %v", len(errs), errs[0])
}
