package transaction

import (
	"context"
	"time"

	"github.com/mr-tron/base58"

	"github.com/solfund/solfund-server/pkg/metrics"
)

const (
	donationOutcomeEventName         = "DonationSubmission"
	donationDurationMetricName       = "Donation/submission_duration"
	donationConfirmedCountMetricName = "Donation/confirmed_count"
)

func recordDonationOutcome(ctx context.Context, payload *DonationPayload, err error, duration time.Duration) {
	outcome := "confirmed"
	if err != nil {
		outcome = KindOf(err).String()
	} else {
		metrics.RecordCount(ctx, donationConfirmedCountMetricName, 1)
	}

	metrics.RecordDuration(ctx, donationDurationMetricName, duration)
	metrics.RecordEvent(ctx, donationOutcomeEventName, map[string]interface{}{
		"outcome": outcome,
		"amount":  payload.Amount,
		"creator": base58.Encode(payload.Creator),
	})
}
