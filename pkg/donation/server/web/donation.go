package web

import (
	"bytes"
	"context"
	"time"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/solfund/solfund-server/pkg/donation/campaign"
	donation_config "github.com/solfund/solfund-server/pkg/donation/config"
	"github.com/solfund/solfund-server/pkg/donation/data/donation"
	"github.com/solfund/solfund-server/pkg/donation/transaction"
	"github.com/solfund/solfund-server/pkg/pointer"
	"github.com/solfund/solfund-server/pkg/solana"
	"github.com/solfund/solfund-server/pkg/solana/directdonation"
)

type preparedDonation struct {
	txn         *solana.Transaction
	platformFee uint64
	totalCost   uint64
}

func (s *Server) prepareDonation(ctx context.Context, req *prepareDonationRequest) (*preparedDonation, error) {
	details, err := s.campaigns.GetCampaign(ctx, req.campaignId)
	if err != nil {
		return nil, err
	}

	creator, err := solana.ParsePublicKey(details.Campaign.CreatorWallet)
	if err != nil {
		return nil, err
	}

	totalCost, err := directdonation.TotalCost(req.amount)
	if err != nil {
		return nil, err
	}

	txn, err := s.submitter.PrepareDonation(ctx, &transaction.DonationPayload{
		Amount:   req.amount,
		Donor:    req.donor,
		Creator:  creator,
		Platform: s.settings.Platform,
		Program:  s.settings.Program,
		Memo:     req.memo,
	})
	if err != nil {
		return nil, err
	}

	return &preparedDonation{
		txn:         txn,
		platformFee: directdonation.PlatformFee(req.amount),
		totalCost:   totalCost,
	}, nil
}

type submittedDonation struct {
	record        *donation.Record
	campaignTitle string
}

// submitDonation validates a donor signed transaction against the campaign,
// records it as pending and then submits it. Donations that fail to confirm
// because of the network stay pending, so the reconciler can resolve them.
func (s *Server) submitDonation(ctx context.Context, req *submitDonationRequest) (*submittedDonation, error) {
	decompiled, err := findDonateInstruction(req.txn, s.settings)
	if err != nil {
		return nil, err
	}

	if decompiled.Args.Amount == 0 {
		return nil, invalidRequest("amount must be positive")
	}
	if !bytes.Equal(req.txn.FeePayer(), decompiled.Accounts.Donor) {
		return nil, invalidRequest("fee payer must be the donor")
	}
	if !bytes.Equal(decompiled.Accounts.Platform, s.settings.Platform) {
		return nil, invalidRequest("unexpected platform wallet")
	}

	details, err := s.campaigns.GetCampaign(ctx, req.campaignId)
	if err != nil {
		return nil, err
	}

	creator := base58.Encode(decompiled.Accounts.Creator)
	if creator != details.Campaign.CreatorWallet {
		return nil, campaign.ErrCreatorMismatch
	}

	if err := req.txn.VerifySignatures(); err != nil {
		return nil, invalidRequest("transaction signatures are invalid: %s", err.Error())
	}

	donor := base58.Encode(decompiled.Accounts.Donor)
	allowed, err := s.submitLimiter.Allow(donor)
	if err != nil {
		return nil, err
	} else if !allowed {
		return nil, errRateLimited
	}

	unlock := s.donorLocks.Lock(decompiled.Accounts.Donor)
	defer unlock()

	signature := req.txn.Signature().String()
	log := s.log.WithFields(logrus.Fields{
		"method":    "submitDonation",
		"donor":     donor,
		"signature": signature,
	})

	isKnown, err := s.campaigns.IsKnownDonation(ctx, signature)
	if err != nil {
		return nil, err
	} else if isKnown {
		return nil, campaign.ErrDonationExists
	}

	record := &donation.Record{
		CampaignId:     req.campaignId,
		DonorWallet:    donor,
		CreatorWallet:  creator,
		AmountLamports: decompiled.Args.Amount,
		Signature:      signature,
	}
	if err := s.campaigns.RecordDonation(ctx, record); err != nil {
		return nil, err
	}

	// The outcome is persisted even if the caller goes away mid submission
	resultCtx := context.WithoutCancel(ctx)

	_, err = s.submitter.SubmitSigned(ctx, &req.txn)
	if err != nil {
		switch transaction.KindOf(err) {
		case transaction.KindProgram, transaction.KindSigner:
			if updateErr := s.campaigns.UpdateDonationState(resultCtx, signature, donation.StateFailed); updateErr != nil && !errors.Is(updateErr, donation.ErrInvalidStateTransition) {
				log.WithError(updateErr).Warn("failure marking donation as failed")
			}
		default:
			log.WithError(err).Info("donation outcome unknown, leaving it pending")
		}
		return nil, err
	}

	err = s.campaigns.UpdateDonationState(resultCtx, signature, donation.StateConfirmed)
	if err != nil && !errors.Is(err, donation.ErrInvalidStateTransition) {
		log.WithError(err).Warn("failure marking donation as confirmed")
	}

	record.State = donation.StateConfirmed
	record.ConfirmedAt = pointer.Time(time.Now())

	log.Info("donation submitted")

	return &submittedDonation{
		record:        record,
		campaignTitle: details.Campaign.Title,
	}, nil
}

// findDonateInstruction locates the single donate instruction in a transaction.
// Other instructions, such as memos, are allowed alongside it.
func findDonateInstruction(txn solana.Transaction, settings *donation_config.Settings) (*directdonation.DecompiledDonate, error) {
	var found *directdonation.DecompiledDonate
	for i := range txn.Message.Instructions {
		decompiled, err := directdonation.DecompileDonate(txn.Message, i, settings.Program, settings.IDL)
		if errors.Is(err, directdonation.ErrDiscriminatorNotFound) {
			return nil, err
		} else if err != nil {
			continue
		}

		if found != nil {
			return nil, invalidRequest("transaction contains more than one donation")
		}
		found = decompiled
	}

	if found == nil {
		return nil, invalidRequest("transaction doesn't contain a donation")
	}
	return found, nil
}
