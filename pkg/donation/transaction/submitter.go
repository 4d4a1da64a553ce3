package transaction

import (
	"bytes"
	"context"
	"time"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/solfund/solfund-server/pkg/donation/wallet"
	"github.com/solfund/solfund-server/pkg/metrics"
	"github.com/solfund/solfund-server/pkg/solana"
	compute_budget "github.com/solfund/solfund-server/pkg/solana/computebudget"
	"github.com/solfund/solfund-server/pkg/solana/directdonation"
	"github.com/solfund/solfund-server/pkg/solana/memo"
)

const (
	metricsStructName = "transaction.submitter"
)

var (
	ErrSignerMismatch = errors.New("signer is not the donor")
)

// Submitter encodes, signs and broadcasts donation transactions.
//
// A Submitter holds no mutable state and is safe for concurrent use. Each call
// is an independent attempt with its own blockhash; callers are responsible
// for preventing duplicate donations.
type Submitter struct {
	log    *logrus.Entry
	client solana.Client
	idl    *directdonation.IDL

	commitment       solana.Commitment
	blockhashRetries uint
	computeUnitLimit uint32
	computeUnitPrice uint64
}

// Option configures a Submitter.
type Option func(s *Submitter)

// WithBlockhashRetries allows a donation to be rebuilt, re-signed and
// resubmitted up to n times when the node reports the blockhash as expired.
// Each retry asks the wallet to sign again.
func WithBlockhashRetries(n uint) Option {
	return func(s *Submitter) {
		s.blockhashRetries = n
	}
}

// WithPriorityFee appends compute budget instructions to every donation. A
// zero limit or price leaves the corresponding instruction out.
func WithPriorityFee(computeUnitLimit uint32, computeUnitPrice uint64) Option {
	return func(s *Submitter) {
		s.computeUnitLimit = computeUnitLimit
		s.computeUnitPrice = computeUnitPrice
	}
}

func NewSubmitter(client solana.Client, idl *directdonation.IDL, opts ...Option) *Submitter {
	s := &Submitter{
		log:        logrus.StandardLogger().WithField("type", "donation/transaction"),
		client:     client,
		idl:        idl,
		commitment: solana.CommitmentConfirmed,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// SendDonation builds the donation transaction with the donor as fee payer,
// has signer sign it, submits it with preflight enabled and waits until it's
// confirmed. The returned signature identifies the landed transaction.
//
// Every returned error is an *Error.
func (s *Submitter) SendDonation(ctx context.Context, payload *DonationPayload, signer wallet.Signer) (sig solana.Signature, err error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "SendDonation")
	defer tracer.End()

	start := time.Now()
	defer func() {
		tracer.OnError(err)
		recordDonationOutcome(ctx, payload, err, time.Since(start))
	}()

	log := s.log.WithFields(logrus.Fields{
		"method": "SendDonation",
	}).WithFields(payload.fields())

	for attempt := uint(0); ; attempt++ {
		sig, err = s.sendOnce(ctx, payload, signer)
		if err == nil {
			log.WithField("signature", sig.String()).Info("donation confirmed")
			return sig, nil
		}

		if attempt < s.blockhashRetries && solana.IsBlockhashNotFound(err) && ctx.Err() == nil {
			log.WithField("attempt", attempt+1).Info("blockhash expired, rebuilding donation")
			continue
		}

		log.WithError(err).Warn("donation failed")
		return sig, err
	}
}

func (s *Submitter) sendOnce(ctx context.Context, payload *DonationPayload, signer wallet.Signer) (solana.Signature, error) {
	if !bytes.Equal(signer.PublicKey(), payload.Donor) {
		return solana.Signature{}, newError(KindValidation, ErrSignerMismatch)
	}

	txn, err := s.PrepareDonation(ctx, payload)
	if err != nil {
		return solana.Signature{}, err
	}

	// Signing isn't cancellable once requested, so ctx is only checked before.
	if err := ctx.Err(); err != nil {
		return solana.Signature{}, newError(KindNetwork, err)
	}

	result, err := signer.SignTransaction(ctx, txn)
	if errors.Is(err, wallet.ErrUserRejected) {
		return solana.Signature{}, newError(KindUserRejected, err)
	} else if err != nil {
		return solana.Signature{}, newError(KindSigner, errors.Wrap(err, "wallet failed to sign"))
	}

	if err := wallet.Normalize(txn, payload.Donor, result); err != nil {
		return solana.Signature{}, newError(KindSigner, errors.Wrap(err, "invalid wallet signature"))
	}

	return s.SubmitSigned(ctx, txn)
}

// PrepareDonation encodes the donation and returns an unsigned transaction,
// paid for by the donor, with a freshly fetched blockhash.
func (s *Submitter) PrepareDonation(ctx context.Context, payload *DonationPayload) (*solana.Transaction, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "PrepareDonation")
	defer tracer.End()

	if payload.Amount == 0 {
		return nil, newError(KindValidation, errors.Wrap(directdonation.ErrInvalidAmount, "amount must be positive"))
	}
	if _, err := directdonation.TotalCost(payload.Amount); err != nil {
		return nil, newError(KindValidation, err)
	}

	ix, err := directdonation.NewDonateInstruction(
		payload.Program,
		s.idl,
		&directdonation.DonateInstructionAccounts{
			Donor:    payload.Donor,
			Creator:  payload.Creator,
			Platform: payload.Platform,
		},
		&directdonation.DonateInstructionArgs{
			Amount: payload.Amount,
		},
	)
	if errors.Is(err, directdonation.ErrDiscriminatorNotFound) {
		return nil, newError(KindConfig, err)
	} else if err != nil {
		return nil, newError(KindValidation, err)
	}

	instructions := []solana.Instruction{ix}
	if len(payload.Memo) > 0 {
		if err := memo.Validate(payload.Memo); err != nil {
			return nil, newError(KindValidation, err)
		}
		instructions = append(instructions, memo.Instruction(payload.Memo))
	}
	if s.computeUnitLimit > 0 {
		instructions = append(instructions, compute_budget.SetComputeUnitLimit(s.computeUnitLimit))
	}
	if s.computeUnitPrice > 0 {
		instructions = append(instructions, compute_budget.SetComputeUnitPrice(s.computeUnitPrice))
	}

	txn := solana.NewTransaction(payload.Donor, instructions...)

	if err := ctx.Err(); err != nil {
		return nil, newError(KindNetwork, err)
	}

	blockhash, err := s.client.GetLatestBlockhash(s.commitment)
	if err != nil {
		tracer.OnError(err)
		return nil, newError(KindNetwork, errors.Wrap(err, "failed to get recent blockhash"))
	}
	txn.SetBlockhash(blockhash)

	return &txn, nil
}

// SubmitSigned broadcasts a fully signed transaction with preflight enabled
// and blocks until it's confirmed or the confirmation window elapses.
func (s *Submitter) SubmitSigned(ctx context.Context, txn *solana.Transaction) (solana.Signature, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "SubmitSigned")
	defer tracer.End()

	log := s.log.WithField("method", "SubmitSigned")

	if err := txn.VerifySignatures(); err != nil {
		return solana.Signature{}, newError(KindSigner, err)
	}

	if err := ctx.Err(); err != nil {
		return solana.Signature{}, newError(KindNetwork, err)
	}

	sig, err := s.client.SubmitTransaction(*txn, solana.SubmitOptions{
		SkipPreflight:       false,
		PreflightCommitment: s.commitment,
	})
	if err != nil {
		tracer.OnError(err)

		var txErr *solana.TransactionError
		if errors.As(err, &txErr) {
			return sig, newError(KindProgram, err)
		}
		return sig, newError(KindNetwork, errors.Wrap(err, "failed to submit transaction"))
	}

	log = log.WithField("signature", base58.Encode(sig[:]))
	log.Debug("transaction submitted, awaiting confirmation")

	if err := ctx.Err(); err != nil {
		return sig, newError(KindNetwork, err)
	}

	status, err := s.client.GetSignatureStatus(sig, s.commitment)
	if err != nil {
		tracer.OnError(err)
		return sig, newError(KindNetwork, errors.Wrap(err, "failed to confirm transaction"))
	}
	if status.ErrorResult != nil {
		log.WithError(status.ErrorResult).Info("transaction failed on chain")
		return sig, newError(KindProgram, status.ErrorResult)
	}

	return sig, nil
}
