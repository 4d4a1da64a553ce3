package solana

import (
	"crypto/ed25519"
	"encoding/json"
	"time"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/ybbus/jsonrpc"

	"github.com/solfund/solfund-server/pkg/retry"
	"github.com/solfund/solfund-server/pkg/retry/backoff"
)

const (
	// Slots are produced roughly every 400ms
	slotDuration = 400 * time.Millisecond

	// PollRate is the rate at which signature statuses are polled, about
	// twice per slot.
	PollRate = slotDuration / 2

	// Polling gives up after roughly 32 slots
	sigStatusPollLimit = 2 * 32
)

var (
	ErrSignatureNotFound = errors.New("signature not found")
	ErrNoBalance         = errors.New("no balance")

	// ErrConfirmationTimeout is returned when a signature doesn't reach the
	// requested commitment within the polling window.
	ErrConfirmationTimeout = errors.New("timed out waiting for confirmation")
)

// SubmitOptions controls how a transaction is handed to the RPC node.
type SubmitOptions struct {
	// SkipPreflight disables the node's simulation of the transaction before
	// it is forwarded to the leader.
	SkipPreflight bool

	// PreflightCommitment is the bank state the simulation runs against.
	// Defaults to confirmed.
	PreflightCommitment Commitment

	// MaxRetries is the number of times the node retries forwarding the
	// transaction. Zero leaves the node's default in place.
	MaxRetries uint
}

// Client is the subset of the Solana JSON RPC API used to fund, build, submit
// and confirm donations.
//
// Reference: https://docs.solana.com/api/http
type Client interface {
	GetBalance(ed25519.PublicKey, Commitment) (uint64, error)
	GetLatestBlockhash(Commitment) (Blockhash, error)
	GetSignatureStatus(Signature, Commitment) (*SignatureStatus, error)
	GetSignatureStatuses([]Signature) ([]*SignatureStatus, error)
	RequestAirdrop(ed25519.PublicKey, uint64, Commitment) (Signature, error)
	SubmitTransaction(Transaction, SubmitOptions) (Signature, error)
}

type client struct {
	log *logrus.Entry
	rpc *rpc
}

// New returns a client for the RPC node at endpoint.
func New(endpoint string) Client {
	return NewWithRPCOptions(endpoint, nil)
}

// NewWithRPCOptions is New with custom transport options, such as headers
// carrying an RPC provider API key.
func NewWithRPCOptions(endpoint string, opts *jsonrpc.RPCClientOpts) Client {
	return &client{
		log: logrus.StandardLogger().WithField("type", "solana/client"),
		rpc: newRPC(endpoint, opts),
	}
}

func (c *client) GetBalance(account ed25519.PublicKey, commitment Commitment) (uint64, error) {
	var resp struct {
		Value uint64 `json:"value"`
	}
	err := c.rpc.call(&resp, "getBalance", base58.Encode(account), commitment)
	if code, ok := rpcErrorCode(err); ok && code == rpcInvalidParamCode {
		return 0, ErrNoBalance
	} else if err != nil {
		return 0, errors.Wrap(err, "getBalance() failed to send request")
	}
	return resp.Value, nil
}

// GetLatestBlockhash always queries the node. Transactions built from a
// shared, cached blockhash would produce identical signatures for identical
// instructions.
func (c *client) GetLatestBlockhash(commitment Commitment) (Blockhash, error) {
	var resp struct {
		Value struct {
			Blockhash            string `json:"blockhash"`
			LastValidBlockHeight uint64 `json:"lastValidBlockHeight"`
		} `json:"value"`
	}

	// The config object has to be wrapped in a params array, otherwise the
	// node rejects the request
	if err := c.rpc.call(&resp, "getLatestBlockhash", []interface{}{commitment}); err != nil {
		return Blockhash{}, errors.Wrap(err, "getLatestBlockhash() failed to send request")
	}
	return ParseBlockhash(resp.Value.Blockhash)
}

func (c *client) RequestAirdrop(account ed25519.PublicKey, lamports uint64, commitment Commitment) (Signature, error) {
	var encoded string
	if err := c.rpc.call(&encoded, "requestAirdrop", base58.Encode(account), lamports, commitment); err != nil {
		return Signature{}, errors.Wrap(err, "requestAirdrop() failed to send request")
	}

	sig, err := ParseSignature(encoded)
	if err != nil {
		return Signature{}, err
	} else if sig == (Signature{}) {
		return Signature{}, errors.New("empty signature returned")
	}
	return sig, nil
}

// SubmitTransaction sends a signed transaction. When preflight is enabled, a
// failed simulation is returned as a *TransactionError.
func (c *client) SubmitTransaction(txn Transaction, opts SubmitOptions) (Signature, error) {
	sig := txn.Signature()
	if sig == (Signature{}) {
		return sig, ErrMissingSignature
	}

	config := struct {
		Encoding            string `json:"encoding"`
		SkipPreflight       bool   `json:"skipPreflight"`
		PreflightCommitment string `json:"preflightCommitment"`
		MaxRetries          *uint  `json:"maxRetries,omitempty"`
	}{
		Encoding:            "base64",
		SkipPreflight:       opts.SkipPreflight,
		PreflightCommitment: CommitmentConfirmed.Commitment,
	}
	if opts.PreflightCommitment != (Commitment{}) {
		config.PreflightCommitment = opts.PreflightCommitment.Commitment
	}
	if opts.MaxRetries > 0 {
		config.MaxRetries = &opts.MaxRetries
	}

	var returned string
	err := c.rpc.call(&returned, "sendTransaction", txn.ToBase64(), config)

	var rpcErr *jsonrpc.RPCError
	switch {
	case err == nil:
	case errors.As(err, &rpcErr):
		txErr, parseErr := ParseRPCError(rpcErr)
		if parseErr != nil || txErr == nil {
			return sig, errors.Wrap(err, "sendTransaction() failed")
		}

		c.log.WithFields(logrus.Fields{
			"method":    "SubmitTransaction",
			"signature": sig.String(),
			"logs":      txErr.Logs,
		}).WithError(txErr).Debug("transaction failed preflight")
		return sig, txErr
	default:
		return sig, errors.Wrap(err, "sendTransaction() failed to send request")
	}

	if returned != sig.String() {
		return sig, errors.Errorf("node returned unexpected signature: %s", returned)
	}
	return sig, nil
}

// GetSignatureStatus polls until the signature reaches the commitment level,
// or the transaction is found to have failed. A status carrying an ErrorResult
// is returned without error; callers decide how to treat on-chain failures.
func (c *client) GetSignatureStatus(sig Signature, commitment Commitment) (*SignatureStatus, error) {
	errNotReached := errors.New("commitment not reached")

	var status *SignatureStatus
	_, err := retry.Retry(
		func() error {
			statuses, err := c.GetSignatureStatuses([]Signature{sig})
			if err != nil {
				return err
			}

			status = statuses[0]
			switch {
			case status == nil:
				return ErrSignatureNotFound
			case status.ErrorResult != nil, status.Reached(commitment):
				return nil
			default:
				return errNotReached
			}
		},
		retry.RetriableErrors(ErrSignatureNotFound, errNotReached),
		retry.Limit(sigStatusPollLimit),
		retry.Backoff(backoff.Constant(PollRate), PollRate),
	)
	if errors.Is(err, ErrSignatureNotFound) || errors.Is(err, errNotReached) {
		return status, errors.Wrap(ErrConfirmationTimeout, err.Error())
	}
	return status, err
}

// GetSignatureStatuses looks up many signatures in one request, searching the
// full transaction history. Unknown signatures have a nil status.
func (c *client) GetSignatureStatuses(sigs []Signature) ([]*SignatureStatus, error) {
	encoded := make([]string, len(sigs))
	for i, sig := range sigs {
		encoded[i] = sig.String()
	}

	var resp struct {
		Value []*struct {
			Slot               uint64          `json:"slot"`
			Confirmations      *int            `json:"confirmations"`
			ConfirmationStatus string          `json:"confirmationStatus"`
			Err                json.RawMessage `json:"err"`
		} `json:"value"`
	}
	config := map[string]bool{"searchTransactionHistory": true}
	if err := c.rpc.call(&resp, "getSignatureStatuses", encoded, config); err != nil {
		return nil, errors.Wrap(err, "getSignatureStatuses() failed to send request")
	}

	statuses := make([]*SignatureStatus, len(sigs))
	for i, v := range resp.Value {
		if v == nil || i >= len(statuses) {
			continue
		}

		status := &SignatureStatus{
			Slot:               v.Slot,
			Confirmations:      v.Confirmations,
			ConfirmationStatus: v.ConfirmationStatus,
		}
		if len(v.Err) > 0 {
			var raw interface{}
			if err := json.Unmarshal(v.Err, &raw); err != nil {
				return nil, errors.Wrap(err, "failed to parse transaction result")
			}

			txErr, err := ParseTransactionError(raw)
			if err != nil {
				return nil, errors.Wrap(err, "failed to parse transaction result")
			}
			status.ErrorResult = txErr
		}
		statuses[i] = status
	}
	return statuses, nil
}
