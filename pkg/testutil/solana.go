package testutil

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/binary"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/solfund/solfund-server/pkg/solana"
)

func GenerateSolanaKeypair(t *testing.T) ed25519.PrivateKey {
	_, p, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	return p
}

func GenerateSolanaKeys(t *testing.T, n int) []ed25519.PublicKey {
	keys := make([]ed25519.PublicKey, n)
	for i := 0; i < n; i++ {
		p, _, err := ed25519.GenerateKey(nil)
		require.NoError(t, err)
		keys[i] = p
	}
	return keys
}

// FakeSolanaClient is an in memory solana.Client. Every blockhash it hands out
// is unique, submitted transactions land immediately and are reported as
// confirmed unless configured otherwise.
type FakeSolanaClient struct {
	sync.Mutex

	BlockhashErr error

	// SubmitErrs are returned by successive SubmitTransaction calls. Once
	// exhausted, submissions succeed.
	SubmitErrs []error

	// StatusErr is returned by GetSignatureStatus.
	StatusErr error

	// Statuses overrides the status reported for a signature.
	Statuses map[solana.Signature]*solana.SignatureStatus

	BlockhashCalls int
	Submitted      []solana.Transaction
	SubmitOptions  []solana.SubmitOptions
	Balances       map[string]uint64
}

func NewFakeSolanaClient() *FakeSolanaClient {
	return &FakeSolanaClient{
		Statuses: make(map[solana.Signature]*solana.SignatureStatus),
		Balances: make(map[string]uint64),
	}
}

func (c *FakeSolanaClient) GetBalance(account ed25519.PublicKey, _ solana.Commitment) (uint64, error) {
	c.Lock()
	defer c.Unlock()

	balance, ok := c.Balances[string(account)]
	if !ok {
		return 0, solana.ErrNoBalance
	}
	return balance, nil
}

func (c *FakeSolanaClient) GetLatestBlockhash(_ solana.Commitment) (solana.Blockhash, error) {
	c.Lock()
	defer c.Unlock()

	if c.BlockhashErr != nil {
		return solana.Blockhash{}, c.BlockhashErr
	}

	c.BlockhashCalls++

	var counter [8]byte
	binary.LittleEndian.PutUint64(counter[:], uint64(c.BlockhashCalls))
	return solana.Blockhash(sha256.Sum256(counter[:])), nil
}

func (c *FakeSolanaClient) GetSignatureStatus(sig solana.Signature, _ solana.Commitment) (*solana.SignatureStatus, error) {
	c.Lock()
	defer c.Unlock()

	if c.StatusErr != nil {
		return nil, c.StatusErr
	}

	return c.statusLocked(sig), nil
}

func (c *FakeSolanaClient) GetSignatureStatuses(sigs []solana.Signature) ([]*solana.SignatureStatus, error) {
	c.Lock()
	defer c.Unlock()

	if c.StatusErr != nil {
		return nil, c.StatusErr
	}

	statuses := make([]*solana.SignatureStatus, len(sigs))
	for i, sig := range sigs {
		statuses[i] = c.statusLocked(sig)
	}
	return statuses, nil
}

func (c *FakeSolanaClient) statusLocked(sig solana.Signature) *solana.SignatureStatus {
	if status, ok := c.Statuses[sig]; ok {
		return status
	}

	for _, txn := range c.Submitted {
		if txn.Signature() == sig {
			return &solana.SignatureStatus{
				Slot:               1,
				Confirmations:      nil,
				ConfirmationStatus: "finalized",
			}
		}
	}

	return nil
}

func (c *FakeSolanaClient) RequestAirdrop(account ed25519.PublicKey, lamports uint64, _ solana.Commitment) (solana.Signature, error) {
	c.Lock()
	defer c.Unlock()

	c.Balances[string(account)] += lamports

	var sig solana.Signature
	copy(sig[:], account)
	return sig, nil
}

func (c *FakeSolanaClient) SubmitTransaction(txn solana.Transaction, opts solana.SubmitOptions) (solana.Signature, error) {
	c.Lock()
	defer c.Unlock()

	sig := txn.Signature()
	if sig == (solana.Signature{}) {
		return sig, solana.ErrMissingSignature
	}

	c.SubmitOptions = append(c.SubmitOptions, opts)

	if len(c.SubmitErrs) > 0 {
		err := c.SubmitErrs[0]
		c.SubmitErrs = c.SubmitErrs[1:]
		if err != nil {
			return sig, err
		}
	}

	c.Submitted = append(c.Submitted, txn)
	return sig, nil
}

// SubmittedCount returns the number of transactions that landed.
func (c *FakeSolanaClient) SubmittedCount() int {
	c.Lock()
	defer c.Unlock()

	return len(c.Submitted)
}

// SetStatus overrides the status reported for sig.
func (c *FakeSolanaClient) SetStatus(sig solana.Signature, status *solana.SignatureStatus) {
	c.Lock()
	defer c.Unlock()

	c.Statuses[sig] = status
}
