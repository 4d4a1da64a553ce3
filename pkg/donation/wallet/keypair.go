package wallet

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"os"
	"strings"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/solfund/solfund-server/pkg/solana"
)

// KeypairSigner signs with a locally held private key. It never rejects.
type KeypairSigner struct {
	key ed25519.PrivateKey
}

func NewKeypairSigner(key ed25519.PrivateKey) *KeypairSigner {
	return &KeypairSigner{key: key}
}

// LoadKeypairFile reads a solana-keygen JSON keypair file, which is a JSON
// array of the 64 private key bytes.
func LoadKeypairFile(path string) (*KeypairSigner, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read keypair file %s", path)
	}

	var values []int
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, errors.Wrap(err, "keypair file must contain a json byte array")
	}
	if len(values) != ed25519.PrivateKeySize {
		return nil, errors.Errorf("invalid keypair length: %d", len(values))
	}

	key := make([]byte, ed25519.PrivateKeySize)
	for i, v := range values {
		if v < 0 || v > 255 {
			return nil, errors.Errorf("keypair value out of range at %d", i)
		}
		key[i] = byte(v)
	}

	return newValidatedKeypairSigner(key)
}

// ParseKeypair parses a base58 encoded 64 byte private key.
func ParseKeypair(encoded string) (*KeypairSigner, error) {
	key, err := base58.Decode(strings.TrimSpace(encoded))
	if err != nil {
		return nil, errors.Wrap(err, "invalid base58 keypair")
	}
	if len(key) != ed25519.PrivateKeySize {
		return nil, errors.Errorf("invalid keypair length: %d", len(key))
	}

	return newValidatedKeypairSigner(key)
}

func newValidatedKeypairSigner(key ed25519.PrivateKey) (*KeypairSigner, error) {
	derived := ed25519.NewKeyFromSeed(key.Seed())
	if !derived.Equal(key) {
		return nil, errors.New("keypair public key doesn't match its seed")
	}
	return NewKeypairSigner(key), nil
}

func (s *KeypairSigner) PublicKey() ed25519.PublicKey {
	return s.key.Public().(ed25519.PublicKey)
}

func (s *KeypairSigner) SignTransaction(_ context.Context, txn *solana.Transaction) (SignResult, error) {
	return SignResult{
		Signature: ed25519.Sign(s.key, txn.Message.Marshal()),
	}, nil
}

// RejectingSigner models a wallet whose owner declines every request.
type RejectingSigner struct {
	Owner ed25519.PublicKey
}

func (s *RejectingSigner) PublicKey() ed25519.PublicKey {
	return s.Owner
}

func (s *RejectingSigner) SignTransaction(_ context.Context, _ *solana.Transaction) (SignResult, error) {
	return SignResult{}, ErrUserRejected
}
