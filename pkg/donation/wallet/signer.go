package wallet

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"errors"

	"github.com/mr-tron/base58"
	pkgerrors "github.com/pkg/errors"

	"github.com/solfund/solfund-server/pkg/solana"
)

var (
	// ErrUserRejected is returned by a Signer when the wallet owner declined
	// the signing request.
	ErrUserRejected = errors.New("user rejected the signing request")

	ErrUnsupportedSignResult = errors.New("unsupported sign result")
	ErrMessageMismatch       = errors.New("signed transaction message doesn't match the request")
)

// Signer is a wallet capable of signing transactions for a single account.
//
// SignTransaction may block indefinitely while the wallet owner decides.
type Signer interface {
	PublicKey() ed25519.PublicKey
	SignTransaction(ctx context.Context, txn *solana.Transaction) (SignResult, error)
}

// SignResult is what a wallet hands back after signing. Wallets differ in what
// they return, so exactly one of the fields is expected to be set.
type SignResult struct {
	// Transaction is the fully signed transaction.
	Transaction *solana.Transaction

	// Signature is the raw 64 byte signature over the message.
	Signature []byte

	// EncodedSignature is a base64 or base58 encoded signature.
	EncodedSignature string
}

// Normalize applies a SignResult to txn, such that txn carries a valid
// signature from pub.
func Normalize(txn *solana.Transaction, pub ed25519.PublicKey, result SignResult) error {
	switch {
	case result.Transaction != nil:
		if !bytes.Equal(result.Transaction.Message.Marshal(), txn.Message.Marshal()) {
			return ErrMessageMismatch
		}

		index := signerIndex(result.Transaction, pub)
		if index < 0 {
			return pkgerrors.Wrap(ErrUnsupportedSignResult, "signed transaction doesn't contain the signer")
		}

		sig := result.Transaction.Signatures[index]
		return txn.AddSignature(pub, sig[:])
	case len(result.Signature) > 0:
		return txn.AddSignature(pub, result.Signature)
	case len(result.EncodedSignature) > 0:
		sig, err := decodeSignature(result.EncodedSignature)
		if err != nil {
			return err
		}
		return txn.AddSignature(pub, sig)
	default:
		return pkgerrors.Wrap(ErrUnsupportedSignResult, "empty sign result")
	}
}

func decodeSignature(encoded string) ([]byte, error) {
	if decoded, err := base64.StdEncoding.DecodeString(encoded); err == nil && len(decoded) == ed25519.SignatureSize {
		return decoded, nil
	}

	if decoded, err := base58.Decode(encoded); err == nil && len(decoded) == ed25519.SignatureSize {
		return decoded, nil
	}

	return nil, pkgerrors.Wrap(ErrUnsupportedSignResult, "signature is neither base64 nor base58 encoded")
}

func signerIndex(txn *solana.Transaction, pub ed25519.PublicKey) int {
	for i := 0; i < len(txn.Signatures) && i < len(txn.Message.Accounts); i++ {
		if bytes.Equal(txn.Message.Accounts[i], pub) {
			return i
		}
	}
	return -1
}
