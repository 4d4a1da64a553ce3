package solana

import (
	"crypto/ed25519"

	"github.com/jdgcs/ed25519/edwards25519"
	"github.com/mr-tron/base58/base58"
	"github.com/pkg/errors"
)

var (
	ErrInvalidPublicKey = errors.New("invalid public key")
)

// ParsePublicKey decodes a base58 encoded account address.
func ParsePublicKey(encoded string) (ed25519.PublicKey, error) {
	decoded, err := base58.Decode(encoded)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidPublicKey, err.Error())
	}
	if len(decoded) != ed25519.PublicKeySize {
		return nil, errors.Wrapf(ErrInvalidPublicKey, "invalid length: %d", len(decoded))
	}
	return decoded, nil
}

// MustParsePublicKey is ParsePublicKey for compile time constants.
func MustParsePublicKey(encoded string) ed25519.PublicKey {
	pub, err := ParsePublicKey(encoded)
	if err != nil {
		panic(err)
	}
	return pub
}

// IsOnCurve reports whether the key is a valid compressed ed25519 point, which
// is the case for wallet addresses and never the case for program derived
// addresses.
//
// The edwards25519.ExtendedGroupElement (the EdwardsPoint) is internal to the
// golang.org/x/crypto library, so we rely on a deprecated open source
// alternative that exposes it.
//
// Reference: https://github.com/solana-labs/solana/blob/5548e599fe4920b71766e0ad1d121755ce9c63d5/sdk/program/src/pubkey.rs#L182-L187
func IsOnCurve(pub ed25519.PublicKey) bool {
	if len(pub) != ed25519.PublicKeySize {
		return false
	}

	var raw [32]byte
	copy(raw[:], pub)

	var A edwards25519.ExtendedGroupElement
	return A.FromBytes(&raw)
}
