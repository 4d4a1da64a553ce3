package solana

import (
	"crypto/ed25519"
	"crypto/sha256"

	"github.com/mr-tron/base58/base58"
	"github.com/pkg/errors"
)

// MaxTransactionSize is the largest serialized transaction a validator
// accepts, which is the IPv6 MTU minus headers.
const MaxTransactionSize = 1232

var (
	ErrMissingSignature = errors.New("transaction is missing a signature")
	ErrInvalidSignature = errors.New("transaction signature is invalid")
)

type Signature [ed25519.SignatureSize]byte

func (s Signature) String() string {
	return base58.Encode(s[:])
}

// ParseSignature decodes a base58 encoded transaction signature
func ParseSignature(encoded string) (Signature, error) {
	var sig Signature
	if err := decodeFixed(encoded, sig[:]); err != nil {
		return sig, errors.Wrap(err, "invalid signature")
	}
	return sig, nil
}

type Blockhash [sha256.Size]byte

func (b Blockhash) String() string {
	return base58.Encode(b[:])
}

// ParseBlockhash decodes a base58 encoded blockhash, as returned by RPC nodes
func ParseBlockhash(encoded string) (Blockhash, error) {
	var bh Blockhash
	if err := decodeFixed(encoded, bh[:]); err != nil {
		return bh, errors.Wrap(err, "invalid blockhash")
	}
	return bh, nil
}

func decodeFixed(encoded string, dst []byte) error {
	decoded, err := base58.Decode(encoded)
	if err != nil {
		return err
	}
	if len(decoded) != len(dst) {
		return errors.Errorf("expected %d bytes, got %d", len(dst), len(decoded))
	}
	copy(dst, decoded)
	return nil
}

// Header counts the signing and readonly accounts at the front and back of
// the message account list.
type Header struct {
	NumSignatures     byte
	NumReadonlySigned byte
	NumReadOnly       byte
}

// Message is a legacy (unversioned) transaction message.
type Message struct {
	Header          Header
	Accounts        []ed25519.PublicKey
	RecentBlockhash Blockhash
	Instructions    []CompiledInstruction
}

// IsSigner reports whether the account at index must sign the message.
func (m Message) IsSigner(index int) bool {
	return index >= 0 && index < int(m.Header.NumSignatures)
}

// IsWritable reports whether the account at index is writable in the message.
func (m Message) IsWritable(index int) bool {
	switch {
	case index < 0 || index >= len(m.Accounts):
		return false
	case m.IsSigner(index):
		return index < int(m.Header.NumSignatures)-int(m.Header.NumReadonlySigned)
	default:
		return index < len(m.Accounts)-int(m.Header.NumReadOnly)
	}
}

type Transaction struct {
	Signatures []Signature
	Message    Message
}

// NewTransaction compiles the instructions into a legacy transaction paid for
// by payer. The result has no blockhash and empty signature slots.
func NewTransaction(payer ed25519.PublicKey, instructions ...Instruction) Transaction {
	m := compileMessage(payer, instructions)
	return Transaction{
		Signatures: make([]Signature, m.Header.NumSignatures),
		Message:    m,
	}
}

// Signature returns the fee payer signature, which identifies the transaction.
func (t *Transaction) Signature() Signature {
	if len(t.Signatures) == 0 {
		return Signature{}
	}
	return t.Signatures[0]
}

// FeePayer returns the account paying for the transaction.
func (t *Transaction) FeePayer() ed25519.PublicKey {
	if len(t.Message.Accounts) == 0 {
		return nil
	}
	return t.Message.Accounts[0]
}

func (t *Transaction) SetBlockhash(bh Blockhash) {
	t.Message.RecentBlockhash = bh
}

// Sign fills the signature slot of every provided signer.
func (t *Transaction) Sign(signers ...ed25519.PrivateKey) error {
	message := t.Message.Marshal()
	for _, signer := range signers {
		pub := signer.Public().(ed25519.PublicKey)
		slot, err := t.signerSlot(pub)
		if err != nil {
			return err
		}
		copy(t.Signatures[slot][:], ed25519.Sign(signer, message))
	}
	return nil
}

// AddSignature places a signature produced elsewhere, such as by a wallet, in
// the slot belonging to pub. The signature must verify against the message.
func (t *Transaction) AddSignature(pub ed25519.PublicKey, sig []byte) error {
	if len(sig) != ed25519.SignatureSize {
		return errors.Errorf("invalid signature length: %d", len(sig))
	}

	slot, err := t.signerSlot(pub)
	if err != nil {
		return err
	}
	if !ed25519.Verify(pub, t.Message.Marshal(), sig) {
		return ErrInvalidSignature
	}

	copy(t.Signatures[slot][:], sig)
	return nil
}

// VerifySignatures ensures every required signer has provided a valid signature.
func (t *Transaction) VerifySignatures() error {
	if len(t.Signatures) != int(t.Message.Header.NumSignatures) {
		return errors.Errorf("expected %d signatures, got %d", t.Message.Header.NumSignatures, len(t.Signatures))
	}
	if len(t.Message.Accounts) < len(t.Signatures) {
		return errors.New("not enough accounts for signatures")
	}

	message := t.Message.Marshal()
	for i, sig := range t.Signatures {
		signer := t.Message.Accounts[i]
		switch {
		case sig == Signature{}:
			return errors.Wrapf(ErrMissingSignature, "signer %s", base58.Encode(signer))
		case !ed25519.Verify(signer, message, sig[:]):
			return errors.Wrapf(ErrInvalidSignature, "signer %s", base58.Encode(signer))
		}
	}
	return nil
}

func (t *Transaction) signerSlot(pub ed25519.PublicKey) (int, error) {
	slot := t.Message.indexOf(pub)
	if slot < 0 || slot >= len(t.Signatures) {
		return 0, errors.Errorf("account %s is not a signer", base58.Encode(pub))
	}
	return slot, nil
}
