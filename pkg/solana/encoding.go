package solana

import (
	"bytes"
	"crypto/ed25519"
	"encoding/base64"
	"io"

	"github.com/pkg/errors"

	"github.com/solfund/solfund-server/pkg/solana/shortvec"
)

// ErrVersionedMessage is returned when decoding a message that uses the
// versioned (v0+) format.
var ErrVersionedMessage = errors.New("versioned messages not supported")

// wireWriter appends to an in memory buffer, where writes can't fail.
type wireWriter struct {
	bytes.Buffer
}

func (w *wireWriter) vec(n int) {
	_, _ = shortvec.EncodeLen(w, n)
}

func (w *wireWriter) prefixed(b []byte) {
	w.vec(len(b))
	_, _ = w.Write(b)
}

// wireReader decodes sequentially and keeps the first error, annotated with
// the field being read.
type wireReader struct {
	buf *bytes.Reader
	err error
}

func (r *wireReader) fail(err error, field string) {
	if r.err == nil && err != nil {
		r.err = errors.Wrapf(err, "failed to read %s", field)
	}
}

func (r *wireReader) readByte(field string) byte {
	if r.err != nil {
		return 0
	}
	b, err := r.buf.ReadByte()
	r.fail(err, field)
	return b
}

func (r *wireReader) vec(field string) int {
	if r.err != nil {
		return 0
	}
	n, err := shortvec.DecodeLen(r.buf)
	r.fail(err, field+" len")
	return n
}

func (r *wireReader) fill(dst []byte, field string) {
	if r.err != nil {
		return
	}
	_, err := io.ReadFull(r.buf, dst)
	r.fail(err, field)
}

func (r *wireReader) prefixed(field string) []byte {
	n := r.vec(field)
	if r.err != nil {
		return nil
	}
	b := make([]byte, n)
	r.fill(b, field)
	return b
}

func (t Transaction) Marshal() []byte {
	var w wireWriter
	w.vec(len(t.Signatures))
	for _, sig := range t.Signatures {
		_, _ = w.Write(sig[:])
	}
	_, _ = w.Write(t.Message.Marshal())
	return w.Bytes()
}

func (t *Transaction) Unmarshal(b []byte) error {
	r := &wireReader{buf: bytes.NewReader(b)}

	t.Signatures = make([]Signature, r.vec("signatures"))
	for i := range t.Signatures {
		r.fill(t.Signatures[i][:], "signature")
	}
	if r.err != nil {
		return r.err
	}

	return t.Message.Unmarshal(b[len(b)-r.buf.Len():])
}

// ToBase64 is the wire encoding used when handing transactions to wallets and
// RPC nodes.
func (t Transaction) ToBase64() string {
	return base64.StdEncoding.EncodeToString(t.Marshal())
}

// TransactionFromBase64 decodes a base64 wire encoded transaction.
func TransactionFromBase64(encoded string) (Transaction, error) {
	var txn Transaction

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return txn, errors.Wrap(err, "invalid base64 transaction")
	}
	if len(raw) > MaxTransactionSize {
		return txn, errors.Errorf("transaction exceeds max size: %d", len(raw))
	}

	err = txn.Unmarshal(raw)
	return txn, err
}

func (m Message) Marshal() []byte {
	var w wireWriter
	_, _ = w.Write([]byte{m.Header.NumSignatures, m.Header.NumReadonlySigned, m.Header.NumReadOnly})

	w.vec(len(m.Accounts))
	for _, account := range m.Accounts {
		_, _ = w.Write(account)
	}
	_, _ = w.Write(m.RecentBlockhash[:])

	w.vec(len(m.Instructions))
	for _, ix := range m.Instructions {
		_ = w.WriteByte(ix.ProgramIndex)
		w.prefixed(ix.Accounts)
		w.prefixed(ix.Data)
	}
	return w.Bytes()
}

// Unmarshal decodes a legacy message, rejecting instructions that reference
// accounts outside the account list.
func (m *Message) Unmarshal(b []byte) error {
	if len(b) == 0 {
		return errors.New("empty message")
	}
	if b[0]&0x80 != 0 {
		return ErrVersionedMessage
	}

	r := &wireReader{buf: bytes.NewReader(b)}
	m.Header = Header{
		NumSignatures:     r.readByte("num signatures"),
		NumReadonlySigned: r.readByte("num readonly signatures"),
		NumReadOnly:       r.readByte("num readonly"),
	}

	m.Accounts = make([]ed25519.PublicKey, r.vec("accounts"))
	for i := range m.Accounts {
		m.Accounts[i] = make(ed25519.PublicKey, ed25519.PublicKeySize)
		r.fill(m.Accounts[i], "account")
	}
	r.fill(m.RecentBlockhash[:], "recent blockhash")

	m.Instructions = make([]CompiledInstruction, r.vec("instructions"))
	for i := range m.Instructions {
		m.Instructions[i] = CompiledInstruction{
			ProgramIndex: r.readByte("program index"),
			Accounts:     r.prefixed("instruction accounts"),
			Data:         r.prefixed("instruction data"),
		}
	}
	if r.err != nil {
		return r.err
	}

	for i, ix := range m.Instructions {
		if int(ix.ProgramIndex) >= len(m.Accounts) {
			return errors.Errorf("instruction %d: program index out of range: %d", i, ix.ProgramIndex)
		}
		for _, index := range ix.Accounts {
			if int(index) >= len(m.Accounts) {
				return errors.Errorf("instruction %d: account index out of range: %d", i, index)
			}
		}
	}
	return nil
}
