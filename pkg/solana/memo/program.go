package memo

import (
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/solfund/solfund-server/pkg/solana"
)

// MaxLength bounds memos attached to donations. The program accepts more, but
// a donation transaction has to fit in a single packet alongside the donate
// instruction.
const MaxLength = 256

var (
	ErrMemoTooLong = errors.New("memo is too long")
	ErrInvalidMemo = errors.New("memo must be valid utf-8")
)

// ProgramKey is the address of the SPL memo program (v2).
//
// Current key: MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr
var ProgramKey = solana.MustParsePublicKey("MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr")

// Validate checks a memo can be attached to a donation
func Validate(data string) error {
	if len(data) > MaxLength {
		return errors.Wrapf(ErrMemoTooLong, "%d bytes exceeds %d", len(data), MaxLength)
	}
	if !utf8.ValidString(data) {
		return ErrInvalidMemo
	}
	return nil
}

// Instruction returns a memo instruction with no signer accounts.
//
// Reference: https://github.com/solana-labs/solana-program-library/blob/master/memo/program/src/entrypoint.rs
func Instruction(data string) solana.Instruction {
	return solana.NewInstruction(
		ProgramKey,
		[]byte(data),
	)
}

type DecompiledMemo struct {
	Data []byte
}

func DecompileMemo(m solana.Message, index int) (*DecompiledMemo, error) {
	ix, err := m.DecompileInstruction(index)
	if err != nil {
		return nil, err
	}
	if !ix.Program.Equal(ProgramKey) {
		return nil, solana.ErrIncorrectProgram
	}
	return &DecompiledMemo{Data: ix.Data}, nil
}

// IsMemo reports whether the instruction at index targets the memo program.
func IsMemo(m solana.Message, index int) bool {
	return m.InvokesProgram(index, ProgramKey)
}
