package solana

import (
	"crypto/ed25519"
	"errors"
	"fmt"
)

var ErrIncorrectProgram = errors.New("incorrect program")

// AccountMeta is an account referenced by an instruction along with the
// permissions the instruction needs on it.
type AccountMeta struct {
	PublicKey  ed25519.PublicKey
	IsSigner   bool
	IsWritable bool
}

// NewAccountMeta returns a writable account.
func NewAccountMeta(pub ed25519.PublicKey, isSigner bool) AccountMeta {
	return AccountMeta{PublicKey: pub, IsSigner: isSigner, IsWritable: true}
}

// NewReadonlyAccountMeta returns a readonly account.
func NewReadonlyAccountMeta(pub ed25519.PublicKey, isSigner bool) AccountMeta {
	return AccountMeta{PublicKey: pub, IsSigner: isSigner}
}

type Instruction struct {
	Program  ed25519.PublicKey
	Accounts []AccountMeta
	Data     []byte
}

func NewInstruction(program ed25519.PublicKey, data []byte, accounts ...AccountMeta) Instruction {
	return Instruction{Program: program, Data: data, Accounts: accounts}
}

// CompiledInstruction refers to its program and accounts by their index in
// the message account list.
type CompiledInstruction struct {
	ProgramIndex byte
	Accounts     []byte
	Data         []byte
}

// DecompileInstruction resolves the compiled instruction at index back into
// account keys, with the permissions the message grants each account.
func (m Message) DecompileInstruction(index int) (Instruction, error) {
	if index < 0 || index >= len(m.Instructions) {
		return Instruction{}, fmt.Errorf("instruction index out of range: %d", index)
	}

	compiled := m.Instructions[index]
	program, err := m.account(compiled.ProgramIndex)
	if err != nil {
		return Instruction{}, fmt.Errorf("program: %w", err)
	}

	ix := Instruction{Program: program, Data: compiled.Data}
	for _, accountIndex := range compiled.Accounts {
		pub, err := m.account(accountIndex)
		if err != nil {
			return Instruction{}, err
		}
		ix.Accounts = append(ix.Accounts, AccountMeta{
			PublicKey:  pub,
			IsSigner:   m.IsSigner(int(accountIndex)),
			IsWritable: m.IsWritable(int(accountIndex)),
		})
	}
	return ix, nil
}

// InvokesProgram reports whether the instruction at index targets program.
func (m Message) InvokesProgram(index int, program ed25519.PublicKey) bool {
	if index < 0 || index >= len(m.Instructions) {
		return false
	}
	key, err := m.account(m.Instructions[index].ProgramIndex)
	return err == nil && key.Equal(program)
}

func (m Message) account(index byte) (ed25519.PublicKey, error) {
	if int(index) >= len(m.Accounts) {
		return nil, fmt.Errorf("account index out of range: %d", index)
	}
	return m.Accounts[index], nil
}
