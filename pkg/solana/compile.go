package solana

import (
	"bytes"
	"crypto/ed25519"
	"slices"
)

// compiledAccount tracks the merged permissions of every reference to a key
// across a transaction's instructions.
type compiledAccount struct {
	AccountMeta
	payer   bool
	program bool
}

// rank orders accounts in the layout the runtime expects: the fee payer, then
// writable signers, readonly signers, writable non-signers and finally
// readonly non-signers. Programs are invoked, never written, so they land in
// the readonly non-signer group after every plain account.
func (a compiledAccount) rank() int {
	switch {
	case a.payer:
		return 0
	case a.IsSigner && a.IsWritable:
		return 1
	case a.IsSigner:
		return 2
	case a.IsWritable:
		return 3
	case !a.program:
		return 4
	default:
		return 5
	}
}

func compareAccounts(a, b compiledAccount) int {
	if ra, rb := a.rank(), b.rank(); ra != rb {
		return ra - rb
	}
	return bytes.Compare(a.PublicKey, b.PublicKey)
}

// collectAccounts lists every key the instructions touch exactly once, with
// the strongest permissions any reference asked for, in message order.
func collectAccounts(payer ed25519.PublicKey, instructions []Instruction) []compiledAccount {
	var accounts []compiledAccount
	add := func(next compiledAccount) {
		if len(next.PublicKey) == 0 {
			next.PublicKey = make([]byte, ed25519.PublicKeySize)
		}
		for i := range accounts {
			if bytes.Equal(accounts[i].PublicKey, next.PublicKey) {
				accounts[i].IsSigner = accounts[i].IsSigner || next.IsSigner
				accounts[i].IsWritable = accounts[i].IsWritable || next.IsWritable
				accounts[i].payer = accounts[i].payer || next.payer
				return
			}
		}
		accounts = append(accounts, next)
	}

	add(compiledAccount{AccountMeta: NewAccountMeta(payer, true), payer: true})
	for _, ix := range instructions {
		add(compiledAccount{AccountMeta: AccountMeta{PublicKey: ix.Program}, program: true})
		for _, meta := range ix.Accounts {
			add(compiledAccount{AccountMeta: meta})
		}
	}

	slices.SortStableFunc(accounts, compareAccounts)
	return accounts
}

// compileMessage builds an unsigned legacy message whose header counts match
// the account layout.
func compileMessage(payer ed25519.PublicKey, instructions []Instruction) Message {
	var m Message
	for _, a := range collectAccounts(payer, instructions) {
		m.Accounts = append(m.Accounts, a.PublicKey)
		switch {
		case a.IsSigner && !a.IsWritable:
			m.Header.NumSignatures++
			m.Header.NumReadonlySigned++
		case a.IsSigner:
			m.Header.NumSignatures++
		case !a.IsWritable:
			m.Header.NumReadOnly++
		}
	}

	for _, ix := range instructions {
		compiled := CompiledInstruction{
			ProgramIndex: byte(m.indexOf(ix.Program)),
			Data:         ix.Data,
		}
		for _, meta := range ix.Accounts {
			compiled.Accounts = append(compiled.Accounts, byte(m.indexOf(meta.PublicKey)))
		}
		m.Instructions = append(m.Instructions, compiled)
	}
	return m
}

// indexOf returns the position of pub in the account list, or -1. An empty
// key matches the zero key that stands in for it.
func (m Message) indexOf(pub ed25519.PublicKey) int {
	if len(pub) == 0 {
		pub = make([]byte, ed25519.PublicKeySize)
	}
	return slices.IndexFunc(m.Accounts, func(a ed25519.PublicKey) bool {
		return bytes.Equal(a, pub)
	})
}
