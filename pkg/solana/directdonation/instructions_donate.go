package directdonation

import (
	"bytes"
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/solfund/solfund-server/pkg/solana"
)

const (
	DonateInstructionArgsSize = 8 // amount
)

type DonateInstructionArgs struct {
	Amount uint64
}

type DonateInstructionAccounts struct {
	Donor    ed25519.PublicKey
	Creator  ed25519.PublicKey
	Platform ed25519.PublicKey
}

// NewDonateInstruction hand encodes the donate instruction as
// discriminator || le_u64(amount), with accounts in the order the program
// expects: donor, creator, platform and the system program. Every u64 amount
// encodes; callers decide which amounts are acceptable.
//
// ErrDiscriminatorNotFound is returned when the IDL doesn't describe donate.
func NewDonateInstruction(
	program ed25519.PublicKey,
	idl *IDL,
	accounts *DonateInstructionAccounts,
	args *DonateInstructionArgs,
) (solana.Instruction, error) {
	discriminator, err := idl.DonateDiscriminator()
	if err != nil {
		return solana.Instruction{}, err
	}

	for name, key := range map[string]ed25519.PublicKey{
		"program":  program,
		"donor":    accounts.Donor,
		"creator":  accounts.Creator,
		"platform": accounts.Platform,
	} {
		if len(key) != ed25519.PublicKeySize {
			return solana.Instruction{}, errors.Wrapf(ErrInvalidAccounts, "invalid %s key", name)
		}
	}

	var offset int

	// Serialize instruction arguments
	data := make([]byte, len(discriminator)+DonateInstructionArgsSize)

	putDiscriminator(data, discriminator, &offset)
	putUint64(data, args.Amount, &offset)

	return solana.Instruction{
		Program: program,

		// Instruction args
		Data: data,

		// Instruction accounts
		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.Donor,
				IsWritable: true,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.Creator,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Platform,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  SYSTEM_PROGRAM_ID,
				IsWritable: false,
				IsSigner:   false,
			},
		},
	}, nil
}

// DecompiledDonate is a donate instruction recovered from a transaction.
type DecompiledDonate struct {
	Accounts DonateInstructionAccounts
	Args     DonateInstructionArgs
}

// DecompileDonate recovers the donate instruction at index from a compiled
// message, validating it against the program and IDL.
func DecompileDonate(m solana.Message, index int, program ed25519.PublicKey, idl *IDL) (*DecompiledDonate, error) {
	discriminator, err := idl.DonateDiscriminator()
	if err != nil {
		return nil, err
	}

	ix, err := m.DecompileInstruction(index)
	if err != nil {
		return nil, err
	}

	if !bytes.Equal(ix.Program, program) {
		return nil, ErrInvalidProgram
	}
	if len(ix.Data) != len(discriminator)+DonateInstructionArgsSize {
		return nil, errors.Wrapf(ErrInvalidInstructionData, "invalid data length: %d", len(ix.Data))
	}
	if !bytes.Equal(ix.Data[:len(discriminator)], discriminator) {
		return nil, errors.Wrap(ErrInvalidInstructionData, "discriminator mismatch")
	}

	if len(ix.Accounts) != 4 {
		return nil, errors.Wrapf(ErrInvalidAccounts, "expected 4 accounts, got %d", len(ix.Accounts))
	}
	donor, creator, platform, system := ix.Accounts[0], ix.Accounts[1], ix.Accounts[2], ix.Accounts[3]
	if !donor.IsSigner || !donor.IsWritable {
		return nil, errors.Wrap(ErrInvalidAccounts, "donor must be a writable signer")
	}
	if !creator.IsWritable || !platform.IsWritable {
		return nil, errors.Wrap(ErrInvalidAccounts, "creator and platform must be writable")
	}
	if !bytes.Equal(system.PublicKey, SYSTEM_PROGRAM_ID) {
		return nil, errors.Wrap(ErrInvalidAccounts, "fourth account must be the system program")
	}

	var offset int
	result := &DecompiledDonate{
		Accounts: DonateInstructionAccounts{
			Donor:    donor.PublicKey,
			Creator:  creator.PublicKey,
			Platform: platform.PublicKey,
		},
	}
	offset += len(discriminator)
	getUint64(ix.Data, &result.Args.Amount, &offset)

	return result, nil
}
