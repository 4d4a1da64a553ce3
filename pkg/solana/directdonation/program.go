package directdonation

import (
	"crypto/ed25519"
	"errors"
)

var (
	ErrInvalidProgram         = errors.New("invalid program id")
	ErrInvalidInstructionData = errors.New("unexpected instruction data")
	ErrInvalidAccounts        = errors.New("unexpected instruction accounts")

	// ErrDiscriminatorNotFound indicates the program interface description
	// doesn't describe the donate instruction. It's a configuration problem and
	// never resolves by retrying.
	ErrDiscriminatorNotFound = errors.New("could not find donate instruction discriminator in idl")

	// ErrInvalidAmount indicates a donation amount the program would reject or
	// that isn't representable.
	ErrInvalidAmount = errors.New("invalid donation amount")
)

var (
	PROGRAM_ADDRESS = mustBase58Decode("5ZWLcrXGpKmV7R7u4LpiVKmVcdEYc7trztEQqYYDvXyz")
	PROGRAM_ID      = ed25519.PublicKey(PROGRAM_ADDRESS)
)

var (
	SYSTEM_PROGRAM_ID = ed25519.PublicKey(mustBase58Decode("11111111111111111111111111111111"))
)

const (
	DonateInstructionName = "donate"
)
