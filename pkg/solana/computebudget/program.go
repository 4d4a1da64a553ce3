package compute_budget

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/solfund/solfund-server/pkg/solana"
)

var ErrInvalidInstructionData = errors.New("invalid compute budget instruction data")

// ProgramKey is the address of the compute budget program.
var ProgramKey = solana.MustParsePublicKey("ComputeBudget111111111111111111111111111111")

// Instruction discriminators. Values 0 and 1 request units and heap frames,
// neither of which donations use.
const (
	commandSetComputeUnitLimit byte = 2
	commandSetComputeUnitPrice byte = 3
)

// SetComputeUnitLimit caps the compute units the transaction may consume.
func SetComputeUnitLimit(limit uint32) solana.Instruction {
	return solana.NewInstruction(ProgramKey, binary.LittleEndian.AppendUint32([]byte{commandSetComputeUnitLimit}, limit))
}

// SetComputeUnitPrice sets the priority fee, in micro lamports per compute
// unit.
func SetComputeUnitPrice(microLamports uint64) solana.Instruction {
	return solana.NewInstruction(ProgramKey, binary.LittleEndian.AppendUint64([]byte{commandSetComputeUnitPrice}, microLamports))
}

func ParseSetComputeUnitLimitIxnData(data []byte) (uint32, error) {
	if err := checkCommand(data, commandSetComputeUnitLimit, 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(data[1:]), nil
}

func ParseSetComputeUnitPriceIxnData(data []byte) (uint64, error) {
	if err := checkCommand(data, commandSetComputeUnitPrice, 8); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(data[1:]), nil
}

func checkCommand(data []byte, command byte, argSize int) error {
	if len(data) != 1+argSize {
		return errors.Wrapf(ErrInvalidInstructionData, "invalid length: %d", len(data))
	}
	if data[0] != command {
		return errors.Wrapf(ErrInvalidInstructionData, "unexpected command: %d", data[0])
	}
	return nil
}

// IsComputeBudget reports whether the instruction at index targets the
// compute budget program.
func IsComputeBudget(m solana.Message, index int) bool {
	return m.InvokesProgram(index, ProgramKey)
}
