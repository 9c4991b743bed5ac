package compute_budget

import (
	"bytes"
	"crypto/ed25519"
	"encoding/binary"
	"errors"

	"github.com/code-payments/arcium-client/pkg/solana"
)

// ComputeBudget111111111111111111111111111111
var ProgramKey = ed25519.PublicKey{3, 6, 70, 111, 229, 33, 23, 50, 255, 236, 173, 186, 114, 195, 155, 231, 188, 140, 229, 187, 197, 247, 18, 107, 44, 67, 155, 58, 64, 0, 0, 0}

var (
	ErrInvalidLength      = errors.New("invalid compute budget instruction length")
	ErrInvalidInstruction = errors.New("invalid compute budget instruction")
)

const (
	commandRequestUnits uint8 = iota
	commandRequestHeapFrame
	commandSetComputeUnitLimit
	commandSetComputeUnitPrice
)

// SetComputeUnitLimit caps the compute units the transaction may consume.
func SetComputeUnitLimit(computeUnitLimit uint32) solana.Instruction {
	data := make([]byte, 1+4)
	data[0] = commandSetComputeUnitLimit
	binary.LittleEndian.PutUint32(data[1:], computeUnitLimit)

	return solana.NewInstruction(
		ProgramKey[:],
		data,
	)
}

// SetComputeUnitPrice sets the priority fee in micro-lamports per compute unit.
func SetComputeUnitPrice(microLamports uint64) solana.Instruction {
	data := make([]byte, 1+8)
	data[0] = commandSetComputeUnitPrice
	binary.LittleEndian.PutUint64(data[1:], microLamports)

	return solana.NewInstruction(
		ProgramKey[:],
		data,
	)
}

// Directives returns the compute budget instructions for the provided hints.
// A nil hint emits nothing. When both are present the price directive comes
// first.
func Directives(microLamports *uint64, computeUnitLimit *uint32) []solana.Instruction {
	var ixns []solana.Instruction
	if microLamports != nil {
		ixns = append(ixns, SetComputeUnitPrice(*microLamports))
	}
	if computeUnitLimit != nil {
		ixns = append(ixns, SetComputeUnitLimit(*computeUnitLimit))
	}
	return ixns
}

// IsComputeBudgetInstruction reports whether the instruction targets the
// compute budget program.
func IsComputeBudgetInstruction(ixn solana.Instruction) bool {
	return bytes.Equal(ixn.Program, ProgramKey)
}

func ParseSetComputeUnitLimitIxnData(data []byte) (uint32, error) {
	if len(data) != 5 {
		return 0, ErrInvalidLength
	}

	if data[0] != commandSetComputeUnitLimit {
		return 0, ErrInvalidInstruction
	}

	return binary.LittleEndian.Uint32(data[1:]), nil
}

func ParseSetComputeUnitPriceIxnData(data []byte) (uint64, error) {
	if len(data) != 9 {
		return 0, ErrInvalidLength
	}

	if data[0] != commandSetComputeUnitPrice {
		return 0, ErrInvalidInstruction
	}

	return binary.LittleEndian.Uint64(data[1:]), nil
}
