package arcium

import (
	"crypto/ed25519"
	"strconv"

	"github.com/code-payments/arcium-client/pkg/arcerr"
	"github.com/code-payments/arcium-client/pkg/solana"
	compute_budget "github.com/code-payments/arcium-client/pkg/solana/computebudget"
)

// PreparedInstruction is an instruction ready to hand to a signer. It is
// immutable: every accessor returns a copy.
type PreparedInstruction struct {
	ixn solana.Instruction
}

// BuildInstruction assembles an instruction from its parts. The inputs are
// copied, so later changes by the caller don't affect the result.
func BuildInstruction(program ed25519.PublicKey, accounts []solana.AccountMeta, data []byte) (*PreparedInstruction, error) {
	if len(program) != ed25519.PublicKeySize {
		return nil, arcerr.InvalidLength("program", ed25519.PublicKeySize, len(program))
	}
	for i, account := range accounts {
		if len(account.PublicKey) != ed25519.PublicKeySize {
			return nil, arcerr.InvalidLength("account["+strconv.Itoa(i)+"]", ed25519.PublicKeySize, len(account.PublicKey))
		}
	}

	ixn := solana.NewInstruction(program, data, accounts...)
	return &PreparedInstruction{ixn: ixn.Clone()}, nil
}

func (p *PreparedInstruction) Program() ed25519.PublicKey {
	return append(ed25519.PublicKey(nil), p.ixn.Program...)
}

func (p *PreparedInstruction) Accounts() []solana.AccountMeta {
	return p.ixn.Clone().Accounts
}

func (p *PreparedInstruction) Data() []byte {
	return append([]byte(nil), p.ixn.Data...)
}

// Instruction returns a copy of the underlying instruction.
func (p *PreparedInstruction) Instruction() solana.Instruction {
	return p.ixn.Clone()
}

// BuildResourceBudgetDirectives returns the compute budget instructions for
// the provided hints: none, one, or price followed by limit. Consumers apply
// directives in order.
func BuildResourceBudgetDirectives(priceHint *uint64, limitHint *uint32) []solana.Instruction {
	return compute_budget.Directives(priceHint, limitHint)
}

// WithResourceBudget returns the budget directives for the hints followed by
// the prepared instruction, in submission order.
func WithResourceBudget(prepared *PreparedInstruction, priceHint *uint64, limitHint *uint32) []solana.Instruction {
	return append(BuildResourceBudgetDirectives(priceHint, limitHint), prepared.Instruction())
}
