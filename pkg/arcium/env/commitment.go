package env

import (
	"strings"

	"github.com/code-payments/arcium-client/pkg/arcerr"
	"github.com/code-payments/arcium-client/pkg/solana"
)

// Commitment is the confirmation level requested from the RPC node.
type Commitment uint8

const (
	CommitmentUnconfirmed Commitment = iota
	CommitmentConfirmed
	CommitmentFinalized
)

// DefaultCommitment is used when no confirmation level is configured.
const DefaultCommitment = CommitmentUnconfirmed

// ParseCommitment accepts the Solana commitment names. "processed" and
// "unconfirmed" are synonyms.
func ParseCommitment(s string) (Commitment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "processed", "unconfirmed":
		return CommitmentUnconfirmed, nil
	case "confirmed":
		return CommitmentConfirmed, nil
	case "finalized":
		return CommitmentFinalized, nil
	default:
		return 0, arcerr.New(arcerr.ErrConfig, "%s: unsupported commitment %q", CommitmentKey, s)
	}
}

func (c Commitment) String() string {
	switch c {
	case CommitmentUnconfirmed:
		return "unconfirmed"
	case CommitmentConfirmed:
		return "confirmed"
	case CommitmentFinalized:
		return "finalized"
	default:
		return "unknown"
	}
}

// ToSolana returns the RPC commitment matching c.
func (c Commitment) ToSolana() solana.Commitment {
	switch c {
	case CommitmentConfirmed:
		return solana.CommitmentConfirmed
	case CommitmentFinalized:
		return solana.CommitmentFinalized
	default:
		return solana.CommitmentProcessed
	}
}
