package arcium

import (
	"crypto/ed25519"

	"github.com/mr-tron/base58"

	"github.com/code-payments/arcium-client/pkg/solana/system"
)

var (
	PROGRAM_ADDRESS = mustBase58Decode("Arcj82pX7HxYKLR92qvgZUAd7vGS1k4hQvAFcPATFdEQ")
	PROGRAM_ID      = ed25519.PublicKey(PROGRAM_ADDRESS)
)

var (
	SYSTEM_PROGRAM_ID = system.ProgramKey
)

func programOrDefault(program ed25519.PublicKey) ed25519.PublicKey {
	if program == nil {
		return PROGRAM_ID
	}
	return program
}

func mustBase58Decode(value string) []byte {
	decoded, err := base58.Decode(value)
	if err != nil {
		panic(err)
	}
	if len(decoded) != ed25519.PublicKeySize {
		panic("invalid program address length")
	}
	return decoded
}
