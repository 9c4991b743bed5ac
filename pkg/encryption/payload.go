package encryption

import (
	"math/big"

	"github.com/code-payments/arcium-client/pkg/arcium"
)

// CallArgs returns the arguments of an instruction queueing the encrypted
// computation identified by discriminator and computationOffset.
func (p *Payload) CallArgs(discriminator []byte, computationOffset uint64) *arcium.EncryptedCallArgs {
	ciphertexts := make([][]byte, len(p.Ciphertexts))
	for i := range p.Ciphertexts {
		ciphertexts[i] = append([]byte(nil), p.Ciphertexts[i][:]...)
	}

	return &arcium.EncryptedCallArgs{
		Discriminator:     append([]byte(nil), discriminator...),
		ComputationOffset: computationOffset,
		EncryptionPubkey:  append([]byte(nil), p.EncryptionPublicKey[:]...),
		Nonce:             append([]byte(nil), p.Nonce[:]...),
		Ciphertexts:       ciphertexts,
	}
}

// NonceValue returns the nonce as the little endian u128 it encodes.
func (p *Payload) NonceValue() *big.Int {
	be := make([]byte, NonceSize)
	for i := range p.Nonce {
		be[NonceSize-1-i] = p.Nonce[i]
	}
	return new(big.Int).SetBytes(be)
}
