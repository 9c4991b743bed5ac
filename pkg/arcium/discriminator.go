package arcium

import "crypto/sha256"

const DiscriminatorSize = 8

// InstructionDiscriminator returns the Anchor discriminator for the named
// instruction, sha256("global:<name>")[:8].
func InstructionDiscriminator(name string) [DiscriminatorSize]byte {
	return discriminator("global:" + name)
}

// AccountDiscriminator returns the Anchor discriminator for the named account
// type, sha256("account:<name>")[:8].
func AccountDiscriminator(name string) [DiscriminatorSize]byte {
	return discriminator("account:" + name)
}

func discriminator(preimage string) [DiscriminatorSize]byte {
	h := sha256.Sum256([]byte(preimage))

	var d [DiscriminatorSize]byte
	copy(d[:], h[:])
	return d
}
