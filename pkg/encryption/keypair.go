// Package encryption prepares encrypted computation inputs: an ephemeral
// x25519 key agreement with the network's public key followed by the Rescue
// cipher in counter mode.
package encryption

import (
	"crypto/rand"
	"crypto/subtle"
	"io"

	"golang.org/x/crypto/curve25519"

	"github.com/code-payments/arcium-client/pkg/arcerr"
)

const (
	PublicKeySize  = curve25519.PointSize
	PrivateKeySize = curve25519.ScalarSize
)

// Keypair is an x25519 keypair.
type Keypair struct {
	PrivateKey [PrivateKeySize]byte
	PublicKey  [PublicKeySize]byte
}

// GenerateKeypair reads a private key from r, or crypto/rand when r is nil.
func GenerateKeypair(r io.Reader) (*Keypair, error) {
	if r == nil {
		r = rand.Reader
	}

	var kp Keypair
	if _, err := io.ReadFull(r, kp.PrivateKey[:]); err != nil {
		return nil, arcerr.Wrap(arcerr.ErrCrypto, err, "failed to read private key entropy")
	}

	pub, err := curve25519.X25519(kp.PrivateKey[:], curve25519.Basepoint)
	if err != nil {
		kp.Zero()
		return nil, arcerr.Wrap(arcerr.ErrCrypto, err, "failed to compute public key")
	}
	copy(kp.PublicKey[:], pub)

	return &kp, nil
}

// Zero wipes the private key.
func (k *Keypair) Zero() {
	zero(k.PrivateKey[:])
}

// DeriveSharedSecret computes the x25519 shared secret between privateKey and
// peerPublicKey. Peer keys of low order, which produce the all zero secret,
// are rejected with arcerr.ErrCrypto.
func DeriveSharedSecret(privateKey, peerPublicKey []byte) ([]byte, error) {
	return deriveSharedSecret(privateKey, peerPublicKey, false)
}

func deriveSharedSecret(privateKey, peerPublicKey []byte, allowLowOrder bool) ([]byte, error) {
	if len(privateKey) != PrivateKeySize {
		return nil, arcerr.New(arcerr.ErrCrypto, "private key: expected %d bytes, got %d", PrivateKeySize, len(privateKey))
	}
	if len(peerPublicKey) != PublicKeySize {
		return nil, arcerr.New(arcerr.ErrCrypto, "peer public key: expected %d bytes, got %d", PublicKeySize, len(peerPublicKey))
	}

	secret, err := curve25519.X25519(privateKey, peerPublicKey)
	if err == nil {
		return secret, nil
	}

	// X25519 only fails on an all zero output, which any low order point
	// yields regardless of the scalar.
	if allowLowOrder {
		return make([]byte, curve25519.PointSize), nil
	}
	return nil, arcerr.Wrap(arcerr.ErrCrypto, err, "key agreement failed")
}

func isZero(b []byte) bool {
	return subtle.ConstantTimeCompare(b, make([]byte, len(b))) == 1
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
