package rescue

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"filippo.io/edwards25519/field"

	"github.com/code-payments/arcium-client/pkg/arcerr"
)

const (
	// SharedSecretSize is the size of an x25519 shared secret.
	SharedSecretSize = 32

	// NonceSize is the size of the per-message nonce.
	NonceSize = 16
)

// Cipher is the Rescue block cipher in counter mode, keyed from an x25519
// shared secret. Plaintexts and ciphertexts are field elements; ciphertext
// i is plaintext i plus keystream element i, modulo p.
//
// A Cipher holds key material. Call Zero once it's no longer needed.
type Cipher struct {
	roundKeys [][]field.Element
}

// NewCipher derives the cipher key as Hash(1, s, 5), where s is the shared
// secret read as a little endian integer and reduced modulo p.
func NewCipher(sharedSecret []byte) (*Cipher, error) {
	if len(sharedSecret) != SharedSecretSize {
		return nil, arcerr.New(arcerr.ErrCrypto, "shared secret: expected %d bytes, got %d", SharedSecretSize, len(sharedSecret))
	}

	loadParams()

	secret := reduce(sharedSecret)
	defer secret.Zero()

	key := hashElements([]field.Element{
		newElementFromUint64(1),
		secret,
		newElementFromUint64(BlockSize),
	})
	defer zeroElements(key)

	return &Cipher{
		roundKeys: cipherPerm.schedule(key),
	}, nil
}

// Encrypt encrypts values under nonce. Each value must satisfy 0 <= v < p.
// The output has one 32 byte little endian block per value.
func (c *Cipher) Encrypt(values []*big.Int, nonce [NonceSize]byte) ([][ElementSize]byte, error) {
	plaintext := make([]field.Element, len(values))
	for i, v := range values {
		if err := checkRange(v, fmt.Sprintf("value[%d]", i)); err != nil {
			return nil, err
		}
		plaintext[i] = newElement(v)
	}
	defer zeroElements(plaintext)

	keystream, err := c.keystream(len(values), nonce)
	if err != nil {
		return nil, err
	}
	defer zeroElements(keystream)

	out := make([][ElementSize]byte, len(values))
	for i := range plaintext {
		var ct field.Element
		ct.Add(&plaintext[i], &keystream[i])
		copy(out[i][:], ct.Bytes())
	}
	return out, nil
}

// Decrypt reverses Encrypt. A block that isn't a canonical field element
// encoding fails with arcerr.ErrEncoding.
func (c *Cipher) Decrypt(blocks [][ElementSize]byte, nonce [NonceSize]byte) ([]*big.Int, error) {
	ciphertext := make([]field.Element, len(blocks))
	for i, b := range blocks {
		v, err := DecodeElement(b)
		if err != nil {
			return nil, arcerr.Wrap(arcerr.ErrEncoding, err, "ciphertext[%d]", i)
		}
		ciphertext[i] = newElement(v)
	}

	keystream, err := c.keystream(len(blocks), nonce)
	if err != nil {
		return nil, err
	}
	defer zeroElements(keystream)

	out := make([]*big.Int, len(blocks))
	for i := range ciphertext {
		var pt field.Element
		pt.Subtract(&ciphertext[i], &keystream[i])
		out[i] = toBig(&pt)
		pt.Zero()
	}
	return out, nil
}

// keystream encrypts counter blocks [nonce, i, 0, 0, 0] until n elements
// are available.
func (c *Cipher) keystream(n int, nonce [NonceSize]byte) ([]field.Element, error) {
	if c.roundKeys == nil {
		return nil, arcerr.New(arcerr.ErrCrypto, "cipher has been zeroed")
	}

	nonceElement := reduce(nonce[:])

	out := make([]field.Element, 0, n+BlockSize)
	for counter := uint64(0); len(out) < n; counter++ {
		block := make([]field.Element, BlockSize)
		block[0] = nonceElement
		block[1] = newElementFromUint64(counter)

		cipherPerm.apply(c.roundKeys, block)
		out = append(out, block...)
	}
	zeroElements(out[n:])
	return out[:n], nil
}

// Zero wipes the round keys. The Cipher is unusable afterwards.
func (c *Cipher) Zero() {
	for _, k := range c.roundKeys {
		zeroElements(k)
	}
	c.roundKeys = nil
}

// NonceFromUint64s packs a nonce from its low and high little endian halves.
func NonceFromUint64s(lo, hi uint64) [NonceSize]byte {
	var nonce [NonceSize]byte
	binary.LittleEndian.PutUint64(nonce[:8], lo)
	binary.LittleEndian.PutUint64(nonce[8:], hi)
	return nonce
}

func zeroElements(s []field.Element) {
	for i := range s {
		s[i].Zero()
	}
}
