package encryption

import (
	"crypto/rand"
	"io"
	"math/big"

	"github.com/sirupsen/logrus"

	"github.com/code-payments/arcium-client/pkg/arcerr"
	"github.com/code-payments/arcium-client/pkg/rescue"
)

const NonceSize = rescue.NonceSize

type opts struct {
	rand          io.Reader
	nonce         []byte
	nonceSet      bool
	allowLowOrder bool
}

// Option configures PrepareEncryption.
type Option func(o *opts)

// WithNonce encrypts under the provided 16 byte nonce instead of a random
// one. Reusing a nonce with the same network key and ephemeral key breaks
// confidentiality. A nonce of any other length, nil included, fails with
// arcerr.ErrEncoding.
func WithNonce(nonce []byte) Option {
	return func(o *opts) {
		o.nonce = append([]byte(nil), nonce...)
		o.nonceSet = true
	}
}

// WithRandSource overrides crypto/rand as the source of ephemeral keys and
// nonces.
func WithRandSource(r io.Reader) Option {
	return func(o *opts) {
		o.rand = r
	}
}

// AllowLowOrderKeys accepts network keys that produce the all zero shared
// secret, such as the zero key used as a placeholder before a cluster
// publishes its real key. Ciphertexts produced this way are not
// confidential.
func AllowLowOrderKeys() Option {
	return func(o *opts) {
		o.allowLowOrder = true
	}
}

// Payload is everything an encrypted computation request carries. The
// ephemeral private key and shared secret it was produced with are discarded.
type Payload struct {
	EncryptionPublicKey [PublicKeySize]byte
	Nonce               [NonceSize]byte
	Ciphertexts         [][rescue.ElementSize]byte
}

// PrepareEncryption encrypts values for the network whose x25519 public key
// is networkKey. Every call uses a fresh ephemeral keypair. Ciphertext i
// corresponds to values[i].
func PrepareEncryption(values []*big.Int, networkKey []byte, options ...Option) (*Payload, error) {
	log := logrus.StandardLogger().WithField("type", "encryption/session")

	o := opts{
		rand: rand.Reader,
	}
	for _, option := range options {
		option(&o)
	}

	if len(networkKey) != PublicKeySize {
		return nil, arcerr.New(arcerr.ErrCrypto, "network public key: expected %d bytes, got %d", PublicKeySize, len(networkKey))
	}

	var nonce [NonceSize]byte
	if o.nonceSet {
		if len(o.nonce) != NonceSize {
			return nil, arcerr.InvalidLength("nonce", NonceSize, len(o.nonce))
		}
		copy(nonce[:], o.nonce)
	}

	kp, err := GenerateKeypair(o.rand)
	if err != nil {
		return nil, err
	}
	defer kp.Zero()

	secret, err := deriveSharedSecret(kp.PrivateKey[:], networkKey, o.allowLowOrder)
	if err != nil {
		return nil, err
	}
	defer zero(secret)

	if isZero(secret) {
		log.Warn("encrypting under a low order network key")
	}

	if !o.nonceSet {
		if _, err := io.ReadFull(o.rand, nonce[:]); err != nil {
			return nil, arcerr.Wrap(arcerr.ErrCrypto, err, "failed to read nonce entropy")
		}
	}

	cipher, err := rescue.NewCipher(secret)
	if err != nil {
		return nil, err
	}
	defer cipher.Zero()

	ciphertexts, err := cipher.Encrypt(values, nonce)
	if err != nil {
		return nil, err
	}

	log.WithField("values", len(values)).Debug("prepared encrypted payload")

	return &Payload{
		EncryptionPublicKey: kp.PublicKey,
		Nonce:               nonce,
		Ciphertexts:         ciphertexts,
	}, nil
}

// EncryptUint64s is PrepareEncryption for unsigned 64 bit values, which are
// always in range.
func EncryptUint64s(values []uint64, networkKey []byte, options ...Option) (*Payload, error) {
	converted := make([]*big.Int, len(values))
	for i, v := range values {
		converted[i] = new(big.Int).SetUint64(v)
	}
	return PrepareEncryption(converted, networkKey, options...)
}

// Open decrypts ciphertexts with the private key of either side of the key
// agreement and the other side's public key.
func Open(privateKey, peerPublicKey []byte, ciphertexts [][rescue.ElementSize]byte, nonce [NonceSize]byte) ([]*big.Int, error) {
	secret, err := deriveSharedSecret(privateKey, peerPublicKey, true)
	if err != nil {
		return nil, err
	}
	defer zero(secret)

	cipher, err := rescue.NewCipher(secret)
	if err != nil {
		return nil, err
	}
	defer cipher.Zero()

	return cipher.Decrypt(ciphertexts, nonce)
}
