package rescue

import (
	"bytes"
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/arcium-client/pkg/arcerr"
)

func testSecret(seed byte) []byte {
	return bytes.Repeat([]byte{seed}, SharedSecretSize)
}

func bigs(values ...int64) []*big.Int {
	out := make([]*big.Int, len(values))
	for i, v := range values {
		out[i] = big.NewInt(v)
	}
	return out
}

func TestCipher_RoundTrip(t *testing.T) {
	c, err := NewCipher(testSecret(1))
	require.NoError(t, err)
	defer c.Zero()

	nonce := NonceFromUint64s(42, 7)
	largest := new(big.Int).Sub(Modulus(), big.NewInt(1))

	for _, values := range [][]*big.Int{
		{},
		bigs(10),
		bigs(10, 7, 5, 3),
		bigs(1, 2, 3, 4, 5),
		append(bigs(0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10), largest),
	} {
		ciphertexts, err := c.Encrypt(values, nonce)
		require.NoError(t, err)
		require.Len(t, ciphertexts, len(values))

		decrypted, err := c.Decrypt(ciphertexts, nonce)
		require.NoError(t, err)
		require.Len(t, decrypted, len(values))
		for i := range values {
			assert.Equal(t, 0, values[i].Cmp(decrypted[i]), "value %d", i)
		}
	}
}

func TestCipher_KnownVectors(t *testing.T) {
	for _, tc := range []struct {
		secret   []byte
		nonce    [NonceSize]byte
		values   []*big.Int
		expected []string
	}{
		{
			secret: []byte{
				0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10,
				0x11, 0x12, 0x13, 0x14, 0x15, 0x16, 0x17, 0x18, 0x19, 0x1a, 0x1b, 0x1c, 0x1d, 0x1e, 0x1f, 0x20,
			},
			nonce:  NonceFromUint64s(0x0706050403020100, 0x0f0e0d0c0b0a0908),
			values: bigs(10, 7, 5, 3),
			expected: []string{
				"e676bcd836df5bbf2643af9bb7ce715a7e587fe6b383ba0cf16ce4ed0ae03433",
				"0c53385895fd25538d58d70063c89c0719bb98a29376d32e90b2ac421279730c",
				"223ed02512d27dfa692434215f93a5263646efc591dddc4e405705bc2e84b570",
				"ba299ced63217e69accb0375c42a99f23c73caf3b954c22b061ba1335f998e58",
			},
		},
		{
			// Spans two counter blocks
			secret: make([]byte, SharedSecretSize),
			values: bigs(1, 2, 3, 4, 5, 6, 7),
			expected: []string{
				"88ef05aa9ad4128f0ba6e5a523d6d5c9ea68da14692e933a5c22e1b1f2551a69",
				"fcb946e4e18c39b347ac1dc95262cffd1d63c941a89d6d2655bf6d5a186e0b14",
				"6eb0cd6ddc148a0ecd0f6452482045be3e4c3683f26f0873886355d384442f31",
				"3f1677100144ece97b603a7bda12e017d111e83f583094ef6b33a1569badea60",
				"6dad88dcebb14cea5aa2654ca56f31f877a28f8c9b07b1602c9f04215f168107",
				"0b5e7d387b377b5fbd72e8b6390107e9466117ee87508bb66f9e1989b5236629",
				"7c106e4ef0ef1117ae9d88583837f1f0774e5349c81e4b9d17795678982b1d43",
			},
		},
	} {
		c, err := NewCipher(tc.secret)
		require.NoError(t, err)

		ciphertexts, err := c.Encrypt(tc.values, tc.nonce)
		require.NoError(t, err)
		require.Len(t, ciphertexts, len(tc.expected))
		for i, expected := range tc.expected {
			assert.Equal(t, expected, hex.EncodeToString(ciphertexts[i][:]), "block %d", i)
		}

		decrypted, err := c.Decrypt(ciphertexts, tc.nonce)
		require.NoError(t, err)
		for i := range tc.values {
			assert.Equal(t, 0, tc.values[i].Cmp(decrypted[i]))
		}

		c.Zero()
	}
}

func TestCipher_WrongKey(t *testing.T) {
	nonce := NonceFromUint64s(1, 0)
	values := bigs(10, 7, 5, 3)

	c1, err := NewCipher(testSecret(1))
	require.NoError(t, err)
	c2, err := NewCipher(testSecret(2))
	require.NoError(t, err)

	ciphertexts, err := c1.Encrypt(values, nonce)
	require.NoError(t, err)

	decrypted, err := c2.Decrypt(ciphertexts, nonce)
	require.NoError(t, err)
	for i := range values {
		assert.NotEqual(t, 0, values[i].Cmp(decrypted[i]))
	}

	other, err := c2.Encrypt(values, nonce)
	require.NoError(t, err)
	for i := range ciphertexts {
		assert.NotEqual(t, ciphertexts[i], other[i])
	}
}

func TestCipher_NonceChangesEveryBlock(t *testing.T) {
	c, err := NewCipher(testSecret(3))
	require.NoError(t, err)

	values := bigs(10, 7, 5, 3, 1, 0, 9)

	first, err := c.Encrypt(values, NonceFromUint64s(1, 0))
	require.NoError(t, err)
	second, err := c.Encrypt(values, NonceFromUint64s(2, 0))
	require.NoError(t, err)

	for i := range first {
		assert.NotEqual(t, first[i], second[i], "block %d", i)
	}

	// Decrypting under the wrong nonce doesn't recover the plaintext
	decrypted, err := c.Decrypt(first, NonceFromUint64s(2, 0))
	require.NoError(t, err)
	for i := range values {
		assert.NotEqual(t, 0, values[i].Cmp(decrypted[i]))
	}
}

func TestCipher_Deterministic(t *testing.T) {
	nonce := NonceFromUint64s(99, 1)
	values := bigs(10, 7, 5, 3)

	c1, err := NewCipher(testSecret(4))
	require.NoError(t, err)
	c2, err := NewCipher(testSecret(4))
	require.NoError(t, err)

	first, err := c1.Encrypt(values, nonce)
	require.NoError(t, err)
	second, err := c2.Encrypt(values, nonce)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCipher_RepeatedPlaintext(t *testing.T) {
	c, err := NewCipher(testSecret(5))
	require.NoError(t, err)

	// Spans two counter blocks
	values := bigs(7, 7, 7, 7, 7, 7, 7)
	ciphertexts, err := c.Encrypt(values, NonceFromUint64s(0, 0))
	require.NoError(t, err)

	seen := make(map[[ElementSize]byte]struct{})
	for _, ct := range ciphertexts {
		seen[ct] = struct{}{}
	}
	assert.Len(t, seen, len(values))
}

func TestCipher_ZeroSecret(t *testing.T) {
	c, err := NewCipher(make([]byte, SharedSecretSize))
	require.NoError(t, err)

	values := bigs(10, 7, 5, 3)
	ciphertexts, err := c.Encrypt(values, NonceFromUint64s(0, 0))
	require.NoError(t, err)
	require.Len(t, ciphertexts, 4)

	decrypted, err := c.Decrypt(ciphertexts, NonceFromUint64s(0, 0))
	require.NoError(t, err)
	for i := range values {
		assert.Equal(t, 0, values[i].Cmp(decrypted[i]))
	}
}

func TestCipher_Errors(t *testing.T) {
	for _, secret := range [][]byte{nil, make([]byte, 31), make([]byte, 33)} {
		_, err := NewCipher(secret)
		assert.ErrorIs(t, err, arcerr.ErrCrypto)
	}

	c, err := NewCipher(testSecret(6))
	require.NoError(t, err)

	_, err = c.Encrypt([]*big.Int{big.NewInt(1), Modulus()}, NonceFromUint64s(0, 0))
	assert.ErrorIs(t, err, arcerr.ErrEncoding)
	assert.Contains(t, err.Error(), "value[1]")

	_, err = c.Encrypt([]*big.Int{big.NewInt(-1)}, NonceFromUint64s(0, 0))
	assert.ErrorIs(t, err, arcerr.ErrEncoding)

	var nonCanonical [ElementSize]byte
	for i := range nonCanonical {
		nonCanonical[i] = 0xff
	}
	_, err = c.Decrypt([][ElementSize]byte{{}, nonCanonical}, NonceFromUint64s(0, 0))
	assert.ErrorIs(t, err, arcerr.ErrEncoding)
	assert.Contains(t, err.Error(), "ciphertext[1]")

	c.Zero()
	_, err = c.Encrypt(bigs(1), NonceFromUint64s(0, 0))
	assert.ErrorIs(t, err, arcerr.ErrCrypto)
}
