package rescue

import (
	"math/big"

	"filippo.io/edwards25519/field"

	"github.com/code-payments/arcium-client/pkg/arcerr"
)

// ElementSize is the size of a canonically encoded field element.
const ElementSize = 32

// p = 2^255 - 19
var modulus = func() *big.Int {
	p := new(big.Int).Lsh(big.NewInt(1), 255)
	return p.Sub(p, big.NewInt(19))
}()

// Modulus returns the order of the field values are encrypted in.
func Modulus() *big.Int {
	return new(big.Int).Set(modulus)
}

// newElement converts a canonical value, 0 <= v < p.
func newElement(v *big.Int) field.Element {
	var buf [ElementSize]byte
	v.FillBytes(buf[:])
	reverse(buf[:])

	var e field.Element
	if _, err := e.SetBytes(buf[:]); err != nil {
		panic(err)
	}
	return e
}

func newElementFromUint64(v uint64) field.Element {
	return newElement(new(big.Int).SetUint64(v))
}

// reduce maps arbitrary little endian bytes onto the field.
func reduce(le []byte) field.Element {
	buf := append([]byte(nil), le...)
	reverse(buf)

	v := new(big.Int).SetBytes(buf)
	return newElement(v.Mod(v, modulus))
}

func toBig(e *field.Element) *big.Int {
	buf := e.Bytes()
	reverse(buf)
	return new(big.Int).SetBytes(buf)
}

// EncodeElement returns the canonical little endian encoding of v. It fails
// with arcerr.ErrEncoding unless 0 <= v < p.
func EncodeElement(v *big.Int) ([ElementSize]byte, error) {
	var out [ElementSize]byte
	if err := checkRange(v, "value"); err != nil {
		return out, err
	}

	e := newElement(v)
	copy(out[:], e.Bytes())
	return out, nil
}

// DecodeElement parses a canonical little endian encoding. Encodings of values
// at or above p are rejected with arcerr.ErrEncoding.
func DecodeElement(b [ElementSize]byte) (*big.Int, error) {
	buf := b
	reverse(buf[:])

	v := new(big.Int).SetBytes(buf[:])
	if v.Cmp(modulus) >= 0 {
		return nil, arcerr.New(arcerr.ErrEncoding, "field element is not canonical")
	}
	return v, nil
}

func checkRange(v *big.Int, name string) error {
	switch {
	case v == nil:
		return arcerr.New(arcerr.ErrEncoding, "%s: missing", name)
	case v.Sign() < 0:
		return arcerr.New(arcerr.ErrEncoding, "%s: %s is negative", name, v)
	case v.Cmp(modulus) >= 0:
		return arcerr.New(arcerr.ErrEncoding, "%s: exceeds the field modulus", name)
	}
	return nil
}

// pow computes x^e by square and multiply.
func pow(x *field.Element, e *big.Int) field.Element {
	var res field.Element
	res.One()
	for i := e.BitLen() - 1; i >= 0; i-- {
		res.Square(&res)
		if e.Bit(i) == 1 {
			res.Multiply(&res, x)
		}
	}
	return res
}

func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}
