// Package binary provides little-endian helpers for Solana account and
// instruction layouts.
package binary

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/pkg/errors"
)

// ErrUnexpectedEOF is returned when a Reader runs out of data.
var ErrUnexpectedEOF = errors.New("unexpected end of data")

func PutKey32(dst []byte, src []byte, offset *int) {
	copy(dst, src)
	*offset += ed25519.PublicKeySize
}

func PutBytes(dst []byte, src []byte, offset *int) {
	copy(dst, src)
	*offset += len(src)
}

func PutUint64(dst []byte, v uint64, offset *int) {
	binary.LittleEndian.PutUint64(dst, v)
	*offset += 8
}

func PutUint32(dst []byte, v uint32, offset *int) {
	binary.LittleEndian.PutUint32(dst, v)
	*offset += 4
}

func PutUint8(dst []byte, v uint8, offset *int) {
	dst[0] = v
	*offset += 1
}

// Reader is a bounds-checked cursor over Borsh encoded account data. The
// first failure is sticky: every subsequent read is a no-op and Err reports
// it.
type Reader struct {
	data   []byte
	offset int
	err    error
}

// NewReader returns a Reader positioned at the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

func (r *Reader) take(n int, field string) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || len(r.data)-r.offset < n {
		r.err = errors.Wrapf(ErrUnexpectedEOF, "reading %s at offset %d (need %d, have %d)", field, r.offset, n, len(r.data)-r.offset)
		return nil
	}

	b := r.data[r.offset : r.offset+n]
	r.offset += n
	return b
}

// Offset returns the number of bytes consumed.
func (r *Reader) Offset() int {
	return r.offset
}

// Err returns the first error encountered.
func (r *Reader) Err() error {
	return r.err
}

func (r *Reader) Bytes(n int, field string) []byte {
	b := r.take(n, field)
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}

func (r *Reader) Key32(field string) ed25519.PublicKey {
	return r.Bytes(ed25519.PublicKeySize, field)
}

func (r *Reader) Uint8(field string) uint8 {
	b := r.take(1, field)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *Reader) Bool(field string) bool {
	v := r.Uint8(field)
	if r.err == nil && v > 1 {
		r.err = errors.Errorf("invalid bool value %d for %s", v, field)
	}
	return v == 1
}

func (r *Reader) Uint32(field string) uint32 {
	b := r.take(4, field)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *Reader) Uint64(field string) uint64 {
	b := r.take(8, field)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

// OptionalUint32 reads a Borsh Option<u32>.
func (r *Reader) OptionalUint32(field string) *uint32 {
	if !r.Bool(field) {
		return nil
	}
	v := r.Uint32(field)
	if r.err != nil {
		return nil
	}
	return &v
}

// OptionalKey32 reads a Borsh Option<Pubkey>.
func (r *Reader) OptionalKey32(field string) ed25519.PublicKey {
	if !r.Bool(field) {
		return nil
	}
	return r.Key32(field)
}

// Uint32Vec reads a Borsh Vec<u32>.
func (r *Reader) Uint32Vec(field string) []uint32 {
	n := r.Uint32(field)
	if r.err != nil {
		return nil
	}
	if uint64(n)*4 > uint64(len(r.data)-r.offset) {
		r.err = errors.Wrapf(ErrUnexpectedEOF, "reading %s: %d elements exceed remaining data", field, n)
		return nil
	}

	values := make([]uint32, n)
	for i := range values {
		values[i] = r.Uint32(field)
	}
	return values
}

// BoolVec reads a Borsh Vec<bool>.
func (r *Reader) BoolVec(field string) []bool {
	n := r.Uint32(field)
	if r.err != nil {
		return nil
	}
	if uint64(n) > uint64(len(r.data)-r.offset) {
		r.err = errors.Wrapf(ErrUnexpectedEOF, "reading %s: %d elements exceed remaining data", field, n)
		return nil
	}

	values := make([]bool, n)
	for i := range values {
		values[i] = r.Bool(field)
	}
	if r.err != nil {
		return nil
	}
	return values
}
