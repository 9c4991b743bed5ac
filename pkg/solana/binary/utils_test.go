package binary

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutHelpers(t *testing.T) {
	key := make([]byte, 32)
	key[31] = 9

	data := make([]byte, 1+4+8+32+3)

	var offset int
	PutUint8(data[offset:], 5, &offset)
	PutUint32(data[offset:], 0x01020304, &offset)
	PutUint64(data[offset:], 0x0102030405060708, &offset)
	PutKey32(data[offset:], key, &offset)
	PutBytes(data[offset:], []byte{7, 8, 9}, &offset)
	require.Equal(t, len(data), offset)

	r := NewReader(data)
	assert.EqualValues(t, 5, r.Uint8("a"))
	assert.EqualValues(t, 0x01020304, r.Uint32("b"))
	assert.EqualValues(t, 0x0102030405060708, r.Uint64("c"))
	assert.EqualValues(t, key, r.Key32("d"))
	assert.Equal(t, []byte{7, 8, 9}, r.Bytes(3, "e"))
	require.NoError(t, r.Err())
	assert.Equal(t, len(data), r.Offset())
}

func TestReader_Options(t *testing.T) {
	data := []byte{
		1, 7, 0, 0, 0, // Some(7u32)
		0,                                  // None
		2, 0, 0, 0, 1, 0, 0, 0, 2, 0, 0, 0, // vec![1, 2]
		3, 0, 0, 0, 1, 0, 1, // vec![true, false, true]
	}

	r := NewReader(data)
	some := r.OptionalUint32("some")
	require.NotNil(t, some)
	assert.EqualValues(t, 7, *some)
	assert.Nil(t, r.OptionalKey32("none"))
	assert.Equal(t, []uint32{1, 2}, r.Uint32Vec("vec"))
	assert.Equal(t, []bool{true, false, true}, r.BoolVec("flags"))
	assert.NoError(t, r.Err())
}

func TestReader_Errors(t *testing.T) {
	r := NewReader([]byte{1, 2})
	assert.EqualValues(t, 0, r.Uint32("short"))
	assert.True(t, errors.Is(r.Err(), ErrUnexpectedEOF))

	// Sticky
	assert.EqualValues(t, 0, r.Uint8("after"))
	assert.Equal(t, 0, r.Offset())

	r = NewReader([]byte{2})
	r.Bool("flag")
	assert.Error(t, r.Err())

	r = NewReader([]byte{0xff, 0xff, 0xff, 0xff})
	assert.Nil(t, r.Uint32Vec("huge"))
	assert.True(t, errors.Is(r.Err(), ErrUnexpectedEOF))

	r = NewReader([]byte{2, 0, 0, 0, 1})
	assert.Nil(t, r.BoolVec("short"))
	assert.True(t, errors.Is(r.Err(), ErrUnexpectedEOF))

	r = NewReader([]byte{1, 0, 0, 0, 3})
	assert.Nil(t, r.BoolVec("invalid"))
	assert.Error(t, r.Err())
}
