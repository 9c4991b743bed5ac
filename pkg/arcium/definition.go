package arcium

import (
	"crypto/sha256"
	"encoding/binary"
	"sync"

	"github.com/mr-tron/base58"

	"github.com/code-payments/arcium-client/pkg/arcerr"
)

const (
	CompDefOffsetSize = 4

	maxDefinitionOffsetSize = 32
)

// DefinitionKey identifies a computation definition either by its snake_case
// name or by raw offset bytes.
type DefinitionKey struct {
	name   string
	offset []byte
	isName bool
}

// DefinitionName keys a definition by name. The name maps to CompDefOffset(name).
func DefinitionName(name string) DefinitionKey {
	return DefinitionKey{name: name, isName: true}
}

// DefinitionOffset keys a definition by raw offset bytes.
func DefinitionOffset(offset []byte) DefinitionKey {
	return DefinitionKey{offset: append([]byte(nil), offset...)}
}

// Bytes returns the seed bytes the definition address is derived from.
func (k DefinitionKey) Bytes() ([]byte, error) {
	if k.isName {
		if len(k.name) == 0 {
			return nil, arcerr.New(arcerr.ErrEncoding, "definition key: empty name")
		}
		offset := CompDefOffset(k.name)
		return offset[:], nil
	}

	switch {
	case len(k.offset) == 0:
		return nil, arcerr.New(arcerr.ErrEncoding, "definition key: empty offset")
	case len(k.offset) > maxDefinitionOffsetSize:
		return nil, arcerr.New(arcerr.ErrEncoding, "definition key: expected at most %d bytes, got %d", maxDefinitionOffsetSize, len(k.offset))
	}
	return append([]byte(nil), k.offset...), nil
}

func (k DefinitionKey) String() string {
	if k.isName {
		return k.name
	}
	return base58.Encode(k.offset)
}

// CompDefOffset maps a definition name to its offset bytes, sha256(name)[:4].
func CompDefOffset(name string) [CompDefOffsetSize]byte {
	h := sha256.Sum256([]byte(name))

	var offset [CompDefOffsetSize]byte
	copy(offset[:], h[:])
	return offset
}

// CompDefOffsetUint32 is CompDefOffset read as a little endian u32, the form
// instructions take it in.
func CompDefOffsetUint32(name string) uint32 {
	offset := CompDefOffset(name)
	return binary.LittleEndian.Uint32(offset[:])
}

// DefinitionRegistry tracks the definition names a program uses and rejects
// any name whose offset collides with one already registered. It is safe for
// concurrent use.
type DefinitionRegistry struct {
	mu       sync.RWMutex
	byOffset map[[CompDefOffsetSize]byte]string
}

func NewDefinitionRegistry() *DefinitionRegistry {
	return &DefinitionRegistry{
		byOffset: make(map[[CompDefOffsetSize]byte]string),
	}
}

// Register adds name and returns its offset. Registering the same name twice
// is a no-op.
func (r *DefinitionRegistry) Register(name string) ([CompDefOffsetSize]byte, error) {
	if len(name) == 0 {
		return [CompDefOffsetSize]byte{}, arcerr.New(arcerr.ErrEncoding, "definition key: empty name")
	}

	offset := CompDefOffset(name)

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byOffset[offset]
	if ok && existing != name {
		return [CompDefOffsetSize]byte{}, arcerr.New(
			arcerr.ErrEncoding,
			"definition key: %q collides with %q at offset %x",
			name,
			existing,
			offset[:],
		)
	}

	r.byOffset[offset] = name
	return offset, nil
}

// Lookup returns the registered name for offset.
func (r *DefinitionRegistry) Lookup(offset [CompDefOffsetSize]byte) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name, ok := r.byOffset[offset]
	return name, ok
}

// Len returns the number of registered definitions.
func (r *DefinitionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.byOffset)
}
