package arcium

import (
	"crypto/ed25519"
	"crypto/sha256"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/arcium-client/pkg/arcerr"
	"github.com/code-payments/arcium-client/pkg/solana"
)

// sha256("battle-program")
const testMXEProgram = "6bdasEMfcMjdFng4csLvGcATXt366pTLT82qt4yqaLZP"

func TestProgramID(t *testing.T) {
	assert.Equal(t, "Arcj82pX7HxYKLR92qvgZUAd7vGS1k4hQvAFcPATFdEQ", base58.Encode(PROGRAM_ID))
	assert.Equal(t, "11111111111111111111111111111111", base58.Encode(SYSTEM_PROGRAM_ID))
}

func TestGlobalAddresses(t *testing.T) {
	feePool, bump, err := GetFeePoolAddress(&GetGlobalAddressArgs{})
	require.NoError(t, err)
	assert.Equal(t, "G2sRWJvi3xoyh5k2gY49eG9L8YhAEWQPtNb1zb1GXTtC", base58.Encode(feePool))
	assert.EqualValues(t, 255, bump)

	clock, _, err := GetClockAddress(&GetGlobalAddressArgs{ArciumProgram: PROGRAM_ID})
	require.NoError(t, err)
	assert.Equal(t, "7EbMUTLo5DjdzbN7s8BXeZwXzEwNQb1hScfRvWg8a6ot", base58.Encode(clock))
}

func TestDeriveAddresses_Scenario(t *testing.T) {
	args := &DeriveAddressesArgs{
		MXEProgram:        solana.MustPublicKeyFromBase58(testMXEProgram),
		ClusterOffset:     7,
		ComputationOffset: 42,
		Definition:        DefinitionName("battle_warrior"),
	}

	derived, err := DeriveAddresses(args)
	require.NoError(t, err)

	expected := map[string]ed25519.PublicKey{
		"Arcj82pX7HxYKLR92qvgZUAd7vGS1k4hQvAFcPATFdEQ": derived.ArciumProgram,
		"2egaQjM7CiH7R6rBKofxCAtkcFMbJ1nvcdWnqsz2CRZh": derived.MXE,
		"G1hm5PGA59ewMTSy4rLpV1mdCgr2oPWyjpgmcvPKjo1A": derived.Mempool,
		"ANxW3zpHxeL7C64GLmfZnaVcqs6m3htdExqBp3mXm4yM": derived.ExecutingPool,
		"DevKR9vEK3pcGocrX8VzNmJsDDmHzE3ssYPwyDqM7cqT": derived.Computation,
		"FmtrKQ7EpgskEaUPYh5tK2zePQuAPu147N1fn7k8JoD":  derived.Cluster,
		"6sEQn4EzJPPqqAxrt2CHhHaFQ3LvRigjJfcHjAhHs2q4": derived.CompDef,
	}
	for address, actual := range expected {
		assert.Equal(t, address, base58.Encode(actual))
	}

	// Deterministic across calls
	for i := 0; i < 3; i++ {
		again, err := DeriveAddresses(args)
		require.NoError(t, err)
		assert.Equal(t, derived.All(), again.All())
	}

	// Keying by name or by the equivalent offset bytes is the same account
	offset := CompDefOffset("battle_warrior")
	byOffset, err := DeriveAddresses(&DeriveAddressesArgs{
		MXEProgram:        args.MXEProgram,
		ClusterOffset:     args.ClusterOffset,
		ComputationOffset: args.ComputationOffset,
		Definition:        DefinitionOffset(offset[:]),
	})
	require.NoError(t, err)
	assert.Equal(t, derived.All(), byOffset.All())
}

func TestDeriveAddresses_InputSensitivity(t *testing.T) {
	base := DeriveAddressesArgs{
		MXEProgram:        solana.MustPublicKeyFromBase58(testMXEProgram),
		ClusterOffset:     7,
		ComputationOffset: 42,
		Definition:        DefinitionName("battle_warrior"),
	}

	derived, err := DeriveAddresses(&base)
	require.NoError(t, err)

	otherProgram := sha256.Sum256([]byte("other-program"))

	for name, mutate := range map[string]func(*DeriveAddressesArgs){
		"mxe program":        func(a *DeriveAddressesArgs) { a.MXEProgram = otherProgram[:] },
		"arcium program":     func(a *DeriveAddressesArgs) { a.ArciumProgram = otherProgram[:] },
		"cluster offset":     func(a *DeriveAddressesArgs) { a.ClusterOffset = 8 },
		"computation offset": func(a *DeriveAddressesArgs) { a.ComputationOffset = 43 },
		"definition":         func(a *DeriveAddressesArgs) { a.Definition = DefinitionName("battle_mage") },
	} {
		args := base
		mutate(&args)

		changed, err := DeriveAddresses(&args)
		require.NoError(t, err, name)
		assert.NotEqual(t, derived.All(), changed.All(), name)
	}
}

func TestDeriveAddresses_Invalid(t *testing.T) {
	valid := DeriveAddressesArgs{
		MXEProgram:    solana.MustPublicKeyFromBase58(testMXEProgram),
		ClusterOffset: 7,
		Definition:    DefinitionName("battle_warrior"),
	}

	for name, mutate := range map[string]func(*DeriveAddressesArgs){
		"short mxe program":    func(a *DeriveAddressesArgs) { a.MXEProgram = a.MXEProgram[:31] },
		"short arcium program": func(a *DeriveAddressesArgs) { a.ArciumProgram = make([]byte, 31) },
		"zero cluster":         func(a *DeriveAddressesArgs) { a.ClusterOffset = 0 },
		"empty name":           func(a *DeriveAddressesArgs) { a.Definition = DefinitionName("") },
		"empty offset":         func(a *DeriveAddressesArgs) { a.Definition = DefinitionOffset(nil) },
		"long offset":          func(a *DeriveAddressesArgs) { a.Definition = DefinitionOffset(make([]byte, 33)) },
		"unset definition":     func(a *DeriveAddressesArgs) { a.Definition = DefinitionKey{} },
	} {
		args := valid
		mutate(&args)

		_, err := DeriveAddresses(&args)
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, arcerr.ErrEncoding), name)
	}
}

func TestGetLookupTableAddress(t *testing.T) {
	mxe := solana.MustPublicKeyFromBase58("2egaQjM7CiH7R6rBKofxCAtkcFMbJ1nvcdWnqsz2CRZh")

	lookupTable, _, err := GetLookupTableAddress(&GetLookupTableAddressArgs{
		MXEAccount:    mxe,
		LutOffsetSlot: 123456789,
	})
	require.NoError(t, err)
	assert.Equal(t, "C2BGqbfG8gaHiBWwdxu3JQhyxRGjroYwffWpkUUnrWT6", base58.Encode(lookupTable))
}

func TestRandomComputationOffset(t *testing.T) {
	offset, err := RandomComputationOffset(&fixedReader{b: 0x2a})
	require.NoError(t, err)
	assert.EqualValues(t, uint64(0x2a2a2a2a2a2a2a2a), offset)

	a, err := RandomComputationOffset(nil)
	require.NoError(t, err)
	b, err := RandomComputationOffset(nil)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	_, err = RandomComputationOffset(&fixedReader{b: 1, limit: 4})
	assert.True(t, errors.Is(err, arcerr.ErrCrypto))
}

type fixedReader struct {
	b     byte
	limit int
	read  int
}

func (r *fixedReader) Read(p []byte) (int, error) {
	n := len(p)
	if r.limit > 0 && r.read+n > r.limit {
		n = r.limit - r.read
	}
	for i := 0; i < n; i++ {
		p[i] = r.b
	}
	r.read += n
	if n == 0 {
		return 0, errors.New("exhausted")
	}
	return n, nil
}
