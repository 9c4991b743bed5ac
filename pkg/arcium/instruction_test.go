package arcium

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/arcium-client/pkg/arcerr"
	"github.com/code-payments/arcium-client/pkg/solana"
	compute_budget "github.com/code-payments/arcium-client/pkg/solana/computebudget"
)

func TestBuildInstruction(t *testing.T) {
	program := bytes.Repeat([]byte{9}, 32)
	accounts := []solana.AccountMeta{
		solana.NewAccountMeta(bytes.Repeat([]byte{1}, 32), true),
		solana.NewReadonlyAccountMeta(bytes.Repeat([]byte{2}, 32), false),
	}
	data := []byte{1, 2, 3}

	prepared, err := BuildInstruction(program, accounts, data)
	require.NoError(t, err)

	// Caller mutations don't leak in
	program[0] = 0
	accounts[0].PublicKey[0] = 0
	accounts[1].IsWritable = true
	data[0] = 0

	assert.Equal(t, bytes.Repeat([]byte{9}, 32), []byte(prepared.Program()))
	assert.Equal(t, []byte{1, 2, 3}, prepared.Data())
	require.Len(t, prepared.Accounts(), 2)
	assert.Equal(t, bytes.Repeat([]byte{1}, 32), []byte(prepared.Accounts()[0].PublicKey))
	assert.False(t, prepared.Accounts()[1].IsWritable)

	// Accessor results don't leak out
	prepared.Data()[0] = 7
	prepared.Accounts()[0].PublicKey[0] = 7
	ixn := prepared.Instruction()
	ixn.Program[0] = 7
	assert.Equal(t, []byte{1, 2, 3}, prepared.Data())
	assert.EqualValues(t, 1, prepared.Accounts()[0].PublicKey[0])
	assert.EqualValues(t, 9, prepared.Program()[0])
}

func TestBuildInstruction_Invalid(t *testing.T) {
	_, err := BuildInstruction(make([]byte, 31), nil, nil)
	assert.True(t, errors.Is(err, arcerr.ErrEncoding))

	_, err = BuildInstruction(make([]byte, 32), []solana.AccountMeta{solana.NewAccountMeta(make([]byte, 5), false)}, nil)
	assert.True(t, errors.Is(err, arcerr.ErrEncoding))
	assert.Contains(t, err.Error(), "account[0]: expected 32 bytes, got 5")
}

func TestBuildResourceBudgetDirectives(t *testing.T) {
	price := uint64(1_000)
	limit := uint32(1_400_000)

	assert.Empty(t, BuildResourceBudgetDirectives(nil, nil))

	directives := BuildResourceBudgetDirectives(nil, &limit)
	require.Len(t, directives, 1)
	parsedLimit, err := compute_budget.ParseSetComputeUnitLimitIxnData(directives[0].Data)
	require.NoError(t, err)
	assert.Equal(t, limit, parsedLimit)

	directives = BuildResourceBudgetDirectives(&price, &limit)
	require.Len(t, directives, 2)
	parsedPrice, err := compute_budget.ParseSetComputeUnitPriceIxnData(directives[0].Data)
	require.NoError(t, err)
	assert.Equal(t, price, parsedPrice)
	parsedLimit, err = compute_budget.ParseSetComputeUnitLimitIxnData(directives[1].Data)
	require.NoError(t, err)
	assert.Equal(t, limit, parsedLimit)
}

func TestWithResourceBudget(t *testing.T) {
	prepared, err := BuildInstruction(bytes.Repeat([]byte{9}, 32), nil, []byte{1})
	require.NoError(t, err)

	price := uint64(1_000)
	limit := uint32(1_400_000)

	ixns := WithResourceBudget(prepared, &price, &limit)
	require.Len(t, ixns, 3)
	assert.True(t, compute_budget.IsComputeBudgetInstruction(ixns[0]))
	assert.True(t, compute_budget.IsComputeBudgetInstruction(ixns[1]))
	assert.Equal(t, prepared.Instruction(), ixns[2])

	ixns = WithResourceBudget(prepared, nil, nil)
	require.Len(t, ixns, 1)
}
