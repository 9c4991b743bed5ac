package arcium

import (
	"bytes"
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/arcium-client/pkg/arcerr"
	"github.com/code-payments/arcium-client/pkg/solana"
)

func TestMXEPublicKeyCache(t *testing.T) {
	x25519 := bytes.Repeat([]byte{5}, X25519PublicKeySize)
	env := setupDefinitionTest(t, &testMXEAccount{x25519: x25519})

	c := NewMXEPublicKeyCache(env.client, 4)
	args := &GetMXEPublicKeyArgs{MXEProgram: env.mxeProgram}

	for i := 0; i < 3; i++ {
		key, err := c.Get(context.Background(), args)
		require.NoError(t, err)
		assert.Equal(t, x25519, key[:])
	}
	assert.Equal(t, 1, env.client.Calls())

	// The default program and an explicit PROGRAM_ID share an entry
	_, err := c.Get(context.Background(), &GetMXEPublicKeyArgs{ArciumProgram: PROGRAM_ID, MXEProgram: env.mxeProgram})
	require.NoError(t, err)
	assert.Equal(t, 1, env.client.Calls())

	assert.True(t, c.Invalidate(nil, env.mxeProgram))
	assert.False(t, c.Invalidate(nil, env.mxeProgram))

	_, err = c.Get(context.Background(), args)
	require.NoError(t, err)
	assert.Equal(t, 2, env.client.Calls())
}

func TestMXEPublicKeyCache_FailuresNotCached(t *testing.T) {
	env := setupDefinitionTest(t, nil)

	c := NewMXEPublicKeyCache(env.client, 4)
	args := &GetMXEPublicKeyArgs{MXEProgram: env.mxeProgram}

	_, err := c.Get(context.Background(), args)
	assert.True(t, errors.Is(err, ErrDefinitionNotInitialized))

	_, err = c.Get(context.Background(), args)
	assert.True(t, errors.Is(err, arcerr.ErrNetwork))
	assert.Equal(t, 2, env.client.Calls())

	x25519 := bytes.Repeat([]byte{6}, X25519PublicKeySize)
	account := &testMXEAccount{mxeProgram: env.mxeProgram, x25519: x25519}
	env.client.SetAccount(env.mxe, solana.AccountInfo{Owner: PROGRAM_ID, Data: account.marshal()})

	key, err := c.Get(context.Background(), args)
	require.NoError(t, err)
	assert.Equal(t, x25519, key[:])
}
