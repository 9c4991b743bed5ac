package testutil

import (
	"context"
	"crypto/ed25519"
	"sync"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/arcium-client/pkg/solana"
)

func GenerateSolanaKeys(t *testing.T, n int) []ed25519.PublicKey {
	keys := make([]ed25519.PublicKey, n)
	for i := 0; i < n; i++ {
		p, _, err := ed25519.GenerateKey(nil)
		require.NoError(t, err)
		keys[i] = p
	}
	return keys
}

// SolanaClient is an in memory solana.Client.
type SolanaClient struct {
	mu       sync.Mutex
	accounts map[string]solana.AccountInfo
	errs     map[string]error
	calls    int

	LastCommitment solana.Commitment
}

func NewSolanaClient() *SolanaClient {
	return &SolanaClient{
		accounts: make(map[string]solana.AccountInfo),
		errs:     make(map[string]error),
	}
}

// SetAccount stores info under address.
func (c *SolanaClient) SetAccount(address ed25519.PublicKey, info solana.AccountInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.accounts[base58.Encode(address)] = info
}

// SetError makes every read of address fail with err.
func (c *SolanaClient) SetError(address ed25519.PublicKey, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.errs[base58.Encode(address)] = err
}

// Calls returns the number of GetAccountInfo calls made so far.
func (c *SolanaClient) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.calls
}

func (c *SolanaClient) GetAccountInfo(ctx context.Context, account ed25519.PublicKey, commitment solana.Commitment) (solana.AccountInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls++
	c.LastCommitment = commitment

	if err := ctx.Err(); err != nil {
		return solana.AccountInfo{}, err
	}

	key := base58.Encode(account)
	if err, ok := c.errs[key]; ok {
		return solana.AccountInfo{}, err
	}

	info, ok := c.accounts[key]
	if !ok {
		return solana.AccountInfo{}, solana.ErrNoAccountInfo
	}
	return info, nil
}
