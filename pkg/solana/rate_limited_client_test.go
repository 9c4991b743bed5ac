package solana

import (
	"context"
	"crypto/ed25519"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	xrate "golang.org/x/time/rate"

	"github.com/code-payments/arcium-client/pkg/rate"
)

type countingClient struct {
	calls int
}

func (c *countingClient) GetAccountInfo(context.Context, ed25519.PublicKey, Commitment) (AccountInfo, error) {
	c.calls++
	return AccountInfo{Lamports: 1}, nil
}

type failingLimiter struct{}

func (failingLimiter) Allow(string) (bool, error) {
	return false, errors.New("limiter unavailable")
}

func TestRateLimitedClient(t *testing.T) {
	underlying := &countingClient{}
	c := NewRateLimitedClient(underlying, rate.NewLocalRateLimiter(xrate.Limit(0.001), 2))

	for i := 0; i < 2; i++ {
		info, err := c.GetAccountInfo(context.Background(), make([]byte, 32), CommitmentConfirmed)
		assert.NoError(t, err)
		assert.EqualValues(t, 1, info.Lamports)
	}

	_, err := c.GetAccountInfo(context.Background(), make([]byte, 32), CommitmentConfirmed)
	assert.Equal(t, ErrRateLimited, err)
	assert.Equal(t, 2, underlying.calls)
}

func TestRateLimitedClient_LimiterError(t *testing.T) {
	underlying := &countingClient{}
	c := NewRateLimitedClient(underlying, failingLimiter{})

	_, err := c.GetAccountInfo(context.Background(), make([]byte, 32), CommitmentConfirmed)
	assert.Error(t, err)
	assert.NotEqual(t, ErrRateLimited, err)
	assert.Equal(t, 0, underlying.calls)

	c = NewRateLimitedClient(underlying, &rate.NoLimiter{})
	_, err = c.GetAccountInfo(context.Background(), make([]byte, 32), CommitmentConfirmed)
	assert.NoError(t, err)
	assert.Equal(t, 1, underlying.calls)
}
