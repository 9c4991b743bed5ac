package solana

import (
	"context"
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/arcium-client/pkg/rate"
)

const getAccountInfoRateLimitKey = "getAccountInfo"

type rateLimitedClient struct {
	client  Client
	limiter rate.Limiter
}

// NewRateLimitedClient wraps client so requests over the limiter's budget fail
// locally with ErrRateLimited instead of reaching the RPC node. Requests are
// never queued.
func NewRateLimitedClient(client Client, limiter rate.Limiter) Client {
	return &rateLimitedClient{
		client:  client,
		limiter: limiter,
	}
}

func (c *rateLimitedClient) GetAccountInfo(ctx context.Context, account ed25519.PublicKey, commitment Commitment) (AccountInfo, error) {
	allowed, err := c.limiter.Allow(getAccountInfoRateLimitKey)
	if err != nil {
		return AccountInfo{}, errors.Wrap(err, "error checking rate limit")
	}
	if !allowed {
		return AccountInfo{}, ErrRateLimited
	}

	return c.client.GetAccountInfo(ctx, account, commitment)
}
