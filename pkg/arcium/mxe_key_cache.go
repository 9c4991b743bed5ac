package arcium

import (
	"context"
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/arcium-client/pkg/cache"
	"github.com/code-payments/arcium-client/pkg/metrics"
	"github.com/code-payments/arcium-client/pkg/solana"
)

const (
	mxeKeyCacheHitMetric  = "Arcium/MXEPublicKeyCacheHit"
	mxeKeyCacheMissMetric = "Arcium/MXEPublicKeyCacheMiss"
)

// MXEPublicKeyCache memoizes GetMXEPublicKey per Arcium program and MXE. An
// MXE's key only changes when it reruns key generation, so callers that see
// decryption failures on the network side should Invalidate the entry.
type MXEPublicKeyCache struct {
	log    *logrus.Entry
	client solana.Client
	keys   *cache.Cache[string, [X25519PublicKeySize]byte]
}

// NewMXEPublicKeyCache returns a cache holding up to size keys.
func NewMXEPublicKeyCache(client solana.Client, size int) *MXEPublicKeyCache {
	return &MXEPublicKeyCache{
		log:    logrus.StandardLogger().WithField("type", "arcium/mxe_key_cache"),
		client: client,
		keys:   cache.New[string, [X25519PublicKeySize]byte](size),
	}
}

// Get returns the cached key, fetching it on a miss. Failed lookups aren't
// cached.
func (c *MXEPublicKeyCache) Get(ctx context.Context, args *GetMXEPublicKeyArgs) ([X25519PublicKeySize]byte, error) {
	cacheKey := mxeCacheKey(args.ArciumProgram, args.MXEProgram)

	if key, ok := c.keys.Retrieve(cacheKey); ok {
		metrics.RecordCount(ctx, mxeKeyCacheHitMetric, 1)
		return key, nil
	}
	metrics.RecordCount(ctx, mxeKeyCacheMissMetric, 1)

	key, err := GetMXEPublicKey(ctx, c.client, args)
	if err != nil {
		return key, err
	}

	// A concurrent miss may have inserted the same key already
	if err := c.keys.Insert(cacheKey, key, 1); err != nil && err != cache.ErrKeyExists {
		c.log.WithError(err).Warn("failed to cache mxe public key")
	}
	return key, nil
}

// Invalidate drops the cached key for the MXE, reporting whether one was
// cached.
func (c *MXEPublicKeyCache) Invalidate(arciumProgram, mxeProgram ed25519.PublicKey) bool {
	return c.keys.Remove(mxeCacheKey(arciumProgram, mxeProgram))
}

func mxeCacheKey(arciumProgram, mxeProgram ed25519.PublicKey) string {
	return base58.Encode(programOrDefault(arciumProgram)) + "/" + base58.Encode(mxeProgram)
}
