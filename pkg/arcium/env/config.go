// Package env resolves the runtime settings needed to prepare computation
// requests from an explicit key/value mapping.
package env

import (
	"context"
	"crypto/ed25519"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	xrate "golang.org/x/time/rate"

	"github.com/code-payments/arcium-client/pkg/arcerr"
	"github.com/code-payments/arcium-client/pkg/arcium"
	"github.com/code-payments/arcium-client/pkg/config"
	"github.com/code-payments/arcium-client/pkg/config/kv"
	"github.com/code-payments/arcium-client/pkg/netutil"
	"github.com/code-payments/arcium-client/pkg/rate"
	"github.com/code-payments/arcium-client/pkg/solana"
)

const (
	ClusterOffsetKey = "ARCIUM_CLUSTER_OFFSET"

	PublicRpcUrlKey = "NEXT_PUBLIC_RPC_URL"
	RpcUrlKey       = "RPC_URL"
	defaultRpcUrl   = string(solana.DefaultEnvironment)

	CommitmentKey = "SOLANA_COMMITMENT"

	ProgramIdKey = "ARCIUM_PROGRAM_ID"

	// RpcRateLimitKey caps account reads per second. Unset or zero means
	// unlimited.
	RpcRateLimitKey = "RPC_RATE_LIMIT"
)

var errInvalidClusterOffset = errors.New("missing or invalid cluster identifier")

// Config is the resolved runtime configuration.
type Config struct {
	// ClusterOffset identifies the computation cluster. Always positive.
	ClusterOffset uint32

	RpcUrl       string
	RpcRateLimit float64
	Commitment   Commitment

	// ArciumProgram owns every derived account.
	ArciumProgram ed25519.PublicKey
}

// Resolve validates and normalizes raw into a Config. Keys are matched
// case-insensitively. Only raw is consulted; the process environment is never
// read.
//
// The cluster offset is required. The RPC endpoint, commitment and program id
// fall back to defaults when absent, but a present value that fails
// validation is an error.
func Resolve(raw map[string]string) (*Config, error) {
	ctx := context.Background()
	log := logrus.StandardLogger().WithField("type", "arcium/env")

	source := kv.NewSource(raw)

	clusterOffset, err := kv.NewParsedConfig(source, 0, ParseClusterOffset, ClusterOffsetKey).GetSafe(ctx)
	if err != nil {
		return nil, err
	}
	if clusterOffset == 0 {
		return nil, arcerr.Wrap(arcerr.ErrConfig, errInvalidClusterOffset, "%s is required", ClusterOffsetKey)
	}

	rpcUrl, err := kv.NewParsedConfig(source, defaultRpcUrl, parseRpcUrl, PublicRpcUrlKey, RpcUrlKey).GetSafe(ctx)
	if err != nil {
		return nil, err
	}
	if isUnset(source, PublicRpcUrlKey, RpcUrlKey) {
		log.WithField("default", defaultRpcUrl).Debug("rpc endpoint not configured, using default")
	}

	commitment, err := kv.NewParsedConfig(source, DefaultCommitment, ParseCommitment, CommitmentKey).GetSafe(ctx)
	if err != nil {
		return nil, err
	}
	if isUnset(source, CommitmentKey) {
		log.WithField("default", DefaultCommitment.String()).Debug("commitment not configured, using default")
	}

	rateLimit, err := kv.NewParsedConfig(source, 0, parseRateLimit, RpcRateLimitKey).GetSafe(ctx)
	if err != nil {
		return nil, err
	}

	program, err := kv.NewParsedConfig(source, arcium.PROGRAM_ID, parseProgramId, ProgramIdKey).GetSafe(ctx)
	if err != nil {
		return nil, err
	}

	return &Config{
		ClusterOffset: clusterOffset,
		RpcUrl:        rpcUrl,
		RpcRateLimit:  rateLimit,
		Commitment:    commitment,
		ArciumProgram: append(ed25519.PublicKey(nil), program...),
	}, nil
}

// ParseClusterOffset parses a positive cluster offset that fits the on-chain
// u32. Decimal, fractional and exponent notation are accepted as long as the
// value is integral, so "7", "7.0" and "0.7e1" are equivalent. Zero,
// negative, fractional, non-finite and non-numeric values are rejected.
func ParseClusterOffset(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	if len(s) == 0 {
		return 0, arcerr.Wrap(arcerr.ErrConfig, errInvalidClusterOffset, "%s is required", ClusterOffsetKey)
	}

	if v, err := strconv.ParseUint(s, 10, 32); err == nil {
		if v == 0 {
			return 0, arcerr.Wrap(arcerr.ErrConfig, errInvalidClusterOffset, "%s: must be positive", ClusterOffsetKey)
		}
		return uint32(v), nil
	}

	v, err := strconv.ParseFloat(s, 64)
	switch {
	case err != nil, math.IsInf(v, 0), math.IsNaN(v):
		return 0, arcerr.Wrap(arcerr.ErrConfig, errInvalidClusterOffset, "%s: %q is not a finite number", ClusterOffsetKey, s)
	case v <= 0:
		return 0, arcerr.Wrap(arcerr.ErrConfig, errInvalidClusterOffset, "%s: must be positive", ClusterOffsetKey)
	case v != math.Trunc(v):
		return 0, arcerr.Wrap(arcerr.ErrConfig, errInvalidClusterOffset, "%s: %q is not an integer", ClusterOffsetKey, s)
	case v > math.MaxUint32:
		return 0, arcerr.Wrap(arcerr.ErrConfig, errInvalidClusterOffset, "%s: %q exceeds u32", ClusterOffsetKey, s)
	}

	return uint32(v), nil
}

func parseRpcUrl(s string) (string, error) {
	if err := netutil.ValidateHttpUrl(s, false); err != nil {
		return "", arcerr.Wrap(arcerr.ErrConfig, err, "%s", RpcUrlKey)
	}
	return s, nil
}

func parseRateLimit(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, arcerr.New(arcerr.ErrConfig, "%s: %q is not a non-negative number", RpcRateLimitKey, s)
	}
	return v, nil
}

func parseProgramId(s string) (ed25519.PublicKey, error) {
	program, err := solana.PublicKeyFromBase58(s)
	if err != nil {
		return nil, arcerr.Wrap(arcerr.ErrConfig, err, "%s", ProgramIdKey)
	}
	return program, nil
}

// NewClient returns an RPC client for the configured endpoint, rate limited
// when RpcRateLimit is positive.
func (c *Config) NewClient() solana.Client {
	client := solana.New(c.RpcUrl)
	if c.RpcRateLimit <= 0 {
		return client
	}

	burst := int(math.Ceil(c.RpcRateLimit))
	return solana.NewRateLimitedClient(client, rate.NewLocalRateLimiter(xrate.Limit(c.RpcRateLimit), burst))
}

func isUnset(source kv.Source, keys ...string) bool {
	_, err := kv.NewConfig(source, keys...).Get(context.Background())
	return err == config.ErrNoValue
}
