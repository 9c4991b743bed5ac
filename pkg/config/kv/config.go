// Package kv provides config.Config values backed by an explicit key/value
// source rather than the process environment.
package kv

import (
	"context"
	"sort"
	"strings"

	"github.com/code-payments/arcium-client/pkg/config"
	"github.com/code-payments/arcium-client/pkg/config/wrapper"
)

// Source is a set of raw settings keyed by upper-cased name.
type Source map[string]string

// NewSource normalizes raw into a Source. Keys are matched case-insensitively.
// When several raw keys fold to the same name, the already upper-cased key
// wins, then the lexicographically smallest.
func NewSource(raw map[string]string) Source {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	s := make(Source, len(raw))
	for _, k := range keys {
		folded := strings.ToUpper(k)
		if _, ok := s[folded]; ok && k != folded {
			continue
		}
		s[folded] = raw[k]
	}
	return s
}

// Lookup returns the value stored under key, if any.
func (s Source) Lookup(key string) (string, bool) {
	v, ok := s[strings.ToUpper(key)]
	return v, ok
}

type conf struct {
	source Source
	keys   []string
}

// NewConfig returns a config yielding the first non-blank value found under
// keys, in order.
func NewConfig(source Source, keys ...string) config.Config {
	return &conf{
		source: source,
		keys:   keys,
	}
}

// Get implements Config.Get
func (c *conf) Get(_ context.Context) (interface{}, error) {
	for _, key := range c.keys {
		v, ok := c.source.Lookup(key)
		if ok && len(strings.TrimSpace(v)) > 0 {
			return v, nil
		}
	}

	return nil, config.ErrNoValue
}

// Shutdown implements Config.Shutdown
func (c *conf) Shutdown() {
}

// NewStringConfig creates a source-backed string config
func NewStringConfig(source Source, defaultValue string, keys ...string) config.String {
	return wrapper.NewStringConfig(NewConfig(source, keys...), defaultValue)
}

// NewParsedConfig creates a source-backed config converted by parse
func NewParsedConfig[T any](source Source, defaultValue T, parse func(string) (T, error), keys ...string) config.Value[T] {
	return wrapper.NewParsedConfig(NewConfig(source, keys...), defaultValue, parse)
}
