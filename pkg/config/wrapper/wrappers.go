package wrapper

import (
	"context"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/code-payments/arcium-client/pkg/config"
)

// ErrUnsuportedConversion indicates the wrapper does not implement conversion from the source type
var ErrUnsuportedConversion = errors.New("config: wrapper conversion from source type not implemented")

// StringConfig is a utility wrapper for a string config. Surrounding
// whitespace is trimmed and a blank value is treated as unset.
type StringConfig struct {
	config       config.Config
	defaultValue string

	stateMu   sync.RWMutex
	lastValue string
}

// NewStringConfig returns a new string config utility wrapper
func NewStringConfig(config config.Config, defaultValue string) config.String {
	return &StringConfig{
		config:       config,
		defaultValue: defaultValue,
		lastValue:    defaultValue,
	}
}

// GetSafe gets a config value and propagates any errors that arise. A best-effort
// attempt is made to return the last known value
func (c *StringConfig) GetSafe(ctx context.Context) (string, error) {
	raw, err := getString(ctx, c.config)

	c.stateMu.Lock()
	defer c.stateMu.Unlock()

	if err == config.ErrNoValue {
		c.lastValue = c.defaultValue
		return c.defaultValue, nil
	} else if err != nil {
		return c.lastValue, err
	}

	c.lastValue = raw
	return raw, nil
}

// Get is a wrapper for GetSafe that ignores the returned error
func (c *StringConfig) Get(ctx context.Context) string {
	val, _ := c.GetSafe(ctx)
	return val
}

// Shutdown signals the config to stop all underlying resources
func (c *StringConfig) Shutdown() {
	c.config.Shutdown()
}

// ParsedConfig is a utility wrapper for a config whose raw string value is
// converted and validated by a parse function. Parse failures are returned
// to the caller and never replaced with the default.
type ParsedConfig[T any] struct {
	config       config.Config
	defaultValue T
	parse        func(string) (T, error)
}

// NewParsedConfig returns a new parsed config utility wrapper
func NewParsedConfig[T any](config config.Config, defaultValue T, parse func(string) (T, error)) config.Value[T] {
	return &ParsedConfig[T]{
		config:       config,
		defaultValue: defaultValue,
		parse:        parse,
	}
}

// GetSafe gets and parses a config value. The default is returned only when
// no value is set.
func (c *ParsedConfig[T]) GetSafe(ctx context.Context) (T, error) {
	var zero T

	raw, err := getString(ctx, c.config)
	if err == config.ErrNoValue {
		return c.defaultValue, nil
	} else if err != nil {
		return zero, err
	}

	parsed, err := c.parse(raw)
	if err != nil {
		return zero, err
	}
	return parsed, nil
}

// Get is a wrapper for GetSafe that ignores the returned error
func (c *ParsedConfig[T]) Get(ctx context.Context) T {
	val, _ := c.GetSafe(ctx)
	return val
}

// Shutdown signals the config to stop all underlying resources
func (c *ParsedConfig[T]) Shutdown() {
	c.config.Shutdown()
}

func getString(ctx context.Context, cfg config.Config) (string, error) {
	override, err := cfg.Get(ctx)
	if err != nil {
		return "", err
	}

	var raw string
	switch override := override.(type) {
	case []byte:
		raw = string(override)
	case string:
		raw = override
	default:
		return "", ErrUnsuportedConversion
	}

	raw = strings.TrimSpace(raw)
	if len(raw) == 0 {
		return "", config.ErrNoValue
	}
	return raw, nil
}
