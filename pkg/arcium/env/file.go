package env

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/code-payments/arcium-client/pkg/arcerr"
)

// LoadFile reads settings from a dotenv, YAML, JSON or TOML file and returns
// them as a raw mapping for Resolve. The format follows the file extension;
// files without one are read as dotenv. Nested keys are joined with "." and
// every key is upper-cased.
func LoadFile(path string) (map[string]string, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if len(filepath.Ext(path)) == 0 {
		v.SetConfigType("env")
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, arcerr.Wrap(arcerr.ErrConfig, err, "reading %s", path)
	}

	raw := make(map[string]string)
	for _, key := range v.AllKeys() {
		raw[strings.ToUpper(key)] = v.GetString(key)
	}
	return raw, nil
}

// FromOS returns a snapshot of the process environment. It's the only place
// this package reads ambient state, and only when explicitly called.
func FromOS() map[string]string {
	raw := make(map[string]string)
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		raw[k] = v
	}
	return raw
}
