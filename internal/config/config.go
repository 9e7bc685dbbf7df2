// Package config loads the signer's settings from an optional YAML file
// and RSAPSS_* environment variables.
package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides; the key
// transport.board is read from RSAPSS_TRANSPORT_BOARD.
const EnvPrefix = "RSAPSS"

type Config struct {
	Transport Transport `mapstructure:"transport"`
	Logging   Logging   `mapstructure:"logging"`
	Metrics   Metrics   `mapstructure:"metrics"`
}

// Transport selects the board profile and overrides its link settings.
// Zero values keep the profile's own settings.
type Transport struct {
	Board   string `mapstructure:"board"`
	Device  string `mapstructure:"device"`
	Baud    int    `mapstructure:"baud"`
	Address string `mapstructure:"address"`
}

type Logging struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Metrics configures the Prometheus listener; an empty address disables
// it.
type Metrics struct {
	Listen string `mapstructure:"listen"`
}

var defaults = map[string]interface{}{
	"transport.board":   "longan-nano",
	"transport.device":  "",
	"transport.baud":    0,
	"transport.address": "",
	"logging.level":     "info",
	"logging.format":    "console",
	"metrics.listen":    "",
}

// Load reads the configuration. path may be empty, in which case only
// defaults and environment variables apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only applies to known keys.
	for k, d := range defaults {
		v.SetDefault(k, d)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "config: reading %s", path)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.Wrap(err, "config: decoding")
	}
	if c.Transport.Baud < 0 {
		return nil, errors.Errorf("config: invalid baud rate %d", c.Transport.Baud)
	}
	return &c, nil
}
