// Package config loads server configuration from an optional YAML
// file with environment overrides under the CUBATRICE prefix.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config is the full server configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Game     GameConfig     `mapstructure:"game"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig configures the websocket gateway.
type ServerConfig struct {
	Listen string `mapstructure:"listen"`
}

// GameConfig configures the games the server hosts.
type GameConfig struct {
	// DataDir holds the reference data JSON files.
	DataDir string `mapstructure:"data_dir"`
	// Confluences is the number of confluences before resolution.
	Confluences int `mapstructure:"confluences"`
}

// DatabaseConfig configures record-log persistence. An empty URL runs
// the server without persistence.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// Load reads configuration from the given file path. A missing file is
// not an error; defaults and CUBATRICE_* environment variables still
// apply. CUBATRICE_SERVER_LISTEN overrides server.listen, and so on.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.listen", ":8472")
	v.SetDefault("game.data_dir", "data")
	v.SetDefault("game.confluences", 6)
	v.SetDefault("database.url", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.development", false)

	v.SetEnvPrefix("CUBATRICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Game.Confluences < 1 {
		return fmt.Errorf("game.confluences must be positive, got %d", c.Game.Confluences)
	}
	if c.Server.Listen == "" {
		return errors.New("server.listen must not be empty")
	}
	return nil
}
