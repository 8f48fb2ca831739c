// Package config loads ktmeta settings from ktmeta.yaml and KTMETA_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"ktmeta/internal/header"
	"ktmeta/internal/strtab"
)

// Config holds the decoder and CLI settings.
type Config struct {
	// Baseline is the metadata version the gate compares against.
	Baseline   string `mapstructure:"baseline"`
	MaxStrings int    `mapstructure:"max_strings"`
	Verbose    bool   `mapstructure:"verbose"`
	Color      bool   `mapstructure:"color"`
}

// Load reads the configuration. When file is set it must exist; otherwise
// ktmeta.yaml is looked up in dirs (default: the working directory) and
// defaults apply if none is found.
func Load(file string, dirs ...string) (*Config, error) {
	v := viper.New()

	v.SetDefault("baseline", header.Baseline.String())
	v.SetDefault("max_strings", strtab.DefaultMaxStrings)
	v.SetDefault("verbose", false)
	v.SetDefault("color", true)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("ktmeta")
		v.SetConfigType("yaml")
		if len(dirs) == 0 {
			dirs = []string{"."}
		}
		for _, d := range dirs {
			v.AddConfigPath(d)
		}
	}

	v.SetEnvPrefix("ktmeta")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if _, err := header.ParseVersion(c.Baseline); err != nil {
		return fmt.Errorf("config: baseline: %w", err)
	}
	if c.MaxStrings < 0 {
		return fmt.Errorf("config: max_strings must not be negative, got %d", c.MaxStrings)
	}
	return nil
}

// BaselineVersion returns the parsed baseline.
func (c *Config) BaselineVersion() header.Version {
	v, err := header.ParseVersion(c.Baseline)
	if err != nil {
		return header.Baseline
	}
	return v
}
