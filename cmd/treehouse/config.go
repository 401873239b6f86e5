package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/zoobzio/treehouse/tree"
)

// Config holds demo configuration.
type Config struct {
	State    string
	Format   string
	Debounce time.Duration
	Title    string
}

// loadConfig reads configuration from flags, env and an optional file.
// Env var overrides use prefix TREEHOUSE_. An explicit path must exist;
// otherwise $HOME/.config/treehouse/config.yaml is read if present.
func loadConfig(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()

	v.SetDefault("state", "treehouse.yaml")
	v.SetDefault("format", "")
	v.SetDefault("debounce", tree.DefaultDebounce)
	v.SetDefault("title", "treehouse")

	v.SetConfigType("yaml")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "treehouse"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("TREEHOUSE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if err := v.ReadInConfig(); err != nil && path != "" {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	switch strings.ToLower(c.Format) {
	case "", "json", "yaml", "yml":
	default:
		return Config{}, fmt.Errorf("unsupported format %q", c.Format)
	}
	return c, nil
}

// codec returns the codec for the configured format, falling back to the
// state file's extension.
func (c Config) codec() tree.Codec {
	return tree.CodecFor(c.Format, c.State)
}
