package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	defaultAPIListen = ":8045"
	defaultMCPListen = ":8046"
)

// InitViper creates and returns a configured *viper.Viper.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound by the command)
//  2. Environment variables (PSCRAPE_API_LISTEN, PSCRAPE_UPSTREAM_SESSION_TOKEN, ...)
//  3. config.toml values (from configDir, else ~/.pscrape, else cwd)
//  4. Defaults
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	setViperDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("toml")

	if configDir != "" {
		v.AddConfigPath(configDir)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".pscrape"))
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix("PSCRAPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// Load resolves the final configuration through InitViper.
func Load(configDir string) (*Config, error) {
	v, err := InitViper(configDir)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

func setViperDefaults(v *viper.Viper) {
	v.SetDefault("api.listen", defaultAPIListen)
	v.SetDefault("api.key", "")

	v.SetDefault("mcp.listen", defaultMCPListen)

	v.SetDefault("upstream.base_url", "https://www.perplexity.ai")
	v.SetDefault("upstream.session_token", "")
	v.SetDefault("upstream.cf_clearance", "")
	v.SetDefault("upstream.visitor_id", "")
	v.SetDefault("upstream.session_id", "")
	v.SetDefault("upstream.cf_bm", "")
}
