package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "TIMESHEET_ATLAS"

// geminiKeyEnv is the plain environment fallback for the summarizer
// credential, checked after the prefixed config binding.
const geminiKeyEnv = "GEMINI_API_KEY"

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type SummarizerConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

type Config struct {
	Server          ServerConfig     `mapstructure:"server"`
	Summarizer      SummarizerConfig `mapstructure:"summarizer"`
	CredentialsFile string           `mapstructure:"credentials_file"`
}

// Load reads the application config. path may be empty, in which case only
// defaults and environment overrides (TIMESHEET_ATLAS_*) apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// ResolveAPIKey applies the credential precedence: a user-supplied key wins,
// then the configured/environment default, then the credentials profile
// file. An empty result means the local fallback summarizer is used.
func (c *Config) ResolveAPIKey(userKey string) string {
	if userKey != "" {
		return userKey
	}
	if c.Summarizer.APIKey != "" {
		return c.Summarizer.APIKey
	}
	if key := os.Getenv(geminiKeyEnv); key != "" {
		return key
	}
	if c.CredentialsFile != "" {
		creds, err := LoadCredentials(c.CredentialsFile)
		if err == nil {
			return creds.APIKey(DefaultProfile)
		}
	}
	return ""
}
