// Package config manages application configuration from files and
// environment.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	Provider string `mapstructure:"provider"`
	Model    string `mapstructure:"model"`
	APIKeys  struct {
		Google string `mapstructure:"google"`
		OpenAI string `mapstructure:"openai"`
	} `mapstructure:"api_keys"`
	Server struct {
		Host string `mapstructure:"host"`
		Port int    `mapstructure:"port"`
	} `mapstructure:"server"`
	Output struct {
		Format string `mapstructure:"format"`
		Color  bool   `mapstructure:"color"`
	} `mapstructure:"output"`
}

// Load reads the configuration from ~/.sma/config.yaml and environment
// variables. API keys are additionally honored from the conventional
// GOOGLE_API_KEY / OPENAI_API_KEY variables.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(Dir())

	// Defaults
	viper.SetDefault("provider", "gemini")
	viper.SetDefault("model", "")
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("output.color", true)
	viper.SetDefault("output.format", "text")

	// Environment variable overrides
	viper.SetEnvPrefix("SMA")
	viper.AutomaticEnv()

	// Read config file (non-fatal if missing)
	_ = viper.ReadInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.APIKeys.Google == "" {
		cfg.APIKeys.Google = os.Getenv("GOOGLE_API_KEY")
	}
	if cfg.APIKeys.OpenAI == "" {
		cfg.APIKeys.OpenAI = os.Getenv("OPENAI_API_KEY")
	}

	return &cfg, nil
}

// APIKey returns the configured credential for a provider name, or "".
func (c *Config) APIKey(provider string) string {
	switch provider {
	case "gemini":
		return c.APIKeys.Google
	case "openai":
		return c.APIKeys.OpenAI
	}
	return ""
}

// Dir returns the configuration directory, ~/.sma.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sma"
	}
	return filepath.Join(home, ".sma")
}
