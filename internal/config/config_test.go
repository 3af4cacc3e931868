package config

import (
	"testing"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Provider != "gemini" {
		t.Errorf("default provider = %q", cfg.Provider)
	}
	if cfg.Server.Host != "localhost" || cfg.Server.Port != 8080 {
		t.Errorf("default server = %s:%d", cfg.Server.Host, cfg.Server.Port)
	}
	if cfg.APIKeys.Google != "" || cfg.APIKeys.OpenAI != "" {
		t.Error("expected no keys by default")
	}
}

func TestLoadKeysFromEnv(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GOOGLE_API_KEY", "g-key")
	t.Setenv("OPENAI_API_KEY", "o-key")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIKey("gemini") != "g-key" {
		t.Errorf("gemini key = %q", cfg.APIKey("gemini"))
	}
	if cfg.APIKey("openai") != "o-key" {
		t.Errorf("openai key = %q", cfg.APIKey("openai"))
	}
	if cfg.APIKey("other") != "" {
		t.Error("expected empty key for unknown provider")
	}
}

func TestProviderOverrideFromEnv(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SMA_PROVIDER", "openai")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Provider != "openai" {
		t.Errorf("provider = %q, want env override", cfg.Provider)
	}
}
