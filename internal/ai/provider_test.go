package ai

import (
	"errors"
	"testing"
)

func TestNewUnknownProvider(t *testing.T) {
	if _, err := New("anthropic", "key", ""); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestNewMissingCredential(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	for _, name := range []string{ProviderGemini, ProviderOpenAI} {
		_, err := New(name, "", "")
		var ce *ConfigurationError
		if !errors.As(err, &ce) {
			t.Errorf("%s: expected ConfigurationError, got %v", name, err)
			continue
		}
		if ce.Provider != name {
			t.Errorf("error names provider %q, want %q", ce.Provider, name)
		}
	}
}

func TestNewOpenAIFromEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	p, err := New(ProviderOpenAI, "", "")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if p.Name() != ProviderOpenAI {
		t.Errorf("Name() = %q", p.Name())
	}
}

func TestEnvVar(t *testing.T) {
	if EnvVar(ProviderGemini) != "GOOGLE_API_KEY" {
		t.Error("wrong env var for gemini")
	}
	if EnvVar(ProviderOpenAI) != "OPENAI_API_KEY" {
		t.Error("wrong env var for openai")
	}
	if EnvVar("other") != "" {
		t.Error("expected empty env var for unknown provider")
	}
}
