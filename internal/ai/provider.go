// Package ai provides a unified interface to the two hosted analysis
// backends: Google Gemini and OpenAI.
package ai

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Message represents a single message in a conversation with a model.
type Message struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// InferOptions configures a single inference call.
type InferOptions struct {
	Model     string `json:"model,omitempty"`
	MaxTokens int    `json:"maxTokens,omitempty"`
}

// InferResult holds the response from an inference call.
type InferResult struct {
	Content      string `json:"content"`
	Model        string `json:"model"`
	InputTokens  int    `json:"inputTokens,omitempty"`
	OutputTokens int    `json:"outputTokens,omitempty"`
}

// Provider defines the interface both backends implement.
type Provider interface {
	// Infer sends a prompt and returns the complete response.
	Infer(ctx context.Context, system string, messages []Message, opts InferOptions) (*InferResult, error)

	// Stream sends a prompt and returns a channel of response chunks.
	Stream(ctx context.Context, system string, messages []Message, opts InferOptions) (<-chan string, <-chan error, error)

	// Name returns the provider identifier.
	Name() string
}

// Provider identifiers accepted by New.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// ConfigurationError reports a provider selected without a credential. It
// is user-correctable: the user may supply a key and retry.
type ConfigurationError struct {
	Provider string
	EnvVar   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("no API key configured for provider %q — supply one or set %s", e.Provider, e.EnvVar)
}

// New creates a provider instance. apiKey may be empty, in which case the
// provider's conventional environment variable is consulted; if neither is
// set the call fails with a ConfigurationError. model may be empty for the
// provider default.
func New(name, apiKey, model string) (Provider, error) {
	switch strings.ToLower(name) {
	case ProviderGemini:
		if apiKey == "" {
			apiKey = os.Getenv("GOOGLE_API_KEY")
		}
		if apiKey == "" {
			return nil, &ConfigurationError{Provider: ProviderGemini, EnvVar: "GOOGLE_API_KEY"}
		}
		return NewGeminiProvider(apiKey, model)
	case ProviderOpenAI:
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		if apiKey == "" {
			return nil, &ConfigurationError{Provider: ProviderOpenAI, EnvVar: "OPENAI_API_KEY"}
		}
		return NewOpenAIProvider(apiKey, model), nil
	default:
		return nil, fmt.Errorf("unknown provider %q — supported providers: gemini, openai", name)
	}
}

// EnvVar returns the environment variable holding the credential for a
// provider name, or "" for an unknown provider.
func EnvVar(name string) string {
	switch strings.ToLower(name) {
	case ProviderGemini:
		return "GOOGLE_API_KEY"
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	}
	return ""
}
