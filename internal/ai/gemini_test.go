package ai

import (
	"testing"

	"google.golang.org/genai"
)

func TestGeminiBuildCall(t *testing.T) {
	p := &GeminiProvider{model: defaultGeminiModel}

	model, contents, config := p.buildCall("be analytical", []Message{
		{Role: "user", Content: "first"},
		{Role: "assistant", Content: "reply"},
		{Role: "user", Content: "second"},
	}, InferOptions{MaxTokens: 256})

	if model != defaultGeminiModel {
		t.Errorf("model = %q", model)
	}
	if len(contents) != 3 {
		t.Fatalf("contents length = %d", len(contents))
	}
	if contents[0].Role != genai.RoleUser {
		t.Errorf("user message role = %q", contents[0].Role)
	}
	if contents[1].Role != genai.RoleModel {
		t.Errorf("assistant message role = %q", contents[1].Role)
	}
	if config.SystemInstruction == nil {
		t.Fatal("system instruction not set")
	}
	if config.MaxOutputTokens != 256 {
		t.Errorf("MaxOutputTokens = %d", config.MaxOutputTokens)
	}
}

func TestGeminiBuildCallModelOverride(t *testing.T) {
	p := &GeminiProvider{model: defaultGeminiModel}

	model, _, config := p.buildCall("", nil, InferOptions{Model: "gemini-1.5-pro"})
	if model != "gemini-1.5-pro" {
		t.Errorf("model = %q", model)
	}
	if config.SystemInstruction != nil {
		t.Error("system instruction set without a system prompt")
	}
}
