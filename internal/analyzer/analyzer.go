// Package analyzer runs a composed prompt through a configured analysis
// backend and returns the generated report verbatim.
package analyzer

import (
	"context"
	"time"

	"github.com/rkatmsl/smaianalysis/internal/ai"
	"github.com/rkatmsl/smaianalysis/internal/prompt"
)

// DefaultTimeout bounds a single backend round trip. The original flow
// had no explicit deadline and relied on transport defaults; a scoped
// timeout keeps a hung provider from blocking the session forever.
const DefaultTimeout = 120 * time.Second

// Result is the raw text returned by the backend for one request, plus
// accounting detail. It is never cached or persisted.
type Result struct {
	Content      string `json:"content"`
	Model        string `json:"model"`
	InputTokens  int    `json:"inputTokens,omitempty"`
	OutputTokens int    `json:"outputTokens,omitempty"`
}

// BackendError wraps any failure from the analysis call — auth, network,
// quota, malformed response. The user-visible message is deliberately
// generic; the cause is preserved for logs.
type BackendError struct {
	Err error
}

func (e *BackendError) Error() string {
	return "analysis failed — the provider returned an error; check your API key and try again"
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// Analyzer sends composed prompts to one provider. It holds no request
// state and is safe to reuse across analyses.
type Analyzer struct {
	provider ai.Provider
	timeout  time.Duration
}

// New creates an Analyzer over the given provider.
func New(provider ai.Provider) *Analyzer {
	return &Analyzer{
		provider: provider,
		timeout:  DefaultTimeout,
	}
}

// WithTimeout overrides the per-request deadline. A zero or negative
// value disables the deadline.
func (a *Analyzer) WithTimeout(d time.Duration) *Analyzer {
	a.timeout = d
	return a
}

// Provider returns the backend this analyzer sends to.
func (a *Analyzer) Provider() ai.Provider {
	return a.provider
}

func (a *Analyzer) scope(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, a.timeout)
}

// Analyze sends the strategist persona and directives as the system
// prompt and promptText as the user message, returning the generated
// text verbatim. Every failure surfaces as a single BackendError; there
// is no retry and no partial result.
func (a *Analyzer) Analyze(ctx context.Context, promptText string) (*Result, error) {
	ctx, cancel := a.scope(ctx)
	defer cancel()

	messages := []ai.Message{{Role: "user", Content: promptText}}

	res, err := a.provider.Infer(ctx, prompt.SystemPrompt(), messages, ai.InferOptions{})
	if err != nil {
		return nil, &BackendError{Err: err}
	}

	return &Result{
		Content:      res.Content,
		Model:        res.Model,
		InputTokens:  res.InputTokens,
		OutputTokens: res.OutputTokens,
	}, nil
}

// Stream is the streaming variant of Analyze, used by the CLI to print
// the report as it is generated.
func (a *Analyzer) Stream(ctx context.Context, promptText string) (<-chan string, <-chan error, context.CancelFunc, error) {
	ctx, cancel := a.scope(ctx)

	messages := []ai.Message{{Role: "user", Content: promptText}}

	textCh, errCh, err := a.provider.Stream(ctx, prompt.SystemPrompt(), messages, ai.InferOptions{})
	if err != nil {
		cancel()
		return nil, nil, nil, &BackendError{Err: err}
	}
	return textCh, errCh, cancel, nil
}
