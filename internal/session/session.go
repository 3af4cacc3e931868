// Package session holds the state of one interactive analysis run: the
// loaded table, the question, the provider selection, and the state
// machine that guards when an analysis may be triggered.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/rkatmsl/smaianalysis/internal/ai"
	"github.com/rkatmsl/smaianalysis/internal/analyzer"
	"github.com/rkatmsl/smaianalysis/internal/prompt"
	"github.com/rkatmsl/smaianalysis/internal/table"
)

// State identifies where a session is in its lifecycle.
type State string

const (
	// StateIdle means no table has been loaded yet.
	StateIdle State = "idle"
	// StateFileLoaded means a table is held but no question is set.
	StateFileLoaded State = "file_loaded"
	// StatePromptReady means a table and a non-empty question both exist.
	StatePromptReady State = "prompt_ready"
	// StateAnalyzing means a backend request is in flight.
	StateAnalyzing State = "analyzing"
	// StateResultReady means the last analysis completed.
	StateResultReady State = "result_ready"
)

// Session is the explicit context object for one interactive run. It is
// single-owner; the mutex only exists because the web server's handlers
// share one session.
type Session struct {
	// NewProvider constructs the backend for an analysis. Tests swap in
	// a stub here.
	NewProvider func(name, apiKey, model string) (ai.Provider, error)

	mu       sync.Mutex
	state    State
	tbl      *table.Table
	fileName string
	question string
	provider string
	apiKey   string
	model    string
	result   *analyzer.Result
	lastErr  error
}

// New creates an idle session for the given provider selection. The
// question starts pre-filled with the default analytical template.
func New(provider string) *Session {
	if provider == "" {
		provider = ai.ProviderGemini
	}
	return &Session{
		NewProvider: ai.New,
		state:       StateIdle,
		provider:    provider,
		question:    prompt.DefaultQuestion,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastError returns the error recorded by the most recent failed
// operation, or nil.
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Table returns the currently loaded table, or nil.
func (s *Session) Table() *table.Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tbl
}

// FileName returns the name of the loaded spreadsheet.
func (s *Session) FileName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fileName
}

// Question returns the current question text.
func (s *Session) Question() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.question
}

// Provider returns the selected provider identifier.
func (s *Session) Provider() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.provider
}

// Model returns the model override, if any.
func (s *Session) Model() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model
}

// Result returns the last analysis result, or nil.
func (s *Session) Result() *analyzer.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// HasCredential reports whether a credential is set for the selected
// provider, either directly or through its environment variable.
func (s *Session) HasCredential() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.apiKey != "" {
		return true
	}
	return os.Getenv(ai.EnvVar(s.provider)) != ""
}

// SelectProvider switches the backend. Switching away from a provider
// fully clears its credential so a key can never leak across providers.
func (s *Session) SelectProvider(name string) error {
	name = strings.ToLower(name)
	if name != ai.ProviderGemini && name != ai.ProviderOpenAI {
		return fmt.Errorf("unknown provider %q — supported providers: gemini, openai", name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if name != s.provider {
		s.apiKey = ""
	}
	s.provider = name
	return nil
}

// SetCredential stores the API key for the selected provider. The key is
// held in memory only; it is never logged or written to disk.
func (s *Session) SetCredential(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apiKey = strings.TrimSpace(key)
}

// SetModel overrides the provider's default model.
func (s *Session) SetModel(model string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.model = model
}

// LoadFile reads a spreadsheet from disk into the session, replacing any
// previously loaded table wholesale. On a parse failure the prior table
// is left untouched.
func (s *Session) LoadFile(path string) error {
	t, err := table.LoadFile(path)
	return s.adopt(t, path, err)
}

// LoadBytes is LoadFile for an uploaded file held in memory.
func (s *Session) LoadBytes(name string, data []byte) error {
	t, err := table.LoadBytes(name, data)
	return s.adopt(t, name, err)
}

func (s *Session) adopt(t *table.Table, name string, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.lastErr = err
		return err
	}

	s.tbl = t
	s.fileName = name
	s.result = nil
	s.lastErr = nil
	s.advance()
	return nil
}

// SetQuestion replaces the question text. Clearing the question drops
// the session back to FileLoaded.
func (s *Session) SetQuestion(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.question = q
	s.advance()
}

// advance recomputes the pre-analysis state from what the session holds.
// Caller must hold s.mu.
func (s *Session) advance() {
	switch {
	case s.tbl == nil:
		s.state = StateIdle
	case strings.TrimSpace(s.question) == "":
		s.state = StateFileLoaded
	case s.result != nil:
		s.state = StateResultReady
	default:
		s.state = StatePromptReady
	}
}

// ErrNotReady reports an analysis triggered before its preconditions
// were met.
var ErrNotReady = errors.New("not ready to analyze")

// ComposePrompt renders the current table and question into the prompt
// that Analyze would send.
func (s *Session) ComposePrompt() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tbl == nil {
		return "", fmt.Errorf("%w: no spreadsheet loaded", ErrNotReady)
	}
	if strings.TrimSpace(s.question) == "" {
		return "", fmt.Errorf("%w: question is empty", ErrNotReady)
	}
	return prompt.Compose(s.tbl, s.question), nil
}

// Analyze runs one full round trip: compose the prompt, send it to the
// selected backend, and record the result. On any failure the loaded
// table and question are left unchanged and the session returns to
// PromptReady so the user can correct the condition and retry.
func (s *Session) Analyze(ctx context.Context) (*analyzer.Result, error) {
	s.mu.Lock()
	if s.tbl == nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: no spreadsheet loaded", ErrNotReady)
	}
	if strings.TrimSpace(s.question) == "" {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: question is empty", ErrNotReady)
	}

	providerName := s.provider
	apiKey := s.apiKey
	model := s.model
	promptText := prompt.Compose(s.tbl, s.question)
	factory := s.NewProvider
	// A new trigger invalidates the previous result; if this attempt
	// fails the session lands back in PromptReady, not ResultReady.
	s.result = nil
	s.state = StateAnalyzing
	s.mu.Unlock()

	fail := func(err error) (*analyzer.Result, error) {
		s.mu.Lock()
		s.lastErr = err
		s.advance()
		s.mu.Unlock()
		return nil, err
	}

	provider, err := factory(providerName, apiKey, model)
	if err != nil {
		return fail(err)
	}

	res, err := analyzer.New(provider).Analyze(ctx, promptText)
	if err != nil {
		return fail(err)
	}

	s.mu.Lock()
	s.result = res
	s.lastErr = nil
	s.state = StateResultReady
	s.mu.Unlock()
	return res, nil
}

// Reset discards the table, question, and result, returning the session
// to Idle. The provider selection and credential survive a reset.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tbl = nil
	s.fileName = ""
	s.question = prompt.DefaultQuestion
	s.result = nil
	s.lastErr = nil
	s.state = StateIdle
}
