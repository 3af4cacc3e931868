package server

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rkatmsl/smaianalysis/internal/ai"
	"github.com/rkatmsl/smaianalysis/internal/analyzer"
	"github.com/rkatmsl/smaianalysis/internal/docx"
	"github.com/rkatmsl/smaianalysis/internal/session"
	"github.com/rkatmsl/smaianalysis/internal/table"
)

//go:embed web/index.html
var indexHTML []byte

// maxUploadBytes caps a spreadsheet upload at 32 MiB.
const maxUploadBytes = 32 << 20

type errorResponse struct {
	Error string `json:"error"`
}

type sessionResponse struct {
	State    session.State `json:"state"`
	Provider string        `json:"provider"`
	HasKey   bool          `json:"hasKey"`
	FileName string        `json:"fileName,omitempty"`
	Columns  []string      `json:"columns,omitempty"`
	Rows     int           `json:"rows"`
	Question string        `json:"question"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("could not encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) sessionState() sessionResponse {
	resp := sessionResponse{
		State:    s.session.State(),
		Provider: s.session.Provider(),
		HasKey:   s.session.HasCredential(),
		FileName: s.session.FileName(),
		Question: s.session.Question(),
	}
	if t := s.session.Table(); t != nil {
		resp.Columns = t.Columns
		resp.Rows = t.RowCount()
	}
	return resp
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid upload: %w", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("missing file field: %w", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("could not read upload: %w", err))
		return
	}

	if err := s.session.LoadBytes(header.Filename, data); err != nil {
		var pe *table.ParseError
		if errors.As(err, &pe) {
			s.writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.writeJSON(w, http.StatusOK, s.sessionState())
}

type configureRequest struct {
	Provider string `json:"provider"`
	APIKey   string `json:"apiKey"`
	Model    string `json:"model,omitempty"`
}

func (s *Server) handleConfigure(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req configureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request: %w", err))
		return
	}
	defer r.Body.Close()

	if req.Provider != "" {
		if err := s.session.SelectProvider(req.Provider); err != nil {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
	}
	if req.APIKey != "" {
		s.session.SetCredential(req.APIKey)
	}
	if req.Model != "" {
		s.session.SetModel(req.Model)
	}

	s.writeJSON(w, http.StatusOK, s.sessionState())
}

// analyzeRequest carries the question as a pointer so a request that
// explicitly sends "" clears the question instead of silently reusing
// the previous one.
type analyzeRequest struct {
	Question *string `json:"question"`
}

type analyzeResponse struct {
	Content string `json:"content"`
	Model   string `json:"model,omitempty"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request: %w", err))
		return
	}
	defer r.Body.Close()

	if req.Question != nil {
		s.session.SetQuestion(*req.Question)
	}

	result, err := s.session.Analyze(r.Context())
	if err != nil {
		var ce *ai.ConfigurationError
		var be *analyzer.BackendError
		switch {
		case errors.Is(err, session.ErrNotReady):
			s.writeError(w, http.StatusBadRequest, err)
		case errors.As(err, &ce):
			s.writeError(w, http.StatusBadRequest, err)
		case errors.As(err, &be):
			s.log.Error().Err(errors.Unwrap(err)).Msg("analysis failed")
			s.writeError(w, http.StatusBadGateway, err)
		default:
			s.writeError(w, http.StatusInternalServerError, err)
		}
		return
	}

	s.writeJSON(w, http.StatusOK, analyzeResponse{
		Content: result.Content,
		Model:   result.Model,
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	result := s.session.Result()
	if result == nil {
		s.writeError(w, http.StatusConflict, errors.New("no analysis result to export — run an analysis first"))
		return
	}

	data, err := docx.WriteReport(result.Content)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", docx.MIMEType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", docx.FileName))
	w.Write(data)
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.writeJSON(w, http.StatusOK, s.sessionState())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
