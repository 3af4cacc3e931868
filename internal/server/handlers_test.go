package server

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/rkatmsl/smaianalysis/internal/ai"
	"github.com/rkatmsl/smaianalysis/internal/docx"
	"github.com/rkatmsl/smaianalysis/internal/session"
)

type stubProvider struct {
	content string
	err     error
}

func (s *stubProvider) Infer(ctx context.Context, system string, messages []ai.Message, opts ai.InferOptions) (*ai.InferResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &ai.InferResult{Content: s.content, Model: "stub-model"}, nil
}

func (s *stubProvider) Stream(ctx context.Context, system string, messages []ai.Message, opts ai.InferOptions) (<-chan string, <-chan error, error) {
	return nil, nil, errors.New("not used")
}

func (s *stubProvider) Name() string { return "stub" }

func newTestServer(t *testing.T, stub *stubProvider) *Server {
	t.Helper()

	sess := session.New(ai.ProviderGemini)
	sess.NewProvider = func(name, apiKey, model string) (ai.Provider, error) {
		if apiKey == "" {
			return nil, &ai.ConfigurationError{Provider: name, EnvVar: ai.EnvVar(name)}
		}
		return stub, nil
	}
	sess.SetCredential("test-key")

	return New("localhost", 0, sess, zerolog.Nop())
}

func xlsxUpload(t *testing.T, rows [][]interface{}) (*bytes.Buffer, string) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	wb, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}

	body := new(bytes.Buffer)
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile("file", "posts.xlsx")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write(wb.Bytes()); err != nil {
		t.Fatal(err)
	}
	mw.Close()

	return body, mw.FormDataContentType()
}

func doUpload(t *testing.T, srv *Server) {
	t.Helper()
	body, contentType := xlsxUpload(t, [][]interface{}{
		{"Post", "Likes"},
		{"Launch day!", 1200},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("upload returned %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &stubProvider{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("health returned %d", rec.Code)
	}
}

func TestUploadAndSessionState(t *testing.T) {
	srv := newTestServer(t, &stubProvider{})
	doUpload(t, srv)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/session", nil))

	var state sessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		t.Fatal(err)
	}
	if state.State != session.StatePromptReady {
		t.Errorf("state = %s", state.State)
	}
	if state.Rows != 1 || len(state.Columns) != 2 {
		t.Errorf("table shape = %d columns, %d rows", len(state.Columns), state.Rows)
	}
	if state.FileName != "posts.xlsx" {
		t.Errorf("file name = %q", state.FileName)
	}
}

func TestUploadRejectsMalformedFile(t *testing.T) {
	srv := newTestServer(t, &stubProvider{})

	body := new(bytes.Buffer)
	mw := multipart.NewWriter(body)
	fw, _ := mw.CreateFormFile("file", "posts.xlsx")
	fw.Write([]byte("not a workbook"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("malformed upload returned %d", rec.Code)
	}
}

func TestAnalyzeAndExport(t *testing.T) {
	srv := newTestServer(t, &stubProvider{content: "fixed text T"})
	doUpload(t, srv)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze",
		strings.NewReader(`{"question":"what works?"}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("analyze returned %d: %s", rec.Code, rec.Body.String())
	}
	var resp analyzeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Content != "fixed text T" {
		t.Errorf("Content = %q", resp.Content)
	}

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/export", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("export returned %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != docx.MIMEType {
		t.Errorf("export content type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, docx.FileName) {
		t.Errorf("export disposition = %q", cd)
	}

	// The exported document body carries the result text verbatim.
	data := rec.Body.Bytes()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("export is not a valid docx archive: %v", err)
	}
	found := false
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, _ := f.Open()
		content, _ := io.ReadAll(rc)
		rc.Close()
		if !strings.Contains(string(content), "fixed text T") {
			t.Error("exported document missing result text")
		}
		found = true
	}
	if !found {
		t.Error("export missing word/document.xml")
	}
}

func TestAnalyzeBackendFailure(t *testing.T) {
	srv := newTestServer(t, &stubProvider{err: errors.New("quota exceeded")})
	doUpload(t, srv)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze",
		strings.NewReader(`{"question":"q"}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Errorf("backend failure returned %d", rec.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(resp.Error, "quota exceeded") {
		t.Error("backend detail leaked to the user")
	}

	// Session remains re-triggerable with its table intact.
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/session", nil))
	var state sessionResponse
	json.Unmarshal(rec.Body.Bytes(), &state)
	if state.State != session.StatePromptReady {
		t.Errorf("state after failure = %s", state.State)
	}
	if state.Rows != 1 {
		t.Error("table lost after backend failure")
	}
}

func TestAnalyzeWithEmptyQuestionIsRefused(t *testing.T) {
	srv := newTestServer(t, &stubProvider{content: "fixed text T"})
	doUpload(t, srv)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze",
		strings.NewReader(`{"question":"first question"}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("analyze returned %d: %s", rec.Code, rec.Body.String())
	}

	// Clearing the question must refuse the trigger, not silently
	// re-run the previous question.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/analyze",
		strings.NewReader(`{"question":""}`))
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("analyze with cleared question returned %d: %s", rec.Code, rec.Body.String())
	}

	// A request that omits the question entirely keeps the current one.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader(`{}`))
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("analyze after clearing returned %d, want refusal until a question is set", rec.Code)
	}
}

func TestAnalyzeWithoutTable(t *testing.T) {
	srv := newTestServer(t, &stubProvider{content: "x"})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze",
		strings.NewReader(`{"question":"q"}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("analyze without table returned %d", rec.Code)
	}
}

func TestExportWithoutResult(t *testing.T) {
	srv := newTestServer(t, &stubProvider{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/export", nil))

	if rec.Code != http.StatusConflict {
		t.Errorf("export without result returned %d", rec.Code)
	}
}

func TestConfigureSwitchesProvider(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	srv := newTestServer(t, &stubProvider{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/configure",
		strings.NewReader(`{"provider":"openai"}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("configure returned %d: %s", rec.Code, rec.Body.String())
	}
	var state sessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		t.Fatal(err)
	}
	if state.Provider != "openai" {
		t.Errorf("provider = %q", state.Provider)
	}
	if state.HasKey {
		t.Error("credential survived the provider switch")
	}
}

func TestIndexServed(t *testing.T) {
	srv := newTestServer(t, &stubProvider{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("index returned %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Analyze Data") {
		t.Error("index page missing analyze control")
	}
}
