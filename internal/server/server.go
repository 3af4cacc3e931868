// Package server exposes the analysis session as a single-page web UI
// with a small JSON API behind it.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/rkatmsl/smaianalysis/internal/session"
)

// Server hosts one analysis session behind an HTTP interface. The tool
// is single-user: every request operates on the same session.
type Server struct {
	addr    string
	server  *http.Server
	session *session.Session
	log     zerolog.Logger
}

// New creates a server for the given session listening on host:port.
func New(host string, port int, sess *session.Session, log zerolog.Logger) *Server {
	s := &Server{
		addr:    fmt.Sprintf("%s:%d", host, port),
		session: sess,
		log:     log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/v1/upload", s.logging(s.handleUpload))
	mux.HandleFunc("/api/v1/configure", s.logging(s.handleConfigure))
	mux.HandleFunc("/api/v1/analyze", s.logging(s.handleAnalyze))
	mux.HandleFunc("/api/v1/export", s.logging(s.handleExport))
	mux.HandleFunc("/api/v1/session", s.logging(s.handleSession))
	mux.HandleFunc("/api/v1/health", s.logging(s.handleHealth))

	s.server = &http.Server{
		Addr:    s.addr,
		Handler: mux,
		// No write timeout: the analyze round trip is bounded by the
		// analyzer's own deadline, which can run into minutes.
		ReadTimeout: 30 * time.Second,
	}

	return s
}

// Handler returns the server's HTTP handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) logging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusWriter{ResponseWriter: w}

		next(rw, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rw.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}

// Run starts the server and blocks until an interrupt signal or a
// listener error, then shuts down gracefully.
func (s *Server) Run() error {
	serverErrors := make(chan error, 1)

	go func() {
		s.log.Info().Str("address", s.addr).Msg("starting server")
		serverErrors <- s.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		s.log.Info().Str("signal", sig.String()).Msg("shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
	}

	return nil
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}
