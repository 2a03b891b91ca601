// Package server exposes the tutor and the synthetic-data pipeline
// over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/williamsnieves/ai-tech-tutor/internal/config"
	"github.com/williamsnieves/ai-tech-tutor/internal/llm"
	"github.com/williamsnieves/ai-tech-tutor/internal/output"
	"github.com/williamsnieves/ai-tech-tutor/internal/synth"
	"github.com/williamsnieves/ai-tech-tutor/internal/tutor"
)

const (
	defaultHost         = "127.0.0.1"
	defaultPort         = 8080
	defaultMaxBodyBytes = 1 << 20
	downloadPrefix      = "/api/v1/download/"
)

// Options configures the HTTP server.
type Options struct {
	Host         string
	Port         int
	MaxBodyBytes int64
}

// Start runs the HTTP server until ctx is canceled.
func Start(ctx context.Context, cfg *config.Config, opts Options) error {
	host := strings.TrimSpace(opts.Host)
	if host == "" {
		host = defaultHost
	}
	port := opts.Port
	if port == 0 {
		port = defaultPort
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("invalid port number: %d", port)
	}
	maxBody := opts.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}

	h := &handler{
		cfg:     cfg,
		manager: output.NewManager(cfg.OutputDir),
		providerFor: func(m llm.Model) (llm.Provider, error) {
			return llm.ForModel(cfg, m)
		},
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", host, port),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       30 * time.Second,
		Handler:           withLimits(h.routes(), maxBody),
	}

	shutdownErr := make(chan error, 1)
	go func() {
		<-ctx.Done()
		ctxTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		shutdownErr <- srv.Shutdown(ctxTimeout)
	}()

	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		select {
		case err := <-shutdownErr:
			return err
		default:
			return nil
		}
	}
	return err
}

// handler holds the per-server dependencies. providerFor is a seam so
// tests can count provider constructions without a live backend.
type handler struct {
	cfg         *config.Config
	manager     *output.Manager
	providerFor func(m llm.Model) (llm.Provider, error)
}

func (h *handler) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tutor", h.handleTutor)
	mux.HandleFunc("/api/generate", h.handleGenerate)
	mux.HandleFunc(downloadPrefix, h.handleDownload)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			writeJSONError(w, http.StatusNotFound, "Unknown endpoint")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "ai-tech-tutor"})
	})
	return mux
}

type tutorRequest struct {
	Query          string `json:"query"`
	IsCode         bool   `json:"isCode"`
	Language       string `json:"language"`
	Model          string `json:"model"`
	OutputLanguage string `json:"outputLanguage"`
}

type tutorResponse struct {
	Response string `json:"response"`
}

func (h *handler) handleTutor(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req tutorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeJSONError(w, http.StatusBadRequest, "query is required")
		return
	}

	model, err := h.resolveModel(req.Model)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	provider, err := h.providerFor(model)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	t := tutor.New(provider, h.cfg.MaxTokens)
	reply, err := t.Explain(r.Context(), req.Query, req.IsCode, req.Language)
	if err != nil {
		writeJSONError(w, statusFor(err), err.Error())
		return
	}

	if strings.EqualFold(req.OutputLanguage, "spanish") {
		translated, err := t.Translate(r.Context(), reply, "Spanish")
		if err != nil {
			writeJSONError(w, statusFor(err), err.Error())
			return
		}
		reply = translated
	}

	writeJSON(w, http.StatusOK, tutorResponse{Response: reply})
}

type generateRequest struct {
	Domain  string            `json:"domain"`
	Model   string            `json:"model"`
	Samples int               `json:"samples"`
	Format  string            `json:"format"`
	Schema  map[string]string `json:"schema,omitempty"`
}

type generateResponse struct {
	JobID       string `json:"jobId"`
	Rows        int    `json:"rows"`
	Dropped     int    `json:"dropped"`
	File        string `json:"file"`
	DownloadURL string `json:"downloadUrl"`
}

func (h *handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	domain, err := synth.ParseDomain(req.Domain)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	format, err := output.ParseFormat(req.Format)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Samples <= 0 {
		writeJSONError(w, http.StatusBadRequest, "samples must be a positive integer")
		return
	}

	model, err := h.resolveModel(req.Model)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	provider, err := h.providerFor(model)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	records, err := synth.NewGenerator(provider).Generate(r.Context(), synth.Request{
		Domain:     domain,
		Samples:    req.Samples,
		SchemaHint: req.Schema,
		MaxTokens:  h.cfg.MaxTokens,
	})
	if err != nil {
		writeJSONError(w, statusFor(err), err.Error())
		return
	}

	jobID := h.manager.NewJobID()
	name := output.FileName(string(domain), format)
	path, err := h.manager.FilePath(jobID, name)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	artifact, err := output.Write(records, format, path)
	if err != nil {
		writeJSONError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, generateResponse{
		JobID:       jobID,
		Rows:        artifact.Rows,
		Dropped:     records.Dropped,
		File:        name,
		DownloadURL: h.manager.DownloadURL(jobID, name),
	})
}

func (h *handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, downloadPrefix)
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		writeJSONError(w, http.StatusNotFound, "Unknown endpoint")
		return
	}
	jobID := filepath.Base(parts[0])
	name := filepath.Base(parts[1])
	http.ServeFile(w, r, filepath.Join(h.manager.BaseDir, jobID, name))
}

func (h *handler) resolveModel(name string) (llm.Model, error) {
	if strings.TrimSpace(name) == "" {
		name = h.cfg.Model
	}
	return llm.ParseModel(name)
}

// statusFor maps pipeline errors onto HTTP statuses: throttling is
// 429, everything else provider- or output-side is a 500-class failure.
func statusFor(err error) int {
	switch {
	case errors.Is(err, llm.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, llm.ErrProviderUnavailable):
		return http.StatusInternalServerError
	}
	var perr *synth.ParseError
	if errors.As(err, &perr) {
		return http.StatusBadGateway
	}
	var serr *output.SchemaInferenceError
	if errors.As(err, &serr) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func withLimits(next http.Handler, maxBody int64) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if maxBody > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, maxBody)
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
