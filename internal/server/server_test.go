package server

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/williamsnieves/ai-tech-tutor/internal/config"
	"github.com/williamsnieves/ai-tech-tutor/internal/llm"
	"github.com/williamsnieves/ai-tech-tutor/internal/output"
)

// stubProvider returns a canned reply and counts invocations.
type stubProvider struct {
	response string
	err      error
	calls    int
}

func (s *stubProvider) Complete(_ context.Context, _ []llm.Message, _ int) (string, error) {
	s.calls++
	return s.response, s.err
}

func (s *stubProvider) Name() string { return "stub" }

func newTestHandler(t *testing.T, provider *stubProvider) (*handler, *int) {
	t.Helper()
	constructed := 0
	h := &handler{
		cfg:     &config.Config{Model: "gpt", MaxTokens: 1000},
		manager: output.NewManager(t.TempDir()),
		providerFor: func(_ llm.Model) (llm.Provider, error) {
			constructed++
			return provider, nil
		},
	}
	return h, &constructed
}

func postJSON(t *testing.T, h http.Handler, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestTutor_EmptyBodyReturns400WithoutProviderCall(t *testing.T) {
	provider := &stubProvider{response: "unused"}
	h, constructed := newTestHandler(t, provider)

	w := postJSON(t, h.routes(), "/api/tutor", `{}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if *constructed != 0 {
		t.Errorf("no provider should be constructed, got %d", *constructed)
	}
	if provider.calls != 0 {
		t.Errorf("no provider call should be made, got %d", provider.calls)
	}
}

func TestTutor_Success(t *testing.T) {
	provider := &stubProvider{response: "# Closures\n\nA closure captures variables."}
	h, _ := newTestHandler(t, provider)

	w := postJSON(t, h.routes(), "/api/tutor", `{"query":"what is a closure","isCode":false,"language":"go"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", w.Code, w.Body.String())
	}
	var resp tutorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.Contains(resp.Response, "Closures") {
		t.Errorf("unexpected response: %s", resp.Response)
	}
	if provider.calls != 1 {
		t.Errorf("expected 1 provider call, got %d", provider.calls)
	}
}

func TestTutor_SpanishAddsTranslationPass(t *testing.T) {
	provider := &stubProvider{response: "respuesta"}
	h, _ := newTestHandler(t, provider)

	w := postJSON(t, h.routes(), "/api/tutor", `{"query":"hola","outputLanguage":"Spanish"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", w.Code, w.Body.String())
	}
	// One explain call plus one translate call.
	if provider.calls != 2 {
		t.Errorf("expected 2 provider calls, got %d", provider.calls)
	}
}

func TestTutor_RateLimitMapsTo429(t *testing.T) {
	provider := &stubProvider{err: fmt.Errorf("openai: %w", llm.ErrRateLimited)}
	h, _ := newTestHandler(t, provider)

	w := postJSON(t, h.routes(), "/api/tutor", `{"query":"hi"}`)

	if w.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", w.Code)
	}
}

func TestTutor_ProviderFailureMapsTo500(t *testing.T) {
	provider := &stubProvider{err: fmt.Errorf("openai: %w: boom", llm.ErrProviderUnavailable)}
	h, _ := newTestHandler(t, provider)

	w := postJSON(t, h.routes(), "/api/tutor", `{"query":"hi"}`)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestTutor_UnknownModelReturns400(t *testing.T) {
	provider := &stubProvider{response: "unused"}
	h, _ := newTestHandler(t, provider)

	w := postJSON(t, h.routes(), "/api/tutor", `{"query":"hi","model":"gpt-99"}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if provider.calls != 0 {
		t.Error("provider should not be called for unknown model")
	}
}

func TestTutor_MethodNotAllowed(t *testing.T) {
	provider := &stubProvider{}
	h, _ := newTestHandler(t, provider)

	req := httptest.NewRequest(http.MethodGet, "/api/tutor", nil)
	w := httptest.NewRecorder()
	h.routes().ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}

func TestGenerate_EndToEndCSV(t *testing.T) {
	provider := &stubProvider{response: `[
		{"order_id": "O1", "customer_id": "C1", "product": "Mouse", "quantity": 1, "price": 9.99, "order_date": "2024-01-01", "shipping_address": "X"},
		{"order_id": "O2", "customer_id": "C2", "product": "Keyboard", "quantity": 2, "price": 19.99, "order_date": "2024-01-02", "shipping_address": "Y"}
	]`}
	h, _ := newTestHandler(t, provider)
	routes := h.routes()

	w := postJSON(t, routes, "/api/generate", `{"domain":"ecommerce","samples":2,"format":"csv"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", w.Code, w.Body.String())
	}

	var resp generateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Rows != 2 {
		t.Errorf("rows = %d, want 2", resp.Rows)
	}
	if !strings.HasPrefix(resp.DownloadURL, "/api/v1/download/") {
		t.Errorf("unexpected download url: %s", resp.DownloadURL)
	}

	// The artifact must be downloadable through the server.
	req := httptest.NewRequest(http.MethodGet, resp.DownloadURL, nil)
	dl := httptest.NewRecorder()
	routes.ServeHTTP(dl, req)
	if dl.Code != http.StatusOK {
		t.Fatalf("download status = %d", dl.Code)
	}
	lines, err := csv.NewReader(dl.Body).ReadAll()
	if err != nil {
		t.Fatalf("downloaded file is not CSV: %v", err)
	}
	if len(lines) != 3 {
		t.Errorf("expected header + 2 rows, got %d lines", len(lines))
	}
	if lines[0][0] != "order_id" {
		t.Errorf("unexpected header: %v", lines[0])
	}
}

func TestGenerate_BadDomainReturns400(t *testing.T) {
	provider := &stubProvider{response: "unused"}
	h, _ := newTestHandler(t, provider)

	w := postJSON(t, h.routes(), "/api/generate", `{"domain":"finance","samples":2,"format":"csv"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if provider.calls != 0 {
		t.Error("provider should not be called for bad domain")
	}
}

func TestGenerate_NonPositiveSamplesReturns400(t *testing.T) {
	provider := &stubProvider{response: "unused"}
	h, _ := newTestHandler(t, provider)

	w := postJSON(t, h.routes(), "/api/generate", `{"domain":"business","samples":0,"format":"json"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestGenerate_UnparseableReplyReturns502(t *testing.T) {
	provider := &stubProvider{response: "I refuse."}
	h, _ := newTestHandler(t, provider)

	w := postJSON(t, h.routes(), "/api/generate", `{"domain":"business","samples":2,"format":"json"}`)
	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", w.Code)
	}
}

func TestDownload_MissingFileReturns404(t *testing.T) {
	provider := &stubProvider{}
	h, _ := newTestHandler(t, provider)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/download/nope/missing.csv", nil)
	w := httptest.NewRecorder()
	h.routes().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestHealth(t *testing.T) {
	provider := &stubProvider{}
	h, _ := newTestHandler(t, provider)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	h.routes().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "ok") {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}
