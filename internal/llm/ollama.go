package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	ollamaChatPath = "/api/chat"
	ollamaTimeout  = 120 * time.Second
)

// OllamaProvider implements Provider for a local Ollama instance. It
// serves the open models (llama, phi3, gemma) that the original design
// loaded as Hugging Face weights.
type OllamaProvider struct {
	model      string
	apiURL     string
	httpClient *http.Client
}

// NewOllamaProvider creates a provider that talks to Ollama at host
// (e.g. http://localhost:11434).
func NewOllamaProvider(host, model string) *OllamaProvider {
	return &OllamaProvider{
		model:      model,
		apiURL:     strings.TrimRight(host, "/") + ollamaChatPath,
		httpClient: &http.Client{Timeout: ollamaTimeout},
	}
}

// Name implements Provider.
func (p *OllamaProvider) Name() string { return "ollama" }

type ollamaRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  ollamaOptions   `json:"options"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaResponse struct {
	Message ollamaMessage `json:"message"`
}

// Complete sends messages to Ollama and returns the response text.
func (p *OllamaProvider) Complete(ctx context.Context, messages []Message, maxTokens int) (string, error) {
	ollamaMsgs := make([]ollamaMessage, len(messages))
	for i, m := range messages {
		ollamaMsgs[i] = ollamaMessage{Role: m.Role, Content: m.Content}
	}

	reqBody := ollamaRequest{
		Model:    p.model,
		Messages: ollamaMsgs,
		Stream:   false,
		Options:  ollamaOptions{Temperature: 0.7, NumPredict: maxTokens},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama: %w: could not reach %s — is it running? (start with: ollama serve)", ErrProviderUnavailable, p.apiURL)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		errMsg := string(respBody)
		if strings.Contains(errMsg, "model") && strings.Contains(errMsg, "not found") {
			return "", fmt.Errorf("ollama: %w: model %q not found — run: ollama pull %s", ErrProviderUnavailable, p.model, p.model)
		}
		return "", fmt.Errorf("ollama: %w: status %d: %s", ErrProviderUnavailable, resp.StatusCode, errMsg)
	}

	var ollamaResp ollamaResponse
	if err := json.Unmarshal(respBody, &ollamaResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	return strings.TrimSpace(ollamaResp.Message.Content), nil
}
