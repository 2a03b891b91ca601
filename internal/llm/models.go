package llm

import (
	"fmt"
	"sort"
	"strings"

	"github.com/williamsnieves/ai-tech-tutor/internal/config"
)

// Model is the user-facing model selector. Each model maps to one
// provider and a concrete model ID on that provider's API. The open
// models (llama, phi3, gemma) are served through a local Ollama
// instance rather than in-process weights.
type Model string

const (
	ModelGPT    Model = "gpt"
	ModelClaude Model = "claude"
	ModelLlama  Model = "llama"
	ModelPhi3   Model = "phi3"
	ModelGemma  Model = "gemma"
)

type modelSpec struct {
	provider string
	id       string
}

var catalog = map[Model]modelSpec{
	ModelGPT:    {provider: "openai", id: "gpt-4o-mini"},
	ModelClaude: {provider: "anthropic", id: "claude-3-5-sonnet-latest"},
	ModelLlama:  {provider: "ollama", id: "llama3.2"},
	ModelPhi3:   {provider: "ollama", id: "phi3"},
	ModelGemma:  {provider: "ollama", id: "gemma2"},
}

// ParseModel validates a user-supplied model name.
func ParseModel(s string) (Model, error) {
	m := Model(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := catalog[m]; !ok {
		return "", fmt.Errorf("unsupported model %q (supported: %s)", s, strings.Join(Models(), ", "))
	}
	return m, nil
}

// ProviderName returns the provider that serves this model.
func (m Model) ProviderName() string {
	return catalog[m].provider
}

// ID returns the provider-side model identifier.
func (m Model) ID() string {
	return catalog[m].id
}

// Models lists the supported model names, sorted.
func Models() []string {
	names := make([]string, 0, len(catalog))
	for m := range catalog {
		names = append(names, string(m))
	}
	sort.Strings(names)
	return names
}

// ForModel validates the configuration for the model's provider and
// constructs the matching adapter. Key material comes from cfg, never
// from ambient environment lookups inside the adapters.
func ForModel(cfg *config.Config, m Model) (Provider, error) {
	spec, ok := catalog[m]
	if !ok {
		return nil, fmt.Errorf("unsupported model %q (supported: %s)", m, strings.Join(Models(), ", "))
	}
	if err := cfg.Validate(spec.provider); err != nil {
		return nil, err
	}

	switch spec.provider {
	case "openai":
		return NewOpenAIProvider(cfg.OpenAIKey, spec.id), nil
	case "anthropic":
		return NewAnthropicProvider(cfg.AnthropicKey, spec.id), nil
	default:
		return NewOllamaProvider(cfg.OllamaHost, spec.id), nil
	}
}
