// Package llm provides a uniform chat-completion interface over the
// supported model providers (OpenAI, Anthropic, Ollama-hosted models).
package llm

import "context"

// Chat roles shared by every provider.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a provider-agnostic chat message.
type Message struct {
	Role    string
	Content string
}

// Provider is the interface that any model backend must implement.
// New providers can be added without touching call sites: callers
// select a Model and get whatever Provider serves it.
type Provider interface {
	// Complete sends the messages and returns the assistant's reply text.
	// It performs exactly one outbound call; there is no retry loop, so
	// ErrRateLimited and ErrProviderUnavailable surface to the caller.
	Complete(ctx context.Context, messages []Message, maxTokens int) (string, error)
	// Name returns the provider identifier ("openai", "anthropic", "ollama").
	Name() string
}
