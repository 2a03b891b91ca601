// Package tutor turns questions and code snippets into Markdown
// explanations by prompting a model provider with a fixed system prompt.
package tutor

import (
	"context"
	"fmt"
	"strings"

	"github.com/williamsnieves/ai-tech-tutor/internal/llm"
)

const systemPrompt = `You are an expert tutor in technology and programming.
Your role is to provide clear and structured explanations in Markdown format about:
- Programming concepts and best practices.
- Code snippets provided by the user, including their functionality and possible optimizations.
- General technology topics, including AI, software development, networking, hardware, and emerging technologies.
- Comparisons between technologies, frameworks, or programming paradigms.
- Recommendations on tools, best practices, and industry trends.
Your responses must be **structured, educational, and formatted in Markdown**.
Use headings, bullet points, code blocks, and bold/italic text where appropriate.`

// DefaultLanguage is used for code snippets when the user does not name one.
const DefaultLanguage = "a programming language"

// Tutor answers questions through a single provider. It holds no state
// across calls; each request builds its own messages.
type Tutor struct {
	provider  llm.Provider
	maxTokens int
}

// New creates a tutor on top of the given provider.
func New(provider llm.Provider, maxTokens int) *Tutor {
	return &Tutor{provider: provider, maxTokens: maxTokens}
}

func userPromptFor(query string, isCode bool, language string) string {
	if isCode {
		if language == "" {
			language = DefaultLanguage
		}
		return fmt.Sprintf("I will provide you with a %s code snippet. Explain it in Markdown.\n```%s\n%s\n```", language, language, query)
	}
	return fmt.Sprintf("**Question:** %s\n\nPlease respond in Markdown format.", query)
}

func messagesFor(query string, isCode bool, language string) []llm.Message {
	return []llm.Message{
		{Role: llm.RoleSystem, Content: systemPrompt},
		{Role: llm.RoleUser, Content: userPromptFor(query, isCode, language)},
	}
}

// Explain asks the model to explain a question or code snippet and
// returns the Markdown reply.
func (t *Tutor) Explain(ctx context.Context, query string, isCode bool, language string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", fmt.Errorf("query is empty")
	}
	reply, err := t.provider.Complete(ctx, messagesFor(query, isCode, language), t.maxTokens)
	if err != nil {
		return "", err
	}
	if reply == "" {
		return "", fmt.Errorf("empty reply from %s", t.provider.Name())
	}
	return reply, nil
}

// Translate renders an already-generated explanation in another
// language, preserving the Markdown structure.
func (t *Tutor) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: fmt.Sprintf("You are a translator. Translate the user's Markdown text into %s. Preserve all Markdown formatting, code blocks and technical terms. Return only the translated text.", targetLanguage)},
		{Role: llm.RoleUser, Content: text},
	}
	translated, err := t.provider.Complete(ctx, messages, t.maxTokens)
	if err != nil {
		return "", err
	}
	return translated, nil
}
