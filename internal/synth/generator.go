package synth

import (
	"context"
	"fmt"

	"github.com/williamsnieves/ai-tech-tutor/internal/llm"
)

const (
	generatorSystemPrompt = "You are a synthetic data generator. Generate realistic and coherent data in JSON format."

	// Large requests are split into batches so each reply stays well
	// inside the token limit.
	defaultBatchSize = 10
	defaultMaxTokens = 1000
)

// Request describes one generation run. Immutable once built; each run
// owns its own request and record set, so concurrent runs share nothing.
type Request struct {
	Domain     Domain
	Samples    int
	SchemaHint map[string]string
	MaxTokens  int
}

// Generator drives prompt → provider → parser for one provider.
type Generator struct {
	provider  llm.Provider
	batchSize int
}

// NewGenerator creates a generator on top of the given provider.
func NewGenerator(provider llm.Provider) *Generator {
	return &Generator{provider: provider, batchSize: defaultBatchSize}
}

// Generate runs the pipeline and returns the recovered rows. The
// requested sample count is a target: the result can hold fewer rows
// when the model under-delivers or individual rows are dropped, and is
// truncated so it never holds more. If no batch yields a single valid
// row the first ParseError surfaces.
func (g *Generator) Generate(ctx context.Context, req Request) (*RecordSet, error) {
	if req.Samples <= 0 {
		return nil, fmt.Errorf("sample count must be positive, got %d", req.Samples)
	}
	schema, err := SchemaFor(req.Domain, req.SchemaHint)
	if err != nil {
		return nil, err
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	result := &RecordSet{Schema: schema.Fields}
	for len(result.Rows) < req.Samples {
		batch := req.Samples - len(result.Rows)
		if batch > g.batchSize {
			batch = g.batchSize
		}

		prompt, err := BuildPrompt(req.Domain, batch, req.SchemaHint)
		if err != nil {
			return nil, err
		}

		reply, err := g.provider.Complete(ctx, []llm.Message{
			{Role: llm.RoleSystem, Content: generatorSystemPrompt},
			{Role: llm.RoleUser, Content: prompt},
		}, maxTokens)
		if err != nil {
			return nil, err
		}

		rs, err := Parse(reply, schema.Fields)
		if err != nil {
			// A failed batch after earlier successes keeps the partial
			// result rather than discarding good rows.
			if len(result.Rows) > 0 {
				break
			}
			return nil, err
		}

		result.Rows = append(result.Rows, rs.Rows...)
		result.Dropped += rs.Dropped
	}

	if len(result.Rows) > req.Samples {
		result.Rows = result.Rows[:req.Samples]
	}
	return result, nil
}
