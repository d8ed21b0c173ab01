package qualitative

import (
	"context"

	"github.com/sells-group/assess-cli/internal/resilience"
	"github.com/sells-group/assess-cli/pkg/anthropic"
	"github.com/sells-group/assess-cli/pkg/gemini"
)

// Generator sends a prompt to a model and returns its raw text reply.
// Implementations mark retryable failures with resilience.Transient.
type Generator interface {
	Generate(ctx context.Context, p Prompt) (string, error)
	Provider() string
}

// Provider names.
const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

type anthropicGenerator struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewAnthropicGenerator adapts an Anthropic client. The schema is embedded
// in the system prompt since the Messages API has no response schema.
func NewAnthropicGenerator(client anthropic.Client, model string, maxTokens int64) Generator {
	return &anthropicGenerator{client: client, model: model, maxTokens: maxTokens}
}

func (g *anthropicGenerator) Provider() string { return ProviderAnthropic }

func (g *anthropicGenerator) Generate(ctx context.Context, p Prompt) (string, error) {
	temp := 0.2
	resp, err := g.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       g.model,
		MaxTokens:   g.maxTokens,
		System:      p.System + "\n\nThe JSON object must match this JSON schema:\n" + p.Schema.String(),
		Messages:    []anthropic.Message{{Role: "user", Content: p.User}},
		Temperature: &temp,
	})
	if err != nil {
		return "", classify(err, anthropic.StatusCode(err))
	}
	resp.Usage.LogCost(g.model, "qualitative")
	return resp.Text(), nil
}

type geminiGenerator struct {
	client gemini.Client
	model  string
}

// NewGeminiGenerator adapts a Gemini client using native structured output.
func NewGeminiGenerator(client gemini.Client, model string) Generator {
	return &geminiGenerator{client: client, model: model}
}

func (g *geminiGenerator) Provider() string { return ProviderGemini }

func (g *geminiGenerator) Generate(ctx context.Context, p Prompt) (string, error) {
	resp, err := g.client.Generate(ctx, gemini.Request{
		Model:  g.model,
		System: p.System,
		Prompt: p.User,
		Schema: p.Schema.doc,
	})
	if err != nil {
		return "", classify(err, gemini.StatusCode(err))
	}
	return resp.Text, nil
}

// classify marks throttling and server errors as retryable.
func classify(err error, status int) error {
	if status != 0 && resilience.TransientStatus(status) {
		return resilience.Transient(err, status)
	}
	return err
}
