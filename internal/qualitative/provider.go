package qualitative

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/assess-cli/internal/config"
	"github.com/sells-group/assess-cli/internal/resilience"
	"github.com/sells-group/assess-cli/pkg/anthropic"
	"github.com/sells-group/assess-cli/pkg/gemini"
)

// Open builds the Assessor for the configured provider.
func Open(ctx context.Context, cfg *config.Config) (*Assessor, error) {
	gen, err := NewGenerator(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return New(gen, NewGuard(gen.Provider(), cfg.Assessor)), nil
}

// NewGenerator constructs the model client named by assessor.provider.
func NewGenerator(ctx context.Context, cfg *config.Config) (Generator, error) {
	switch cfg.Assessor.Provider {
	case ProviderAnthropic:
		if cfg.Anthropic.Key == "" {
			return nil, eris.New("qualitative: anthropic.key is required")
		}
		return NewAnthropicGenerator(anthropic.NewClient(cfg.Anthropic.Key), cfg.Anthropic.Model, cfg.Anthropic.MaxTokens), nil
	case ProviderGemini, "":
		if cfg.Gemini.Key == "" {
			return nil, eris.New("qualitative: gemini.key is required")
		}
		c, err := gemini.NewClient(ctx, gemini.Config{APIKey: cfg.Gemini.Key})
		if err != nil {
			return nil, err
		}
		return NewGeminiGenerator(c, cfg.Gemini.Model), nil
	}
	return nil, eris.New(fmt.Sprintf("qualitative: unknown provider %q", cfg.Assessor.Provider))
}

// NewGuard maps the assessor settings onto a call policy.
func NewGuard(name string, a config.AssessorConfig) *resilience.Guard {
	return resilience.NewGuard(name, resilience.Policy{
		Timeout:          a.Timeout(),
		Attempts:         a.RetryAttempts,
		InitialBackoff:   time.Duration(a.RetryBackoffMillis) * time.Millisecond,
		BreakerThreshold: a.BreakerThreshold,
		BreakerCooldown:  time.Duration(a.BreakerCooldownSecs) * time.Second,
	})
}
