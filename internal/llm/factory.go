package llm

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/abhisek/studybuddy/internal/journal"
)

// NewProvider builds the configured provider wrapped with the logging
// decorator. Each call is a single attempt. repo may be nil.
func NewProvider(ctx context.Context, cfg Config, repo journal.EventRepo, logger zerolog.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderMock:
		base = NewMockProvider()
	}
	if err != nil {
		return nil, errors.Wrapf(err, "initializing %s provider", cfg.Provider)
	}

	return WithLogging(base, cfg.Provider, repo, logger.With().Str("component", "llm").Logger()), nil
}
