package llm

import (
	"os"
	"time"

	"github.com/pkg/errors"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config selects and configures the model provider used by the direct
// backend.
type Config struct {
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig

	// Timeout bounds one Generate call.
	Timeout time.Duration

	// MaxTokens caps each response.
	MaxTokens int
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// DefaultConfig returns the defaults used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderAnthropic,
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-001"},
		Timeout:   60 * time.Second,
		MaxTokens: 2048,
	}
}

// envVars maps STUDYBUDDY_* variables onto config fields.
var envVars = []struct {
	name string
	set  func(*Config, string)
}{
	{"STUDYBUDDY_LLM_PROVIDER", func(c *Config, v string) { c.Provider = v }},
	{"STUDYBUDDY_ANTHROPIC_API_KEY", func(c *Config, v string) { c.Anthropic.APIKey = v }},
	{"STUDYBUDDY_ANTHROPIC_MODEL", func(c *Config, v string) { c.Anthropic.Model = v }},
	{"STUDYBUDDY_OPENAI_API_KEY", func(c *Config, v string) { c.OpenAI.APIKey = v }},
	{"STUDYBUDDY_OPENAI_MODEL", func(c *Config, v string) { c.OpenAI.Model = v }},
	{"STUDYBUDDY_OPENAI_BASE_URL", func(c *Config, v string) { c.OpenAI.BaseURL = v }},
	{"STUDYBUDDY_GEMINI_API_KEY", func(c *Config, v string) { c.Gemini.APIKey = v }},
	{"STUDYBUDDY_GEMINI_MODEL", func(c *Config, v string) { c.Gemini.Model = v }},
	{"STUDYBUDDY_OPENROUTER_API_KEY", func(c *Config, v string) { c.OpenRouter.APIKey = v }},
	{"STUDYBUDDY_OPENROUTER_MODEL", func(c *Config, v string) { c.OpenRouter.Model = v }},
}

// ApplyEnv overlays STUDYBUDDY_* environment variables onto cfg.
func ApplyEnv(cfg Config) Config {
	for _, ev := range envVars {
		if v := os.Getenv(ev.name); v != "" {
			ev.set(&cfg, v)
		}
	}
	return cfg
}

// ConfigFromEnv returns DefaultConfig with the environment applied.
func ConfigFromEnv() Config {
	return ApplyEnv(DefaultConfig())
}

// DiscoverConfig looks for the providers' conventional API key variables
// and returns a config for the first one found.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()
	switch {
	case os.Getenv("ANTHROPIC_API_KEY") != "":
		cfg.Provider = ProviderAnthropic
		cfg.Anthropic.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	case os.Getenv("OPENAI_API_KEY") != "":
		cfg.Provider = ProviderOpenAI
		cfg.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	case os.Getenv("GEMINI_API_KEY") != "":
		cfg.Provider = ProviderGemini
		cfg.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	case os.Getenv("OPENROUTER_API_KEY") != "":
		cfg.Provider = ProviderOpenRouter
		cfg.OpenRouter.APIKey = os.Getenv("OPENROUTER_API_KEY")
	default:
		return Config{}, false
	}
	return cfg, true
}

// Validate checks that the selected provider has an API key.
func (c Config) Validate() error {
	var key, envName string
	switch c.Provider {
	case ProviderAnthropic:
		key, envName = c.Anthropic.APIKey, "STUDYBUDDY_ANTHROPIC_API_KEY"
	case ProviderOpenAI:
		key, envName = c.OpenAI.APIKey, "STUDYBUDDY_OPENAI_API_KEY"
	case ProviderGemini:
		key, envName = c.Gemini.APIKey, "STUDYBUDDY_GEMINI_API_KEY"
	case ProviderOpenRouter:
		key, envName = c.OpenRouter.APIKey, "STUDYBUDDY_OPENROUTER_API_KEY"
	case ProviderMock:
		return nil
	default:
		return errors.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key == "" {
		return errors.Errorf("%s is required for the %s provider", envName, c.Provider)
	}
	return nil
}
