// Package config loads studybuddy settings from defaults, an optional YAML
// file, STUDYBUDDY_* environment variables and command-line flags.
package config

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/abhisek/studybuddy/internal/backend"
	"github.com/abhisek/studybuddy/internal/journal"
	"github.com/abhisek/studybuddy/internal/llm"
	"github.com/abhisek/studybuddy/internal/normalize"
)

// Backend kinds.
const (
	BackendHTTP   = "http"
	BackendDirect = "direct"
)

// Log formats.
const (
	LogFormatAuto    = "auto"
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

const envPrefix = "STUDYBUDDY"

type Config struct {
	Server  ServerConfig
	Backend string
	Quiz    QuizConfig
	Status  StatusConfig
	Log     LogConfig
	Journal JournalConfig
	LLM     llm.Config
}

type ServerConfig struct {
	URL     string
	Timeout time.Duration
	TopK    int
}

type QuizConfig struct {
	Variant      backend.Variant
	NumQuestions int
	Difficulty   normalize.Difficulty
}

type StatusConfig struct {
	// ProbeTempStore enables the secondary status probe.
	ProbeTempStore bool
}

type LogConfig struct {
	Level  string
	Format string
	File   string
}

type JournalConfig struct {
	DSN string
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			URL:     "http://127.0.0.1:8000",
			Timeout: 60 * time.Second,
			TopK:    5,
		},
		Backend: BackendHTTP,
		Quiz: QuizConfig{
			Variant:      backend.VariantTopic,
			NumQuestions: 5,
			Difficulty:   normalize.Medium,
		},
		Status:  StatusConfig{ProbeTempStore: true},
		Log:     LogConfig{Level: "info", Format: LogFormatAuto},
		Journal: JournalConfig{DSN: journal.DefaultDSN},
		LLM:     llm.DefaultConfig(),
	}
}

// NewViper returns a viper instance with defaults and environment binding
// set up. Flags are bound to it by the caller.
func NewViper() *viper.Viper {
	v := viper.New()
	d := DefaultConfig()

	v.SetDefault("server.url", d.Server.URL)
	v.SetDefault("server.timeout", d.Server.Timeout)
	v.SetDefault("server.top_k", d.Server.TopK)
	v.SetDefault("backend", d.Backend)
	v.SetDefault("quiz.variant", string(d.Quiz.Variant))
	v.SetDefault("quiz.num_questions", d.Quiz.NumQuestions)
	v.SetDefault("quiz.difficulty", string(d.Quiz.Difficulty))
	v.SetDefault("status.probe_temp_store", d.Status.ProbeTempStore)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("journal.dsn", d.Journal.DSN)

	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.timeout", d.LLM.Timeout)
	v.SetDefault("llm.max_tokens", d.LLM.MaxTokens)
	v.SetDefault("llm.anthropic.model", d.LLM.Anthropic.Model)
	v.SetDefault("llm.openai.model", d.LLM.OpenAI.Model)
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.gemini.model", d.LLM.Gemini.Model)
	v.SetDefault("llm.openrouter.model", d.LLM.OpenRouter.Model)
	v.SetDefault("llm.openrouter.base_url", "")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// DefaultPath is where Load looks for a config file when none is given.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "studybuddy", "config.yaml")
}

// Load reads the config file (path, or DefaultPath when empty) into v and
// builds a Config. A missing default file is not an error; a missing
// explicit file is.
func Load(v *viper.Viper, path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			if explicit {
				return Config{}, errors.Wrapf(err, "config file %s", path)
			}
		} else {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return Config{}, errors.Wrapf(err, "read config %s", path)
			}
		}
	}
	return FromViper(v), nil
}

// FromViper builds a Config from already-loaded settings.
func FromViper(v *viper.Viper) Config {
	cfg := Config{
		Server: ServerConfig{
			URL:     strings.TrimSpace(v.GetString("server.url")),
			Timeout: v.GetDuration("server.timeout"),
			TopK:    v.GetInt("server.top_k"),
		},
		Backend: strings.ToLower(strings.TrimSpace(v.GetString("backend"))),
		Quiz: QuizConfig{
			Variant:      backend.Variant(strings.ToLower(strings.TrimSpace(v.GetString("quiz.variant")))),
			NumQuestions: v.GetInt("quiz.num_questions"),
			Difficulty:   normalize.ParseDifficulty(v.GetString("quiz.difficulty")),
		},
		Status: StatusConfig{ProbeTempStore: v.GetBool("status.probe_temp_store")},
		Log: LogConfig{
			Level:  strings.ToLower(v.GetString("log.level")),
			Format: strings.ToLower(v.GetString("log.format")),
			File:   v.GetString("log.file"),
		},
		Journal: JournalConfig{DSN: v.GetString("journal.dsn")},
	}

	lc := llm.DefaultConfig()
	lc.Timeout = v.GetDuration("llm.timeout")
	lc.MaxTokens = v.GetInt("llm.max_tokens")
	lc.Anthropic.APIKey = v.GetString("llm.anthropic.api_key")
	lc.Anthropic.Model = v.GetString("llm.anthropic.model")
	lc.OpenAI.APIKey = v.GetString("llm.openai.api_key")
	lc.OpenAI.Model = v.GetString("llm.openai.model")
	lc.OpenAI.BaseURL = v.GetString("llm.openai.base_url")
	lc.Gemini.APIKey = v.GetString("llm.gemini.api_key")
	lc.Gemini.Model = v.GetString("llm.gemini.model")
	lc.OpenRouter.APIKey = v.GetString("llm.openrouter.api_key")
	lc.OpenRouter.Model = v.GetString("llm.openrouter.model")
	lc.OpenRouter.BaseURL = v.GetString("llm.openrouter.base_url")

	provider := v.GetString("llm.provider")
	if provider != "" {
		lc.Provider = provider
	}
	lc = llm.ApplyEnv(lc)

	// With no provider chosen anywhere, fall back to whichever vendor key
	// is present in the environment.
	if provider == "" && os.Getenv("STUDYBUDDY_LLM_PROVIDER") == "" && lc.Validate() != nil {
		if found, ok := llm.DiscoverConfig(); ok {
			found.Timeout, found.MaxTokens = lc.Timeout, lc.MaxTokens
			lc = found
		}
	}
	cfg.LLM = lc
	return cfg
}

// Validate checks the settings needed by the selected backend.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendHTTP:
		u, err := url.Parse(c.Server.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return errors.Errorf("server.url must be an absolute http(s) URL, got %q", c.Server.URL)
		}
	case BackendDirect:
		if err := c.LLM.Validate(); err != nil {
			return errors.Wrap(err, "direct backend")
		}
	default:
		return errors.Errorf("unknown backend %q (want %s or %s)", c.Backend, BackendHTTP, BackendDirect)
	}

	if _, ok := backend.ParseVariant(string(c.Quiz.Variant)); !ok {
		return errors.Errorf("unknown quiz variant %q", c.Quiz.Variant)
	}
	if c.Quiz.NumQuestions <= 0 {
		return errors.Errorf("quiz.num_questions must be positive, got %d", c.Quiz.NumQuestions)
	}
	if !c.Quiz.Difficulty.Valid() {
		return errors.Errorf("unknown quiz difficulty %q", c.Quiz.Difficulty)
	}
	if c.Server.TopK <= 0 {
		return errors.Errorf("server.top_k must be positive, got %d", c.Server.TopK)
	}
	if c.Server.Timeout <= 0 {
		return errors.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}
	switch c.Log.Format {
	case LogFormatAuto, LogFormatConsole, LogFormatJSON:
	default:
		return errors.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}
