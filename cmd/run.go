package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/abhisek/studybuddy/internal/app"
	"github.com/abhisek/studybuddy/internal/backend"
	"github.com/abhisek/studybuddy/internal/config"
	"github.com/abhisek/studybuddy/internal/dashboard"
	"github.com/abhisek/studybuddy/internal/direct"
	"github.com/abhisek/studybuddy/internal/journal"
	"github.com/abhisek/studybuddy/internal/llm"
	"github.com/abhisek/studybuddy/internal/logging"
	"github.com/abhisek/studybuddy/internal/ragclient"
)

// flagKeys maps persistent flags onto config keys.
var flagKeys = map[string]string{
	"server":    "server.url",
	"backend":   "backend",
	"journal":   "journal.dsn",
	"log-level": "log.level",
	"log-file":  "log.file",
}

// session bundles everything a command needs to drive the controller.
type session struct {
	cfg     config.Config
	logger  zerolog.Logger
	store   *journal.Store
	ctrl    *dashboard.Controller
	closers []io.Closer
}

func (s *session) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i].Close()
	}
}

// loadConfig merges defaults, the config file, the environment and flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	v := config.NewViper()
	if err := bindFlags(v, cmd); err != nil {
		return config.Config{}, err
	}
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(v, path)
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for name, key := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return errors.Wrapf(err, "bind --%s", name)
		}
	}
	return nil
}

// openSession builds the logger, journal, backend and controller. quiet
// keeps log output off the terminal unless a log file is configured.
func openSession(cmd *cobra.Command, quiet bool) (*session, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg}
	logger, logCloser, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
		Quiet:  quiet,
	})
	if err != nil {
		return nil, err
	}
	s.logger = logger
	s.closers = append(s.closers, logCloser)

	st, err := journal.Open(cfg.Journal.DSN)
	if err != nil {
		s.Close()
		return nil, errors.Wrap(err, "open journal")
	}
	s.store = st
	s.closers = append(s.closers, st)

	b, err := newBackend(ctx, cfg, st.EventRepo(), logger)
	if err != nil {
		s.Close()
		return nil, err
	}

	s.ctrl = dashboard.New(b, dashboard.Options{
		TopK:           cfg.Server.TopK,
		ProbeTempStore: cfg.Status.ProbeTempStore,
		Journal:        st.EventRepo(),
		Logger:         logger,
	})
	logger.Debug().Str("backend", cfg.Backend).Str("session", s.ctrl.SessionID()).Msg("session started")
	return s, nil
}

func newBackend(ctx context.Context, cfg config.Config, repo journal.EventRepo, logger zerolog.Logger) (backend.Backend, error) {
	if cfg.Backend == config.BackendDirect {
		provider, err := llm.NewProvider(ctx, cfg.LLM, repo, logger)
		if err != nil {
			return nil, errors.Wrap(err, "LLM provider")
		}
		dc := direct.DefaultConfig()
		if cfg.LLM.MaxTokens > 0 {
			dc.MaxTokens = cfg.LLM.MaxTokens
		}
		return direct.New(provider, dc), nil
	}

	client, err := ragclient.New(cfg.Server.URL,
		ragclient.WithTimeout(cfg.Server.Timeout),
		ragclient.WithLogger(logger),
	)
	if err != nil {
		return nil, errors.Wrap(err, "study service client")
	}
	return client, nil
}

// runApp launches the dashboard TUI.
func runApp(cmd *cobra.Command) error {
	s, err := openSession(cmd, true)
	if err != nil {
		return err
	}
	defer s.Close()

	return app.Run(s.ctrl)
}

// userError reduces an action error to the banner text.
func userError(err error) error {
	if err == nil {
		return nil
	}
	return errors.New(dashboard.UserMessage(err))
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}

// stdoutIsTerminal is swapped out in tests.
var stdoutIsTerminal = func() bool { return isTerminal(os.Stdout) }
