// Package dashboard holds the per-session state behind both the TUI and
// the CLI: the conversation, the current quiz, the last status snapshot,
// the error banner and what is in flight.
package dashboard

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/abhisek/studybuddy/internal/backend"
	"github.com/abhisek/studybuddy/internal/conversation"
	"github.com/abhisek/studybuddy/internal/correlate"
	"github.com/abhisek/studybuddy/internal/journal"
	"github.com/abhisek/studybuddy/internal/normalize"
	"github.com/abhisek/studybuddy/internal/status"
)

// Action names a user action. They double as journal action names.
type Action string

const (
	ActionStatus    Action = "status"
	ActionAsk       Action = "ask"
	ActionQuiz      Action = "quiz"
	ActionUpload    Action = "upload"
	ActionClearTemp Action = "clear-temp"
)

// Slots for actions where only the newest request may apply its result.
const (
	QuizSlot   correlate.Slot = "quiz"
	StatusSlot correlate.Slot = "status"
)

// Options configures a Controller.
type Options struct {
	TopK           int
	ProbeTempStore bool

	// Journal records each action. Nil disables journaling.
	Journal journal.EventRepo
	Logger  zerolog.Logger
}

// Controller is the session state owner. All methods are safe for
// concurrent use; network calls are made without holding locks.
type Controller struct {
	backend   backend.Backend
	opts      Options
	sessionID string

	corr  *correlate.Correlator
	turns *conversation.Log
	cache *status.Cache
	now   func() time.Time

	mu     sync.Mutex
	banner string
	busy   map[Action]int
	quiz   QuizState
}

func New(b backend.Backend, opts Options) *Controller {
	if opts.TopK <= 0 {
		opts.TopK = 5
	}
	corr := correlate.New()
	sessionID := uuid.NewString()
	opts.Logger = opts.Logger.With().Str("session", sessionID).Logger()
	return &Controller{
		backend:   b,
		opts:      opts,
		sessionID: sessionID,
		corr:      corr,
		turns:     conversation.NewLog(corr),
		cache:     status.NewCache(),
		now:       time.Now,
		busy:      make(map[Action]int),
	}
}

// SessionID identifies this session in the journal and logs.
func (c *Controller) SessionID() string {
	return c.sessionID
}

// Banner returns the current error banner text, or "".
func (c *Controller) Banner() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.banner
}

// ClearBanner dismisses the error banner.
func (c *Controller) ClearBanner() {
	c.setBanner("")
}

func (c *Controller) setBanner(msg string) {
	c.mu.Lock()
	c.banner = msg
	c.mu.Unlock()
}

func (c *Controller) fail(err error) string {
	msg := UserMessage(err)
	c.setBanner(msg)
	return msg
}

// Busy reports whether an action of kind a is in flight.
func (c *Controller) Busy(a Action) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy[a] > 0
}

// AnyBusy reports whether any action is in flight.
func (c *Controller) AnyBusy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, n := range c.busy {
		if n > 0 {
			return true
		}
	}
	return false
}

func (c *Controller) enter(a Action) {
	c.mu.Lock()
	c.busy[a]++
	c.mu.Unlock()
}

func (c *Controller) leave(a Action) {
	c.mu.Lock()
	if c.busy[a] > 0 {
		c.busy[a]--
	}
	c.mu.Unlock()
}

// Conversation returns the turns, oldest first.
func (c *Controller) Conversation() []conversation.Turn {
	return c.turns.Snapshot()
}

// Status returns the cached snapshot and whether a refresh has completed.
func (c *Controller) Status() (status.Snapshot, bool) {
	s, _, ok := c.cache.Load()
	return s, ok
}

// StatusAge returns when the cached snapshot was taken.
func (c *Controller) StatusAge() time.Time {
	_, at, _ := c.cache.Load()
	return at
}

// RefreshStatus probes the service and caches the aggregated snapshot. The
// returned snapshot is the cached one, which stays unchanged when a newer
// refresh started while this one was in flight.
func (c *Controller) RefreshStatus(ctx context.Context) status.Snapshot {
	c.enter(ActionStatus)
	defer c.leave(ActionStatus)

	tok := c.corr.Begin(StatusSlot)
	start := c.now()
	report := status.Collect(ctx, c.backend, status.CollectOptions{ProbeTempStore: c.opts.ProbeTempStore})

	applied := c.corr.TryResolve(tok)
	if applied {
		c.cache.Store(report.Snapshot, c.now())
	}

	ev := c.opts.Logger.Debug()
	if report.PrimaryErr != nil {
		ev = c.opts.Logger.Warn().AnErr("primary_err", report.PrimaryErr)
	}
	ev.AnErr("temp_err", report.TempErr).
		Str("api", string(report.Snapshot.API)).
		Int("documents", report.Snapshot.PermanentDocCount).
		Bool("applied", applied).
		Msg("status refreshed")

	c.record(ctx, journal.RequestEventData{
		Action:       string(ActionStatus),
		Token:        tok.String(),
		Success:      report.PrimaryErr == nil,
		Applied:      applied,
		LatencyMs:    c.now().Sub(start).Milliseconds(),
		Summary:      statusSummary(report.Snapshot),
		ErrorMessage: errString(report.PrimaryErr),
	})

	snap, _, _ := c.cache.Load()
	return snap
}

// Upload indexes a document and refreshes status on success.
func (c *Controller) Upload(ctx context.Context, name string, content io.Reader, permanent bool) (normalize.UploadResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		err := invalid("file", "Choose a file to upload.")
		c.fail(err)
		return normalize.UploadResult{}, err
	}

	c.enter(ActionUpload)
	defer c.leave(ActionUpload)

	start := c.now()
	raw, err := c.backend.Upload(ctx, backend.Document{Name: name, Content: content, Permanent: permanent})
	ev := journal.RequestEventData{
		Action:    string(ActionUpload),
		Success:   err == nil,
		Applied:   err == nil,
		LatencyMs: c.now().Sub(start).Milliseconds(),
	}
	if err != nil {
		ev.ErrorMessage = c.fail(err)
		c.record(ctx, ev)
		c.opts.Logger.Warn().Err(err).Str("file", name).Msg("upload failed")
		return normalize.UploadResult{}, err
	}

	res := normalize.NormalizeUpload(raw)
	if res.Filename == "" {
		res.Filename = name
	}
	ev.Summary = uploadSummary(res)
	c.record(ctx, ev)
	c.opts.Logger.Info().Str("file", name).Bool("temporary", res.Temporary).Msg("document uploaded")

	c.RefreshStatus(ctx)
	return res, nil
}

// UploadFile uploads the file at path under its base name. A file that
// cannot be opened is reported like any other invalid input.
func (c *Controller) UploadFile(ctx context.Context, path string, permanent bool) (normalize.UploadResult, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return c.Upload(ctx, "", nil, permanent)
	}
	f, err := os.Open(path)
	if err != nil {
		reason := err.Error()
		var pe *fs.PathError
		if errors.As(err, &pe) {
			reason = pe.Err.Error()
		}
		verr := invalid("file", "Cannot open "+filepath.Base(path)+": "+reason+".")
		c.fail(verr)
		return normalize.UploadResult{}, verr
	}
	defer f.Close()
	return c.Upload(ctx, filepath.Base(path), f, permanent)
}

// ClearTemp empties the temporary store and refreshes status on success.
// It returns the service's message.
func (c *Controller) ClearTemp(ctx context.Context) (string, error) {
	c.enter(ActionClearTemp)
	defer c.leave(ActionClearTemp)

	start := c.now()
	raw, err := c.backend.ClearTemp(ctx)
	ev := journal.RequestEventData{
		Action:    string(ActionClearTemp),
		Success:   err == nil,
		Applied:   err == nil,
		LatencyMs: c.now().Sub(start).Milliseconds(),
	}
	if err != nil {
		ev.ErrorMessage = c.fail(err)
		c.record(ctx, ev)
		return "", err
	}

	res := normalize.NormalizeUpload(raw)
	msg := res.Message
	if msg == "" {
		msg = res.Status
	}
	if msg == "" {
		msg = "Temporary store cleared."
	}
	ev.Summary = msg
	c.record(ctx, ev)

	c.RefreshStatus(ctx)
	return msg, nil
}

// History returns this session's journaled actions, newest first.
func (c *Controller) History(ctx context.Context, limit int) ([]journal.RequestEventRecord, error) {
	if c.opts.Journal == nil {
		return nil, nil
	}
	return c.opts.Journal.QueryRequests(ctx, journal.QueryOpts{Limit: limit, SessionID: c.sessionID})
}

// record journals ev. Failures are logged and otherwise ignored.
func (c *Controller) record(ctx context.Context, ev journal.RequestEventData) {
	if c.opts.Journal == nil {
		return
	}
	ev.SessionID = c.sessionID
	if err := c.opts.Journal.AppendRequest(context.WithoutCancel(ctx), ev); err != nil {
		c.opts.Logger.Warn().Err(err).Str("action", ev.Action).Msg("failed to journal action")
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
