package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/abhisek/studybuddy/internal/journal"
)

// LoggingProvider records every call in the journal and the process log.
type LoggingProvider struct {
	inner    Provider
	provider string
	repo     journal.EventRepo
	logger   zerolog.Logger
}

// WithLogging wraps p. repo may be nil, in which case only the process log
// is written.
func WithLogging(p Provider, providerName string, repo journal.EventRepo, logger zerolog.Logger) Provider {
	return &LoggingProvider{inner: p, provider: providerName, repo: repo, logger: logger}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)
	latency := time.Since(start)

	data := journal.LLMRequestEventData{
		Purpose:     PurposeFrom(ctx),
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		LatencyMs:   latency.Milliseconds(),
		Success:     err == nil,
		RequestBody: serializeRequest(req),
	}
	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			data.Model = resp.Model
		}
		data.ResponseBody = string(resp.Content)
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	ev := l.logger.Debug()
	if err != nil {
		ev = l.logger.Warn().Err(err)
	}
	ev = ev.Str("provider", data.Provider).
		Str("model", data.Model).
		Str("purpose", data.Purpose).
		Dur("latency", latency).
		Int("input_tokens", data.InputTokens).
		Int("output_tokens", data.OutputTokens)
	if cost := LookupCost(data.Model); cost != nil {
		ev = ev.Float64("cost_usd", cost.Cost(data.InputTokens, data.OutputTokens))
	}
	ev.Msg("model request")

	if l.repo != nil {
		if logErr := l.repo.AppendLLMRequest(ctx, data); logErr != nil {
			l.logger.Warn().Err(logErr).Msg("failed to journal model request")
		}
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}
	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}
	return b.String()
}
