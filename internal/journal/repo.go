package journal

import (
	"context"
	"time"
)

// QueryOpts configures event queries. Results are newest first.
type QueryOpts struct {
	Limit     int    // max results (0 = unlimited)
	After     int64  // sequence > After
	SessionID string // request events from this session only; empty matches all
}

// RequestEventData captures one user action against the study service.
type RequestEventData struct {
	SessionID string
	Action    string // "status", "ask", "quiz", "upload", "clear-temp"
	Token     string
	Success   bool

	// Applied is false when the result arrived but was no longer wanted,
	// e.g. an older quiz request finishing after a newer one started.
	Applied bool

	LatencyMs    int64
	Shape        string // payload shape reported by the normalizer
	Summary      string
	ErrorMessage string
}

// RequestEventRecord is a stored request event.
type RequestEventRecord struct {
	RequestEventData
	Sequence  int64
	Timestamp time.Time
}

// LLMRequestEventData captures a single LLM call made by the direct backend.
type LLMRequestEventData struct {
	Purpose      string
	Provider     string
	Model        string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEventRecord is a stored LLM call event.
type LLMEventRecord struct {
	LLMRequestEventData
	Sequence  int64
	Timestamp time.Time
}

// EventRepo provides append and query access to journal events.
type EventRepo interface {
	// AppendRequest records a user action and its outcome.
	AppendRequest(ctx context.Context, data RequestEventData) error

	// AppendLLMRequest records an LLM API call.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryRequests returns request events, newest first.
	QueryRequests(ctx context.Context, opts QueryOpts) ([]RequestEventRecord, error)

	// QueryLLMEvents returns LLM call events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error)
}
