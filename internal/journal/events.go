package journal

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
)

// eventRepo implements EventRepo on database/sql and the shared sequence
// counter.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
	now func() time.Time
}

var _ EventRepo = (*eventRepo)(nil)

func (r *eventRepo) timestamp() int64 {
	if r.now != nil {
		return r.now().UnixNano()
	}
	return time.Now().UnixNano()
}

func (r *eventRepo) AppendRequest(ctx context.Context, data RequestEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO request_events
		(sequence, timestamp_ns, session_id, action, token, success, applied, latency_ms, shape, summary, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, r.timestamp(), data.SessionID, data.Action, data.Token,
		boolInt(data.Success), boolInt(data.Applied), data.LatencyMs,
		data.Shape, data.Summary, data.ErrorMessage,
	)
	if err != nil {
		return errors.Wrap(err, "save request event")
	}
	return nil
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO llm_events
		(sequence, timestamp_ns, purpose, provider, model, input_tokens, output_tokens, latency_ms, success, error_message, request_body, response_body)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, r.timestamp(), data.Purpose, data.Provider, data.Model,
		data.InputTokens, data.OutputTokens, data.LatencyMs, boolInt(data.Success),
		data.ErrorMessage, data.RequestBody, data.ResponseBody,
	)
	if err != nil {
		return errors.Wrap(err, "save LLM request event")
	}
	return nil
}

func (r *eventRepo) QueryRequests(ctx context.Context, opts QueryOpts) ([]RequestEventRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT
		sequence, timestamp_ns, session_id, action, token, success, applied, latency_ms, shape, summary, error_message
		FROM request_events WHERE sequence > ? AND (? = '' OR session_id = ?)
		ORDER BY sequence DESC LIMIT ?`,
		opts.After, opts.SessionID, opts.SessionID, limitArg(opts.Limit),
	)
	if err != nil {
		return nil, errors.Wrap(err, "query request events")
	}
	defer rows.Close()

	var out []RequestEventRecord
	for rows.Next() {
		var (
			rec              RequestEventRecord
			ts               int64
			success, applied int
		)
		if err := rows.Scan(&rec.Sequence, &ts, &rec.SessionID, &rec.Action, &rec.Token,
			&success, &applied, &rec.LatencyMs, &rec.Shape, &rec.Summary, &rec.ErrorMessage); err != nil {
			return nil, errors.Wrap(err, "scan request event")
		}
		rec.Timestamp = time.Unix(0, ts)
		rec.Success = success != 0
		rec.Applied = applied != 0
		out = append(out, rec)
	}
	return out, errors.Wrap(rows.Err(), "iterate request events")
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT
		sequence, timestamp_ns, purpose, provider, model, input_tokens, output_tokens, latency_ms, success, error_message, request_body, response_body
		FROM llm_events WHERE sequence > ? ORDER BY sequence DESC LIMIT ?`,
		opts.After, limitArg(opts.Limit),
	)
	if err != nil {
		return nil, errors.Wrap(err, "query LLM events")
	}
	defer rows.Close()

	var out []LLMEventRecord
	for rows.Next() {
		var (
			rec     LLMEventRecord
			ts      int64
			success int
		)
		if err := rows.Scan(&rec.Sequence, &ts, &rec.Purpose, &rec.Provider, &rec.Model,
			&rec.InputTokens, &rec.OutputTokens, &rec.LatencyMs, &success,
			&rec.ErrorMessage, &rec.RequestBody, &rec.ResponseBody); err != nil {
			return nil, errors.Wrap(err, "scan LLM event")
		}
		rec.Timestamp = time.Unix(0, ts)
		rec.Success = success != 0
		out = append(out, rec)
	}
	return out, errors.Wrap(rows.Err(), "iterate LLM events")
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// limitArg maps "unlimited" onto SQLite's LIMIT -1.
func limitArg(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}
