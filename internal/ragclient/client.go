package ragclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/abhisek/studybuddy/internal/backend"
	"github.com/abhisek/studybuddy/internal/status"
)

// DefaultTimeout bounds a single call to the study service.
const DefaultTimeout = 60 * time.Second

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 8 << 20

// Client talks to the study service's REST API. One attempt is made per
// call; failures surface as *backend.TransportError.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

var _ backend.Backend = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithLogger sets the logger used for per-call debug records.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for the service at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, errors.Wrapf(err, "parse server URL %q", baseURL)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errors.Errorf("server URL %q must be an absolute http(s) URL", baseURL)
	}

	c := &Client{
		baseURL:    strings.TrimRight(u.String(), "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the service root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Status calls GET /info/status.
func (c *Client) Status(ctx context.Context) (status.PrimaryStatus, error) {
	body, err := c.do(ctx, "status", http.MethodGet, "/info/status", nil, "")
	if err != nil {
		return status.PrimaryStatus{}, err
	}
	st, err := status.ParsePrimary(body)
	if err != nil {
		return status.PrimaryStatus{}, errors.Wrap(err, "status")
	}
	return st, nil
}

// TempStatus calls GET /rag/check_temp_status.
func (c *Client) TempStatus(ctx context.Context) (status.TempStoreStatus, error) {
	body, err := c.do(ctx, "temp-status", http.MethodGet, "/rag/check_temp_status", nil, "")
	if err != nil {
		return status.TempStoreStatus{}, err
	}
	st, err := status.ParseTempStore(body)
	if err != nil {
		return status.TempStoreStatus{}, errors.Wrap(err, "temp-status")
	}
	return st, nil
}

// Upload sends doc as a multipart form to POST /rag/upload.
func (c *Client) Upload(ctx context.Context, doc backend.Document) ([]byte, error) {
	if doc.Content == nil {
		return nil, errors.New("upload: document has no content")
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", doc.Name)
	if err != nil {
		return nil, errors.Wrap(err, "upload: create form file")
	}
	if _, err := io.Copy(part, doc.Content); err != nil {
		return nil, errors.Wrap(err, "upload: read document")
	}
	if err := mw.Close(); err != nil {
		return nil, errors.Wrap(err, "upload: close form")
	}

	path := "/rag/upload?save_permanent=" + strconv.FormatBool(doc.Permanent)
	return c.do(ctx, "upload", http.MethodPost, path, &buf, mw.FormDataContentType())
}

type askBody struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

// Ask calls POST /rag/temp_query.
func (c *Client) Ask(ctx context.Context, req backend.AskRequest) ([]byte, error) {
	return c.postJSON(ctx, "ask", "/rag/temp_query", askBody{Query: req.Query, TopK: req.TopK})
}

type topicQuizBody struct {
	Topic        string `json:"topic"`
	NumQuestions int    `json:"num_questions"`
	Difficulty   string `json:"difficulty,omitempty"`
}

type mockQuizBody struct {
	NumQuestions    int    `json:"num_questions"`
	DifficultyLevel string `json:"difficulty_level"`
}

// GenerateQuiz calls POST /generate-quiz for the topic variant and
// POST /mock/generate for the mock-test variant.
func (c *Client) GenerateQuiz(ctx context.Context, req backend.QuizRequest) ([]byte, error) {
	switch req.Variant {
	case backend.VariantMock:
		return c.postJSON(ctx, "quiz", "/mock/generate", mockQuizBody{
			NumQuestions:    req.NumQuestions,
			DifficultyLevel: string(req.Difficulty),
		})
	case backend.VariantTopic, "":
		return c.postJSON(ctx, "quiz", "/generate-quiz", topicQuizBody{
			Topic:        req.Topic,
			NumQuestions: req.NumQuestions,
			Difficulty:   string(req.Difficulty),
		})
	}
	return nil, errors.Errorf("quiz: unknown variant %q", req.Variant)
}

// ClearTemp calls GET /rag/clear_temp.
func (c *Client) ClearTemp(ctx context.Context) ([]byte, error) {
	return c.do(ctx, "clear-temp", http.MethodGet, "/rag/clear_temp", nil, "")
}

func (c *Client) postJSON(ctx context.Context, op, path string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: marshal request", op)
	}
	return c.do(ctx, op, http.MethodPost, path, bytes.NewReader(data), "application/json")
}

func (c *Client) do(ctx context.Context, op, method, path string, body io.Reader, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: create request", op)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Str("op", op).Str("path", path).Msg("study service unreachable")
		return nil, &backend.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, &backend.TransportError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Detail:     "The study service response could not be read.",
			Err:        errors.Wrap(err, "read response"),
		}
	}
	if len(data) > maxBodyBytes {
		return nil, &backend.TransportError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Detail:     "The study service response was too large.",
			Err:        errors.Errorf("response exceeds %d bytes", maxBodyBytes),
		}
	}

	c.logger.Debug().
		Str("op", op).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Int("bytes", len(data)).
		Dur("latency", time.Since(start)).
		Msg("study service call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &backend.TransportError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Detail:     backend.ParseDetail(data),
			Err:        fmt.Errorf("HTTP %d", resp.StatusCode),
		}
	}
	return data, nil
}
