// Package direct implements backend.Backend on top of a language model,
// for use when no retrieval service is running. There is no document
// store: answers come from the model's general knowledge.
package direct

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"

	"github.com/abhisek/studybuddy/internal/backend"
	"github.com/abhisek/studybuddy/internal/llm"
	"github.com/abhisek/studybuddy/internal/status"
)

// StatusText is reported by Status.
const StatusText = "ok (direct model, no documents)"

// Config tunes generation.
type Config struct {
	MaxTokens         int
	AnswerTemperature float64
	QuizTemperature   float64
}

// DefaultConfig mirrors the temperatures the retrieval service uses.
func DefaultConfig() Config {
	return Config{
		MaxTokens:         2048,
		AnswerTemperature: 0.1,
		QuizTemperature:   0.4,
	}
}

// Backend answers and writes quizzes with an llm.Provider.
type Backend struct {
	provider llm.Provider
	config   Config
}

var _ backend.Backend = (*Backend)(nil)

func New(provider llm.Provider, cfg Config) *Backend {
	return &Backend{provider: provider, config: cfg}
}

// Status always succeeds: the model is reached lazily on the first action.
func (b *Backend) Status(context.Context) (status.PrimaryStatus, error) {
	return status.PrimaryStatus{Status: StatusText, DocumentsLoaded: 0}, nil
}

// TempStatus is unsupported; there is no temporary store.
func (b *Backend) TempStatus(context.Context) (status.TempStoreStatus, error) {
	return status.TempStoreStatus{}, errors.Wrap(backend.ErrUnsupported, "temp store status")
}

func (b *Backend) Upload(context.Context, backend.Document) ([]byte, error) {
	return nil, errors.Wrap(backend.ErrUnsupported, "upload")
}

func (b *Backend) ClearTemp(context.Context) ([]byte, error) {
	return nil, errors.Wrap(backend.ErrUnsupported, "clear temp store")
}

// Ask returns {"query": ..., "answer": ...}, the same shape as the
// service's query endpoint.
func (b *Backend) Ask(ctx context.Context, req backend.AskRequest) ([]byte, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeAnswer)

	resp, err := b.provider.Generate(ctx, llm.Request{
		System:      answerSystemPrompt,
		Messages:    llm.UserPrompt(strings.TrimSpace(req.Query)),
		Schema:      AnswerSchema,
		MaxTokens:   b.config.MaxTokens,
		Temperature: b.config.AnswerTemperature,
	})
	if err != nil {
		return nil, errors.Wrap(err, "generate answer")
	}

	var out struct {
		Answer string `json:"answer"`
	}
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, errors.Wrap(err, "decode answer")
	}
	body, err := json.Marshal(map[string]string{"query": req.Query, "answer": out.Answer})
	return body, errors.Wrap(err, "encode answer")
}

// GenerateQuiz returns the model's JSON unchanged so it is decoded by the
// normalizer like any service payload.
func (b *Backend) GenerateQuiz(ctx context.Context, req backend.QuizRequest) ([]byte, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeQuiz)

	schema := QuizSchema
	if req.Variant == backend.VariantMock {
		schema = MockTestSchema
	}

	resp, err := b.provider.Generate(ctx, llm.Request{
		System:      quizSystemPrompt,
		Messages:    llm.UserPrompt(buildQuizMessage(req)),
		Schema:      schema,
		MaxTokens:   b.config.MaxTokens,
		Temperature: b.config.QuizTemperature,
	})
	if err != nil {
		return nil, errors.Wrap(err, "generate quiz")
	}
	return []byte(resp.Content), nil
}
