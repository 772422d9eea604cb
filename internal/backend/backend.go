package backend

import (
	"context"
	"errors"
	"io"

	"github.com/abhisek/studybuddy/internal/normalize"
	"github.com/abhisek/studybuddy/internal/status"
)

// ErrUnsupported is returned by backends that cannot perform an action.
var ErrUnsupported = errors.New("not supported by this backend")

// Backend is the study service as seen by the dashboard. Action methods
// return the raw response body; decoding is left to the normalize package
// so that every payload shape goes through one tolerant decoder.
type Backend interface {
	status.Prober

	// Upload indexes a document, temporarily or permanently.
	Upload(ctx context.Context, doc Document) ([]byte, error)

	// Ask answers a question against the indexed documents.
	Ask(ctx context.Context, req AskRequest) ([]byte, error)

	// GenerateQuiz produces quiz questions for a topic.
	GenerateQuiz(ctx context.Context, req QuizRequest) ([]byte, error)

	// ClearTemp empties the temporary store.
	ClearTemp(ctx context.Context) ([]byte, error)
}

// Document is a file to index.
type Document struct {
	Name      string
	Content   io.Reader
	Permanent bool
}

// AskRequest is a question for the retrieval service.
type AskRequest struct {
	Query string
	TopK  int
}

// Variant selects which quiz endpoint is used.
type Variant string

const (
	// VariantTopic generates questions for a free-form topic.
	VariantTopic Variant = "topic"

	// VariantMock generates a titled mock test from the indexed material.
	VariantMock Variant = "mock"
)

// ParseVariant returns the variant named by s.
func ParseVariant(s string) (Variant, bool) {
	switch Variant(s) {
	case VariantTopic, VariantMock:
		return Variant(s), true
	}
	return "", false
}

// QuizRequest describes a quiz to generate.
type QuizRequest struct {
	Topic        string
	NumQuestions int
	Difficulty   normalize.Difficulty
	Variant      Variant
}
