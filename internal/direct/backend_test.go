package direct

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studybuddy/internal/backend"
	"github.com/abhisek/studybuddy/internal/llm"
	"github.com/abhisek/studybuddy/internal/normalize"
	"github.com/abhisek/studybuddy/internal/status"
)

const topicQuiz = `{"questions":[
 {"question_text":"Which layer routes packets?","options":{"A":"Physical","B":"Network","C":"Session","D":"Application"},
  "correct_answer":"B","explanation":"Routing is a network layer concern.","difficulty":"Easy"},
 {"question_text":"TCP is ...","options":{"A":"Connectionless","B":"Unreliable","C":"Connection-oriented","D":"A link protocol"},
  "correct_answer":"C","explanation":"TCP sets up a connection first.","difficulty":"Easy"}]}`

func TestBackend_Ask(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"answer":"The **mitochondria**."}`)})
	b := New(mock, DefaultConfig())

	raw, err := b.Ask(context.Background(), backend.AskRequest{Query: "  Powerhouse of the cell?  ", TopK: 3})
	require.NoError(t, err)

	ans := normalize.NormalizeAnswer(raw)
	assert.Equal(t, "The **mitochondria**.", ans.Text)
	assert.Equal(t, normalize.SourceUnknown, ans.Source.Kind)

	call, ok := mock.LastCall()
	require.True(t, ok)
	assert.Equal(t, AnswerSchema, call.Schema)
	assert.Equal(t, "Powerhouse of the cell?", call.Messages[0].Content)
	assert.InDelta(t, 0.1, call.Temperature, 1e-9)
}

func TestBackend_AskProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.RateLimitError{Err: errors.New("429")}})
	_, err := New(mock, DefaultConfig()).Ask(context.Background(), backend.AskRequest{Query: "q"})

	var rl *llm.RateLimitError
	assert.ErrorAs(t, err, &rl)
}

func TestBackend_TopicQuiz(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(topicQuiz)})
	b := New(mock, DefaultConfig())

	raw, err := b.GenerateQuiz(context.Background(), backend.QuizRequest{
		Topic: "Networking", NumQuestions: 2, Difficulty: normalize.Easy, Variant: backend.VariantTopic,
	})
	require.NoError(t, err)

	res := normalize.Decode(raw)
	require.NoError(t, res.Err)
	assert.Equal(t, normalize.ShapeWrapped, res.Shape)
	require.Len(t, res.Questions, 2)

	q := res.Questions[0]
	assert.Equal(t, "Which layer routes packets?", q.Text)
	require.Len(t, q.Options, 4)
	assert.Equal(t, "A", q.Options[0].Label)
	assert.Equal(t, "Physical", q.Options[0].Text)
	opt, ok := q.CorrectOption()
	require.True(t, ok)
	assert.Equal(t, "Network", opt.Text)
	assert.Equal(t, normalize.Easy, q.Difficulty)

	call, _ := mock.LastCall()
	assert.Equal(t, QuizSchema, call.Schema)
	assert.Contains(t, call.Messages[0].Content, "Topic: Networking")
	assert.Contains(t, call.Messages[0].Content, "Number of questions: 2")
	assert.Contains(t, call.Messages[0].Content, "Difficulty: Easy")
}

func TestBackend_MockTest(t *testing.T) {
	payload := `{"test_title":"Networks Mock 1","questions":[` +
		`{"question_text":"Port of HTTPS?","options":{"A":"80","B":"443","C":"21","D":"25"},` +
		`"correct_answer":"B","explanation":"HTTPS uses 443.","difficulty":"Medium"}]}`
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(payload)})
	b := New(mock, DefaultConfig())

	raw, err := b.GenerateQuiz(context.Background(), backend.QuizRequest{NumQuestions: 1, Variant: backend.VariantMock})
	require.NoError(t, err)

	quiz := normalize.NormalizeQuiz(raw)
	assert.Equal(t, "Networks Mock 1", quiz.Title)
	require.Len(t, quiz.Questions, 1)

	call, _ := mock.LastCall()
	assert.Equal(t, MockTestSchema, call.Schema)
	assert.Contains(t, call.Messages[0].Content, "mock test")
	assert.Contains(t, call.Messages[0].Content, "Difficulty: Medium")
}

func TestBackend_Status(t *testing.T) {
	b := New(llm.NewMockProvider(), DefaultConfig())

	primary, err := b.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, primary.DocumentsLoaded)

	report := status.Collect(context.Background(), b, status.CollectOptions{ProbeTempStore: true})
	assert.Equal(t, status.Online, report.Snapshot.API)
	assert.False(t, report.Snapshot.TempStore.Active)
	assert.ErrorIs(t, report.TempErr, backend.ErrUnsupported)
}

func TestBackend_UnsupportedActions(t *testing.T) {
	b := New(llm.NewMockProvider(), DefaultConfig())

	_, err := b.Upload(context.Background(), backend.Document{Name: "notes.pdf"})
	assert.ErrorIs(t, err, backend.ErrUnsupported)

	_, err = b.ClearTemp(context.Background())
	assert.ErrorIs(t, err, backend.ErrUnsupported)
}
