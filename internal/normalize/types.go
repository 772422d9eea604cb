package normalize

import "strings"

// QuizQuestion is the canonical question shape every quiz payload is
// decoded into. Marshalling a QuizQuestion and normalizing the result
// yields the same question back.
type QuizQuestion struct {
	// Text is the question prompt. Never empty: when the payload carries no
	// usable text it is "Question N" where N is the 1-based source position.
	Text string `json:"question_text" yaml:"question_text"`

	// Options holds the answer choices in source order. Empty for free-form
	// questions.
	Options []Option `json:"options" yaml:"options"`

	// CorrectAnswer is whatever the payload named as the answer: a label,
	// the option text, or free text. Nil when the payload had none.
	CorrectAnswer *string `json:"correct_answer" yaml:"correct_answer"`

	// Explanation is an optional worked answer or rationale.
	Explanation *string `json:"explanation,omitempty" yaml:"explanation,omitempty"`

	// Difficulty defaults to Medium.
	Difficulty Difficulty `json:"difficulty" yaml:"difficulty"`
}

// Option is a single labeled answer choice.
type Option struct {
	Label string `json:"label" yaml:"label"`
	Text  string `json:"text" yaml:"text"`
}

// CorrectOption returns the option the correct answer refers to, matching
// first by label and then by option text (both case-insensitive).
func (q QuizQuestion) CorrectOption() (Option, bool) {
	if q.CorrectAnswer == nil {
		return Option{}, false
	}
	want := strings.TrimSpace(*q.CorrectAnswer)
	for _, o := range q.Options {
		if strings.EqualFold(o.Label, want) {
			return o, true
		}
	}
	for _, o := range q.Options {
		if strings.EqualFold(strings.TrimSpace(o.Text), want) {
			return o, true
		}
	}
	return Option{}, false
}

// Quiz is a titled list of questions. Only the mock-test endpoint supplies
// a title.
type Quiz struct {
	Title     string         `json:"title,omitempty" yaml:"title,omitempty"`
	Questions []QuizQuestion `json:"questions" yaml:"questions"`
}

// Shape names the payload layout a quiz response was recognized as.
type Shape string

const (
	ShapeArray         Shape = "array"          // bare sequence of questions
	ShapeWrapped       Shape = "wrapped"        // sequence under a wrapper key
	ShapeEncodedString Shape = "encoded-string" // questions serialized inside a string
	ShapeSingle        Shape = "single"         // one bare question object
	ShapeUnknown       Shape = "unknown"
)

// Result is the outcome of decoding a quiz payload.
type Result struct {
	Questions []QuizQuestion
	Shape     Shape

	// Err is a *SchemaError when nothing in the payload could be
	// recognized. Callers log it; it is never a reason to fail an action.
	Err error
}

func optionLabel(i int) string {
	// A..Z, then AA, AB, ... for long option lists.
	var b []byte
	for i >= 0 {
		b = append([]byte{byte('A' + i%26)}, b...)
		i = i/26 - 1
	}
	return string(b)
}
