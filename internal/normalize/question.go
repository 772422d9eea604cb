package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

// maxEmbedDepth bounds how many times a string payload is unwrapped.
const maxEmbedDepth = 2

var (
	fencedBlock = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*(.*?)```")
	arrayBlock  = regexp.MustCompile(`(?s)\[.*\]`)
	objectBlock = regexp.MustCompile(`(?s)\{.*\}`)
)

// Normalize decodes any supported quiz payload into canonical questions.
// It never fails: unrecognized input yields an empty, non-nil slice.
func Normalize(raw []byte) []QuizQuestion {
	return Decode(raw).Questions
}

// NormalizeValue is Normalize for a payload that has already been decoded
// into Go values.
func NormalizeValue(v any) []QuizQuestion {
	raw, err := json.Marshal(v)
	if err != nil {
		return []QuizQuestion{}
	}
	return Normalize(raw)
}

// NormalizeQuiz decodes the questions and, for object payloads, the quiz
// title (test_title, then title).
func NormalizeQuiz(raw []byte) Quiz {
	quiz := Quiz{Questions: Decode(raw).Questions}
	trimmed := bytes.TrimSpace(raw)
	if gjson.ValidBytes(trimmed) {
		if root := gjson.ParseBytes(trimmed); root.IsObject() {
			quiz.Title, _ = FirstScalar(root, titleFields...)
		}
	}
	return quiz
}

// Decode recognizes the payload shape and extracts its questions. The
// first matching rule wins:
//
//  1. a sequence is the question list
//  2. questions, quiz_questions or data.questions holds the list
//  3. a string (the payload itself or a wrapper value) is parsed as
//     embedded JSON and decoded again
//  4. an object with a question-text field is a single question
//  5. anything else is empty
func Decode(raw []byte) Result {
	return decode(raw, 0)
}

func decode(raw []byte, depth int) Result {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return empty(ShapeUnknown, schemaErr("empty payload", nil))
	}
	if !gjson.ValidBytes(trimmed) {
		// Not JSON as a whole; it may still carry JSON, e.g. in a code fence.
		return decodeEmbedded(string(trimmed), depth)
	}

	root := gjson.ParseBytes(trimmed)
	switch {
	case root.IsArray():
		return Result{Questions: questionsFrom(root), Shape: ShapeArray}
	case root.Type == gjson.String:
		return decodeEmbedded(root.Str, depth)
	case root.IsObject():
		for _, path := range wrapperPaths {
			v := root.Get(path)
			switch {
			case v.IsArray():
				return Result{Questions: questionsFrom(v), Shape: ShapeWrapped}
			case v.Type == gjson.String && Present(v):
				return decodeEmbedded(v.Str, depth)
			}
		}
		if _, ok := FirstScalar(root, textFields...); ok {
			return Result{Questions: []QuizQuestion{questionFrom(root, 0)}, Shape: ShapeSingle}
		}
	}
	return empty(ShapeUnknown, schemaErr("no question list found", trimmed))
}

func decodeEmbedded(s string, depth int) Result {
	if depth >= maxEmbedDepth {
		return empty(ShapeEncodedString, schemaErr("embedded payload nested too deeply", []byte(s)))
	}
	inner, ok := extractJSON(s)
	if !ok {
		return empty(ShapeEncodedString, schemaErr("embedded payload is not JSON", []byte(s)))
	}
	res := decode(inner, depth+1)
	res.Shape = ShapeEncodedString
	return res
}

// extractJSON pulls a JSON document out of free text: the whole string if it
// parses, else the body of a fenced code block, else the outermost [...] or
// {...} span.
func extractJSON(s string) ([]byte, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	if gjson.Valid(s) {
		return []byte(s), true
	}
	if m := fencedBlock.FindStringSubmatch(s); m != nil {
		if body := strings.TrimSpace(m[1]); gjson.Valid(body) {
			return []byte(body), true
		}
	}
	for _, re := range []*regexp.Regexp{arrayBlock, objectBlock} {
		if m := re.FindString(s); m != "" && gjson.Valid(m) {
			return []byte(m), true
		}
	}
	return nil, false
}

func empty(shape Shape, err error) Result {
	return Result{Questions: []QuizQuestion{}, Shape: shape, Err: err}
}

func questionsFrom(list gjson.Result) []QuizQuestion {
	out := []QuizQuestion{}
	i := 0
	list.ForEach(func(_, el gjson.Result) bool {
		switch {
		case el.IsObject():
			out = append(out, questionFrom(el, i))
		case el.Type == gjson.String && Present(el):
			out = append(out, QuizQuestion{
				Text:       strings.TrimSpace(el.Str),
				Options:    []Option{},
				Difficulty: Medium,
			})
		}
		i++
		return true
	})
	return out
}

func questionFrom(obj gjson.Result, index int) QuizQuestion {
	opts, flagged := optionsFrom(obj)
	q := QuizQuestion{
		Text:       fmt.Sprintf("Question %d", index+1),
		Options:    opts,
		Difficulty: Medium,
	}
	if s, ok := FirstScalar(obj, textFields...); ok {
		q.Text = s
	}
	if s, ok := FirstScalar(obj, answerFields...); ok {
		q.CorrectAnswer = &s
	} else if flagged != "" {
		q.CorrectAnswer = &flagged
	}
	if s, ok := FirstScalar(obj, explanationFields...); ok {
		q.Explanation = &s
	}
	if s, ok := FirstScalar(obj, difficultyFields...); ok {
		q.Difficulty = ParseDifficulty(s)
	}
	return q
}

// optionsFrom returns the question's options and, when an option object
// carries a correct/is_correct flag, that option's label.
func optionsFrom(obj gjson.Result) ([]Option, string) {
	for _, name := range optionFields {
		v := obj.Get(name)
		if v.Type == gjson.String {
			if inner, ok := extractJSON(v.Str); ok {
				v = gjson.ParseBytes(inner)
			}
		}
		switch {
		case v.IsObject():
			return optionsFromMapping(v), ""
		case v.IsArray():
			return optionsFromList(v)
		}
	}
	return []Option{}, ""
}

// optionsFromMapping keeps mapping keys as labels, in document order.
func optionsFromMapping(m gjson.Result) []Option {
	out := []Option{}
	m.ForEach(func(key, val gjson.Result) bool {
		text, ok := Scalar(val)
		if !ok && val.IsObject() {
			text, _ = FirstScalar(val, optionTextFields...)
		}
		out = append(out, Option{Label: key.String(), Text: text})
		return true
	})
	return out
}

// optionsFromList labels options A, B, C... by position unless an option
// object names its own label.
func optionsFromList(list gjson.Result) ([]Option, string) {
	out := []Option{}
	flagged := ""
	pos := 0
	list.ForEach(func(_, el gjson.Result) bool {
		label := optionLabel(pos)
		pos++
		if el.IsObject() {
			if l, ok := FirstScalar(el, optionLabelFields...); ok {
				label = l
			}
			text, _ := FirstScalar(el, optionTextFields...)
			if flagged == "" && (Flag(el.Get("correct")) || Flag(el.Get("is_correct"))) {
				flagged = label
			}
			out = append(out, Option{Label: label, Text: text})
			return true
		}
		if text, ok := Scalar(el); ok {
			out = append(out, Option{Label: label, Text: text})
		}
		return true
	})
	return out, flagged
}
