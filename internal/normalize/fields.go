package normalize

import (
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Field fallback chains, most specific name first.
var (
	textFields        = []string{"question_text", "question", "text", "prompt"}
	optionFields      = []string{"options", "choices", "answers"}
	answerFields      = []string{"correct_answer", "answer", "correct", "solution"}
	difficultyFields  = []string{"difficulty", "level"}
	explanationFields = []string{"explanation", "rationale"}

	optionLabelFields = []string{"label", "letter", "key", "id"}
	optionTextFields  = []string{"text", "value", "option", "content"}

	wrapperPaths = []string{"questions", "quiz_questions", "data.questions"}
	titleFields  = []string{"test_title", "title"}
)

// Present reports whether v carries a usable value: it exists, is not
// null and is not a blank string.
func Present(v gjson.Result) bool {
	if !v.Exists() || v.Type == gjson.Null {
		return false
	}
	if v.Type == gjson.String {
		return strings.TrimSpace(v.Str) != ""
	}
	return true
}

// Scalar returns the text form of a string, number or boolean value.
// Blank strings and non-scalars report false.
func Scalar(v gjson.Result) (string, bool) {
	switch v.Type {
	case gjson.String:
		s := strings.TrimSpace(v.Str)
		return s, s != ""
	case gjson.Number, gjson.True, gjson.False:
		return v.Raw, true
	}
	return "", false
}

// FirstScalar returns the first field of obj, in names order, that holds a
// usable scalar.
func FirstScalar(obj gjson.Result, names ...string) (string, bool) {
	for _, n := range names {
		if s, ok := Scalar(obj.Get(n)); ok {
			return s, true
		}
	}
	return "", false
}

// Count reads a non-negative integer from a number or a numeric string.
// Anything else, including negatives, reads as zero.
func Count(v gjson.Result) int {
	var n float64
	switch v.Type {
	case gjson.Number:
		n = v.Num
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return 0
		}
		n = f
	default:
		return 0
	}
	if math.IsNaN(n) || n <= 0 {
		return 0
	}
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n)
}

// Flag reads a boolean from true/false, a non-zero number or the strings
// "true", "yes" and "1".
func Flag(v gjson.Result) bool {
	switch v.Type {
	case gjson.True:
		return true
	case gjson.Number:
		return v.Num != 0
	case gjson.String:
		switch strings.ToLower(strings.TrimSpace(v.Str)) {
		case "true", "yes", "1":
			return true
		}
	}
	return false
}
