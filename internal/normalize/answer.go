package normalize

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

// SourceKind says which document store an answer was drawn from.
type SourceKind string

const (
	SourceTemp    SourceKind = "temp"
	SourceMain    SourceKind = "main"
	SourceUnknown SourceKind = "unknown"
)

// Source identifies where an answer came from. Document is set for answers
// drawn from the temporary store.
type Source struct {
	Kind     SourceKind `json:"kind" yaml:"kind"`
	Document string     `json:"document,omitempty" yaml:"document,omitempty"`
}

// Answer is a decoded ask response.
type Answer struct {
	Text   string `json:"text" yaml:"text"`
	Source Source `json:"source" yaml:"source"`
}

var answerTextFields = []string{"answer", "response", "result", "text"}

// answerPrefix matches "[Answer from notes.pdf (TEMP)]: ..." and
// "[Answer from Main DB]: ...".
var answerPrefix = regexp.MustCompile(`(?s)^\[Answer from ([^\]]+)\]:\s*(.*)$`)

const mainDBName = "Main DB"

// NormalizeAnswer decodes an ask response. It accepts an object carrying
// answer, response, result or text, a bare JSON string, or plain text. The
// service's source prefix is stripped from the text and reported in Source.
// An unusable payload yields an Answer with empty Text.
func NormalizeAnswer(raw []byte) Answer {
	text := answerText(raw)
	return splitSource(text)
}

func answerText(raw []byte) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ""
	}
	if !gjson.ValidBytes(trimmed) {
		return string(trimmed)
	}
	root := gjson.ParseBytes(trimmed)
	switch {
	case root.Type == gjson.String:
		return strings.TrimSpace(root.Str)
	case root.IsObject():
		s, _ := FirstScalar(root, answerTextFields...)
		return s
	}
	return ""
}

func splitSource(text string) Answer {
	m := answerPrefix.FindStringSubmatch(text)
	if m == nil {
		return Answer{Text: text, Source: Source{Kind: SourceUnknown}}
	}
	origin := strings.TrimSpace(m[1])
	body := strings.TrimSpace(m[2])
	switch {
	case strings.HasSuffix(origin, "(TEMP)"):
		doc := strings.TrimSpace(strings.TrimSuffix(origin, "(TEMP)"))
		return Answer{Text: body, Source: Source{Kind: SourceTemp, Document: doc}}
	case strings.EqualFold(origin, mainDBName):
		return Answer{Text: body, Source: Source{Kind: SourceMain}}
	}
	return Answer{Text: body, Source: Source{Kind: SourceUnknown, Document: origin}}
}

// Label renders the source for display, e.g. "notes.pdf (temporary)".
func (s Source) Label() string {
	switch s.Kind {
	case SourceTemp:
		if s.Document == "" {
			return "temporary document"
		}
		return s.Document + " (temporary)"
	case SourceMain:
		return "main library"
	}
	if s.Document != "" {
		return s.Document
	}
	return ""
}
