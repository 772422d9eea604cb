package backend

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/abhisek/studybuddy/internal/normalize"
)

// TransportError reports a call that failed in transit or was answered with
// a non-2xx status.
type TransportError struct {
	// Op is the action that failed, e.g. "ask" or "upload".
	Op string

	// StatusCode is the HTTP status, or 0 when the service was unreachable.
	StatusCode int

	// Detail is the service's own error description, when it sent one.
	Detail string

	Err error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode == 0:
		return fmt.Sprintf("%s: service unreachable: %v", e.Op, e.Err)
	case e.Detail != "":
		return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("%s: HTTP %d", e.Op, e.StatusCode)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Message is the user-facing description: the service's detail when
// present, otherwise a generic sentence.
func (e *TransportError) Message() string {
	if e.Detail != "" {
		return e.Detail
	}
	if e.StatusCode == 0 {
		return "Could not reach the study service."
	}
	return fmt.Sprintf("The study service returned an error (HTTP %d).", e.StatusCode)
}

// ParseDetail extracts an error description from a response body. It
// understands a string detail, a list of validation errors carrying msg
// fields, and message or error fields.
func ParseDetail(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if !gjson.ValidBytes(trimmed) {
		return ""
	}
	root := gjson.ParseBytes(trimmed)
	if !root.IsObject() {
		return ""
	}

	detail := root.Get("detail")
	if detail.IsArray() {
		var msgs []string
		detail.ForEach(func(_, item gjson.Result) bool {
			if s, ok := normalize.Scalar(item); ok {
				msgs = append(msgs, s)
			} else if s, ok := normalize.FirstScalar(item, "msg", "message"); ok {
				msgs = append(msgs, s)
			}
			return true
		})
		return strings.Join(msgs, "; ")
	}
	s, _ := normalize.FirstScalar(root, "detail", "message", "error")
	return s
}
