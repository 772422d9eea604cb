package normalize

import "fmt"

// SchemaError reports a payload that matched none of the known shapes.
// It stays inside the normalizer's callers: the user-visible outcome of a
// SchemaError is an empty result.
type SchemaError struct {
	Reason  string
	Snippet string
}

func (e *SchemaError) Error() string {
	if e.Snippet == "" {
		return fmt.Sprintf("unrecognized payload: %s", e.Reason)
	}
	return fmt.Sprintf("unrecognized payload: %s: %s", e.Reason, e.Snippet)
}

func schemaErr(reason string, raw []byte) *SchemaError {
	const limit = 80
	s := string(raw)
	if len(s) > limit {
		s = s[:limit] + "..."
	}
	return &SchemaError{Reason: reason, Snippet: s}
}
