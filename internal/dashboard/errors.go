package dashboard

import (
	"github.com/pkg/errors"

	"github.com/abhisek/studybuddy/internal/backend"
	"github.com/abhisek/studybuddy/internal/llm"
)

// ValidationError is a locally rejected input. It is returned before any
// token is issued or any call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}

// UserMessage turns an action error into the one-line text shown in the
// error banner.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	var terr *backend.TransportError
	if errors.As(err, &terr) {
		return terr.Message()
	}
	if errors.Is(err, backend.ErrUnsupported) {
		return "That action is not available with the current backend."
	}

	var rl *llm.RateLimitError
	if errors.As(err, &rl) {
		return "The model provider is rate limiting requests. Try again shortly."
	}
	var unavailable *llm.UnavailableError
	if errors.As(err, &unavailable) {
		return "Could not reach the model provider."
	}
	var truncated *llm.TruncatedError
	if errors.As(err, &truncated) {
		return "The model's reply was cut off. Ask for fewer questions."
	}
	var bad *llm.InvalidResponseError
	if errors.As(err, &bad) {
		return "The model returned an unusable reply."
	}
	return err.Error()
}
