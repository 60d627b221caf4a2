package deepagent

import "fmt"

// ValidationError reports a malformed action argument, resume decision, or
// todo entry. It is rejected before any mutation and surfaces as a failed
// ActionResult so the model can self-correct; it is never session-fatal.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a workspace primitive aimed at a missing file or a
// locator with no match. Recoverable: surfaced as a failed ActionResult.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string { return e.Msg }

func notFoundErrorf(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Msg: fmt.Sprintf(format, args...)}
}

// AmbiguousMatchError reports an edit locator that matches more than one
// location. The file is left unchanged. Recoverable.
type AmbiguousMatchError struct {
	Msg string
}

func (e *AmbiguousMatchError) Error() string { return e.Msg }

func ambiguousMatchErrorf(format string, args ...interface{}) *AmbiguousMatchError {
	return &AmbiguousMatchError{Msg: fmt.Sprintf(format, args...)}
}

// ConfigurationError reports a caller misconfiguration: an unknown tool or
// sub-agent name, or more than one interrupt-gated action in a single batch.
// Fatal to the current session.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string { return e.Msg }

func configErrorf(format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{Msg: fmt.Sprintf(format, args...)}
}

// RecursionLimitError reports a session that exhausted its iteration budget
// or nesting ceiling. Fatal; identifies which session hit the limit.
type RecursionLimitError struct {
	SessionID string
	Depth     int
	Limit     int
	Kind      string // "iterations" or "depth"
}

func (e *RecursionLimitError) Error() string {
	return fmt.Sprintf("session %s exceeded %s limit %d (depth %d)", e.SessionID, e.Kind, e.Limit, e.Depth)
}

// recoverable reports whether an action failure should stay inside the loop
// as a failed ActionResult rather than killing the session.
func recoverable(err error) bool {
	switch err.(type) {
	case *ValidationError, *NotFoundError, *AmbiguousMatchError:
		return true
	}
	return false
}
