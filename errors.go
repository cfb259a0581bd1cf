package scheme

import "fmt"

// RuntimeError is the single error kind shared by the parser (static,
// pre-evaluation errors) and the evaluator (dynamic errors). Both
// phases unwind the current top-level form entirely on error; there
// is no recovery within a form.
type RuntimeError struct {
	Message string
}

func (e *RuntimeError) Error() string {
	return e.Message
}

func errf(format string, args ...any) error {
	return &RuntimeError{Message: fmt.Sprintf(format, args...)}
}
