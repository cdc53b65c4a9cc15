package errors

import "fmt"

// InternalError marks a broken invariant inside the compiler itself: a
// missing block or jump-table reference, an unreachable switch arm, and so
// on. It is not a user error and is never recovered from: callers report
// it and abandon the compilation unit. In a long-running host (the language
// server) this surfaces as a failed request instead of a dead process.
type InternalError struct {
	Stage   string // which subsystem detected the broken invariant
	Message string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal compiler error [%s]: %s", e.Stage, e.Message)
}

// Internalf builds a typed internal error for the given stage.
func Internalf(stage, format string, args ...interface{}) *InternalError {
	return &InternalError{Stage: stage, Message: fmt.Sprintf(format, args...)}
}
