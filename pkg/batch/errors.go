package batch

// SkipError signals that an operation declined a target without doing any
// work. The runner records the target as skipped instead of failed and does
// not retry it.
type SkipError struct {
	Reason string
}

// Error implements the error interface.
func (e *SkipError) Error() string {
	return "skipped: " + e.Reason
}

// Skip builds a SkipError with the given reason.
func Skip(reason string) *SkipError {
	return &SkipError{Reason: reason}
}
