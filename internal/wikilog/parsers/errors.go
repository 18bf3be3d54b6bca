package parsers

import "fmt"

// MalformedLineError reports a line that does not follow the access-log layout.
// Retrying the same line always yields the same error; callers decide whether to
// skip it or abort.
type MalformedLineError struct {
	Line   string
	Reason string
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("malformed log line: %s", e.Reason)
}

func malformed(line, format string, args ...any) *MalformedLineError {
	return &MalformedLineError{Line: line, Reason: fmt.Sprintf(format, args...)}
}
