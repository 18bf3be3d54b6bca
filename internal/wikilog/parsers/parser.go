package parsers

import (
	"context"
	"errors"
)

// ErrSkipLine indicates the line carries nothing to parse (blank) and processing should continue.
var ErrSkipLine = errors.New("skip line")

type ParserOptions struct {
	// ExactFields rejects lines with more than the 11 access-log fields
	// instead of ignoring the trailing ones.
	ExactFields bool
}

// Parser converts one raw access-log line into a LogRecord.
type Parser interface {
	// ParseLine returns the decoded record, ErrSkipLine for ignorable lines,
	// or a *MalformedLineError when the line does not match the access-log layout.
	ParseLine(ctx context.Context, line string) (*LogRecord, error)
}
