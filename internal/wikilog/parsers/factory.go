package parsers

import (
	"fmt"
)

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

// NewParser returns a Parser for the given log format ("confluence" or "access").
func (f *Factory) NewParser(format string, opts ParserOptions) (Parser, error) {
	switch format {
	case "confluence", "access", "accesslog":
		return NewAccessLogParser(opts), nil
	default:
		return nil, fmt.Errorf("unsupported log format: %s", format)
	}
}
