package runner

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/vaibhaw-/wikilog/internal/wikilog/event"
)

// EventWriter serializes events to the pipeline output.
type EventWriter interface {
	Write(evt *event.Event) error
	Flush() error
}

// NewEventWriter returns a writer for format "ndjson" (default) or "csv".
func NewEventWriter(format string, w io.Writer) (EventWriter, error) {
	switch format {
	case "", "ndjson", "json":
		return &ndjsonWriter{enc: json.NewEncoder(w)}, nil
	case "csv":
		return &csvWriter{w: csv.NewWriter(w)}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

type ndjsonWriter struct {
	enc *json.Encoder
}

func (n *ndjsonWriter) Write(evt *event.Event) error {
	if err := n.enc.Encode(evt); err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	return nil
}

func (n *ndjsonWriter) Flush() error { return nil }

// csvWriter writes the header before the first row. Commas inside urls and
// titles are quoted by encoding/csv.
type csvWriter struct {
	w           *csv.Writer
	wroteHeader bool
}

func (c *csvWriter) Write(evt *event.Event) error {
	if !c.wroteHeader {
		if err := c.w.Write(event.CSVHeader()); err != nil {
			return fmt.Errorf("write csv header: %w", err)
		}
		c.wroteHeader = true
	}
	if err := c.w.Write(evt.CSVRow()); err != nil {
		return fmt.Errorf("write csv row: %w", err)
	}
	return nil
}

func (c *csvWriter) Flush() error {
	c.w.Flush()
	return c.w.Error()
}
