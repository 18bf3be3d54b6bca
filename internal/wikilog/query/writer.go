package query

import (
	"encoding/json"
	"fmt"
	"io"
)

// WriteEventNDJSON writes an event as a single NDJSON line, preserving every field.
func WriteEventNDJSON(w io.Writer, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event to JSON: %w", err)
	}

	_, err = fmt.Fprintln(w, string(data))
	if err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	return nil
}
