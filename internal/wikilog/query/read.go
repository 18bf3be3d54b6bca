package query

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// ReadEvents reads NDJSON events from files (or stdin when files is empty)
// and sends them on the returned channel. Malformed lines and unreadable files
// are sent as errors and reading continues. The channel is closed when the
// input is exhausted or ctx is cancelled.
func ReadEvents(ctx context.Context, files []string) <-chan EventResult {
	ch := make(chan EventResult, 100)

	go func() {
		defer close(ch)

		if len(files) == 0 {
			readFromReader(ctx, os.Stdin, "stdin", ch)
			return
		}

		for _, file := range files {
			f, err := os.Open(file)
			if err != nil {
				if !send(ctx, ch, EventResult{Err: fmt.Errorf("failed to open file %s: %w", file, err)}) {
					return
				}
				continue
			}

			ok := readFromReader(ctx, f, file, ch)
			f.Close()
			if !ok {
				return
			}
		}
	}()

	return ch
}

// ReadEventsFrom is ReadEvents over a single reader.
func ReadEventsFrom(ctx context.Context, r io.Reader, source string) <-chan EventResult {
	ch := make(chan EventResult, 100)
	go func() {
		defer close(ch)
		readFromReader(ctx, r, source, ch)
	}()
	return ch
}

func send(ctx context.Context, ch chan<- EventResult, r EventResult) bool {
	select {
	case ch <- r:
		return true
	case <-ctx.Done():
		return false
	}
}

// readFromReader returns false when ctx was cancelled.
func readFromReader(ctx context.Context, r io.Reader, source string, ch chan<- EventResult) bool {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	lineNumber := 0

	for scanner.Scan() {
		lineNumber++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var event Event
		if err := json.Unmarshal(line, &event); err != nil {
			if !send(ctx, ch, EventResult{Err: fmt.Errorf("JSON parse error in %s line %d: %w", source, lineNumber, err)}) {
				return false
			}
			continue
		}
		if !send(ctx, ch, EventResult{Event: event}) {
			return false
		}
	}

	if err := scanner.Err(); err != nil {
		return send(ctx, ch, EventResult{Err: fmt.Errorf("scanner error in %s: %w", source, err)})
	}
	return true
}
