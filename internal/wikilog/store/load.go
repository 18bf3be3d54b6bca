package store

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/vaibhaw-/wikilog/internal/wikilog/event"
	"github.com/vaibhaw-/wikilog/internal/wikilog/logger"
)

const defaultBatchSize = 500

// LoadSummary reports a load run.
type LoadSummary struct {
	Lines    int `json:"lines"`
	Inserted int `json:"inserted"`
	Invalid  int `json:"invalid"`
}

// Load reads NDJSON events from r and inserts them into s in batches.
// Lines that are not valid event JSON are counted and skipped.
func Load(ctx context.Context, s Store, r io.Reader, batchSize int) (LoadSummary, error) {
	log := logger.L()
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	var sum LoadSummary
	batch := make([]*event.Event, 0, batchSize)
	flush := func() error {
		n, err := s.InsertEvents(ctx, batch)
		if err != nil {
			return err
		}
		sum.Inserted += n
		batch = batch[:0]
		log.Debugw("inserted batch", "rows", n, "inserted_total", sum.Inserted)
		return nil
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		sum.Lines++

		var e event.Event
		if err := json.Unmarshal(line, &e); err != nil || e.EventID == "" {
			sum.Invalid++
			log.Warnw("skipping invalid event line", "line_number", sum.Lines)
			continue
		}
		batch = append(batch, &e)
		if len(batch) == batchSize {
			if err := flush(); err != nil {
				return sum, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return sum, fmt.Errorf("scan input: %w", err)
	}
	if err := flush(); err != nil {
		return sum, err
	}
	return sum, nil
}
