package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vaibhaw-/wikilog/internal/wikilog/classify"
	"github.com/vaibhaw-/wikilog/internal/wikilog/config"
	"github.com/vaibhaw-/wikilog/internal/wikilog/event"
	"github.com/vaibhaw-/wikilog/internal/wikilog/logger"
	"github.com/vaibhaw-/wikilog/internal/wikilog/parsers"
)

const (
	defaultWorkers   = 4
	defaultBatchSize = 512
	maxLineBytes     = 1 << 20
	progressEvery    = 1000
)

type RunSummary struct {
	Timestamp     string `json:"timestamp"`
	Input         string `json:"input"`
	Output        string `json:"output"`
	RejectFile    string `json:"reject_file,omitempty"`
	RawCount      int    `json:"raw_count"`
	ParsedCount   int    `json:"parsed_count"`
	SkippedCount  int    `json:"skipped_count"`
	RejectedCount int    `json:"rejected_count"`
	UnknownCount  int    `json:"unknown_count"`
}

// Reject is written to the reject file for every malformed line.
type Reject struct {
	LineNumber int    `json:"line_number"`
	Reason     string `json:"reason"`
	Raw        string `json:"raw"`
}

// lineResult is the outcome of decoding and classifying one line.
type lineResult struct {
	evt *event.Event
	err error
}

func appendRunLog(path string, summary RunSummary) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	return enc.Encode(summary)
}

// openRejectFile opens the reject file if configured, returns nil if not configured
func openRejectFile(cfg *config.Config) (io.WriteCloser, error) {
	if cfg == nil || cfg.Output.RejectFile == "" {
		return nil, nil
	}
	return os.OpenFile(cfg.Output.RejectFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
}

// processBatch decodes and classifies lines concurrently. Results keep the
// order of lines. Lines flagged in tooLong are rejected without decoding.
func processBatch(ctx context.Context, p parsers.Parser, c *classify.Classifier, lines []string, tooLong []bool, workers int) []lineResult {
	results := make([]lineResult, len(lines))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, line := range lines {
		if tooLong[i] {
			results[i].err = &parsers.MalformedLineError{
				Line:   line,
				Reason: fmt.Sprintf("line exceeds %d bytes", maxLineBytes),
			}
			continue
		}
		g.Go(func() error {
			rec, err := p.ParseLine(ctx, line)
			if err != nil {
				results[i].err = err
				return nil
			}
			if rec == nil {
				results[i].err = errors.New("parser returned nil record")
				return nil
			}
			results[i].evt = event.Classify(c, *rec)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// pipeline carries the per-run state shared by the batch loop.
type pipeline struct {
	log    *zap.SugaredLogger
	out    EventWriter
	reject *json.Encoder
	strict bool
	result RunSummary
}

// emit writes one batch of results in order. firstLine is the 1-based line
// number of results[0].
func (pl *pipeline) emit(results []lineResult, lines []string, firstLine int) error {
	for i, r := range results {
		lineNumber := firstLine + i
		if r.err != nil {
			if err := pl.handleError(r.err, lines[i], lineNumber); err != nil {
				return err
			}
			continue
		}

		if err := pl.out.Write(r.evt); err != nil {
			pl.log.Errorw("failed to encode event",
				"err", err.Error(),
				"event_id", r.evt.EventID)
			return err
		}
		pl.result.ParsedCount++
		if r.evt.ActionType == classify.ActionUnknown {
			pl.result.UnknownCount++
		}
		pl.log.Debugw("classified line",
			"line_number", lineNumber,
			"action_type", r.evt.ActionType,
			"user_action", r.evt.UserAction)
	}
	return nil
}

func (pl *pipeline) handleError(err error, line string, lineNumber int) error {
	if errors.Is(err, parsers.ErrSkipLine) {
		pl.result.SkippedCount++
		return nil
	}

	var mle *parsers.MalformedLineError
	if !errors.As(err, &mle) {
		pl.log.Errorw("parse error",
			"err", err.Error(),
			"line_number", lineNumber,
			"line", line)
		return fmt.Errorf("line %d: parse error: %w", lineNumber, err)
	}

	if pl.strict {
		pl.log.Errorw("malformed line in strict mode",
			"line_number", lineNumber,
			"reason", mle.Reason,
			"line", line)
		return fmt.Errorf("line %d: %w", lineNumber, err)
	}

	pl.log.Warnw("skipping malformed line",
		"line_number", lineNumber,
		"reason", mle.Reason,
		"line", line)
	pl.result.RejectedCount++
	if pl.reject != nil {
		if err := pl.reject.Encode(Reject{LineNumber: lineNumber, Reason: mle.Reason, Raw: line}); err != nil {
			pl.log.Errorw("failed to encode reject", "err", err.Error())
			return fmt.Errorf("encode reject: %w", err)
		}
	}
	return nil
}

// RunParse is the core loop for turning access logs into classified events.
// It reads input line by line, decodes and classifies batches of lines in
// parallel, and writes events in input order. Malformed lines go to the
// reject file and the run continues, unless cfg.Pipeline.Strict is set.
// It is factored out from the Cobra command so it can be unit tested.
func RunParse(ctx context.Context, p parsers.Parser, c *classify.Classifier, in io.Reader, out io.Writer, cfg *config.Config) (RunSummary, error) {
	log := logger.L()
	if cfg == nil {
		cfg = config.Get()
	}
	if c == nil {
		c = classify.NewClassifier(nil)
	}

	workers := cfg.Pipeline.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	batchSize := cfg.Pipeline.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	log.Infow("starting parse run",
		"input", cfg.Input.FilePath,
		"output", cfg.Output.File,
		"format", cfg.Output.Format,
		"reject_file", cfg.Output.RejectFile,
		"workers", workers,
		"batch_size", batchSize,
		"strict", cfg.Pipeline.Strict)

	rejectFile, err := openRejectFile(cfg)
	if err != nil {
		log.Errorw("failed to open reject file",
			"path", cfg.Output.RejectFile,
			"err", err.Error())
		return RunSummary{}, fmt.Errorf("open reject file: %w", err)
	}
	if rejectFile != nil {
		log.Debugw("opened reject file", "path", cfg.Output.RejectFile)
		defer rejectFile.Close()
	}

	w, err := NewEventWriter(cfg.Output.Format, out)
	if err != nil {
		return RunSummary{}, err
	}

	pl := &pipeline{log: log, out: w, strict: cfg.Pipeline.Strict}
	if rejectFile != nil {
		pl.reject = json.NewEncoder(rejectFile)
	}

	lines := newLineReader(in, maxLineBytes)
	startTime := time.Now()

	batch := make([]string, 0, batchSize)
	tooLong := make([]bool, 0, batchSize)
	firstLine := 1
	flushBatch := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		results := processBatch(ctx, p, c, batch, tooLong, workers)
		if err := pl.emit(results, batch, firstLine); err != nil {
			return err
		}
		firstLine += len(batch)
		batch = batch[:0]
		tooLong = tooLong[:0]
		return nil
	}

	for lines.Next() {
		pl.result.RawCount++
		if pl.result.RawCount%progressEvery == 0 {
			log.Infow("processing progress",
				"lines_processed", pl.result.RawCount,
				"parsed_count", pl.result.ParsedCount,
				"rejected_count", pl.result.RejectedCount)
		}

		batch = append(batch, lines.Text())
		tooLong = append(tooLong, lines.TooLong())
		if len(batch) == batchSize {
			if err := flushBatch(); err != nil {
				_ = w.Flush()
				return pl.result, err
			}
		}
	}
	if err := lines.Err(); err != nil {
		log.Errorw("read error", "err", err.Error())
		return pl.result, fmt.Errorf("read input: %w", err)
	}
	if err := flushBatch(); err != nil {
		_ = w.Flush()
		return pl.result, err
	}
	if err := w.Flush(); err != nil {
		return pl.result, fmt.Errorf("flush output: %w", err)
	}

	pl.result.Timestamp = time.Now().UTC().Format(time.RFC3339Nano)
	pl.result.Input = cfg.Input.FilePath
	pl.result.Output = cfg.Output.File
	pl.result.RejectFile = cfg.Output.RejectFile

	// Write run summary if configured
	if cfg.Logging.RunLog != "" {
		if err := appendRunLog(cfg.Logging.RunLog, pl.result); err != nil {
			log.Errorw("failed to write run log",
				"path", cfg.Logging.RunLog,
				"err", err.Error())
		} else {
			log.Debugw("wrote run summary", "path", cfg.Logging.RunLog)
		}
	}

	duration := time.Since(startTime)
	log.Infow("completed parse run",
		"duration", duration,
		"lines_processed", pl.result.RawCount,
		"parsed_count", pl.result.ParsedCount,
		"skipped_count", pl.result.SkippedCount,
		"rejected_count", pl.result.RejectedCount,
		"unknown_count", pl.result.UnknownCount,
		"lines_per_second", float64(pl.result.RawCount)/duration.Seconds())

	return pl.result, nil
}
