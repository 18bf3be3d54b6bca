package query

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/vaibhaw-/wikilog/internal/wikilog/logger"
)

// RunQuery streams events from opts.InputFiles through the filters built from
// opts and writes the matching ones to opts.OutputFile (stdout when empty).
func RunQuery(ctx context.Context, opts QueryOptions) (QueryResult, error) {
	output, err := openOutput(opts.OutputFile)
	if err != nil {
		return QueryResult{}, fmt.Errorf("failed to open output: %w", err)
	}
	if closer, ok := output.(io.Closer); ok && output != os.Stdout {
		defer closer.Close()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	return Filter(ctx, ReadEvents(ctx, opts.InputFiles), output, opts)
}

// Filter writes events from results that match opts to w. Reading stops once
// opts.Limit matches have been written; the caller should cancel ctx to
// release the reader in that case.
func Filter(ctx context.Context, results <-chan EventResult, w io.Writer, opts QueryOptions) (QueryResult, error) {
	log := logger.L()
	filters := buildFilters(opts)
	var res QueryResult

	for result := range results {
		if result.Err != nil {
			res.ErrorEvents++
			log.Warnw("skipping unreadable event", "err", result.Err.Error())
			continue
		}
		res.InputEvents++

		if !matchAll(result.Event, filters) {
			continue
		}
		res.MatchedEvents++
		if err := WriteEventNDJSON(w, result.Event); err != nil {
			return res, fmt.Errorf("failed to write event: %w", err)
		}
		if opts.Limit > 0 && res.MatchedEvents >= opts.Limit {
			break
		}
	}

	log.Debugw("query complete",
		"input_events", res.InputEvents,
		"matched_events", res.MatchedEvents,
		"error_events", res.ErrorEvents)
	return res, ctx.Err()
}

// buildFilters translates options into a filter chain. Only options that are
// set produce a filter.
func buildFilters(opts QueryOptions) []EventFilter {
	var filters []EventFilter

	if opts.User != "" {
		filters = append(filters, FilterByUser(opts.User))
	}
	if opts.IP != "" {
		filters = append(filters, FilterByIP(opts.IP))
	}
	if len(opts.ActionTypes) > 0 {
		filters = append(filters, FilterByActionType(opts.ActionTypes))
	}
	if len(opts.UserActions) > 0 {
		filters = append(filters, FilterByUserAction(opts.UserActions))
	}
	if opts.SpaceKey != "" {
		filters = append(filters, FilterBySpace(opts.SpaceKey))
	}
	if !opts.Since.IsZero() || opts.LastDuration > 0 {
		filters = append(filters, FilterByTime(opts.Since, opts.LastDuration))
	}
	if opts.ExcludeUnknown {
		filters = append(filters, FilterExcludeUnknown())
	}

	return filters
}

// openOutput opens the output file or returns stdout.
func openOutput(outputFile string) (io.Writer, error) {
	if outputFile == "" {
		return os.Stdout, nil
	}

	file, err := os.Create(outputFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file %s: %w", outputFile, err)
	}

	return file, nil
}
