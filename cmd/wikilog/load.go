package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vaibhaw-/wikilog/internal/wikilog/config"
	"github.com/vaibhaw-/wikilog/internal/wikilog/logger"
	"github.com/vaibhaw-/wikilog/internal/wikilog/query"
	"github.com/vaibhaw-/wikilog/internal/wikilog/store"
)

var (
	loadDriver    string
	loadDSN       string
	loadInput     []string
	loadBatchSize int
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load NDJSON events into a SQL database",
	Example: `  wikilog load --driver sqlite --dsn wiki.db --input events.ndjson
  wikilog load --driver pgx --dsn postgres://wiki@localhost/wiki --input events.ndjson --exclude-unknown`,
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().StringVar(&loadDriver, "driver", "", "sqlite|postgres|pgx|mysql (default from store.driver)")
	loadCmd.Flags().StringVar(&loadDSN, "dsn", "", "data source name (default from store.dsn)")
	loadCmd.Flags().StringSliceVar(&loadInput, "input", nil, "input NDJSON file(s) (default stdin)")
	loadCmd.Flags().IntVar(&loadBatchSize, "batch-size", 0, "rows per insert transaction")
	addFilterFlags(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	log := logger.L()

	if loadDriver != "" {
		cfg.Store.Driver = loadDriver
	}
	if loadDSN != "" {
		cfg.Store.DSN = loadDSN
	}
	if loadBatchSize > 0 {
		cfg.Store.BatchSize = loadBatchSize
	}
	if cfg.Store.DSN == "" {
		return fmt.Errorf("--dsn or store.dsn is required")
	}

	opts, err := queryOptions()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	s, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DSN)
	if err != nil {
		return err
	}
	defer s.Close()

	// Events pass through the query filters on their way into the store.
	pr, pw := io.Pipe()
	filterDone := make(chan error, 1)
	go func() {
		res, err := query.Filter(ctx, query.ReadEvents(ctx, loadInput), pw, opts)
		log.Infow("filtered events for load",
			"input_events", res.InputEvents,
			"matched_events", res.MatchedEvents,
			"error_events", res.ErrorEvents)
		pw.CloseWithError(err)
		filterDone <- err
	}()

	sum, err := store.Load(ctx, s, pr, cfg.Store.BatchSize)
	if err != nil {
		cancel()
		pr.CloseWithError(err)
		<-filterDone
		return fmt.Errorf("load: %w", err)
	}
	if err := <-filterDone; err != nil {
		return err
	}

	log.Infow("load finished",
		"driver", cfg.Store.Driver,
		"lines", sum.Lines,
		"inserted", sum.Inserted,
		"invalid", sum.Invalid)
	return nil
}
