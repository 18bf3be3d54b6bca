package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vaibhaw-/wikilog/internal/wikilog/logger"
	"github.com/vaibhaw-/wikilog/internal/wikilog/query"
)

var (
	queryInput          []string
	queryOutput         string
	queryUser           string
	queryIP             string
	queryActionTypes    []string
	queryUserActions    []string
	querySpace          string
	querySince          string
	queryLast           string
	queryExcludeUnknown bool
	queryLimit          int
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Filter NDJSON events produced by parse",
	Example: `  wikilog query --input events.ndjson --action-type pages --user-action edit
  wikilog parse --input access.log | wikilog query --space eng --last 7d`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := queryOptions()
		if err != nil {
			return err
		}
		opts.InputFiles = queryInput
		opts.OutputFile = queryOutput

		res, err := query.RunQuery(cmd.Context(), opts)
		if err != nil {
			return err
		}
		logger.L().Infow("query finished",
			"input_events", res.InputEvents,
			"matched_events", res.MatchedEvents,
			"error_events", res.ErrorEvents)
		return nil
	},
}

// queryOptions builds the filter options shared by query and load.
func queryOptions() (query.QueryOptions, error) {
	opts := query.QueryOptions{
		User:           queryUser,
		IP:             queryIP,
		ActionTypes:    queryActionTypes,
		UserActions:    queryUserActions,
		SpaceKey:       querySpace,
		ExcludeUnknown: queryExcludeUnknown,
		Limit:          queryLimit,
	}
	if querySince != "" {
		t, err := query.ParseSince(querySince)
		if err != nil {
			return opts, fmt.Errorf("invalid --since: %w", err)
		}
		opts.Since = t
	}
	if queryLast != "" {
		d, err := query.ParseDuration(queryLast)
		if err != nil {
			return opts, fmt.Errorf("invalid --last: %w", err)
		}
		opts.LastDuration = d
	}
	return opts, nil
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&queryUser, "user", "", "user id (\"-\" for anonymous)")
	cmd.Flags().StringVar(&queryIP, "ip", "", "client ip address")
	cmd.Flags().StringSliceVar(&queryActionTypes, "action-type", nil, "action types: display,download,labels,spaces,pages,unknown")
	cmd.Flags().StringSliceVar(&queryUserActions, "user-action", nil, "user actions, e.g. view,edit,create")
	cmd.Flags().StringVar(&querySpace, "space", "", "space key")
	cmd.Flags().StringVar(&querySince, "since", "", "only events at or after this time (any common date format)")
	cmd.Flags().StringVar(&queryLast, "last", "", "only events from the last duration, e.g. 24h or 7d")
	cmd.Flags().BoolVar(&queryExcludeUnknown, "exclude-unknown", false, "drop unknown actions")
	cmd.Flags().IntVar(&queryLimit, "limit", 0, "stop after this many matches")
}

func init() {
	queryCmd.Flags().StringSliceVar(&queryInput, "input", nil, "input NDJSON file(s) (default stdin)")
	queryCmd.Flags().StringVar(&queryOutput, "output", "", "output file (default stdout)")
	addFilterFlags(queryCmd)
}
