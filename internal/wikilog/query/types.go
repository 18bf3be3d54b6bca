package query

import "time"

// Event is a classified access event as decoded from NDJSON. All fields of
// the original line are preserved.
type Event = map[string]any

// QueryOptions contains all CLI flags and options for the query command.
type QueryOptions struct {
	// Input/Output configuration
	InputFiles []string // Input NDJSON file(s), empty means stdin
	OutputFile string   // Output file path, empty means stdout

	// Who
	User string // user_id, "-" selects anonymous access
	IP   string // ip_address

	// What
	ActionTypes []string // action_type: display, download, labels, spaces, pages, unknown
	UserActions []string // user_action: view, edit, create, ...
	SpaceKey    string   // space_key

	// When
	Since        time.Time     // Include events on or after this time
	LastDuration time.Duration // Include events from the last N days/hours

	ExcludeUnknown bool // Drop events with action_type == "unknown"
	Limit          int  // Limit number of output events (0 = no limit)
}

// EventFilter is a function that determines if an event matches certain criteria.
// Filters are combined using AND logic and treat missing fields as non-match.
type EventFilter func(Event) bool

// EventResult is one item read from the input stream: an event or the error
// that prevented decoding it.
type EventResult struct {
	Event Event
	Err   error
}

// QueryResult reports what a query run did.
type QueryResult struct {
	InputEvents   int `json:"input_events"`
	MatchedEvents int `json:"matched_events"`
	ErrorEvents   int `json:"error_events"`
}
