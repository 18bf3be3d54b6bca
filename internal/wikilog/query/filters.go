package query

import (
	"strings"
	"time"
)

// FilterByUser matches events by user_id (case-insensitive).
func FilterByUser(user string) EventFilter {
	return func(e Event) bool {
		u, ok := GetString(e, "user_id")
		return ok && strings.EqualFold(u, user)
	}
}

// FilterByIP matches events by ip_address.
func FilterByIP(ip string) EventFilter {
	return func(e Event) bool {
		v, ok := GetString(e, "ip_address")
		return ok && strings.EqualFold(v, ip)
	}
}

// FilterByActionType matches events whose action_type is any of types.
func FilterByActionType(types []string) EventFilter {
	return func(e Event) bool {
		v, ok := GetString(e, "action_type")
		return ok && matchesAny(v, types)
	}
}

// FilterByUserAction matches events whose user_action is any of actions.
func FilterByUserAction(actions []string) EventFilter {
	return func(e Event) bool {
		v, ok := GetString(e, "user_action")
		return ok && matchesAny(v, actions)
	}
}

// FilterBySpace matches events in the given space. Space keys are stored
// lower-cased, so the comparison is case-insensitive.
func FilterBySpace(key string) EventFilter {
	return func(e Event) bool {
		v, ok := GetString(e, "space_key")
		return ok && strings.EqualFold(v, key)
	}
}

// FilterByTime matches events on or after since, or within the last duration.
// If both are set, last takes precedence. Events without a parseable time never match.
func FilterByTime(since time.Time, last time.Duration) EventFilter {
	return func(e Event) bool {
		ts, err := eventTime(e)
		if err != nil {
			return false
		}
		if last > 0 {
			return !ts.Before(time.Now().Add(-last))
		}
		if !since.IsZero() {
			return !ts.Before(since)
		}
		return true
	}
}

// FilterExcludeUnknown drops events the classifier could not interpret.
func FilterExcludeUnknown() EventFilter {
	return func(e Event) bool {
		v, ok := GetString(e, "action_type")
		if !ok {
			return true
		}
		return v != "unknown"
	}
}

// matchAll applies all filters to an event using AND logic.
// If no filters are provided, all events match.
func matchAll(event Event, filters []EventFilter) bool {
	for _, filter := range filters {
		if !filter(event) {
			return false
		}
	}
	return true
}
