package query

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// GetString safely extracts a string value from an event map.
// Returns (value, ok) where ok is false if the key doesn't exist, is nil, or is not a string.
func GetString(e Event, key string) (string, bool) {
	if v, ok := e[key]; ok && v != nil {
		if s, ok := v.(string); ok {
			return s, true
		}
	}
	return "", false
}

// timestampLayouts are tried before falling back to dateparse.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// ParseTimestamp parses an event timestamp. Strings in the layouts written by
// the parse command are handled directly; anything else goes through dateparse.
func ParseTimestamp(v any) (time.Time, error) {
	if v == nil {
		return time.Time{}, fmt.Errorf("timestamp is nil")
	}

	switch t := v.(type) {
	case string:
		for _, layout := range timestampLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, nil
			}
		}
		parsed, err := dateparse.ParseIn(t, time.UTC)
		if err != nil {
			return time.Time{}, fmt.Errorf("unable to parse timestamp %q: %w", t, err)
		}
		return parsed, nil
	case time.Time:
		return t, nil
	default:
		return time.Time{}, fmt.Errorf("unsupported timestamp type: %T", v)
	}
}

// eventTime prefers the RFC3339 "timestamp" field and falls back to "datetime".
func eventTime(e Event) (time.Time, error) {
	if v, ok := GetString(e, "timestamp"); ok && v != "" {
		return ParseTimestamp(v)
	}
	return ParseTimestamp(e["datetime"])
}

// ParseSince parses the --since flag. Any format dateparse understands is
// accepted ("2013-02-08", "2013-02-08 07:00", "Feb 8, 2013", RFC3339, ...);
// zone-less values are taken as UTC.
func ParseSince(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty since value")
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid since value %q: %w", s, err)
	}
	return t, nil
}

// ParseDuration parses duration strings supporting 'd' (days) on top of Go's
// standard units, e.g. "7d", "24h", "1h30m".
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty duration string")
	}

	if daysStr, ok := strings.CutSuffix(s, "d"); ok {
		days, err := strconv.Atoi(daysStr)
		if err != nil {
			return 0, fmt.Errorf("invalid days value: %s", daysStr)
		}
		if days < 0 {
			return 0, fmt.Errorf("days cannot be negative: %d", days)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration cannot be negative: %s", s)
	}
	return d, nil
}

// matchesAny checks if any string in the slice matches the target (case-insensitive).
func matchesAny(target string, candidates []string) bool {
	for _, candidate := range candidates {
		if strings.EqualFold(target, candidate) {
			return true
		}
	}
	return false
}
