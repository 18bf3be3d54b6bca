package parsers

import (
	"fmt"
	"time"
)

// DateTimeLayout is the layout of LogRecord.DateTime. Sub-second precision is
// dropped when the record is decoded and downstream consumers rely on that.
const DateTimeLayout = "2006-01-02 15:04:05"

// LogRecord is one decoded access-log line. Records are built once by
// DecodeLogLine and never modified afterwards.
type LogRecord struct {
	Date        string `json:"date"`         // 2013-02-08
	Time        string `json:"time"`         // 07:29:34
	DateTime    string `json:"datetime"`     // 2013-02-08 07:29:34
	Priority    string `json:"priority"`     // INFO
	ThreadName  string `json:"thread_name"`  // TP-Processor3
	LogCategory string `json:"log_category"` // atlassian.confluence.util.AccessLogFilter
	MethodName  string `json:"method_name"`  // doFilter
	UserID      string `json:"user_id"`      // "-" for anonymous access
	URL         string `json:"url"`          // https://wiki.example.com/display/HOME/home
	BaseURL     string `json:"base_url"`     // wiki.example.com
	RelativeURL string `json:"relative_url"` // display/HOME/home
	MemoryLog   string `json:"memory_log"`   // 1725173-3259
	QueryTimeMs string `json:"query_time_ms"`
	IPAddress   string `json:"ip_address"`
}

// Timestamp parses DateTime into a time.Time (UTC).
func (r LogRecord) Timestamp() (time.Time, error) {
	t, err := time.Parse(DateTimeLayout, r.DateTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse datetime %q: %w", r.DateTime, err)
	}
	return t, nil
}

// Anonymous reports whether the request was made without a logged-in user.
func (r LogRecord) Anonymous() bool {
	return r.UserID == "-" || r.UserID == ""
}
