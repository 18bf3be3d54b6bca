package event

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vaibhaw-/wikilog/internal/wikilog/classify"
	"github.com/vaibhaw-/wikilog/internal/wikilog/parsers"
)

// Event is one decoded and classified access-log line. It maps directly to the
// NDJSON output schema and to the wiki_actions table.
type Event struct {
	EventID   string `json:"event_id"`
	Timestamp string `json:"timestamp,omitempty"` // RFC3339 UTC
	DateTime  string `json:"datetime"`

	Priority    string `json:"priority,omitempty"`
	ThreadName  string `json:"thread_name,omitempty"`
	LogCategory string `json:"log_category,omitempty"`
	MethodName  string `json:"method_name,omitempty"`
	UserID      string `json:"user_id"`
	BaseURL     string `json:"base_url"`
	RelativeURL string `json:"relative_url"`
	MemoryLog   string `json:"memory_log,omitempty"`
	QueryTimeMs string `json:"query_time_ms,omitempty"`
	IPAddress   string `json:"ip_address"`

	ActionType       string   `json:"action_type"`
	UserAction       string   `json:"user_action,omitempty"`
	UserSubAction    string   `json:"user_sub_action,omitempty"`
	ActionName       string   `json:"action_name,omitempty"`
	PageID           string   `json:"page_id,omitempty"`
	SpaceKey         string   `json:"space_key,omitempty"`
	Title            string   `json:"title,omitempty"`
	QueryString      string   `json:"query_string,omitempty"`
	QueryProperties  []string `json:"query_properties,omitempty"`
	UnknownActionURL string   `json:"unknown_action_url,omitempty"`
}

// New combines a decoded record and the classification of its relative url.
func New(rec parsers.LogRecord, a classify.ClassifiedAction) *Event {
	e := &Event{
		EventID:          uuid.NewString(),
		DateTime:         rec.DateTime,
		Priority:         rec.Priority,
		ThreadName:       rec.ThreadName,
		LogCategory:      rec.LogCategory,
		MethodName:       rec.MethodName,
		UserID:           rec.UserID,
		BaseURL:          rec.BaseURL,
		RelativeURL:      rec.RelativeURL,
		MemoryLog:        rec.MemoryLog,
		QueryTimeMs:      rec.QueryTimeMs,
		IPAddress:        rec.IPAddress,
		ActionType:       a.ActionType,
		UserAction:       a.UserAction,
		UserSubAction:    a.UserSubAction,
		ActionName:       a.ActionName,
		PageID:           a.PageID,
		SpaceKey:         a.SpaceKey,
		Title:            a.Title,
		QueryString:      a.QueryString,
		UnknownActionURL: a.UnknownActionURL,
	}
	if a.QueryString != "" {
		e.QueryProperties = a.QueryProperties
	}
	if ts, err := rec.Timestamp(); err == nil {
		e.Timestamp = ts.UTC().Format(time.RFC3339)
	}
	return e
}

// Classify classifies rec.RelativeURL with c and wraps the result, passing the
// record's user, datetime and ip through as classification context.
func Classify(c *classify.Classifier, rec parsers.LogRecord) *Event {
	return New(rec, c.Classify(rec.RelativeURL, rec.UserID, rec.DateTime, rec.IPAddress))
}

var csvHeader = []string{
	"event_id", "datetime", "user_id", "ip_address", "base_url", "relative_url",
	"action_type", "user_action", "user_sub_action", "action_name",
	"page_id", "space_key", "title", "query_string", "query_properties",
	"unknown_action_url", "priority", "thread_name", "log_category",
	"method_name", "memory_log", "query_time_ms",
}

// CSVHeader returns the column names written by CSVRow, in order.
func CSVHeader() []string {
	return append([]string(nil), csvHeader...)
}

// CSVRow flattens the event in CSVHeader order. Query properties are joined with "&".
func (e *Event) CSVRow() []string {
	return []string{
		e.EventID, e.DateTime, e.UserID, e.IPAddress, e.BaseURL, e.RelativeURL,
		e.ActionType, e.UserAction, e.UserSubAction, e.ActionName,
		e.PageID, e.SpaceKey, e.Title, e.QueryString, strings.Join(e.QueryProperties, "&"),
		e.UnknownActionURL, e.Priority, e.ThreadName, e.LogCategory,
		e.MethodName, e.MemoryLog, e.QueryTimeMs,
	}
}
