package parsers

import (
	"context"
	"strings"
)

// fieldCount is the number of whitespace-separated fields in an access-log line.
// Lines with more fields are accepted and the trailing fields are ignored.
const fieldCount = 11

// Field positions, e.g.
//
//	2013-02-08 07:29:34,845 INFO [TP-Processor3] [atlassian.confluence.util.AccessLogFilter] doFilter rkadam https://wiki.example.com/display/HOME/home 1725173-3259 81 172.17.250.184
const (
	fieldDate = iota
	fieldTime
	fieldPriority
	fieldThread
	fieldCategory
	fieldMethod
	fieldUser
	fieldURL
	fieldMemory
	fieldQueryTime
	fieldIP
)

// AccessLogParser decodes Confluence AccessLogFilter lines.
type AccessLogParser struct {
	opts ParserOptions
}

// NewAccessLogParser constructs an AccessLogParser.
func NewAccessLogParser(opts ParserOptions) *AccessLogParser {
	return &AccessLogParser{opts: opts}
}

// ParseLine skips blank lines and decodes everything else with DecodeLogLine.
// With ExactFields set, lines carrying trailing fields are malformed.
func (p *AccessLogParser) ParseLine(ctx context.Context, line string) (*LogRecord, error) {
	if strings.TrimSpace(line) == "" {
		return nil, ErrSkipLine
	}
	if p.opts.ExactFields {
		if n := len(strings.Fields(line)); n > fieldCount {
			return nil, malformed(line, "expected %d fields, got %d", fieldCount, n)
		}
	}
	rec, err := DecodeLogLine(line)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// DecodeLogLine splits one access-log line into a LogRecord.
// It fails with *MalformedLineError when the line has fewer than 11 fields,
// when the thread or category field is not wrapped in brackets, or when the
// url has no host segment.
func DecodeLogLine(line string) (LogRecord, error) {
	fields := strings.Fields(line)
	if len(fields) < fieldCount {
		return LogRecord{}, malformed(line, "expected %d fields, got %d", fieldCount, len(fields))
	}

	thread, ok := unbracket(fields[fieldThread])
	if !ok {
		return LogRecord{}, malformed(line, "thread name %q is not bracketed", fields[fieldThread])
	}
	category, ok := unbracket(fields[fieldCategory])
	if !ok {
		return LogRecord{}, malformed(line, "log category %q is not bracketed", fields[fieldCategory])
	}

	rawURL := fields[fieldURL]
	baseURL, relativeURL, ok := splitURL(rawURL)
	if !ok {
		return LogRecord{}, malformed(line, "url %q has no host segment", rawURL)
	}

	date := fields[fieldDate]
	clock, _, _ := strings.Cut(fields[fieldTime], ",") // drop milliseconds

	return LogRecord{
		Date:        date,
		Time:        clock,
		DateTime:    date + " " + clock,
		Priority:    fields[fieldPriority],
		ThreadName:  thread,
		LogCategory: category,
		MethodName:  fields[fieldMethod],
		UserID:      fields[fieldUser],
		URL:         rawURL,
		BaseURL:     baseURL,
		RelativeURL: relativeURL,
		MemoryLog:   fields[fieldMemory],
		QueryTimeMs: fields[fieldQueryTime],
		IPAddress:   fields[fieldIP],
	}, nil
}

// unbracket removes exactly one leading '[' and one trailing ']'.
func unbracket(s string) (string, bool) {
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return "", false
	}
	return s[1 : len(s)-1], true
}

// splitURL splits scheme://host/path into host and path. The third "/"-separated
// segment is the host; everything after it, rejoined with "/", is the relative url.
func splitURL(u string) (base, relative string, ok bool) {
	parts := strings.Split(u, "/")
	if len(parts) < 4 {
		return "", "", false
	}
	return parts[2], strings.Join(parts[3:], "/"), true
}
