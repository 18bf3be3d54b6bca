package parsers

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

const sampleLine = `2013-02-08 07:29:34,845 INFO [TP-Processor3] [atlassian.confluence.util.AccessLogFilter] doFilter rkadam https://wiki.example.com/display/HOME/home 1725173-3259 81 172.17.250.184`

func TestDecodeLogLine_Sample(t *testing.T) {
	rec, err := DecodeLogLine(sampleLine)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := LogRecord{
		Date:        "2013-02-08",
		Time:        "07:29:34",
		DateTime:    "2013-02-08 07:29:34",
		Priority:    "INFO",
		ThreadName:  "TP-Processor3",
		LogCategory: "atlassian.confluence.util.AccessLogFilter",
		MethodName:  "doFilter",
		UserID:      "rkadam",
		URL:         "https://wiki.example.com/display/HOME/home",
		BaseURL:     "wiki.example.com",
		RelativeURL: "display/HOME/home",
		MemoryLog:   "1725173-3259",
		QueryTimeMs: "81",
		IPAddress:   "172.17.250.184",
	}
	if rec != want {
		t.Errorf("DecodeLogLine() =\n%+v\nwant\n%+v", rec, want)
	}
}

func TestDecodeLogLine_Deterministic(t *testing.T) {
	a, errA := DecodeLogLine(sampleLine)
	b, errB := DecodeLogLine(sampleLine)
	if errA != nil || errB != nil {
		t.Fatalf("unexpected errors: %v, %v", errA, errB)
	}
	if a != b {
		t.Errorf("decoding the same line twice differs: %+v vs %+v", a, b)
	}
}

func TestDecodeLogLine_Fields(t *testing.T) {
	tests := []struct {
		name         string
		line         string
		wantDateTime string
		wantBase     string
		wantRelative string
		wantIP       string
	}{
		{
			name:         "tabs and repeated spaces",
			line:         "2013-02-08\t07:29:34,845  INFO [t] [c] doFilter - https://wiki/pages/viewpage.action?pageId=1 1-2 5 10.0.0.1",
			wantDateTime: "2013-02-08 07:29:34",
			wantBase:     "wiki",
			wantRelative: "pages/viewpage.action?pageId=1",
			wantIP:       "10.0.0.1",
		},
		{
			name:         "time without milliseconds",
			line:         "2013-02-08 07:29:34 INFO [t] [c] doFilter - https://wiki/display 1-2 5 10.0.0.1",
			wantDateTime: "2013-02-08 07:29:34",
			wantBase:     "wiki",
			wantRelative: "display",
			wantIP:       "10.0.0.1",
		},
		{
			name:         "host with trailing slash only",
			line:         "2013-02-08 07:29:34,001 INFO [t] [c] doFilter - https://wiki.example.com/ 1-2 5 10.0.0.1",
			wantDateTime: "2013-02-08 07:29:34",
			wantBase:     "wiki.example.com",
			wantRelative: "",
			wantIP:       "10.0.0.1",
		},
		{
			name:         "double slash in path is preserved",
			line:         "2013-02-08 07:29:34,001 INFO [t] [c] doFilter - https://wiki//display/ENG 1-2 5 10.0.0.1",
			wantDateTime: "2013-02-08 07:29:34",
			wantBase:     "wiki",
			wantRelative: "/display/ENG",
			wantIP:       "10.0.0.1",
		},
		{
			name:         "extra trailing fields are ignored",
			line:         sampleLine + " trailing junk",
			wantDateTime: "2013-02-08 07:29:34",
			wantBase:     "wiki.example.com",
			wantRelative: "display/HOME/home",
			wantIP:       "172.17.250.184",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := DecodeLogLine(tt.line)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.DateTime != tt.wantDateTime {
				t.Errorf("DateTime = %q, want %q", rec.DateTime, tt.wantDateTime)
			}
			if rec.DateTime != rec.Date+" "+rec.Time {
				t.Errorf("DateTime %q is not Date+\" \"+Time", rec.DateTime)
			}
			if rec.BaseURL != tt.wantBase {
				t.Errorf("BaseURL = %q, want %q", rec.BaseURL, tt.wantBase)
			}
			if rec.RelativeURL != tt.wantRelative {
				t.Errorf("RelativeURL = %q, want %q", rec.RelativeURL, tt.wantRelative)
			}
			if rec.IPAddress != tt.wantIP {
				t.Errorf("IPAddress = %q, want %q", rec.IPAddress, tt.wantIP)
			}
		})
	}
}

func TestDecodeLogLine_Malformed(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		wantReason string
	}{
		{
			name:       "empty",
			line:       "",
			wantReason: "expected 11 fields, got 0",
		},
		{
			name:       "too few fields",
			line:       "2013-02-08 07:29:34,845 INFO [TP-Processor3] [cat] doFilter rkadam https://wiki/display/HOME 1-2 81",
			wantReason: "expected 11 fields, got 10",
		},
		{
			name:       "thread not bracketed",
			line:       "2013-02-08 07:29:34,845 INFO TP-Processor3 [cat] doFilter rkadam https://wiki/display/HOME 1-2 81 10.0.0.1",
			wantReason: "thread name",
		},
		{
			name:       "category missing closing bracket",
			line:       "2013-02-08 07:29:34,845 INFO [TP] [cat doFilter rkadam https://wiki/display/HOME 1-2 81 10.0.0.1",
			wantReason: "log category",
		},
		{
			name:       "single bracket character",
			line:       "2013-02-08 07:29:34,845 INFO [ [cat] doFilter rkadam https://wiki/display/HOME 1-2 81 10.0.0.1",
			wantReason: "thread name",
		},
		{
			name:       "url without host",
			line:       "2013-02-08 07:29:34,845 INFO [TP] [cat] doFilter rkadam /display 1-2 81 10.0.0.1",
			wantReason: "no host segment",
		},
		{
			name:       "url with scheme and host but no path slash",
			line:       "2013-02-08 07:29:34,845 INFO [TP] [cat] doFilter rkadam https://wiki.example.com 1-2 81 10.0.0.1",
			wantReason: "no host segment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeLogLine(tt.line)
			if err == nil {
				t.Fatalf("expected error, got nil")
			}
			var mle *MalformedLineError
			if !errors.As(err, &mle) {
				t.Fatalf("error %T is not *MalformedLineError", err)
			}
			if mle.Line != tt.line {
				t.Errorf("Line = %q, want %q", mle.Line, tt.line)
			}
			if !strings.Contains(mle.Reason, tt.wantReason) {
				t.Errorf("Reason = %q, want it to contain %q", mle.Reason, tt.wantReason)
			}
		})
	}
}

func TestLogRecord_Timestamp(t *testing.T) {
	rec, err := DecodeLogLine(sampleLine)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ts, err := rec.Timestamp()
	if err != nil {
		t.Fatalf("Timestamp() error: %v", err)
	}
	want := time.Date(2013, 2, 8, 7, 29, 34, 0, time.UTC)
	if !ts.Equal(want) {
		t.Errorf("Timestamp() = %v, want %v", ts, want)
	}
	if got := ts.Format(DateTimeLayout); got != rec.DateTime {
		t.Errorf("Timestamp round trip = %q, want %q", got, rec.DateTime)
	}

	bad := LogRecord{DateTime: "yesterday noon"}
	if _, err := bad.Timestamp(); err == nil {
		t.Errorf("expected error for unparseable datetime")
	}
}

func TestLogRecord_Anonymous(t *testing.T) {
	if !(LogRecord{UserID: "-"}).Anonymous() {
		t.Errorf("'-' should be anonymous")
	}
	if (LogRecord{UserID: "rkadam"}).Anonymous() {
		t.Errorf("rkadam should not be anonymous")
	}
}

func TestAccessLogParser_ParseLine(t *testing.T) {
	p := NewAccessLogParser(ParserOptions{})
	ctx := context.Background()

	if _, err := p.ParseLine(ctx, "   \t "); !errors.Is(err, ErrSkipLine) {
		t.Errorf("blank line: got %v, want ErrSkipLine", err)
	}

	rec, err := p.ParseLine(ctx, sampleLine)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.UserID != "rkadam" {
		t.Errorf("UserID = %q, want rkadam", rec.UserID)
	}

	var mle *MalformedLineError
	if _, err := p.ParseLine(ctx, "garbage line"); !errors.As(err, &mle) {
		t.Errorf("garbage line: got %v, want *MalformedLineError", err)
	}
}

func TestAccessLogParser_ExactFields(t *testing.T) {
	ctx := context.Background()
	trailing := sampleLine + " trailing junk"

	tests := []struct {
		name    string
		opts    ParserOptions
		line    string
		wantErr bool
	}{
		{"lenient accepts trailing fields", ParserOptions{}, trailing, false},
		{"exact rejects trailing fields", ParserOptions{ExactFields: true}, trailing, true},
		{"exact accepts eleven fields", ParserOptions{ExactFields: true}, sampleLine, false},
		{"exact still rejects short lines", ParserOptions{ExactFields: true}, "2013-02-08 07:29:34,845 INFO", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAccessLogParser(tt.opts).ParseLine(ctx, tt.line)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var mle *MalformedLineError
			if !errors.As(err, &mle) {
				t.Fatalf("got %v, want *MalformedLineError", err)
			}
		})
	}

	// Blank lines are skipped regardless of the policy.
	if _, err := NewAccessLogParser(ParserOptions{ExactFields: true}).ParseLine(ctx, ""); !errors.Is(err, ErrSkipLine) {
		t.Errorf("blank line: got %v, want ErrSkipLine", err)
	}
}

func BenchmarkDecodeLogLine(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = DecodeLogLine(sampleLine)
	}
}
