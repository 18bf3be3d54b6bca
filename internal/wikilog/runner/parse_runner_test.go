package runner

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/vaibhaw-/wikilog/internal/wikilog/classify"
	"github.com/vaibhaw-/wikilog/internal/wikilog/config"
	"github.com/vaibhaw-/wikilog/internal/wikilog/parsers"
)

func accessLine(user, relative string) string {
	return fmt.Sprintf("2013-02-08 07:29:34,845 INFO [TP-Processor3] [atlassian.confluence.util.AccessLogFilter] doFilter %s https://wiki.example.com/%s 1725173-3259 81 172.17.250.184", user, relative)
}

func testConfig() *config.Config {
	return &config.Config{
		Output:   config.OutputCfg{Format: "ndjson"},
		Pipeline: config.PipelineCfg{Workers: 4, BatchSize: 3},
	}
}

func outputLines(t *testing.T, out bytes.Buffer) []string {
	t.Helper()
	var lines []string
	sc := bufio.NewScanner(&out)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	require.NoError(t, sc.Err())
	return lines
}

// errParser fails every line with a non-malformed error.
type errParser struct{}

func (errParser) ParseLine(ctx context.Context, line string) (*parsers.LogRecord, error) {
	return nil, errors.New("boom")
}

func TestRunParse_PreservesOrder(t *testing.T) {
	var in strings.Builder
	for i := 0; i < 10; i++ {
		fmt.Fprintln(&in, accessLine(fmt.Sprintf("user%d", i), fmt.Sprintf("pages/viewpage.action?pageId=%d", i)))
	}
	var out bytes.Buffer

	p := parsers.NewAccessLogParser(parsers.ParserOptions{})
	summary, err := RunParse(context.Background(), p, nil, strings.NewReader(in.String()), &out, testConfig())
	require.NoError(t, err)

	assert.Equal(t, 10, summary.RawCount)
	assert.Equal(t, 10, summary.ParsedCount)
	assert.Equal(t, 0, summary.RejectedCount)

	lines := outputLines(t, out)
	require.Len(t, lines, 10)
	for i, line := range lines {
		assert.Equal(t, fmt.Sprintf("user%d", i), gjson.Get(line, "user_id").String())
		assert.Equal(t, fmt.Sprintf("%d", i), gjson.Get(line, "page_id").String())
		assert.Equal(t, "pages", gjson.Get(line, "action_type").String())
		assert.Equal(t, "view", gjson.Get(line, "user_action").String())
	}
}

func TestRunParse_SkipsAndRejects(t *testing.T) {
	rejectPath := filepath.Join(t.TempDir(), "rejects.jsonl")
	cfg := testConfig()
	cfg.Output.RejectFile = rejectPath

	input := strings.Join([]string{
		accessLine("rkadam", "display/HOME/home"),
		"",
		"this line is not an access log line",
		accessLine("-", "foo/bar/baz"),
	}, "\n")
	var out bytes.Buffer

	p := parsers.NewAccessLogParser(parsers.ParserOptions{})
	summary, err := RunParse(context.Background(), p, classify.NewClassifier(nil), strings.NewReader(input), &out, cfg)
	require.NoError(t, err)

	assert.Equal(t, 4, summary.RawCount)
	assert.Equal(t, 2, summary.ParsedCount)
	assert.Equal(t, 1, summary.SkippedCount)
	assert.Equal(t, 1, summary.RejectedCount)
	assert.Equal(t, 1, summary.UnknownCount)

	lines := outputLines(t, out)
	require.Len(t, lines, 2)
	assert.Equal(t, "display", gjson.Get(lines[0], "action_type").String())
	assert.Equal(t, "home", gjson.Get(lines[0], "space_key").String())
	assert.Equal(t, "unknown", gjson.Get(lines[1], "action_type").String())
	assert.Equal(t, "foo/bar/baz", gjson.Get(lines[1], "unknown_action_url").String())

	data, err := os.ReadFile(rejectPath)
	require.NoError(t, err)
	var rej Reject
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &rej))
	assert.Equal(t, 3, rej.LineNumber)
	assert.Equal(t, "this line is not an access log line", rej.Raw)
	assert.Contains(t, rej.Reason, "expected 11 fields")
}

func TestRunParse_OversizedLineIsRejected(t *testing.T) {
	rejectPath := filepath.Join(t.TempDir(), "rejects.jsonl")
	cfg := testConfig()
	cfg.Output.RejectFile = rejectPath

	huge := accessLine("rkadam", "display/HOME/"+strings.Repeat("x", maxLineBytes))
	input := strings.Join([]string{
		accessLine("rkadam", "display/HOME/home"),
		huge,
		accessLine("jdoe", "pages/viewpage.action?pageId=7"),
	}, "\n")
	var out bytes.Buffer

	p := parsers.NewAccessLogParser(parsers.ParserOptions{})
	summary, err := RunParse(context.Background(), p, nil, strings.NewReader(input), &out, cfg)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.RawCount)
	assert.Equal(t, 2, summary.ParsedCount)
	assert.Equal(t, 1, summary.RejectedCount)

	lines := outputLines(t, out)
	require.Len(t, lines, 2)
	assert.Equal(t, "rkadam", gjson.Get(lines[0], "user_id").String())
	assert.Equal(t, "7", gjson.Get(lines[1], "page_id").String())

	data, err := os.ReadFile(rejectPath)
	require.NoError(t, err)
	var rej Reject
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &rej))
	assert.Equal(t, 2, rej.LineNumber)
	assert.Contains(t, rej.Reason, "line exceeds")
	assert.Len(t, rej.Raw, maxLineBytes)
}

func TestRunParse_OversizedLineStrict(t *testing.T) {
	cfg := testConfig()
	cfg.Pipeline.Strict = true

	input := accessLine("rkadam", "display/HOME/home") + "\n" + strings.Repeat("y", maxLineBytes+10) + "\n"
	var out bytes.Buffer

	p := parsers.NewAccessLogParser(parsers.ParserOptions{})
	_, err := RunParse(context.Background(), p, nil, strings.NewReader(input), &out, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")

	var mle *parsers.MalformedLineError
	require.ErrorAs(t, err, &mle)
}

func TestRunParse_StrictMode(t *testing.T) {
	cfg := testConfig()
	cfg.Pipeline.Strict = true

	input := strings.Join([]string{
		accessLine("rkadam", "display/HOME/home"),
		accessLine("rkadam", "display/HOME/home"),
		"2013-02-08 07:29:34,845 INFO TP [cat] doFilter u https://wiki/display 1-2 81 10.0.0.1",
		accessLine("rkadam", "display/HOME/home"),
	}, "\n")
	var out bytes.Buffer

	p := parsers.NewAccessLogParser(parsers.ParserOptions{})
	_, err := RunParse(context.Background(), p, nil, strings.NewReader(input), &out, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")

	var mle *parsers.MalformedLineError
	require.ErrorAs(t, err, &mle)
	assert.Contains(t, mle.Reason, "thread name")
}

func TestRunParse_FatalParserError(t *testing.T) {
	var out bytes.Buffer
	_, err := RunParse(context.Background(), errParser{}, nil, strings.NewReader("anything\n"), &out, testConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1: parse error: boom")
	assert.Empty(t, out.String())
}

func TestRunParse_CSV(t *testing.T) {
	cfg := testConfig()
	cfg.Output.Format = "csv"

	input := accessLine("rkadam", "pages/viewpage.action?spaceKey=ENG&title=Build,+Test") + "\n"
	var out bytes.Buffer

	p := parsers.NewAccessLogParser(parsers.ParserOptions{})
	_, err := RunParse(context.Background(), p, nil, strings.NewReader(input), &out, cfg)
	require.NoError(t, err)

	records, err := csv.NewReader(&out).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	header, row := records[0], records[1]
	idx := map[string]int{}
	for i, h := range header {
		idx[h] = i
	}
	assert.Equal(t, "pages", row[idx["action_type"]])
	assert.Equal(t, "eng", row[idx["space_key"]])
	assert.Equal(t, "Build, Test", row[idx["title"]])
}

func TestRunParse_RunLog(t *testing.T) {
	runLog := filepath.Join(t.TempDir(), "run.jsonl")
	cfg := testConfig()
	cfg.Logging.RunLog = runLog
	cfg.Input.FilePath = "access.log"

	p := parsers.NewAccessLogParser(parsers.ParserOptions{})
	for i := 0; i < 2; i++ {
		var out bytes.Buffer
		_, err := RunParse(context.Background(), p, nil, strings.NewReader(accessLine("u", "homepage.action")), &out, cfg)
		require.NoError(t, err)
	}

	data, err := os.ReadFile(runLog)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2, "run log is appended, not truncated")
	assert.Equal(t, "access.log", gjson.Get(lines[1], "input").String())
	assert.Equal(t, int64(1), gjson.Get(lines[1], "parsed_count").Int())
}

func TestRunParse_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	p := parsers.NewAccessLogParser(parsers.ParserOptions{})
	_, err := RunParse(ctx, p, nil, strings.NewReader(accessLine("u", "display")), &out, testConfig())
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String())
}

func TestRunParse_UnknownOutputFormat(t *testing.T) {
	cfg := testConfig()
	cfg.Output.Format = "xml"
	var out bytes.Buffer
	p := parsers.NewAccessLogParser(parsers.ParserOptions{})
	_, err := RunParse(context.Background(), p, nil, strings.NewReader(""), &out, cfg)
	require.Error(t, err)
}

func TestRunParse_UnwritableRejectFile(t *testing.T) {
	cfg := testConfig()
	cfg.Output.RejectFile = filepath.Join(t.TempDir(), "missing", "rejects.jsonl")
	var out bytes.Buffer
	p := parsers.NewAccessLogParser(parsers.ParserOptions{})
	_, err := RunParse(context.Background(), p, nil, strings.NewReader(""), &out, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open reject file")
}
