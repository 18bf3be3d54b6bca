package event

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/vaibhaw-/wikilog/internal/wikilog/classify"
	"github.com/vaibhaw-/wikilog/internal/wikilog/parsers"
)

const sampleLine = `2013-02-08 07:29:34,845 INFO [TP-Processor3] [atlassian.confluence.util.AccessLogFilter] doFilter rkadam https://wiki.example.com/display/HOME/home 1725173-3259 81 172.17.250.184`

func TestClassify_EndToEnd(t *testing.T) {
	rec, err := parsers.DecodeLogLine(sampleLine)
	require.NoError(t, err)

	e := Classify(classify.NewClassifier(nil), rec)

	_, err = uuid.Parse(e.EventID)
	assert.NoError(t, err, "event id should be a uuid")
	assert.Equal(t, "2013-02-08T07:29:34Z", e.Timestamp)
	assert.Equal(t, "2013-02-08 07:29:34", e.DateTime)
	assert.Equal(t, "wiki.example.com", e.BaseURL)
	assert.Equal(t, "display/HOME/home", e.RelativeURL)
	assert.Equal(t, "display", e.ActionType)
	assert.Equal(t, "view", e.UserAction)
	assert.Equal(t, "page", e.UserSubAction)
	assert.Equal(t, "home", e.SpaceKey)
	assert.Equal(t, "home", e.Title)
	assert.Nil(t, e.QueryProperties, "no query string, no properties")
}

func TestEvent_JSON(t *testing.T) {
	rec := parsers.LogRecord{
		DateTime:    "2013-02-08 07:29:34",
		UserID:      "-",
		BaseURL:     "wiki",
		RelativeURL: "pages/viewpage.action?pageId=1&title=A+B",
		IPAddress:   "10.0.0.1",
	}
	e := Classify(classify.NewClassifier(nil), rec)

	data, err := json.Marshal(e)
	require.NoError(t, err)

	out := string(data)
	assert.Equal(t, "pages", gjson.Get(out, "action_type").String())
	assert.Equal(t, "viewpage.action", gjson.Get(out, "action_name").String())
	assert.Equal(t, "1", gjson.Get(out, "page_id").String())
	assert.Equal(t, "A B", gjson.Get(out, "title").String())
	assert.Equal(t, int64(2), gjson.Get(out, "query_properties.#").Int())
	assert.False(t, gjson.Get(out, "unknown_action_url").Exists())
	assert.False(t, gjson.Get(out, "priority").Exists())
}

func TestEvent_UnparseableDateTime(t *testing.T) {
	rec := parsers.LogRecord{DateTime: "not a date", RelativeURL: "foo"}
	e := Classify(classify.NewClassifier(nil), rec)
	assert.Empty(t, e.Timestamp)
	assert.Equal(t, "not a date", e.DateTime)
	assert.Equal(t, "unknown", e.ActionType)
	assert.Equal(t, "foo", e.UnknownActionURL)
}

func TestEvent_CSVRow(t *testing.T) {
	rec := parsers.LogRecord{
		DateTime:    "2013-02-08 07:29:34",
		UserID:      "rkadam",
		RelativeURL: "pages/viewpage.action?pageId=1&title=x",
	}
	e := Classify(classify.NewClassifier(nil), rec)

	header := CSVHeader()
	row := e.CSVRow()
	require.Len(t, row, len(header))

	col := func(name string) string {
		for i, h := range header {
			if h == name {
				return row[i]
			}
		}
		t.Fatalf("no column %q", name)
		return ""
	}
	assert.Equal(t, e.EventID, col("event_id"))
	assert.Equal(t, "pageId=1&title=x", col("query_properties"))
	assert.Equal(t, "view", col("user_action"))

	header[0] = "mutated"
	assert.Equal(t, "event_id", CSVHeader()[0], "CSVHeader must return a copy")
}
