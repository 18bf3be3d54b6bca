package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/vaibhaw-/wikilog/internal/wikilog/classify"
	"github.com/vaibhaw-/wikilog/internal/wikilog/config"
)

var (
	classifyUser      string
	classifyIP        string
	classifyTimestamp string
	classifyTaxonomy  string
	classifyJSON      bool
)

var classifyCmd = &cobra.Command{
	Use:   "classify <url>",
	Short: "Classify a single request url",
	Example: `  wikilog classify '/pages/viewpage.action?pageId=12345'
  wikilog classify https://wiki.example.com/display/ENG/Release+Notes --user jdoe`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := classifyTaxonomy
		if path == "" {
			path = config.Get().Taxonomy.File
		}
		c, err := loadClassifier(path)
		if err != nil {
			return err
		}

		a := c.Classify(relativeURL(args[0]), classifyUser, classifyTimestamp, classifyIP)

		out := cmd.OutOrStdout()
		if !classifyJSON && isTerminal(out) {
			return renderClassification(out, a)
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(a)
	},
}

func init() {
	classifyCmd.Flags().StringVar(&classifyUser, "user", "-", "user id to attach")
	classifyCmd.Flags().StringVar(&classifyIP, "ip", "", "ip address to attach")
	classifyCmd.Flags().StringVar(&classifyTimestamp, "timestamp", "", "datetime to attach")
	classifyCmd.Flags().StringVar(&classifyTaxonomy, "taxonomy", "", "YAML taxonomy extension file")
	classifyCmd.Flags().BoolVar(&classifyJSON, "json", false, "always print JSON")
}

// relativeURL strips scheme and host from an absolute url, leaving the part
// an access-log record stores as its relative url.
func relativeURL(raw string) string {
	_, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return raw
	}
	_, rel, _ := strings.Cut(rest, "/")
	return rel
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func renderClassification(w io.Writer, a classify.ClassifiedAction) error {
	table := tablewriter.NewWriter(w)
	table.Header("Field", "Value")

	rows := [][]string{
		{"action_type", a.ActionType},
		{"user_action", a.UserAction},
		{"user_sub_action", a.UserSubAction},
		{"action_name", a.ActionName},
		{"page_id", a.PageID},
		{"space_key", a.SpaceKey},
		{"title", a.Title},
		{"query_string", a.QueryString},
		{"unknown_action_url", a.UnknownActionURL},
		{"user_id", a.UserID},
		{"ip_address", a.IPAddress},
		{"datetime", a.DateTimestamp},
	}
	for _, r := range rows {
		if r[1] == "" {
			continue
		}
		if err := table.Append(r); err != nil {
			return fmt.Errorf("render: %w", err)
		}
	}
	return table.Render()
}
