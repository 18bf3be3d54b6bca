package loadgen

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/brianvoe/gofakeit/v7"

	"github.com/vaibhaw-/wikilog/internal/wikilog/classify"
)

const defaultStart = "2013-02-08 07:00:00"

type kind int

const (
	kindDisplay kind = iota
	kindDownload
	kindLabels
	kindSpaces
	kindPages
	kindHomepage
	kindUnknown
	kindMalformed
)

var (
	threads    = []string{"TP-Processor1", "TP-Processor2", "TP-Processor3", "http-8080-7", "http-8080-12"}
	unknownURL = []string{"rest/api/content", "s/en_GB/3047/_/images/icon.png", "favicon.ico", "plugins/servlet/gadgets", ""}
	attachExt  = []string{"pdf", "png", "docx", "xlsx", "zip"}
)

// Generator writes synthetic Confluence access-log lines.
type Generator struct {
	faker   *gofakeit.Faker
	profile Profile
	mix     Mix
	users   []string
	spaces  []string
	spaceTk []string
	pageTk  []string
	clock   time.Time
}

// New builds a generator. A non-zero seed makes the output reproducible.
func New(p Profile) (*Generator, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if p.Host == "" {
		p.Host = DefaultProfile().Host
	}
	if p.Users <= 0 {
		p.Users = DefaultProfile().Users
	}
	if p.Spaces <= 0 {
		p.Spaces = DefaultProfile().Spaces
	}
	start := p.Start
	if start == "" {
		start = defaultStart
	}
	clock, err := dateparse.ParseIn(start, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("invalid start time %q: %w", start, err)
	}

	g := &Generator{
		faker:   gofakeit.New(uint64(p.Seed)),
		profile: p,
		mix:     p.Mix.normalize(),
		clock:   clock.UTC(),
	}
	for i := 0; i < p.Users; i++ {
		g.users = append(g.users, strings.ToLower(strings.Join(strings.Fields(g.faker.Username()), "")))
	}
	for i := 0; i < p.Spaces; i++ {
		g.spaces = append(g.spaces, strings.ToUpper(g.faker.LetterN(uint(g.faker.Number(2, 5)))))
	}

	// Iterate over sorted tokens so a seed yields the same lines every run.
	tables := classify.NewClassifier(nil).Tables()
	g.spaceTk = sortedKeys(tables[classify.ActionSpaces])
	g.pageTk = sortedKeys(tables[classify.ActionPages])
	return g, nil
}

// Line returns the next generated line.
func (g *Generator) Line() string {
	g.clock = g.clock.Add(time.Duration(g.faker.Number(1, 4000)) * time.Millisecond)

	k := g.pick()
	if k == kindMalformed {
		return g.malformed()
	}

	user := "-"
	if g.faker.Float64() >= g.profile.AnonymousRate {
		user = g.faker.RandomString(g.users)
	}

	return fmt.Sprintf("%s,%03d INFO [%s] [atlassian.confluence.util.AccessLogFilter] doFilter %s https://%s/%s %d-%d %d %s",
		g.clock.Format("2006-01-02 15:04:05"),
		g.clock.Nanosecond()/int(time.Millisecond),
		g.faker.RandomString(threads),
		user,
		g.profile.Host,
		g.path(k),
		g.faker.Number(100000, 4000000), g.faker.Number(0, 9999),
		g.faker.Number(1, 2500),
		g.faker.IPv4Address(),
	)
}

// Write emits n lines to w and returns how many were written. It stops early
// when ctx is cancelled.
func (g *Generator) Write(ctx context.Context, w io.Writer, n int) (int, error) {
	bw := bufio.NewWriter(w)
	for i := 0; i < n; i++ {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				bw.Flush()
				return i, err
			}
		}
		if _, err := bw.WriteString(g.Line() + "\n"); err != nil {
			return i, fmt.Errorf("write line %d: %w", i+1, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return n, fmt.Errorf("flush: %w", err)
	}
	return n, nil
}

func (g *Generator) pick() kind {
	r := g.faker.Float64()
	m := g.mix
	for i, w := range []float64{m.Display, m.Download, m.Labels, m.Spaces, m.Pages, m.Homepage, m.Unknown, m.Malformed} {
		if r < w {
			return kind(i)
		}
		r -= w
	}
	return kindDisplay
}

func (g *Generator) path(k kind) string {
	f := g.faker
	space := f.RandomString(g.spaces)
	switch k {
	case kindDisplay:
		if f.Number(0, 9) == 0 {
			return "display/" + space
		}
		return "display/" + space + "/" + g.title()
	case kindDownload:
		if f.Bool() {
			return fmt.Sprintf("download/attachments/%d/%s.%s",
				f.Number(10000, 9999999), g.title(), f.RandomString(attachExt))
		}
		return fmt.Sprintf("download/thumbnails/%d/%s.png", f.Number(10000, 9999999), url.PathEscape(f.Noun()))
	case kindLabels:
		if f.Number(0, 4) == 0 {
			return "labels/" + url.PathEscape(f.Noun()) + ".action"
		}
		return "labels/" + f.RandomString([]string{"listlabels-heatmap.action", "viewlabel.action"}) + "?ids=" + f.DigitN(6)
	case kindSpaces:
		return "spaces/" + f.RandomString(g.spaceTk) + "?key=" + space
	case kindPages:
		var q string
		switch f.Number(0, 2) {
		case 0:
			q = "pageId=" + f.DigitN(7)
		case 1:
			q = "spaceKey=" + space + "&title=" + g.title()
		default:
			q = "spaceKey=" + space
		}
		return "pages/" + f.RandomString(g.pageTk) + "?" + q
	case kindHomepage:
		return "homepage.action"
	default:
		return f.RandomString(unknownURL)
	}
}

// title returns a page title in the '+' separated, percent-encoded form the
// wiki puts in urls.
func (g *Generator) title() string {
	words := []string{g.faker.Adjective(), g.faker.Noun()}
	if g.faker.Number(0, 3) == 0 {
		words = append(words, "&", g.faker.Noun())
	}
	return url.QueryEscape(strings.Join(words, " "))
}

// malformed returns a line the decoder rejects.
func (g *Generator) malformed() string {
	switch g.faker.Number(0, 2) {
	case 0:
		return g.clock.Format("2006-01-02") + " truncated " + g.faker.Word()
	case 1:
		return fmt.Sprintf("%s,000 INFO TP-Processor1 [x] doFilter - https://%s/display/A 1-1 1 %s",
			g.clock.Format("2006-01-02 15:04:05"), g.profile.Host, g.faker.IPv4Address())
	default:
		return fmt.Sprintf("%s,000 INFO [t] [c] doFilter - nourl 1-1 1 %s",
			g.clock.Format("2006-01-02 15:04:05"), g.faker.IPv4Address())
	}
}
