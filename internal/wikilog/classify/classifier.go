package classify

import (
	"encoding/hex"
	"maps"
	"strings"

	"github.com/vaibhaw-/wikilog/internal/wikilog/config"
)

// Query string properties harvested from /pages URLs.
const (
	propPageID   = "pageId"
	propTitle    = "title"
	propSpaceKey = "spaceKey"
)

// Classifier interprets wiki request URLs. A Classifier is immutable once
// built and safe for concurrent use.
type Classifier struct {
	spaces map[string]Action
	pages  map[string]Action
	labels map[string]Action
}

var defaultClassifier = NewClassifier(nil)

// NewClassifier builds a Classifier from the built-in tables plus the optional
// extension entries in ext. Built-in entries take precedence over extensions.
func NewClassifier(ext *config.Taxonomy) *Classifier {
	c := &Classifier{
		spaces: maps.Clone(spacesActions),
		pages:  maps.Clone(pagesActions),
		labels: maps.Clone(labelsActions),
	}
	if ext != nil {
		extend(c.spaces, ext.Spaces)
		extend(c.pages, ext.Pages)
		extend(c.labels, ext.Labels)
	}
	return c
}

func extend(dst map[string]Action, src map[string]config.TaxonomyEntry) {
	for token, e := range src {
		if _, ok := dst[token]; ok {
			continue
		}
		dst[token] = Action{UserAction: e.Action, UserSubAction: e.SubAction}
	}
}

// ClassifyURL classifies a request URL with the built-in tables.
// See (*Classifier).Classify.
func ClassifyURL(rawURL, userID, timestamp, ipAddress string) ClassifiedAction {
	return defaultClassifier.Classify(rawURL, userID, timestamp, ipAddress)
}

// Classify interprets the relative request URL (path plus optional query
// string). It never fails: URLs it does not recognise come back with
// ActionType "unknown" and UnknownActionURL set to the path.
func (c *Classifier) Classify(rawURL, userID, timestamp, ipAddress string) ClassifiedAction {
	a := ClassifiedAction{
		UserID:        userID,
		IPAddress:     ipAddress,
		DateTimestamp: timestamp,
	}

	path, query, _ := strings.Cut(rawURL, "?")
	a.QueryString = query
	a.QueryProperties = strings.Split(query, "&")

	// Some requests carry two or more leading slashes.
	path = strings.TrimLeft(path, "/")
	parts := strings.Split(path, "/")

	a.ActionType = parts[0]
	switch a.ActionType {
	case ActionDisplay:
		a.UserAction = "view"
		// "/display" alone lands on the dashboard, "/display/<space>" on the space home page.
		if len(parts) == 1 {
			a.UserSubAction = "dashboard"
		} else {
			a.UserSubAction = "page"
			a.SpaceKey = strings.ToLower(parts[1])
		}
		if len(parts) > 2 {
			a.Title = parts[2]
		}

	case ActionDownload:
		a.UserAction = "download"
		if len(parts) > 1 {
			a.UserSubAction = parts[1]
		}
		if a.UserSubAction == "attachments" {
			if len(parts) > 2 {
				a.PageID = parts[2]
			}
			if len(parts) > 3 {
				a.Title = parts[3]
			}
		}

	case ActionLabels:
		if len(parts) > 1 {
			a.ActionName = parts[1]
			a.UserAction = parts[1]
			if act, ok := c.labels[a.ActionName]; ok {
				a.UserAction, a.UserSubAction = act.UserAction, act.UserSubAction
			}
		}

	case ActionSpaces:
		if len(parts) > 1 {
			a.ActionName = parts[1]
			act := c.spaces[a.ActionName]
			a.UserAction, a.UserSubAction = act.UserAction, act.UserSubAction
		}

	case ActionPages:
		if len(parts) > 1 {
			a.ActionName = parts[1]
			act := c.pages[a.ActionName]
			a.UserAction, a.UserSubAction = act.UserAction, act.UserSubAction
		}
		a.harvestQuery()

	case homepageAction:
		a.ActionType = ActionDisplay
		a.ActionName = homepageAction

	default:
		a.ActionType = ActionUnknown
		a.UnknownActionURL = path
	}

	if a.Title != "" {
		a.Title = decodeTitle(a.Title)
	}
	return a
}

// harvestQuery copies pageId, title and spaceKey out of the query properties.
// A property that appears more than once keeps its last value.
func (a *ClassifiedAction) harvestQuery() {
	for _, prop := range a.QueryProperties {
		name, value, _ := strings.Cut(prop, "=")
		switch name {
		case propPageID:
			a.PageID = value
		case propTitle:
			a.Title = value
		case propSpaceKey:
			a.SpaceKey = strings.ToLower(value)
		}
	}
}

// decodeTitle undoes form encoding: "+" becomes a space and every valid %XX
// escape is decoded. A '%' that does not start a valid escape is kept as is.
func decodeTitle(s string) string {
	s = strings.ReplaceAll(s, "+", " ")
	if !strings.Contains(s, "%") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) {
			if v, err := hex.DecodeString(s[i+1 : i+3]); err == nil {
				b.WriteByte(v[0])
				i += 2
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// Tables returns copies of the effective action tables keyed by action type.
func (c *Classifier) Tables() map[string]map[string]Action {
	return map[string]map[string]Action{
		ActionSpaces: maps.Clone(c.spaces),
		ActionPages:  maps.Clone(c.pages),
		ActionLabels: maps.Clone(c.labels),
	}
}
