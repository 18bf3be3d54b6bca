package config

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// TaxonomyEntry maps one raw action token to a user action / sub-action pair.
type TaxonomyEntry struct {
	Action    string `yaml:"action"`
	SubAction string `yaml:"sub_action"`
}

// Taxonomy holds extra raw action tokens per action type, on top of the
// built-in tables. Only the spaces, pages and labels action types accept
// extensions.
type Taxonomy struct {
	Spaces map[string]TaxonomyEntry `yaml:"spaces"`
	Pages  map[string]TaxonomyEntry `yaml:"pages"`
	Labels map[string]TaxonomyEntry `yaml:"labels"`
}

// Len returns the number of extension entries across all sections.
func (t *Taxonomy) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Spaces) + len(t.Pages) + len(t.Labels)
}

// ValidateTaxonomy decodes and validates a taxonomy extension YAML document.
func ValidateTaxonomy(r io.Reader) (*Taxonomy, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var t Taxonomy
	if err := dec.Decode(&t); err != nil {
		if errors.Is(err, io.EOF) {
			return &Taxonomy{}, nil
		}
		return nil, fmt.Errorf("failed to decode taxonomy YAML: %w", err)
	}

	sections := map[string]map[string]TaxonomyEntry{
		"spaces": t.Spaces,
		"pages":  t.Pages,
		"labels": t.Labels,
	}
	names := make([]string, 0, len(sections))
	for name := range sections {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for token, entry := range sections[name] {
			if err := validateEntry(token, entry); err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
		}
	}
	return &t, nil
}

func validateEntry(token string, entry TaxonomyEntry) error {
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("empty action token")
	}
	if strings.ContainsAny(token, "/?&") {
		return fmt.Errorf("action token %q must be a single path segment", token)
	}
	if strings.TrimSpace(entry.Action) == "" {
		return fmt.Errorf("action token %q has no action", token)
	}
	return nil
}
