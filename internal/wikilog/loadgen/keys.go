package loadgen

import (
	"maps"
	"slices"

	"github.com/vaibhaw-/wikilog/internal/wikilog/classify"
)

func sortedKeys(m map[string]classify.Action) []string {
	return slices.Sorted(maps.Keys(m))
}
