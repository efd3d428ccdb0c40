package analysis

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// SortedKeys returns m's keys in ascending order. Every map this package
// (and ast2ram) derives an emitted order from goes through here, so that
// order never silently depends on Go's randomized map iteration — see
// Bundle.ExpiredAt, which forgot this once.
func SortedKeys[V any](m map[string]V) []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}
