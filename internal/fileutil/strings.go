package fileutil

import (
	"maps"
	"slices"
)

// MapKeysSorted returns the keys of values in lexical order.
func MapKeysSorted[V any](values map[string]V) []string {
	return slices.Sorted(maps.Keys(values))
}
