package project

import (
	"maps"
	"slices"
)

// SignificantLanguages returns the languages that make up at least threshold
// of the total bytes, sorted by name. It returns an empty slice when bytes is
// empty or sums to zero.
func SignificantLanguages(bytes map[string]int, threshold float64) []string {
	total := 0
	for _, n := range bytes {
		total += n
	}
	langs := []string{}
	if total <= 0 {
		return langs
	}
	for _, lang := range slices.Sorted(maps.Keys(bytes)) {
		if float64(bytes[lang])/float64(total) >= threshold {
			langs = append(langs, lang)
		}
	}
	return langs
}
