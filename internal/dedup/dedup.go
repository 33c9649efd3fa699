// Package dedup provides duplicate detection used to enforce the grammar's
// name-uniqueness invariants (Duplicates, a map-based count) and to
// collapse repeated diagnostic lines (Unique, built on the teacher's own
// go.mod dependency github.com/mpvl/unique).
package dedup

import (
	"sort"

	"github.com/mpvl/unique"
)

// stringSlice adapts a []string to mpvl/unique's Interface: sort.Interface
// plus Truncate, which reports the compacted length after Sort removes
// adjacent duplicates.
type stringSlice struct {
	s *[]string
}

func (a stringSlice) Len() int           { return len(*a.s) }
func (a stringSlice) Less(i, j int) bool { return (*a.s)[i] < (*a.s)[j] }
func (a stringSlice) Swap(i, j int)      { (*a.s)[i], (*a.s)[j] = (*a.s)[j], (*a.s)[i] }
func (a stringSlice) Truncate(n int)     { *a.s = (*a.s)[:n] }

// Duplicates returns every name that appears more than once in names, in
// first-offender order, without mutating names.
func Duplicates(names []string) []string {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	seen := make(map[string]int, len(sorted))
	for _, n := range sorted {
		seen[n]++
	}
	var dups []string
	for _, n := range names {
		if seen[n] > 1 {
			dups = append(dups, n)
			seen[n] = 0 // report each duplicate name once
		}
	}
	return dups
}

// Unique sorts a copy of names and removes duplicates using mpvl/unique's
// Sort, returning the deduplicated, sorted slice.
func Unique(names []string) []string {
	cp := append([]string(nil), names...)
	unique.Sort(stringSlice{s: &cp})
	return cp
}
