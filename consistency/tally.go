// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package consistency

import "sort"

// A TallyEntry is one equal-value group within a tally: the value
// itself, and how many times it occurred.
type TallyEntry[R any] struct {
	Value R
	Count int
}

// Tally groups results by equality and returns one TallyEntry per
// distinct value, sorted by Count descending. Ties are broken by each
// value's first occurrence in results, so the tally is deterministic
// for a fixed input order.
//
// Tally returns nil for an empty input; callers must treat a nil
// tally as "no decision can be made yet", not as an error.
func Tally[R comparable](results []R) []TallyEntry[R] {
	if len(results) == 0 {
		return nil
	}
	index := make(map[R]int, len(results))
	entries := make([]TallyEntry[R], 0, len(results))
	for _, r := range results {
		if i, ok := index[r]; ok {
			entries[i].Count++
			continue
		}
		index[r] = len(entries)
		entries = append(entries, TallyEntry[R]{Value: r, Count: 1})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	return entries
}
