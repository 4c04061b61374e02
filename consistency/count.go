// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package consistency

// Count is a Policy that waits for n bit-equal results before
// returning the agreed-upon value.
type Count[R comparable] struct {
	n int
}

// NewCount constructs a Count policy requiring n agreeing results.
// NewCount panics if n is less than 1; that precondition is checked
// again, non-fatally, by the coordinator at query entry, since n also
// has to be compared against the number of input functions there.
func NewCount[R comparable](n int) Count[R] {
	if n < 1 {
		panic("consistency: n must be at least 1")
	}
	return Count[R]{n: n}
}

func (c Count[R]) Kind() Kind { return KindCount }

func (c Count[R]) Required() int { return c.n }

func (c Count[R]) Evaluate(results []R) Evaluation[R] {
	t := Tally(results)
	if len(t) == 0 {
		return Evaluation[R]{}
	}
	top := t[0]
	if top.Count >= c.n {
		return Evaluation[R]{Ready: true, Value: top.Value, TopTally: top.Count}
	}
	return Evaluation[R]{TopTally: top.Count}
}
