// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package consistency

// Average is a Policy that waits for m successful results and then
// folds them with Agg.
type Average[R any] struct {
	m   int
	agg func([]R) R
}

// NewAverage constructs an Average policy requiring m results, folded
// by agg. NewAverage panics if m is less than 1 or agg is nil.
func NewAverage[R any](m int, agg func([]R) R) Average[R] {
	if m < 1 {
		panic("consistency: m must be at least 1")
	}
	if agg == nil {
		panic("consistency: nil aggregator")
	}
	return Average[R]{m: m, agg: agg}
}

func (a Average[R]) Kind() Kind { return KindAverage }

func (a Average[R]) Required() int { return a.m }

func (a Average[R]) Evaluate(results []R) Evaluation[R] {
	if len(results) < a.m {
		return Evaluation[R]{}
	}
	return Evaluation[R]{Ready: true, Value: a.agg(results)}
}
