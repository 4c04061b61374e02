// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package bucket

// An Outcome is what a Runner yields from one call to Next: either the
// bucket's first success plus whatever failed along the way, or a
// report that every remaining Func failed.
//
// Outcome is a closed sum type: the only implementations are
// FirstSuccess and Exhausted.
type Outcome[A, R any] interface {
	isOutcome()
}

// FirstSuccess reports that a Func succeeded. Failures lists every
// Func tried and discarded before the successful one, in declaration
// order.
type FirstSuccess[A, R any] struct {
	Result   R
	Failures []Failure[A, R]
}

func (FirstSuccess[A, R]) isOutcome() {}

// Exhausted reports that every remaining Func in the bucket failed
// with a recoverable error.
type Exhausted[A, R any] struct {
	Failures []Failure[A, R]
}

func (Exhausted[A, R]) isOutcome() {}
