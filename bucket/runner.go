// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package bucket

import "context"

// A Runner serially drives one bucket's Funcs against a fixed
// argument, one at a time, in declaration order.
//
// A Runner is not safe for concurrent use. It is meant to be owned and
// driven by a single goroutine at a time (the completion loop launches
// exactly one goroutine per live Runner).
type Runner[A, R any] struct {
	arg         A
	pending     []Func[A, R]
	recoverable func(error) bool
}

// NewRunner constructs a Runner that will try pending, in order,
// against arg, treating any error for which recoverable returns false
// as fatal.
func NewRunner[A, R any](arg A, pending []Func[A, R], recoverable func(error) bool) *Runner[A, R] {
	return &Runner[A, R]{arg: arg, pending: pending, recoverable: recoverable}
}

// Alive reports whether the bucket has any untried Funcs left.
func (r *Runner[A, R]) Alive() bool {
	return len(r.pending) > 0
}

// Next tries pending Funcs, in order, until one succeeds or all of
// them fail with a recoverable error.
//
// If a Func fails with a non-recoverable error, Next returns that
// error immediately and the Runner's remaining pending list is left
// untouched; the caller is expected to abort the whole query, so no
// further call to Next is meaningful.
//
// After a FirstSuccess is returned, the Funcs tried before it are
// consumed from pending. A later call to Next resumes with whatever
// is left.
func (r *Runner[A, R]) Next(ctx context.Context) (Outcome[A, R], error) {
	var failures []Failure[A, R]
	for len(r.pending) > 0 {
		f := r.pending[0]
		r.pending = r.pending[1:]
		result, err := f(ctx, r.arg)
		if err == nil {
			return FirstSuccess[A, R]{Result: result, Failures: failures}, nil
		}
		if !r.recoverable(err) {
			return nil, err
		}
		failures = append(failures, Failure[A, R]{Func: f, Err: err})
	}
	return Exhausted[A, R]{Failures: failures}, nil
}
