// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package coordinator

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// slotSemaphore bounds the number of concurrently outstanding server
// calls to MaxParallel.
//
// The bucket split already guarantees at most MaxParallel buckets
// exist, and a bucket only ever has one call outstanding at a time, so
// this bound is never actually exceeded without the semaphore either.
// It exists so the "no more than MaxParallel calls outstanding"
// invariant is enforced by an explicit, independently testable
// mechanism rather than only following incidentally from the bucket
// count.
type slotSemaphore struct {
	w *semaphore.Weighted
}

func newSlotSemaphore(n int64) *slotSemaphore {
	return &slotSemaphore{w: semaphore.NewWeighted(n)}
}

// acquire blocks until a slot is available or ctx is done. It reports
// false if ctx ended the wait first.
func (s *slotSemaphore) acquire(ctx context.Context) bool {
	return s.w.Acquire(ctx, 1) == nil
}

func (s *slotSemaphore) release() {
	s.w.Release(1)
}
