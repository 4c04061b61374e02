// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package bucket

// Split partitions functions into exactly p buckets and returns one
// Runner per bucket, fed by arg.
//
// The split is fair: every bucket gets either ceil(len(functions)/p)
// or floor(len(functions)/p) items. If p exceeds len(functions), the
// trailing buckets are empty; an empty bucket's Runner is immediately
// not Alive.
//
// Split panics if p is not positive; that is a programming error in
// the caller, not a caller-input error to be reported gracefully -
// validation of MaxParallel happens earlier, at Query's entry point.
func Split[A, R any](arg A, functions []Func[A, R], p int, recoverable func(error) bool) []*Runner[A, R] {
	if p <= 0 {
		panic("bucket: p must be positive")
	}
	runners := make([]*Runner[A, R], p)
	n := len(functions)
	base := n / p
	rem := n % p
	start := 0
	for i := 0; i < p; i++ {
		size := base
		if i < rem {
			size++
		}
		runners[i] = NewRunner(arg, functions[start:start+size:start+size], recoverable)
		start += size
	}
	if len(runners) != p {
		panic("bucket: split did not produce p buckets")
	}
	return runners
}
