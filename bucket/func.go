// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package bucket

import "context"

// A Func computes a result R from an argument A. It may fail; the
// caller classifies the returned error as recoverable or fatal using
// its own predicate - Func itself carries no opinion about that.
//
// Implementations should respect ctx and return promptly after it is
// done, but a Func that ignores ctx only pins the bucket it belongs
// to, not the whole query.
type Func[A, R any] func(ctx context.Context, arg A) (R, error)

// A Failure pairs a Func with the error it produced.
type Failure[A, R any] struct {
	Func Func[A, R]
	Err  error
}
