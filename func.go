// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package coordinator

import "github.com/gogama/coordinator/bucket"

// A Func is a server function: a synchronous, possibly-failing
// mapping from an argument A to a result R.
//
// Func is a type alias for bucket.Func so that callers can pass a
// Func to either this package or package bucket interchangeably.
type Func[A, R any] = bucket.Func[A, R]

// A Failure pairs a Func with the error it produced.
type Failure[A, R any] = bucket.Failure[A, R]
