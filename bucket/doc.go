// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package bucket drives the sequential backup lists that make up one
parallel slot of a coordinated query.

A Func is a server function: a synchronous, possibly-failing mapping
from an argument to a result. Split partitions a list of Funcs into a
fixed number of buckets, one per parallel slot, and a Runner drives one
bucket's Funcs in declaration order, stopping as soon as one succeeds.

A Runner is deliberately not driven to exhaustion eagerly. After it
yields a FirstSuccess, it does no further work until Next is called
again, so a caller can decide - based on whether the first success was
already enough to satisfy its policy - whether the rest of the bucket
is worth running at all.
*/
package bucket
