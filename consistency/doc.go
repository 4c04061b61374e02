// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package consistency decides when a growing set of successful results is
trustworthy enough to return.

A Policy is consulted after every new result arrives. It never sees
failures, only the successful results gathered so far in the current
attempt round. Two built-in policies are provided: Count, which waits
for a quorum of bit-equal results, and Average, which waits for a fixed
number of results and folds them with a caller-supplied aggregator.

Tally groups a slice of comparable results by equality and sorts the
groups by count descending; it backs Count's quorum detection and the
diagnostic numbers carried by an inconsistency error.
*/
package consistency
