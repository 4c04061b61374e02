// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package coordinator runs the same logical request against several
equivalent server functions in parallel and reconciles their answers
into one trustworthy result.

It exists because a wallet querying blockchain RPC endpoints cannot
trust any single endpoint: an endpoint may be lagging, lying, or simply
unreachable. Instead of picking one endpoint and hoping, the coordinator
fans a request out across a bounded number of parallel slots, and
decides - under a pluggable consistency.Policy - when enough answers
agree (or average out) to be trustworthy.

Construct a Coordinator with NewFaultTolerantClient, supplying a
predicate that classifies which errors are recoverable (worth retrying
against a different server) versus fatal (a programming bug that should
abort the whole query):

	isRPCError := func(err error) bool {
		var e *transport.RPCError
		return errors.As(err, &e)
	}
	client, err := coordinator.NewFaultTolerantClient[string, uint64](isRPCError)

Then call Query with a Settings value describing how many servers to
race in parallel, which consistency policy to apply, and how many
retries are allowed for each failure class:

	settings := coordinator.Settings[uint64]{
		MaxParallel: 3,
		Policy:      consistency.NewCount[uint64](2),
		Retries:     2,
	}
	balance, err := client.Query(ctx, settings, address, servers)

Package consistency defines the policies (Count and Average). Package
bucket implements the per-slot backup-list mechanics. Package transport
adapts a plain HTTP endpoint into a server function suitable for passing
to Query. Package config loads Settings from YAML.
*/
package coordinator
