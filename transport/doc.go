// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package transport adapts plain HTTP endpoints into server functions a
Coordinator can fan out across.

HTTPServerFunc wraps a Server - a Doer (satisfied by *http.Client) bound
to one equivalent backend's base URL - into a bucket.Func. The returned
function builds a fresh *http.Request from the shared *Request prototype
for that one backend, executes it, decodes a successful response body,
and classifies failures into the two buckets a Coordinator's recoverable
predicate needs to distinguish: an *RPCError, for which IsRecoverable
reports true when the failure looks transient (a network-level transient
error, or a 429/502/503/504 status specifically - other statuses,
including other 5xx ones such as 500 and 501, are treated as fatal), and
any other error, which is always fatal and escapes the Coordinator
immediately.

This package intentionally owns no timeout or retry policy of its own.
Per-attempt timeouts and any protocol-level retrying of a single backend
are the responsibility of the Doer the caller supplies; transport only
decides, once a single attempt against one backend is done, whether
trying a different equivalent backend has any prospect of success.
*/
package transport
