// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/net/http/httpguts"

	"github.com/gogama/coordinator/bucket"
)

// A Doer executes a single HTTP request against one equivalent server.
// *http.Client satisfies Doer, and so does anything else shaped like
// it (a test double, or a client wrapping its own transport-level
// retry logic).
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// A Server is one of the equivalent backends a Coordinator fans a
// Request out across: a Doer paired with that backend's base URL.
type Server struct {
	Doer    Doer
	BaseURL string
}

// A Request is a prototype HTTP request shared by every Server queried
// in one Coordinator call. HTTPServerFunc builds a fresh *http.Request
// from it per Server, since a request body can only be consumed once.
type Request struct {
	// Method defaults to GET if empty.
	Method string
	// Path is appended directly to the Server's BaseURL.
	Path   string
	Header http.Header
	Body   []byte
}

func (r *Request) build(ctx context.Context, baseURL string) (*http.Request, error) {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}
	if !validToken(method) {
		return nil, fmt.Errorf("transport: invalid method %q", method)
	}
	var body io.Reader
	if r.Body != nil {
		body = bytes.NewReader(r.Body)
	}
	req, err := http.NewRequestWithContext(ctx, method, baseURL+r.Path, body)
	if err != nil {
		return nil, err
	}
	req.Header = r.Header.Clone()
	return req, nil
}

func validToken(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if !httpguts.IsTokenRune(c) {
			return false
		}
	}
	return true
}

// HTTPServerFunc builds a bucket.Func out of srv, suitable for use as
// one of the equivalent server functions passed to Coordinator.Query.
//
// The returned function builds a request against srv.BaseURL from the
// *Request argument, executes it with srv.Doer, and reports a non-2XX
// response or a Do error as an *RPCError; use IsRecoverable as the
// Coordinator's recoverable predicate to let the retry controller decide
// whether to try a different equivalent server.
//
// decode is only invoked on a 2XX response, and any error it returns is
// treated as fatal: a malformed response from a server that did answer
// successfully is a protocol bug, not a reason to retry against a
// different server.
func HTTPServerFunc[R any](srv Server, decode func([]byte) (R, error)) bucket.Func[*Request, R] {
	if srv.Doer == nil {
		panic("transport: nil Doer")
	}
	if decode == nil {
		panic("transport: nil decode")
	}
	return func(ctx context.Context, r *Request) (R, error) {
		var zero R
		httpReq, err := r.build(ctx, srv.BaseURL)
		if err != nil {
			return zero, err
		}
		resp, err := srv.Doer.Do(httpReq)
		if err != nil {
			return zero, &RPCError{Err: err, cat: categorize(err)}
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return zero, &RPCError{Err: err, cat: categorize(err)}
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return zero, &RPCError{StatusCode: resp.StatusCode}
		}
		result, err := decode(body)
		if err != nil {
			return zero, err
		}
		return result, nil
	}
}
