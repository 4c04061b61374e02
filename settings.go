// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package coordinator

import "github.com/gogama/coordinator/consistency"

// Settings configures one Query call. A Settings value is immutable
// once passed to Query; the coordinator never mutates it.
type Settings[R any] struct {
	// MaxParallel is the number of parallel buckets to split the
	// server function list into. Must be at least 1.
	MaxParallel uint16
	// Policy decides when gathered results are sufficient.
	Policy consistency.Policy[R]
	// Retries is the retry budget for the "no successes" failure
	// class, and, when Policy is an Average policy, for the "fewer
	// than required successes" failure class too.
	Retries uint16
	// RetriesForInconsistency is the retry budget for the "some
	// successes but no quorum" failure class. Only consulted when
	// Policy is a Count policy.
	RetriesForInconsistency uint16
	// Handlers, if non-nil, receives coordinator events during Query.
	Handlers *HandlerGroup
}

var emptyHandlers = HandlerGroup{}

func (s Settings[R]) handlers() *HandlerGroup {
	if s.Handlers == nil {
		return &emptyHandlers
	}
	return s.Handlers
}

func validate[A, R any](settings Settings[R], functions []Func[A, R]) error {
	if len(functions) == 0 {
		return &ConfigError{Msg: "functions must not be empty"}
	}
	if settings.MaxParallel < 1 {
		return &ConfigError{Msg: "MaxParallel must be at least 1"}
	}
	if settings.Policy == nil {
		return &ConfigError{Msg: "Policy must not be nil"}
	}
	switch settings.Policy.Kind() {
	case consistency.KindCount:
		n := settings.Policy.Required()
		if n < 1 {
			return &ConfigError{Msg: "Count policy requires n >= 1"}
		}
		if len(functions) < n {
			return &ConfigError{Msg: "fewer functions than Count policy's n"}
		}
	case consistency.KindAverage:
		m := settings.Policy.Required()
		if m < 1 {
			return &ConfigError{Msg: "Average policy requires m >= 1"}
		}
		if m > int(settings.MaxParallel) {
			return &ConfigError{Msg: "Average policy's m exceeds MaxParallel"}
		}
	default:
		return &ConfigError{Msg: "unrecognized policy kind"}
	}
	return nil
}
