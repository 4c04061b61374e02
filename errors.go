// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package coordinator

import "fmt"

// A ConfigError reports that Settings or the arguments passed to Query
// violate one of the coordinator's preconditions. A ConfigError is
// always returned synchronously, before any server function is
// invoked, and is never retried.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string {
	return "coordinator: " + e.Msg
}

// A NoneAvailableError reports that every server function failed with
// a recoverable error across every retry round permitted by
// Settings.Retries. Cause is the error produced by the first server
// function that ever failed, preserved across all rounds.
type NoneAvailableError struct {
	Cause error
}

func (e *NoneAvailableError) Error() string {
	return fmt.Sprintf("coordinator: no server available, cause: %v", e.Cause)
}

func (e *NoneAvailableError) Unwrap() error {
	return e.Cause
}

// A NotEnoughAvailableError reports that an Average policy gathered at
// least one success but never reached its required sample size, across
// every retry round permitted by Settings.Retries. Cause is the error
// produced by the first server function that ever failed.
type NotEnoughAvailableError struct {
	Cause error
}

func (e *NotEnoughAvailableError) Error() string {
	return fmt.Sprintf("coordinator: not enough servers available, cause: %v", e.Cause)
}

func (e *NotEnoughAvailableError) Unwrap() error {
	return e.Cause
}

// An InconsistentError reports that a Count policy gathered at least
// one success but never reached quorum, across every retry round
// permitted by Settings.RetriesForInconsistency.
type InconsistentError struct {
	// TotalSuccesses is how many successful results were gathered in
	// the final attempt round.
	TotalSuccesses int
	// TopTally is the size of the largest group of equal results seen
	// in the final attempt round.
	TopTally int
	// Required is the quorum size the policy demanded.
	Required int
}

func (e *InconsistentError) Error() string {
	return fmt.Sprintf(
		"coordinator: inconsistent results: %d successes, top agreement %d, required %d",
		e.TotalSuccesses, e.TopTally, e.Required,
	)
}
