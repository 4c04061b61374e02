// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package coordinator

import (
	"context"
	"errors"
	"io"

	"github.com/gogama/coordinator/bucket"
	"github.com/gogama/coordinator/consistency"
)

// A Coordinator runs queries against a fixed argument and result
// shape. Its zero value is not usable; construct one with
// NewFaultTolerantClient.
//
// A Coordinator holds no per-call state, so a single instance may be
// reused concurrently across many Query calls.
type Coordinator[A, R any] struct {
	recoverable func(error) bool
}

// NewFaultTolerantClient constructs a Coordinator whose Query method
// treats any error for which recoverable returns false as fatal.
//
// recoverable must not be nil, and must not treat every error as
// recoverable: a predicate that accepts anything would let a
// programming bug masquerade as a transient server failure and be
// silently retried. Go's type system cannot express "a proper
// subtype of error" the way a sealed-enum language could, so this is
// checked at construction time by probing recoverable with a handful
// of unrelated sentinel errors.
func NewFaultTolerantClient[A, R any](recoverable func(error) bool) (*Coordinator[A, R], error) {
	if recoverable == nil {
		return nil, &ConfigError{Msg: "nil recoverable predicate"}
	}
	if acceptsEverything(recoverable) {
		return nil, &ConfigError{Msg: "recoverable predicate must not accept every error"}
	}
	return &Coordinator[A, R]{recoverable: recoverable}, nil
}

func acceptsEverything(recoverable func(error) bool) bool {
	probes := []error{
		errors.New("coordinator: universal-error probe 1"),
		errors.New("coordinator: universal-error probe 2"),
		io.EOF,
		context.Canceled,
	}
	for _, p := range probes {
		if !recoverable(p) {
			return false
		}
	}
	return true
}

// Query runs functions, in parallel slots bounded by
// settings.MaxParallel, against arg, and returns the single result
// settings.Policy decides is trustworthy.
//
// Query returns exactly one R on success. On failure, it returns
// exactly one of *ConfigError, *NoneAvailableError,
// *NotEnoughAvailableError, *InconsistentError, a fatal error
// propagated unwrapped from one of the functions, or ctx's error if ctx
// is done before an attempt round reaches a decision.
func (c *Coordinator[A, R]) Query(ctx context.Context, settings Settings[R], arg A, functions []Func[A, R]) (R, error) {
	var zero R
	if err := validate(settings, functions); err != nil {
		return zero, err
	}

	handlers := settings.handlers()
	original := functions
	active := functions
	var resultsSoFar []R
	var failuresSoFar []Failure[A, R]
	var retriesUsed, inconsistencyRetriesUsed uint16
	var firstCause error
	attempt := 0

	handlers.run(BeforeQuery, &Info{Attempt: attempt})

	for {
		final, err := c.runAttempt(ctx, settings, arg, active, resultsSoFar, failuresSoFar, handlers, attempt)
		if err != nil {
			handlers.run(AfterQuery, &Info{Attempt: attempt, Err: err})
			return zero, err
		}

		switch o := final.(type) {
		case consistentOutcome[R]:
			handlers.run(AfterQuery, &Info{Attempt: attempt})
			return o.value, nil
		case averagedOutcome[R]:
			handlers.run(AfterQuery, &Info{Attempt: attempt})
			return o.value, nil
		case notEnoughOutcome[A, R]:
			if firstCause == nil && len(o.failures) > 0 {
				firstCause = o.failures[0].Err
			}
			nextActive, nextResults, nextFailures, retryErr := c.retry(
				settings, original, o.results, o.failures, firstCause, &retriesUsed, &inconsistencyRetriesUsed,
			)
			if retryErr != nil {
				handlers.run(AfterQuery, &Info{Attempt: attempt, Err: retryErr})
				return zero, retryErr
			}
			active = nextActive
			resultsSoFar = nextResults
			failuresSoFar = nextFailures
			attempt++
			handlers.run(BeforeRetry, &Info{Attempt: attempt})
		}
	}
}

// retry implements the retry controller described in the consistency
// policy's retry classification: Case A (no successes), Case B (some
// successes, Count policy, no quorum), and Case C (some successes,
// Average policy, below target).
//
// firstCause is the error produced by the very first server function
// that failed anywhere in this Query call, captured once by the caller
// before failuresSoFar is reset on a Case A or Case B retry. It must be
// used for NoneAvailableError and NotEnoughAvailableError instead of
// failures[0].Err, which only reflects the current attempt round and
// would otherwise report the wrong root cause after two or more rounds.
func (c *Coordinator[A, R]) retry(
	settings Settings[R],
	original []Func[A, R],
	results []R,
	failures []Failure[A, R],
	firstCause error,
	retriesUsed, inconsistencyRetriesUsed *uint16,
) (active []Func[A, R], nextResults []R, nextFailures []Failure[A, R], err error) {
	if len(results) == 0 {
		if *retriesUsed == settings.Retries {
			return nil, nil, nil, &NoneAvailableError{Cause: firstCause}
		}
		*retriesUsed++
		return failedFuncs(failures), nil, nil, nil
	}

	if settings.Policy.Kind() == consistency.KindCount {
		if *inconsistencyRetriesUsed == settings.RetriesForInconsistency {
			eval := settings.Policy.Evaluate(results)
			return nil, nil, nil, &InconsistentError{
				TotalSuccesses: len(results),
				TopTally:       eval.TopTally,
				Required:       settings.Policy.Required(),
			}
		}
		*inconsistencyRetriesUsed++
		return original, nil, nil, nil
	}

	// Average policy, below target.
	if *retriesUsed == settings.Retries {
		return nil, nil, nil, &NotEnoughAvailableError{Cause: firstCause}
	}
	*retriesUsed++
	return failedFuncs(failures), results, failures, nil
}

func failedFuncs[A, R any](failures []Failure[A, R]) []Func[A, R] {
	out := make([]Func[A, R], len(failures))
	for i, f := range failures {
		out[i] = f.Func
	}
	return out
}

// A finalOutcome is what one attempt round ends with: a Count policy
// reaching quorum, an Average policy reaching its target, or every
// bucket exhausting without either.
type finalOutcome[A, R any] interface {
	isFinal()
}

type consistentOutcome[R any] struct{ value R }

func (consistentOutcome[R]) isFinal() {}

type averagedOutcome[R any] struct{ value R }

func (averagedOutcome[R]) isFinal() {}

type notEnoughOutcome[A, R any] struct {
	results  []R
	failures []Failure[A, R]
}

func (notEnoughOutcome[A, R]) isFinal() {}

type bucketMsg[A, R any] struct {
	idx     int
	outcome bucket.Outcome[A, R]
	err     error
}

// runAttempt is the completion loop: it launches a bucket.Runner per
// bucket, waits for whichever finishes first, folds the outcome into
// the running result/failure sets, re-evaluates the consistency
// policy, and relaunches continuations until either the policy is
// satisfied or every bucket is exhausted.
func (c *Coordinator[A, R]) runAttempt(
	ctx context.Context,
	settings Settings[R],
	arg A,
	functions []Func[A, R],
	resultsSoFar []R,
	failuresSoFar []Failure[A, R],
	handlers *HandlerGroup,
	attempt int,
) (finalOutcome[A, R], error) {
	attemptCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	runners := bucket.Split(arg, functions, int(settings.MaxParallel), c.recoverable)
	sem := newSlotSemaphore(int64(settings.MaxParallel))

	ch := make(chan bucketMsg[A, R])
	inFlight := 0

	launch := func(idx int) {
		inFlight++
		r := runners[idx]
		handlers.run(BeforeBucketLaunch, &Info{Attempt: attempt, BucketIndex: idx})
		go func() {
			if !sem.acquire(attemptCtx) {
				return
			}
			defer sem.release()
			outcome, err := r.Next(attemptCtx)
			select {
			case ch <- bucketMsg[A, R]{idx: idx, outcome: outcome, err: err}:
			case <-attemptCtx.Done():
			}
		}()
	}

	for i := range runners {
		launch(i)
	}

	for inFlight > 0 {
		var msg bucketMsg[A, R]
		select {
		case msg = <-ch:
		case <-attemptCtx.Done():
			return nil, attemptCtx.Err()
		}
		inFlight--

		if msg.err != nil {
			cancel()
			return nil, msg.err
		}

		handlers.run(AfterBucketOutcome, &Info{Attempt: attempt, BucketIndex: msg.idx})

		switch oc := msg.outcome.(type) {
		case bucket.FirstSuccess[A, R]:
			failuresSoFar = append(failuresSoFar, oc.Failures...)
			resultsSoFar = append(resultsSoFar, oc.Result)

			eval := settings.Policy.Evaluate(resultsSoFar)
			if eval.Ready {
				cancel()
				if settings.Policy.Kind() == consistency.KindCount {
					return consistentOutcome[R]{value: eval.Value}, nil
				}
				return averagedOutcome[R]{value: eval.Value}, nil
			}

			if runners[msg.idx].Alive() {
				launch(msg.idx)
			}
		case bucket.Exhausted[A, R]:
			failuresSoFar = append(failuresSoFar, oc.Failures...)
		}
	}

	return notEnoughOutcome[A, R]{results: resultsSoFar, failures: failuresSoFar}, nil
}
