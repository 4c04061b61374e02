// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package coordinator

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/gogama/coordinator/consistency"
)

type rpcErr struct{ msg string }

func (e *rpcErr) Error() string { return e.msg }

var errFatal = errors.New("programming bug")

func isRPCErr(err error) bool {
	var e *rpcErr
	return errors.As(err, &e)
}

// counting wraps a Func so a test can assert how many times it was
// actually invoked.
func counting(t *testing.T, n *int32, f Func[int, int]) Func[int, int] {
	t.Helper()
	return func(ctx context.Context, arg int) (int, error) {
		atomic.AddInt32(n, 1)
		return f(ctx, arg)
	}
}

func returns(v int) Func[int, int] {
	return func(_ context.Context, _ int) (int, error) { return v, nil }
}

func failsWith(err error) Func[int, int] {
	return func(_ context.Context, _ int) (int, error) { return 0, err }
}

func sumAvg(rs []int) int {
	total := 0
	for _, r := range rs {
		total += r
	}
	return total / len(rs)
}

type CoordinatorSuite struct {
	suite.Suite
	client *Coordinator[int, int]
}

func (s *CoordinatorSuite) SetupTest() {
	c, err := NewFaultTolerantClient[int, int](isRPCErr)
	s.Require().NoError(err)
	s.client = c
}

// Scenario 1: three servers all agree, quorum of two.
func (s *CoordinatorSuite) TestThreeServersQuorumTwo() {
	var calls int32
	fns := []Func[int, int]{
		counting(s.T(), &calls, returns(42)),
		counting(s.T(), &calls, returns(42)),
		counting(s.T(), &calls, returns(42)),
	}
	settings := Settings[int]{MaxParallel: 3, Policy: consistency.NewCount[int](2)}

	got, err := s.client.Query(context.Background(), settings, 0, fns)
	s.Require().NoError(err)
	s.Equal(42, got)
	s.GreaterOrEqual(atomic.LoadInt32(&calls), int32(2))
	s.LessOrEqual(atomic.LoadInt32(&calls), int32(3))
}

// Scenario 2: split vote, two out of three agree.
func (s *CoordinatorSuite) TestSplitVote() {
	fns := []Func[int, int]{returns(1), returns(1), returns(2)}
	settings := Settings[int]{MaxParallel: 3, Policy: consistency.NewCount[int](2), RetriesForInconsistency: 0}

	got, err := s.client.Query(context.Background(), settings, 0, fns)
	s.Require().NoError(err)
	s.Equal(1, got)
}

// Scenario 3: average of three.
func (s *CoordinatorSuite) TestAverage() {
	fns := []Func[int, int]{returns(10), returns(20), returns(30)}
	settings := Settings[int]{MaxParallel: 3, Policy: consistency.NewAverage[int](3, sumAvg)}

	got, err := s.client.Query(context.Background(), settings, 0, fns)
	s.Require().NoError(err)
	s.Equal(20, got)
}

// Scenario 4: all fail, no retries, none available with first cause.
func (s *CoordinatorSuite) TestAllFailNoneAvailable() {
	errA := &rpcErr{msg: "A"}
	errB := &rpcErr{msg: "B"}
	fns := []Func[int, int]{failsWith(errA), failsWith(errB)}
	settings := Settings[int]{MaxParallel: 2, Policy: consistency.NewCount[int](1), Retries: 0}

	_, err := s.client.Query(context.Background(), settings, 0, fns)
	var naErr *NoneAvailableError
	s.Require().ErrorAs(err, &naErr)
	s.Same(errA, naErr.Cause)
}

// Scenario 5: a fatal error escapes even though quorum would otherwise
// have been reached.
func (s *CoordinatorSuite) TestFatalEscapes() {
	fns := []Func[int, int]{failsWith(errFatal), returns(7), returns(7)}
	settings := Settings[int]{MaxParallel: 3, Policy: consistency.NewCount[int](2)}

	_, err := s.client.Query(context.Background(), settings, 0, fns)
	s.Same(errFatal, err)
}

// Scenario 6: inconsistency retry consumes its own budget and reports
// the right diagnostic numbers.
func (s *CoordinatorSuite) TestInconsistencyRetryBudget() {
	fns := make([]Func[int, int], 6)
	for i := range fns {
		fns[i] = returns(i + 1)
	}
	settings := Settings[int]{MaxParallel: 6, Policy: consistency.NewCount[int](2), RetriesForInconsistency: 1}

	_, err := s.client.Query(context.Background(), settings, 0, fns)
	var inErr *InconsistentError
	s.Require().ErrorAs(err, &inErr)
	s.Equal(6, inErr.TotalSuccesses)
	s.Equal(1, inErr.TopTally)
	s.Equal(2, inErr.Required)
}

func TestCoordinatorSuite(t *testing.T) {
	suite.Run(t, new(CoordinatorSuite))
}

func TestQuery_ConfigErrors(t *testing.T) {
	client, err := NewFaultTolerantClient[int, int](isRPCErr)
	require.NoError(t, err)

	t.Run("EmptyFunctions", func(t *testing.T) {
		settings := Settings[int]{MaxParallel: 1, Policy: consistency.NewCount[int](1)}
		_, err := client.Query(context.Background(), settings, 0, nil)
		assert.IsType(t, &ConfigError{}, err)
	})
	t.Run("ZeroMaxParallel", func(t *testing.T) {
		settings := Settings[int]{MaxParallel: 0, Policy: consistency.NewCount[int](1)}
		_, err := client.Query(context.Background(), settings, 0, []Func[int, int]{returns(1)})
		assert.IsType(t, &ConfigError{}, err)
	})
	t.Run("CountExceedsFunctions", func(t *testing.T) {
		settings := Settings[int]{MaxParallel: 1, Policy: consistency.NewCount[int](3)}
		_, err := client.Query(context.Background(), settings, 0, []Func[int, int]{returns(1)})
		assert.IsType(t, &ConfigError{}, err)
	})
	t.Run("AverageExceedsMaxParallel", func(t *testing.T) {
		settings := Settings[int]{MaxParallel: 1, Policy: consistency.NewAverage[int](2, sumAvg)}
		_, err := client.Query(context.Background(), settings, 0, []Func[int, int]{returns(1), returns(2)})
		assert.IsType(t, &ConfigError{}, err)
	})
	t.Run("NilPolicy", func(t *testing.T) {
		settings := Settings[int]{MaxParallel: 1}
		_, err := client.Query(context.Background(), settings, 0, []Func[int, int]{returns(1)})
		assert.IsType(t, &ConfigError{}, err)
	})
}

func TestNewFaultTolerantClient_RejectsUniversalError(t *testing.T) {
	_, err := NewFaultTolerantClient[int, int](func(error) bool { return true })
	assert.IsType(t, &ConfigError{}, err)
}

func TestNewFaultTolerantClient_RejectsNilPredicate(t *testing.T) {
	_, err := NewFaultTolerantClient[int, int](nil)
	assert.IsType(t, &ConfigError{}, err)
}

func TestQuery_CaseARetrySucceeds(t *testing.T) {
	client, err := NewFaultTolerantClient[int, int](isRPCErr)
	require.NoError(t, err)

	attempt := 0
	flaky := func(_ context.Context, _ int) (int, error) {
		attempt++
		if attempt == 1 {
			return 0, &rpcErr{msg: "try again"}
		}
		return 9, nil
	}
	settings := Settings[int]{MaxParallel: 1, Policy: consistency.NewCount[int](1), Retries: 1}

	got, err := client.Query(context.Background(), settings, 0, []Func[int, int]{flaky})
	require.NoError(t, err)
	assert.Equal(t, 9, got)
}

func TestQuery_AverageCaseCRetryKeepsResults(t *testing.T) {
	client, err := NewFaultTolerantClient[int, int](isRPCErr)
	require.NoError(t, err)

	attempt := 0
	flaky := func(_ context.Context, _ int) (int, error) {
		attempt++
		if attempt == 1 {
			return 0, &rpcErr{msg: "try again"}
		}
		return 100, nil
	}
	fns := []Func[int, int]{returns(10), returns(20), flaky}
	settings := Settings[int]{MaxParallel: 3, Policy: consistency.NewAverage[int](3, sumAvg), Retries: 1}

	got, err := client.Query(context.Background(), settings, 0, fns)
	require.NoError(t, err)
	assert.Equal(t, (10+20+100)/3, got)
}

func TestQuery_NotEnoughAvailable(t *testing.T) {
	client, err := NewFaultTolerantClient[int, int](isRPCErr)
	require.NoError(t, err)

	cause := &rpcErr{msg: "down"}
	fns := []Func[int, int]{returns(10), failsWith(cause), failsWith(cause)}
	settings := Settings[int]{MaxParallel: 3, Policy: consistency.NewAverage[int](3, sumAvg), Retries: 0}

	_, err = client.Query(context.Background(), settings, 0, fns)
	var neErr *NotEnoughAvailableError
	require.ErrorAs(t, err, &neErr)
	assert.Same(t, cause, neErr.Cause)
}

func TestQuery_EventHooksFireInOrder(t *testing.T) {
	client, err := NewFaultTolerantClient[int, int](isRPCErr)
	require.NoError(t, err)

	var evts []Event
	handlers := &HandlerGroup{}
	for _, evt := range Events() {
		evt := evt
		handlers.PushBack(evt, HandlerFunc(func(e Event, _ *Info) {
			evts = append(evts, e)
		}))
	}
	fns := []Func[int, int]{returns(1), returns(1)}
	settings := Settings[int]{MaxParallel: 2, Policy: consistency.NewCount[int](2), Handlers: handlers}

	_, err = client.Query(context.Background(), settings, 0, fns)
	require.NoError(t, err)

	require.NotEmpty(t, evts)
	assert.Equal(t, BeforeQuery, evts[0])
	assert.Equal(t, AfterQuery, evts[len(evts)-1])
}

// TestQuery_CaseARetryPreservesTrueFirstCause exercises two successive
// Case A retry rounds with different errors on each round. The cause
// reported by NoneAvailableError must be the error from the very first
// round, even though failuresSoFar is wiped between rounds.
func TestQuery_CaseARetryPreservesTrueFirstCause(t *testing.T) {
	client, err := NewFaultTolerantClient[int, int](isRPCErr)
	require.NoError(t, err)

	errRound0 := &rpcErr{msg: "round 0 failure"}
	errRound1 := &rpcErr{msg: "round 1 failure"}
	errRound2 := &rpcErr{msg: "round 2 failure"}
	attempt := 0
	flaky := func(_ context.Context, _ int) (int, error) {
		defer func() { attempt++ }()
		switch attempt {
		case 0:
			return 0, errRound0
		case 1:
			return 0, errRound1
		default:
			return 0, errRound2
		}
	}
	settings := Settings[int]{MaxParallel: 1, Policy: consistency.NewCount[int](1), Retries: 2}

	_, err = client.Query(context.Background(), settings, 0, []Func[int, int]{flaky})
	var naErr *NoneAvailableError
	require.ErrorAs(t, err, &naErr)
	assert.Same(t, errRound0, naErr.Cause)
}

func TestQuery_RespectsMaxParallelBudget(t *testing.T) {
	client, err := NewFaultTolerantClient[int, int](isRPCErr)
	require.NoError(t, err)

	var current, peak int32
	gate := make(chan struct{})
	var closeOnce sync.Once
	arrived := make(chan struct{}, 5)

	slow := func(_ context.Context, _ int) (int, error) {
		n := atomic.AddInt32(&current, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		arrived <- struct{}{}
		<-gate
		atomic.AddInt32(&current, -1)
		return 1, nil
	}
	fns := make([]Func[int, int], 5)
	for i := range fns {
		fns[i] = slow
	}
	settings := Settings[int]{MaxParallel: 2, Policy: consistency.NewCount[int](5)}

	go func() {
		for i := 0; i < 2; i++ {
			<-arrived
		}
		closeOnce.Do(func() { close(gate) })
	}()

	got, err := client.Query(context.Background(), settings, 0, fns)
	require.NoError(t, err)
	assert.Equal(t, 1, got)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}
