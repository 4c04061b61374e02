// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package coordinator

// An Event identifies the event type when installing or running a
// Handler. Install event handlers via Settings.Handlers to observe a
// Query call without coupling the coordinator to any particular
// logging or metrics backend.
type Event int

const (
	// BeforeQuery identifies the event that occurs once, after
	// preconditions pass, before the first attempt round starts.
	BeforeQuery Event = iota
	// BeforeBucketLaunch identifies the event that occurs before a
	// bucket's Runner is driven, whether for the first time in an
	// attempt round or as a re-launched continuation.
	BeforeBucketLaunch
	// AfterBucketOutcome identifies the event that occurs after a
	// bucket yields a FirstSuccess or Exhausted outcome.
	AfterBucketOutcome
	// BeforeRetry identifies the event that occurs when the retry
	// controller decides to start a new attempt round.
	BeforeRetry
	// AfterQuery identifies the event that occurs exactly once per
	// Query call, regardless of whether it succeeded or which error
	// kind it failed with.
	AfterQuery

	eventSentinel
	numEvents = int(eventSentinel)
)

var eventNames = []string{
	"BeforeQuery",
	"BeforeBucketLaunch",
	"AfterBucketOutcome",
	"BeforeRetry",
	"AfterQuery",
}

// Events returns every Event the coordinator can fire, in the order in
// which they can occur.
func Events() []Event {
	return []Event{BeforeQuery, BeforeBucketLaunch, AfterBucketOutcome, BeforeRetry, AfterQuery}
}

// Name returns the name of the event.
func (evt Event) Name() string {
	return eventNames[int(evt)]
}

// String returns the name of the event.
func (evt Event) String() string {
	return evt.Name()
}
