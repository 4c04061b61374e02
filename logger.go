// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package coordinator

import "log"

// NewLogHandler returns a Handler that writes one line per event to l,
// using the standard library's log package. It is a convenience for
// wiring up basic diagnostics without writing a custom Handler; per
// the coordinator's no-global-state design, callers must supply their
// own *log.Logger rather than relying on a package-level default.
func NewLogHandler(l *log.Logger) Handler {
	return HandlerFunc(func(evt Event, info *Info) {
		switch evt {
		case BeforeBucketLaunch, AfterBucketOutcome:
			l.Printf("coordinator: attempt %d bucket %d: %s", info.Attempt, info.BucketIndex, evt)
		case AfterQuery:
			l.Printf("coordinator: attempt %d: %s err=%v", info.Attempt, evt, info.Err)
		default:
			l.Printf("coordinator: attempt %d: %s", info.Attempt, evt)
		}
	})
}
