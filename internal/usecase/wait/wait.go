// Package wait provides the explicit polling-with-timeout primitive that
// replaces wait-for-selector style suspension: a bounded wait either observes
// the condition or fails, it never hangs and never retries past its budget.
package wait

import (
	"context"
	"time"
)

// DefaultInterval is the polling cadence used when none is given.
const DefaultInterval = 100 * time.Millisecond

// Status classifies the outcome of a bounded wait.
type Status int

const (
	// Satisfied: the predicate observed the condition within the budget.
	Satisfied Status = iota
	// TimedOut: the budget elapsed without the condition becoming observable.
	TimedOut
	// Canceled: the surrounding context was canceled first.
	Canceled
	// ProbeFailed: the predicate itself returned an error.
	ProbeFailed
)

func (s Status) String() string {
	switch s {
	case Satisfied:
		return "satisfied"
	case TimedOut:
		return "timed_out"
	case Canceled:
		return "canceled"
	case ProbeFailed:
		return "probe_failed"
	}
	return "unknown"
}

// Outcome is the result of one bounded wait.
type Outcome struct {
	Status  Status
	Elapsed time.Duration
	Err     error // set for Canceled and ProbeFailed
}

// Predicate observes whether a condition currently holds. A returned error
// aborts the wait (the surface became unreachable, not merely not-ready).
type Predicate func(ctx context.Context) (bool, error)

// Until polls pred every interval until it reports true, the timeout elapses,
// or ctx is canceled. The predicate is always evaluated once immediately.
func Until(ctx context.Context, timeout, interval time.Duration, pred Predicate) Outcome {
	if interval <= 0 {
		interval = DefaultInterval
	}

	start := time.Now()
	deadline := start.Add(timeout)

	waitCtx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		ok, err := pred(waitCtx)
		if err != nil {
			// A deadline hit inside the probe is a timeout, not a probe fault.
			if waitCtx.Err() != nil && ctx.Err() == nil {
				return Outcome{Status: TimedOut, Elapsed: time.Since(start)}
			}
			if ctx.Err() != nil {
				return Outcome{Status: Canceled, Elapsed: time.Since(start), Err: ctx.Err()}
			}
			return Outcome{Status: ProbeFailed, Elapsed: time.Since(start), Err: err}
		}
		if ok {
			return Outcome{Status: Satisfied, Elapsed: time.Since(start)}
		}

		select {
		case <-ticker.C:
			if time.Now().After(deadline) {
				return Outcome{Status: TimedOut, Elapsed: time.Since(start)}
			}
		case <-waitCtx.Done():
			if ctx.Err() != nil {
				return Outcome{Status: Canceled, Elapsed: time.Since(start), Err: ctx.Err()}
			}
			return Outcome{Status: TimedOut, Elapsed: time.Since(start)}
		}
	}
}
