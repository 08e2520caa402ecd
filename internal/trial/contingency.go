package trial

import (
	"time"

	"fixcal-go/internal/models"
)

// ConditionKind selects the raw predicate a condition evaluates against a
// sampled frame.
type ConditionKind int

const (
	// KindTouchInside is true while a contact is registered within the
	// target's acceptance radius.
	KindTouchInside ConditionKind = iota
	// KindTouchOutside is true while a contact is registered anywhere
	// outside the target's acceptance radius.
	KindTouchOutside
	// KindGazeInside is true while gaze position is within the target's
	// acceptance radius.
	KindGazeInside
)

// ConditionMode is the temporal semantics of a condition within one wait.
type ConditionMode int

const (
	// ModeAcquire: the predicate must become true at some point within the
	// window. The wait resolves early once every acquire condition has fired.
	ModeAcquire ConditionMode = iota
	// ModeHold: the predicate must stay true for the whole window. The first
	// sample on which it is false resolves the wait immediately.
	ModeHold
	// ModeForbid: the predicate must stay false for the whole window. The
	// first sample on which it is true resolves the wait immediately.
	ModeForbid
)

// Condition is one named predicate watched by a bounded wait.
type Condition struct {
	Name   string
	Kind   ConditionKind
	Mode   ConditionMode
	Target models.Geometry
}

// ContingencySpec is the set of conditions one bounded wait watches
// simultaneously, with a shared timeout. A fresh spec is built per wait call.
type ContingencySpec struct {
	Conditions []Condition
	Timeout    time.Duration
}

// SampleResult is the outcome of one bounded wait: a satisfied flag per
// watched condition plus the time the wait resolved. For ModeHold and
// ModeForbid conditions, satisfied means the constraint was never violated
// before resolution. The result is consumed once by the decision branch and
// discarded.
type SampleResult struct {
	At     time.Time
	status map[string]bool
}

// Satisfied reports the flag for a named condition. Unknown names report
// false.
func (r SampleResult) Satisfied(name string) bool {
	return r.status[name]
}

// Sampler is the bounded-wait primitive the state machine advances through.
// Sample blocks up to spec.Timeout, returning early the instant the spec's
// exclusive success or failure condition is met.
type Sampler interface {
	Sample(spec ContingencySpec) SampleResult
}

// holds evaluates a condition's raw predicate against one frame.
func holds(f Frame, c Condition) bool {
	switch c.Kind {
	case KindTouchInside:
		return f.TouchActive && c.Target.Contains(f.TouchX, f.TouchY)
	case KindTouchOutside:
		return f.TouchActive && !c.Target.Contains(f.TouchX, f.TouchY)
	case KindGazeInside:
		return c.Target.Contains(f.GazeX, f.GazeY)
	}
	return false
}
