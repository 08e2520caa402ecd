package trial

import "time"

// Frame is one instantaneous reading from the acquisition hardware: the
// current touch-contact state and gaze position, in the same visual-angle
// coordinate space as the target geometries.
type Frame struct {
	TouchActive    bool
	TouchX, TouchY float64
	GazeX, GazeY   float64
}

// FrameSource supplies frames on demand. Implementations wrap the actual
// touch panel and eye tracker; they are glue and stay outside the trial
// logic.
type FrameSource interface {
	Frame() Frame
}

// PollSampler implements the bounded wait by polling a FrameSource at a
// fixed interval until the spec resolves or the timeout elapses. It owns the
// calling goroutine for the duration of the wait; there is no cancellation
// other than the timeout.
type PollSampler struct {
	src      FrameSource
	clock    Clock
	interval time.Duration
}

// NewPollSampler builds a sampler polling src every interval.
func NewPollSampler(src FrameSource, clock Clock, interval time.Duration) *PollSampler {
	if interval <= 0 {
		interval = time.Millisecond
	}
	return &PollSampler{src: src, clock: clock, interval: interval}
}

// Sample runs one bounded wait. Resolution rules:
//   - any ModeHold condition observed false, or ModeForbid condition observed
//     true, resolves the wait on that frame (the violated condition reports
//     unsatisfied, everything else reports its state so far);
//   - once every ModeAcquire condition has fired, the wait resolves
//     successfully on that frame;
//   - otherwise the wait resolves at the timeout, with unfired acquire
//     conditions unsatisfied and unviolated hold/forbid conditions satisfied.
//
// The whole frame is evaluated before resolving, so a result always reflects
// a consistent snapshot even when several conditions change on the same
// frame.
func (p *PollSampler) Sample(spec ContingencySpec) SampleResult {
	status := make(map[string]bool, len(spec.Conditions))
	acquireTotal := 0
	for _, c := range spec.Conditions {
		if c.Mode == ModeAcquire {
			status[c.Name] = false
			acquireTotal++
		} else {
			status[c.Name] = true
		}
	}

	deadline := p.clock.Now().Add(spec.Timeout)
	for {
		f := p.src.Frame()
		now := p.clock.Now()

		violated := false
		acquired := 0
		for _, c := range spec.Conditions {
			on := holds(f, c)
			switch c.Mode {
			case ModeAcquire:
				if on {
					status[c.Name] = true
				}
				if status[c.Name] {
					acquired++
				}
			case ModeHold:
				if !on {
					status[c.Name] = false
					violated = true
				}
			case ModeForbid:
				if on {
					status[c.Name] = false
					violated = true
				}
			}
		}

		if violated || (acquireTotal > 0 && acquired == acquireTotal) {
			return SampleResult{At: now, status: status}
		}
		if !now.Before(deadline) {
			return SampleResult{At: now, status: status}
		}
		p.clock.Sleep(p.interval)
	}
}
