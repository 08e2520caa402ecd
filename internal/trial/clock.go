package trial

import "time"

// Clock is the monotonic time source and blocking-wait primitive the trial
// loop advances on. The seam exists so tests can drive the poll loop without
// real sleeps.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type realClock struct{}

func (realClock) Now() time.Time        { return time.Now() }
func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

// RealClock returns the wall-clock implementation used on the rig.
func RealClock() Clock {
	return realClock{}
}
