package trial

import (
	"time"

	"fixcal-go/internal/config"
)

// fakeClock advances only when the poll loop sleeps, so waits resolve
// deterministically without real time passing.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 8, 25, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time        { return c.now }
func (c *fakeClock) Sleep(d time.Duration) { c.now = c.now.Add(d) }

// scriptedSource replays a fixed frame sequence, repeating the last frame
// once exhausted.
type scriptedSource struct {
	frames []Frame
	pos    int
}

func (s *scriptedSource) Frame() Frame {
	f := s.frames[s.pos]
	if s.pos < len(s.frames)-1 {
		s.pos++
	}
	return f
}

func (s *scriptedSource) push(f Frame, n int) {
	for i := 0; i < n; i++ {
		s.frames = append(s.frames, f)
	}
}

// Test geometry: hold target at (0,-10) r3, fixation radius 2.
var testCfg = config.TrialConfig{
	InitPeriodMs:     10,
	HoldPeriodMs:     10,
	FixPeriodMs:      5,
	SampleIntervalMs: 1,
	HoldX:            0,
	HoldY:            -10,
	HoldRadius:       3,
	FixRadius:        2,
}

func frameNoTouch() Frame {
	return Frame{GazeX: 50, GazeY: 50}
}

func frameHold() Frame {
	return Frame{TouchActive: true, TouchX: 0, TouchY: -10, GazeX: 50, GazeY: 50}
}

func frameHoldGaze(x, y float64) Frame {
	return Frame{TouchActive: true, TouchX: 0, TouchY: -10, GazeX: x, GazeY: y}
}

func frameTouchOutside() Frame {
	return Frame{TouchActive: true, TouchX: 20, TouchY: 20, GazeX: 50, GazeY: 50}
}
