package trial

import (
	"testing"
	"time"

	"fixcal-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSampler(src *scriptedSource) (*PollSampler, *fakeClock) {
	clock := newFakeClock()
	return NewPollSampler(src, clock, time.Millisecond), clock
}

func TestSampleAcquireResolvesEarly(t *testing.T) {
	hold := models.Geometry{X: 0, Y: -10, Radius: 3}
	src := &scriptedSource{}
	src.push(frameNoTouch(), 3)
	src.push(frameHold(), 1)

	sampler, clock := newTestSampler(src)
	start := clock.Now()

	res := sampler.Sample(ContingencySpec{
		Timeout: 100 * time.Millisecond,
		Conditions: []Condition{
			{Name: "touch", Kind: KindTouchInside, Mode: ModeAcquire, Target: hold},
		},
	})

	require.True(t, res.Satisfied("touch"))
	// Resolved on the 4th frame, i.e. after three 1ms polls, well before the
	// 100ms timeout.
	assert.Equal(t, 3*time.Millisecond, res.At.Sub(start))
}

func TestSampleAcquireTimesOutUnsatisfied(t *testing.T) {
	hold := models.Geometry{X: 0, Y: -10, Radius: 3}
	src := &scriptedSource{frames: []Frame{frameNoTouch()}}

	sampler, clock := newTestSampler(src)
	start := clock.Now()

	res := sampler.Sample(ContingencySpec{
		Timeout: 5 * time.Millisecond,
		Conditions: []Condition{
			{Name: "touch", Kind: KindTouchInside, Mode: ModeAcquire, Target: hold},
		},
	})

	assert.False(t, res.Satisfied("touch"))
	assert.Equal(t, 5*time.Millisecond, res.At.Sub(start))
}

func TestSampleHoldViolationResolvesImmediately(t *testing.T) {
	hold := models.Geometry{X: 0, Y: -10, Radius: 3}
	src := &scriptedSource{}
	src.push(frameHold(), 2)
	src.push(frameNoTouch(), 1)

	sampler, clock := newTestSampler(src)
	start := clock.Now()

	res := sampler.Sample(ContingencySpec{
		Timeout: 50 * time.Millisecond,
		Conditions: []Condition{
			{Name: "held", Kind: KindTouchInside, Mode: ModeHold, Target: hold},
		},
	})

	assert.False(t, res.Satisfied("held"))
	assert.Equal(t, 2*time.Millisecond, res.At.Sub(start))
}

func TestSampleHoldRunsFullWindowOnSuccess(t *testing.T) {
	hold := models.Geometry{X: 0, Y: -10, Radius: 3}
	src := &scriptedSource{frames: []Frame{frameHold()}}

	sampler, clock := newTestSampler(src)
	start := clock.Now()

	res := sampler.Sample(ContingencySpec{
		Timeout: 8 * time.Millisecond,
		Conditions: []Condition{
			{Name: "held", Kind: KindTouchInside, Mode: ModeHold, Target: hold},
		},
	})

	// A pure hold spec never resolves early on success; it must cover the
	// whole window.
	assert.True(t, res.Satisfied("held"))
	assert.Equal(t, 8*time.Millisecond, res.At.Sub(start))
}

func TestSampleForbidViolation(t *testing.T) {
	hold := models.Geometry{X: 0, Y: -10, Radius: 3}
	src := &scriptedSource{frames: []Frame{frameTouchOutside()}}

	sampler, _ := newTestSampler(src)

	res := sampler.Sample(ContingencySpec{
		Timeout: 50 * time.Millisecond,
		Conditions: []Condition{
			{Name: "touch", Kind: KindTouchInside, Mode: ModeAcquire, Target: hold},
			{Name: "no_outside", Kind: KindTouchOutside, Mode: ModeForbid, Target: hold},
		},
	})

	assert.False(t, res.Satisfied("no_outside"))
	assert.False(t, res.Satisfied("touch"))
}

func TestSampleOutsideAndAbsentAreExclusive(t *testing.T) {
	// The hold-acquire spec can never report both "touch outside" and "no
	// touch at all": any contact resolves the wait on the frame it appears.
	hold := models.Geometry{X: 0, Y: -10, Radius: 3}
	src := &scriptedSource{}
	src.push(frameNoTouch(), 4)
	src.push(frameTouchOutside(), 1)

	sampler, _ := newTestSampler(src)

	res := sampler.Sample(ContingencySpec{
		Timeout: 50 * time.Millisecond,
		Conditions: []Condition{
			{Name: "touch", Kind: KindTouchInside, Mode: ModeAcquire, Target: hold},
			{Name: "no_outside", Kind: KindTouchOutside, Mode: ModeForbid, Target: hold},
		},
	})

	// Outside contact reported, "no touch" branch (acquire timeout with
	// forbid intact) not reachable on the same wait.
	assert.False(t, res.Satisfied("no_outside"))
}

func TestSampleGazeAcquireVersusGazeHold(t *testing.T) {
	fix := models.Geometry{X: 10, Y: 10, Radius: 2}

	// Gaze enters on the 3rd frame and leaves again: acquire latches, hold
	// does not survive.
	enterAndLeave := func() *scriptedSource {
		src := &scriptedSource{}
		src.push(frameHold(), 2)
		src.push(frameHoldGaze(10, 10), 1)
		src.push(frameHold(), 1)
		return src
	}

	sampler, _ := newTestSampler(enterAndLeave())
	res := sampler.Sample(ContingencySpec{
		Timeout: 10 * time.Millisecond,
		Conditions: []Condition{
			{Name: "fix", Kind: KindGazeInside, Mode: ModeAcquire, Target: fix},
		},
	})
	assert.True(t, res.Satisfied("fix"), "acquire latches on entry")

	sampler, _ = newTestSampler(enterAndLeave())
	res = sampler.Sample(ContingencySpec{
		Timeout: 10 * time.Millisecond,
		Conditions: []Condition{
			{Name: "fix", Kind: KindGazeInside, Mode: ModeHold, Target: fix},
		},
	})
	assert.False(t, res.Satisfied("fix"), "hold fails the moment gaze is out")
}
