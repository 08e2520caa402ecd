package trial

import (
	"testing"
	"time"

	"fixcal-go/internal/markers"
	"fixcal-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func runMachine(t *testing.T, src *scriptedSource, locs []models.Geometry) (models.Outcome, *models.TimingRecord, *markers.Recorder, *Machine) {
	t.Helper()
	clock := newFakeClock()
	recorder := markers.NewRecorder(nil, clock.Now)
	sampler := NewPollSampler(src, clock, time.Millisecond)
	machine := NewMachine(testCfg, sampler, recorder, clock, zap.NewNop())
	outcome, timing := machine.Run(locs)
	return outcome, timing, recorder, machine
}

func codesOf(stamps []markers.Stamp) []int {
	codes := make([]int, len(stamps))
	for i, s := range stamps {
		codes[i] = s.Code
	}
	return codes
}

func countCode(stamps []markers.Stamp, code int) int {
	n := 0
	for _, s := range stamps {
		if s.Code == code {
			n++
		}
	}
	return n
}

var (
	locA = models.Geometry{X: 10, Y: 10}
	locB = models.Geometry{X: -10, Y: 10}
	locC = models.Geometry{X: 0, Y: 10}
)

func TestRunSuccess(t *testing.T) {
	src := &scriptedSource{}
	src.push(frameHold(), 1)
	src.push(frameHoldGaze(10, 10), 7)
	src.push(frameHoldGaze(-10, 10), 7)

	outcome, timing, rec, machine := runMachine(t, src, []models.Geometry{locA, locB})

	require.Equal(t, models.OutcomeSuccess, outcome)
	assert.Equal(t, StateSuccess, machine.State())

	assert.True(t, models.IsSet(timing.HoldOnset))
	assert.True(t, models.IsSet(timing.TrialInit))
	assert.True(t, models.IsSet(timing.AllOff))
	require.Len(t, timing.FixCueOn, 2)
	for i := 0; i < 2; i++ {
		assert.True(t, models.IsSet(timing.FixCueOn[i]))
		assert.True(t, models.IsSet(timing.FixAcquire[i]))
		assert.True(t, models.IsSet(timing.FixCueOff[i]))
	}

	assert.Equal(t, []int{
		markers.CodeTrialStart,
		markers.CodeHoldInitiated,
		markers.CodeFixCueOn,
		markers.CodeHoldMaintained, markers.CodeFixAcquired,
		markers.CodeFixMaintained, markers.CodeFixCueOff,
		markers.CodeFixCueOn,
		markers.CodeHoldMaintained, markers.CodeFixAcquired,
		markers.CodeFixMaintained, markers.CodeFixCueOff,
		markers.CodeAllOff, markers.CodeReward,
	}, codesOf(rec.Stamps()))
}

func TestRunHoldNotInitiated(t *testing.T) {
	src := &scriptedSource{frames: []Frame{frameNoTouch()}}

	outcome, timing, rec, machine := runMachine(t, src, []models.Geometry{locA, locB})

	require.Equal(t, models.OutcomeHoldNotInitiated, outcome)
	assert.Equal(t, StateAborted, machine.State())

	// No location was ever presented and nothing beyond the start marker
	// was emitted.
	assert.Zero(t, countCode(rec.Stamps(), markers.CodeFixCueOn))
	assert.Equal(t, []int{markers.CodeTrialStart}, codesOf(rec.Stamps()))
	assert.False(t, models.IsSet(timing.HoldOnset))
	for i := range timing.FixCueOn {
		assert.False(t, models.IsSet(timing.FixCueOn[i]))
	}
}

func TestRunTouchOutsideDuringHoldAcquire(t *testing.T) {
	src := &scriptedSource{frames: []Frame{frameTouchOutside()}}

	outcome, _, rec, _ := runMachine(t, src, []models.Geometry{locA})

	require.Equal(t, models.OutcomeTouchOutside, outcome)
	assert.Zero(t, countCode(rec.Stamps(), markers.CodeHoldInitiated))
	assert.Zero(t, countCode(rec.Stamps(), markers.CodeFixCueOn))
}

func TestRunHoldBreakStopsLocationLoop(t *testing.T) {
	// Location 1 passes both phases, the hold is released midway through
	// location 2's maintain window, location 3 is never presented.
	src := &scriptedSource{}
	src.push(frameHold(), 1)
	src.push(frameHoldGaze(10, 10), 7)
	src.push(frameHoldGaze(-10, 10), 3)
	src.push(frameNoTouch(), 1)

	outcome, timing, rec, machine := runMachine(t, src, []models.Geometry{locA, locB, locC})

	require.Equal(t, models.OutcomeHoldBreak, outcome)
	assert.Equal(t, StateAborted, machine.State())

	assert.Equal(t, 2, countCode(rec.Stamps(), markers.CodeFixCueOn))
	assert.Zero(t, countCode(rec.Stamps(), markers.CodeReward))

	// Location 1 fully recorded, location 2 recorded through acquisition,
	// location 3 untouched.
	assert.True(t, models.IsSet(timing.FixCueOff[0]))
	assert.True(t, models.IsSet(timing.FixAcquire[1]))
	assert.False(t, models.IsSet(timing.FixCueOff[1]))
	assert.False(t, models.IsSet(timing.FixCueOn[2]))
}

func TestRunFixationNeverAcquired(t *testing.T) {
	// Subject holds but gaze never reaches the target.
	src := &scriptedSource{frames: []Frame{frameHold()}}

	outcome, timing, _, _ := runMachine(t, src, []models.Geometry{locA})

	require.Equal(t, models.OutcomeFixationNeverAcquired, outcome)
	assert.True(t, models.IsSet(timing.FixCueOn[0]))
	assert.False(t, models.IsSet(timing.FixAcquire[0]))
}

func TestRunFixationBreak(t *testing.T) {
	// Fixation is acquired, then gaze leaves during the maintain window.
	src := &scriptedSource{}
	src.push(frameHold(), 1)
	src.push(frameHoldGaze(10, 10), 2)
	src.push(frameHold(), 1)

	outcome, timing, _, _ := runMachine(t, src, []models.Geometry{locA})

	require.Equal(t, models.OutcomeFixationBreak, outcome)
	assert.True(t, models.IsSet(timing.FixAcquire[0]))
	assert.False(t, models.IsSet(timing.FixCueOff[0]))
}

func TestFixationFailuresNeverSubstitute(t *testing.T) {
	// Never-acquired comes only from the acquire phase, break only from the
	// maintain phase; the same gaze pattern before vs after acquisition
	// yields the two distinct codes.
	src := &scriptedSource{frames: []Frame{frameHold()}}
	outcome, _, _, _ := runMachine(t, src, []models.Geometry{locA})
	assert.Equal(t, models.OutcomeFixationNeverAcquired, outcome)

	src = &scriptedSource{}
	src.push(frameHold(), 1)
	src.push(frameHoldGaze(10, 10), 2)
	src.push(frameHold(), 1)
	outcome, _, _, _ = runMachine(t, src, []models.Geometry{locA})
	assert.Equal(t, models.OutcomeFixationBreak, outcome)
}

func TestRunEmitsExactlyOneRewardOnSuccess(t *testing.T) {
	src := &scriptedSource{}
	src.push(frameHold(), 1)
	src.push(frameHoldGaze(10, 10), 7)

	outcome, _, rec, _ := runMachine(t, src, []models.Geometry{locA})

	require.Equal(t, models.OutcomeSuccess, outcome)
	assert.Equal(t, 1, countCode(rec.Stamps(), markers.CodeReward))
}
