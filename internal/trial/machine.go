package trial

import (
	"time"

	"fixcal-go/internal/config"
	"fixcal-go/internal/markers"
	"fixcal-go/internal/models"

	"go.uber.org/zap"
)

// State names one phase of the trial. Terminal states are StateSuccess and
// StateAborted; no transition ever leaves a terminal state.
type State int

const (
	StateAwaitHold State = iota
	StateHoldAcquired
	StateFixAcquire
	StateFixHold
	StateSuccess
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateAwaitHold:
		return "await_hold"
	case StateHoldAcquired:
		return "hold_acquired"
	case StateFixAcquire:
		return "fix_acquire"
	case StateFixHold:
		return "fix_hold"
	case StateSuccess:
		return "success"
	case StateAborted:
		return "aborted"
	}
	return "unknown"
}

// Condition names used by the trial's contingency specs.
const (
	condHoldTouch = "hold_touch"
	condNoOutside = "no_outside_touch"
	condFixation  = "fixation"
)

// Machine sequences one trial: hold acquisition, then per-location fixation
// acquisition and fixation hold, aborting on the first disqualifying event.
// It owns the calling goroutine; every wait is synchronous and a marker for
// a phase is emitted only after that phase's sampling has resolved, before
// the next phase begins sampling.
//
// A Machine runs exactly one trial and is then discarded.
type Machine struct {
	cfg     config.TrialConfig
	sampler Sampler
	sink    markers.Sink
	clock   Clock
	log     *zap.Logger

	hold  models.Geometry
	state State
	start time.Time
}

// NewMachine builds the state machine for one trial. The config snapshot is
// read once here and never re-read mid-trial.
func NewMachine(cfg config.TrialConfig, sampler Sampler, sink markers.Sink, clock Clock, log *zap.Logger) *Machine {
	return &Machine{
		cfg:     cfg,
		sampler: sampler,
		sink:    sink,
		clock:   clock,
		log:     log,
		hold:    models.Geometry{X: cfg.HoldX, Y: cfg.HoldY, Radius: cfg.HoldRadius},
		state:   StateAwaitHold,
	}
}

// State returns the machine's current state.
func (m *Machine) State() State {
	return m.state
}

func (m *Machine) sinceStart() float64 {
	return float64(m.clock.Now().Sub(m.start)) / float64(time.Millisecond)
}

// transition moves to next unless the machine is already terminal. A
// transition attempt out of a terminal state is a programming error.
func (m *Machine) transition(next State) {
	if m.state == StateSuccess || m.state == StateAborted {
		m.log.DPanic("transition attempted after terminal state",
			zap.Stringer("state", m.state),
			zap.Stringer("next", next))
		return
	}
	m.state = next
}

func (m *Machine) abort(outcome models.Outcome) models.Outcome {
	m.transition(StateAborted)
	m.log.Info("trial aborted",
		zap.String("outcome", outcome.String()),
		zap.Float64("at_ms", m.sinceStart()))
	return outcome
}

// Run executes the trial over the given location list, whose order is fixed
// for the whole trial. It returns the single terminal outcome and the timing
// record; the record's vectors always have len(locs) entries, with unset
// values at and after an aborting location.
func (m *Machine) Run(locs []models.Geometry) (models.Outcome, *models.TimingRecord) {
	m.start = m.clock.Now()
	timing := models.NewTimingRecord(len(locs))
	m.sink.Emit(markers.CodeTrialStart)

	if outcome, ok := m.acquireHold(timing); !ok {
		return m.abort(outcome), timing
	}

	for i, loc := range locs {
		fix := models.Geometry{X: loc.X, Y: loc.Y, Radius: m.cfg.FixRadius}
		if loc.Radius > 0 {
			fix.Radius = loc.Radius
		}

		m.transition(StateFixAcquire)
		m.sink.Emit(markers.CodeFixCueOn)
		timing.FixCueOn[i] = m.sinceStart()

		if outcome, ok := m.acquireFixation(fix, timing, i); !ok {
			return m.abort(outcome), timing
		}

		m.transition(StateFixHold)
		if outcome, ok := m.maintainFixation(fix, timing, i); !ok {
			return m.abort(outcome), timing
		}
	}

	m.transition(StateSuccess)
	timing.AllOff = m.sinceStart()
	m.sink.Emit(markers.CodeAllOff, markers.CodeReward)
	m.log.Info("trial completed", zap.Float64("all_off_ms", timing.AllOff))
	return models.OutcomeSuccess, timing
}

// acquireHold waits up to the init period for the first touch contact. The
// wait resolves the instant any contact is seen and classifies it against
// the hold geometry on that same frame, so "contact outside" and "no contact
// at all" can never both be reported.
func (m *Machine) acquireHold(timing *models.TimingRecord) (models.Outcome, bool) {
	res := m.sampler.Sample(ContingencySpec{
		Timeout: time.Duration(m.cfg.InitPeriodMs) * time.Millisecond,
		Conditions: []Condition{
			{Name: condHoldTouch, Kind: KindTouchInside, Mode: ModeAcquire, Target: m.hold},
			{Name: condNoOutside, Kind: KindTouchOutside, Mode: ModeForbid, Target: m.hold},
		},
	})

	switch {
	case !res.Satisfied(condNoOutside):
		return models.OutcomeTouchOutside, false
	case res.Satisfied(condHoldTouch):
		timing.HoldOnset = m.sinceStart()
		m.transition(StateHoldAcquired)
		m.sink.Emit(markers.CodeHoldInitiated)
		timing.TrialInit = m.sinceStart()
		return 0, true
	default:
		return models.OutcomeHoldNotInitiated, false
	}
}

// acquireFixation waits up to the hold period for gaze to enter the target
// radius while the hold target stays pressed and no outside contact occurs.
// Failure classification follows the fixed priority order: hold released,
// then outside touch, then fixation never acquired.
func (m *Machine) acquireFixation(fix models.Geometry, timing *models.TimingRecord, i int) (models.Outcome, bool) {
	res := m.sampler.Sample(ContingencySpec{
		Timeout: time.Duration(m.cfg.HoldPeriodMs) * time.Millisecond,
		Conditions: []Condition{
			{Name: condHoldTouch, Kind: KindTouchInside, Mode: ModeHold, Target: m.hold},
			{Name: condNoOutside, Kind: KindTouchOutside, Mode: ModeForbid, Target: m.hold},
			{Name: condFixation, Kind: KindGazeInside, Mode: ModeAcquire, Target: fix},
		},
	})

	switch {
	case !res.Satisfied(condHoldTouch):
		return models.OutcomeHoldBreak, false
	case !res.Satisfied(condNoOutside):
		return models.OutcomeTouchOutside, false
	case !res.Satisfied(condFixation):
		return models.OutcomeFixationNeverAcquired, false
	}

	timing.FixAcquire[i] = m.sinceStart()
	m.sink.Emit(markers.CodeHoldMaintained, markers.CodeFixAcquired)
	return 0, true
}

// maintainFixation watches the same contingency triple as acquireFixation,
// but gaze must stay inside the radius for the entire fix period rather than
// enter it once. A gaze excursion here is a fixation break, distinct from
// never having acquired.
func (m *Machine) maintainFixation(fix models.Geometry, timing *models.TimingRecord, i int) (models.Outcome, bool) {
	res := m.sampler.Sample(ContingencySpec{
		Timeout: time.Duration(m.cfg.FixPeriodMs) * time.Millisecond,
		Conditions: []Condition{
			{Name: condHoldTouch, Kind: KindTouchInside, Mode: ModeHold, Target: m.hold},
			{Name: condNoOutside, Kind: KindTouchOutside, Mode: ModeForbid, Target: m.hold},
			{Name: condFixation, Kind: KindGazeInside, Mode: ModeHold, Target: fix},
		},
	})

	switch {
	case !res.Satisfied(condHoldTouch):
		return models.OutcomeHoldBreak, false
	case !res.Satisfied(condNoOutside):
		return models.OutcomeTouchOutside, false
	case !res.Satisfied(condFixation):
		return models.OutcomeFixationBreak, false
	}

	m.sink.Emit(markers.CodeFixMaintained, markers.CodeFixCueOff)
	timing.FixCueOff[i] = m.sinceStart()
	return 0, true
}
