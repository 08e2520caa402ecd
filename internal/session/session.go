package session

import (
	"fmt"
	"math/rand"
	"time"
	"unicode"

	"fixcal-go/internal/config"
	"fixcal-go/internal/markers"
	"fixcal-go/internal/models"
	"fixcal-go/internal/report"
	"fixcal-go/internal/repository"
	"fixcal-go/internal/trial"

	"go.uber.org/zap"
)

// Session is the context object created once at session start and carried
// through every trial: validated subject identity, the calibration point
// base set, the seeded rng that orders locations, and the collaborator set.
// It replaces any notion of cross-trial global state.
type Session struct {
	cfg      *config.Config
	log      *zap.Logger
	points   []models.Geometry
	rng      *rand.Rand
	source trial.FrameSource
	sink   markers.Sink
	cons   report.Consequences
	clock  trial.Clock
	row    *models.Session
}

// validSubject accepts the subject identifiers used in session filenames:
// letters, digits, underscore, nothing else, non-empty.
func validSubject(subject string) bool {
	if subject == "" {
		return false
	}
	for _, char := range subject {
		if !unicode.IsLetter(char) && !unicode.IsDigit(char) && char != '_' {
			return false
		}
	}
	return true
}

// preflight checks the fatal preconditions once, before any trial logic
// runs. A failure here aborts the whole session.
func preflight(cfg *config.Config, points []models.Geometry, source trial.FrameSource, cons report.Consequences) error {
	if !validSubject(cfg.Session.Subject) {
		return fmt.Errorf("invalid subject identifier %q", cfg.Session.Subject)
	}
	if source == nil {
		return fmt.Errorf("no touch/gaze sample source attached")
	}
	if cons == nil {
		return fmt.Errorf("no reward/feedback collaborator attached")
	}
	if len(points) == 0 {
		return fmt.Errorf("calibration point set is empty")
	}
	if cfg.Trial.InitPeriodMs <= 0 || cfg.Trial.HoldPeriodMs <= 0 || cfg.Trial.FixPeriodMs <= 0 {
		return fmt.Errorf("trial periods must be positive")
	}
	if cfg.Trial.HoldRadius <= 0 || cfg.Trial.FixRadius <= 0 {
		return fmt.Errorf("acceptance radii must be positive")
	}
	return nil
}

// New validates preconditions, seeds the session rng, and opens the session
// record. Seed 0 means seed from the wall clock; the effective seed is
// persisted either way so a session can be replayed.
func New(cfg *config.Config, log *zap.Logger, points []models.Geometry, source trial.FrameSource, sink markers.Sink, cons report.Consequences, clock trial.Clock) (*Session, error) {
	if err := preflight(cfg, points, source, cons); err != nil {
		return nil, err
	}

	seed := cfg.Session.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	row, err := repository.CreateSession(cfg.Session.Subject, seed)
	if err != nil {
		return nil, fmt.Errorf("failed to open session record: %w", err)
	}

	return &Session{
		cfg:    cfg,
		log:    log,
		points: points,
		rng:    rand.New(rand.NewSource(seed)),
		source: source,
		sink:   sink,
		cons:   cons,
		clock:  clock,
		row:    row,
	}, nil
}

// ID returns the persisted session id.
func (s *Session) ID() int {
	return s.row.ID
}

// Run executes the configured blocks of trials sequentially. Trials run one
// at a time on the calling goroutine; nothing else touches a trial's state.
func (s *Session) Run() {
	s.log.Info("session started",
		zap.String("subject", s.cfg.Session.Subject),
		zap.Int("session_id", s.row.ID),
		zap.Int64("seed", s.row.Seed),
		zap.Int("blocks", s.cfg.Session.Blocks),
		zap.Int("trials_per_block", s.cfg.Session.TrialsPerBlock))

	trialIndex := 0
	for block := 1; block <= s.cfg.Session.Blocks; block++ {
		for inBlock := 1; inBlock <= s.cfg.Session.TrialsPerBlock; inBlock++ {
			trialIndex++
			s.runTrial(trialIndex, block, inBlock)
		}
	}

	s.log.Info("session finished", zap.Int("trials", trialIndex))
}

// runTrial runs one complete trial: build the location order, run the state
// machine, report the outcome, persist the record. A persistence failure is
// logged and never alters the already-decided outcome.
func (s *Session) runTrial(trialIndex, block, inBlock int) {
	// Snapshot the tunables; hot reloads apply from the next trial.
	trialCfg := s.cfg.Trial
	rewardCfg := s.cfg.Reward

	locs := models.BuildLocationList(s.points, trialCfg.Randomize, s.rng)

	// The recorder tees every marker, footer included, into the trial's
	// persisted marker record.
	recorder := markers.NewRecorder(s.sink, s.clock.Now)
	sampler := trial.NewPollSampler(s.source, s.clock,
		time.Duration(trialCfg.SampleIntervalMs)*time.Millisecond)
	machine := trial.NewMachine(trialCfg, sampler, recorder, s.clock, s.log)
	reporter := report.NewReporter(rewardCfg, recorder, s.cons, s.log)

	s.log.Info("trial started",
		zap.Int("trial", trialIndex),
		zap.Int("block", block),
		zap.Int("locations", len(locs)))

	outcome, timing := machine.Run(locs)

	reporter.Report(report.TrialInfo{
		TrialIndex:     trialIndex,
		BlockIndex:     block,
		TrialInBlock:   inBlock,
		ConditionIndex: s.cfg.Session.ConditionIndex,
		TypeFlags:      s.cfg.Session.TrialTypeFlags,
	}, outcome)

	summary := models.NewTrialResult(s.row.ID, trialIndex, block, inBlock,
		s.cfg.Session.ConditionIndex, outcome, timing)
	if err := repository.SaveTrialResultTx(summary, recorder.Stamps()); err != nil {
		s.log.Error("failed to persist trial record",
			zap.Int("trial", trialIndex), zap.Error(err))
	}

	s.log.Info("trial recorded",
		zap.Int("trial", trialIndex),
		zap.String("outcome", outcome.String()))
}
