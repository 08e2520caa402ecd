package report

import (
	"time"

	"fixcal-go/internal/config"
	"fixcal-go/internal/markers"
	"fixcal-go/internal/models"

	"go.uber.org/zap"
)

// Consequences is the reward/feedback hardware surface. Implementations are
// opaque to the trial core; the reporter only decides which calls to make
// and with which parameters.
type Consequences interface {
	DeliverReward(volume time.Duration, line, repetitions int, gap time.Duration) error
	PresentCue(cue int) error
	Pause(d time.Duration)
}

// TrialInfo carries the trial-level identifiers encoded into the footer.
type TrialInfo struct {
	TrialIndex     int
	BlockIndex     int
	TrialInBlock   int
	ConditionIndex int
	TypeFlags      int
}

// Reporter maps a terminal outcome to the footer marker sequence and the
// post-trial consequence. Report runs exactly once per trial; it is not
// idempotent and must not be re-invoked.
type Reporter struct {
	cfg  config.RewardConfig
	sink markers.Sink
	cons Consequences
	log  *zap.Logger
}

func NewReporter(cfg config.RewardConfig, sink markers.Sink, cons Consequences, log *zap.Logger) *Reporter {
	return &Reporter{cfg: cfg, sink: sink, cons: cons, log: log}
}

// Report emits the footer for the trial and applies the outcome's
// consequence: a neutral pause when the hold was never initiated, reward
// plus positive cue plus good pause on success, negative cue plus punitive
// pause on every other abort.
func (r *Reporter) Report(info TrialInfo, outcome models.Outcome) {
	r.sink.Emit(
		markers.CodeFooterStart,
		markers.FooterTrialBase+info.TrialIndex,
		markers.FooterBlockBase+info.BlockIndex,
		markers.FooterTrialInBlockBase+info.TrialInBlock,
		markers.FooterConditionBase+info.ConditionIndex,
		markers.FooterOutcomeBase+int(outcome),
		markers.FooterFlagsBase+info.TypeFlags,
		markers.CodeFooterStop,
	)

	switch {
	case outcome == models.OutcomeHoldNotInitiated:
		r.cons.Pause(time.Duration(r.cfg.NeutralPauseMs) * time.Millisecond)

	case outcome == models.OutcomeSuccess:
		err := r.cons.DeliverReward(
			time.Duration(r.cfg.VolumeMs)*time.Millisecond,
			r.cfg.Line,
			r.cfg.Repetitions,
			time.Duration(r.cfg.GapMs)*time.Millisecond,
		)
		if err != nil {
			// A missed reward is an equipment problem, not a trial failure;
			// the outcome stands.
			r.log.Error("reward delivery failed", zap.Error(err))
		}
		if err := r.cons.PresentCue(r.cfg.GoodCue); err != nil {
			r.log.Error("positive cue failed", zap.Error(err))
		}
		r.cons.Pause(time.Duration(r.cfg.GoodPauseMs) * time.Millisecond)

	default:
		if err := r.cons.PresentCue(r.cfg.BadCue); err != nil {
			r.log.Error("negative cue failed", zap.Error(err))
		}
		r.cons.Pause(time.Duration(r.cfg.BadPauseMs) * time.Millisecond)
	}
}
