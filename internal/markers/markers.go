// Package markers defines the event codes sent to the recording stream and
// the sinks that carry them. Codes are used offline to align behavior with
// the physiological record, so their values are frozen.
package markers

import (
	"time"

	"go.uber.org/zap"
)

// Phase and consequence codes, one per trial milestone.
const (
	CodeTrialStart     = 9
	CodeFixCueOn       = 10
	CodeFixCueOff      = 11
	CodeHoldInitiated  = 12
	CodeHoldMaintained = 13
	CodeFixAcquired    = 14
	CodeFixMaintained  = 15
	CodeAllOff         = 16
	CodeReward         = 17
	CodeFooterStart    = 18
	CodeFooterStop     = 19
)

// Footer values are offset-encoded so index payloads never collide with the
// phase codes above.
const (
	FooterTrialBase        = 100
	FooterBlockBase        = 300
	FooterTrialInBlockBase = 500
	FooterConditionBase    = 700
	FooterOutcomeBase      = 800
	FooterFlagsBase        = 900
)

// Sink receives marker codes. Emission is fire-and-forget; implementations
// must preserve call order within a trial and never block trial logic on
// acknowledgement.
type Sink interface {
	Emit(codes ...int)
}

// LogSink writes markers to the session log. It stands in for the recording
// stream on rigs where the neural acquisition side is absent.
type LogSink struct {
	log *zap.Logger
}

func NewLogSink(log *zap.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Emit(codes ...int) {
	s.log.Debug("markers", zap.Ints("codes", codes))
}

// Stamp is one recorded marker with its emission order and time relative to
// the recorder's start.
type Stamp struct {
	Seq  int
	Code int
	AtMs float64
}

// Recorder tees every emitted code to an inner sink while keeping a
// timestamped copy for persistence. One recorder serves one trial.
type Recorder struct {
	next   Sink
	now    func() time.Time
	start  time.Time
	stamps []Stamp
}

// NewRecorder wraps next. now may be nil, defaulting to time.Now.
func NewRecorder(next Sink, now func() time.Time) *Recorder {
	if now == nil {
		now = time.Now
	}
	r := &Recorder{next: next, now: now}
	r.start = now()
	return r
}

func (r *Recorder) Emit(codes ...int) {
	at := float64(r.now().Sub(r.start)) / float64(time.Millisecond)
	for _, code := range codes {
		r.stamps = append(r.stamps, Stamp{Seq: len(r.stamps), Code: code, AtMs: at})
	}
	if r.next != nil {
		r.next.Emit(codes...)
	}
}

// Stamps returns the recorded sequence in emission order.
func (r *Recorder) Stamps() []Stamp {
	return r.stamps
}
