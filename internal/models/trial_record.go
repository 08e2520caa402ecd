package models

import (
	"time"

	"github.com/lib/pq"
)

// Session is one recording session for one subject. Trials reference it.
type Session struct {
	ID        int `gorm:"primaryKey"`
	Subject   string
	Seed      int64
	StartedAt time.Time
	CreatedAt time.Time
}

// TrialResult is the append-only per-trial row: one outcome plus the timing
// record, keyed by trial index within the session. Rows are never mutated
// after creation.
type TrialResult struct {
	ID             int `gorm:"primaryKey"`
	SessionID      int
	Session        Session `gorm:"foreignKey:SessionID"`
	TrialIndex     int
	BlockIndex     int
	TrialInBlock   int
	ConditionIndex int
	Outcome        int
	TrialInitMs    *float64
	HoldOnsetMs    *float64
	AllOffMs       *float64
	FixCueOnMs     pq.Float64Array `gorm:"type:float8[]"`
	FixAcquireMs   pq.Float64Array `gorm:"type:float8[]"`
	FixCueOffMs    pq.Float64Array `gorm:"type:float8[]"`
	CreatedAt      time.Time
}

// TrialMarker is one emitted marker code with its order and time within the
// trial, persisted alongside the summary row for offline alignment.
type TrialMarker struct {
	ID       int `gorm:"primaryKey"`
	ResultID int
	Seq      int
	Code     int
	AtMs     float64
}

// msOrNil maps an unset timing value to SQL NULL instead of NaN, which keeps
// the scalar columns queryable with plain comparisons.
func msOrNil(v float64) *float64 {
	if !IsSet(v) {
		return nil
	}
	return &v
}

// NewTrialResult builds the persistence row from a decided outcome and its
// timing record. Unset vector entries stay NaN inside the arrays so the
// per-location alignment is preserved.
func NewTrialResult(sessionID, trialIndex, blockIndex, trialInBlock, conditionIndex int, outcome Outcome, timing *TimingRecord) *TrialResult {
	return &TrialResult{
		SessionID:      sessionID,
		TrialIndex:     trialIndex,
		BlockIndex:     blockIndex,
		TrialInBlock:   trialInBlock,
		ConditionIndex: conditionIndex,
		Outcome:        int(outcome),
		TrialInitMs:    msOrNil(timing.TrialInit),
		HoldOnsetMs:    msOrNil(timing.HoldOnset),
		AllOffMs:       msOrNil(timing.AllOff),
		FixCueOnMs:     pq.Float64Array(timing.FixCueOn),
		FixAcquireMs:   pq.Float64Array(timing.FixAcquire),
		FixCueOffMs:    pq.Float64Array(timing.FixCueOff),
	}
}
