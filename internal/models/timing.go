package models

import "math"

// TimingRecord collects the per-trial milestone times, all in milliseconds
// relative to trial start. Fields stay NaN until the corresponding phase
// completes; each field is written at most once. Per-location vectors always
// have one entry per location in the trial's (possibly shuffled) order, so
// unset entries mark the locations at and after an abort.
type TimingRecord struct {
	TrialInit  float64
	HoldOnset  float64
	AllOff     float64
	FixCueOn   []float64
	FixAcquire []float64
	FixCueOff  []float64
}

// Unset is the explicit "never happened" marker for timing fields.
var Unset = math.NaN()

// NewTimingRecord returns a record for n locations with every field unset.
func NewTimingRecord(n int) *TimingRecord {
	r := &TimingRecord{
		TrialInit:  Unset,
		HoldOnset:  Unset,
		AllOff:     Unset,
		FixCueOn:   make([]float64, n),
		FixAcquire: make([]float64, n),
		FixCueOff:  make([]float64, n),
	}
	for i := 0; i < n; i++ {
		r.FixCueOn[i] = Unset
		r.FixAcquire[i] = Unset
		r.FixCueOff[i] = Unset
	}
	return r
}

// IsSet reports whether a timing value has been recorded.
func IsSet(v float64) bool {
	return !math.IsNaN(v)
}
