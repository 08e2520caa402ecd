package models

// Outcome is the terminal code of one trial. Exactly one is assigned per
// trial and it is never revised afterwards. The numeric values are part of
// the footer marker contract, so they must stay stable across versions.
type Outcome int

const (
	// OutcomeSuccess means every location passed both fixation phases.
	OutcomeSuccess Outcome = 0
	// OutcomeHoldNotInitiated means no touch at all arrived within the init
	// period. It carries the neutral consequence.
	OutcomeHoldNotInitiated Outcome = 1
	// OutcomeTouchOutside means a contact was registered outside the hold
	// target, in any phase.
	OutcomeTouchOutside Outcome = 2
	// OutcomeHoldBreak means the hold target was released after being
	// acquired.
	OutcomeHoldBreak Outcome = 3
	// OutcomeFixationNeverAcquired means gaze never entered the current
	// location's radius within the acquisition window.
	OutcomeFixationNeverAcquired Outcome = 4
	// OutcomeFixationBreak means gaze left the radius after fixation had
	// been acquired.
	OutcomeFixationBreak Outcome = 5
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeHoldNotInitiated:
		return "hold_not_initiated"
	case OutcomeTouchOutside:
		return "touch_outside"
	case OutcomeHoldBreak:
		return "hold_break"
	case OutcomeFixationNeverAcquired:
		return "fixation_never_acquired"
	case OutcomeFixationBreak:
		return "fixation_break"
	default:
		return "unknown"
	}
}

// IsAbort reports whether the outcome is any terminal state other than
// success.
func (o Outcome) IsAbort() bool {
	return o != OutcomeSuccess
}
