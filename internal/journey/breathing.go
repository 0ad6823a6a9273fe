package journey

import "time"

// BreathingPhase is one of the four timed phases of the breathing screen.
type BreathingPhase string

const (
	PhaseBreatheIn  BreathingPhase = "breathe_in"
	PhaseHoldFull   BreathingPhase = "hold_full"
	PhaseBreatheOut BreathingPhase = "breathe_out"
	PhaseHoldEmpty  BreathingPhase = "hold_empty"
)

// The exercise cycles the four phases on a fixed cadence, independent of
// user input, and auto-advances after a bounded number of cycles.
const (
	PhaseDuration   = 4 * time.Second
	BreathingCycles = 4
)

var phaseOrder = []BreathingPhase{PhaseBreatheIn, PhaseHoldFull, PhaseBreatheOut, PhaseHoldEmpty}

// CycleDuration is the length of one full breath.
const CycleDuration = PhaseDuration * 4

// ExerciseDuration is the bounded length of the whole exercise.
const ExerciseDuration = CycleDuration * BreathingCycles

// PhaseAt returns the phase active at the given time into the exercise.
// Elapsed time at or past the exercise end reports the final phase.
func PhaseAt(elapsed time.Duration) BreathingPhase {
	if elapsed < 0 {
		return PhaseBreatheIn
	}
	if elapsed >= ExerciseDuration {
		return PhaseHoldEmpty
	}
	idx := int(elapsed/PhaseDuration) % len(phaseOrder)
	return phaseOrder[idx]
}

// Done reports whether the exercise has run its bounded duration and the
// breathing screen should auto-advance.
func Done(elapsed time.Duration) bool {
	return elapsed >= ExerciseDuration
}
