// Package journey models the guided check-in flow as an explicit finite
// state machine. Each journey is a linear sequence of steps; transitions
// are forward-only and require the current step's input to be non-empty,
// so an interrupted journey cannot be resumed in an inconsistent state.
package journey

import (
	"errors"
	"fmt"
)

// Journey names the five phases of the guided flow, in order.
type Journey string

const (
	Breathe    Journey = "breathe"
	Notice     Journey = "notice"
	Separate   Journey = "separate"
	Understand Journey = "understand"
	Choose     Journey = "choose"
)

// Step is one screen within a journey.
type Step string

const (
	// Breathe
	StepEntrance  Step = "entrance"
	StepBreathing Step = "breathing"
	StepBodyScan  Step = "body_scan"

	// Notice
	StepMoodCheck      Step = "mood_check"
	StepFeelingCapture Step = "feeling_capture"

	// Separate
	StepNormalize Step = "normalize"
	StepSignal    Step = "signal"
	StepHeadline  Step = "headline"

	// Understand
	StepInquiry    Step = "inquiry"
	StepValueShift Step = "value_shift"

	// Choose
	StepActionStep     Step = "action_step"
	StepAlignmentCheck Step = "alignment_check"
	StepClose          Step = "close"
)

var (
	// ErrInputRequired signals an attempted forward transition with an
	// empty input on a step that requires one.
	ErrInputRequired = errors.New("input required to advance")

	// ErrNoTransition signals an advance past the terminal step or from
	// an unknown step.
	ErrNoTransition = errors.New("no transition from step")

	// ErrNoBack signals a back attempt on a screen without a back
	// affordance.
	ErrNoBack = errors.New("no back transition from step")
)

// steps lists each journey's screens in order.
var steps = map[Journey][]Step{
	Breathe:    {StepEntrance, StepBreathing, StepBodyScan},
	Notice:     {StepMoodCheck, StepFeelingCapture},
	Separate:   {StepNormalize, StepSignal, StepHeadline},
	Understand: {StepInquiry, StepValueShift},
	Choose:     {StepActionStep, StepAlignmentCheck, StepClose},
}

// inputFree lists steps that advance on a plain button press. The breathing
// screen advances on its timer and the entrance screen is informational.
var inputFree = map[Step]struct{}{
	StepEntrance:  {},
	StepBreathing: {},
	StepClose:     {},
}

// backAllowed lists steps carrying an explicit back affordance.
var backAllowed = map[Step]struct{}{
	StepSignal:         {},
	StepHeadline:       {},
	StepValueShift:     {},
	StepAlignmentCheck: {},
}

// order of journeys within the full flow.
var order = []Journey{Breathe, Notice, Separate, Understand, Choose}

// Steps returns the ordered screens of a journey.
func Steps(j Journey) ([]Step, error) {
	s, ok := steps[j]
	if !ok {
		return nil, fmt.Errorf("unknown journey %q", j)
	}
	return s, nil
}

// First returns a journey's initial step.
func First(j Journey) (Step, error) {
	s, err := Steps(j)
	if err != nil {
		return "", err
	}
	return s[0], nil
}

// Next advances from the given step. input is the user's entry on the
// current screen; steps that require input reject an empty one. Advancing
// past the terminal step returns ErrNoTransition — callers use NextJourney
// at that point.
func Next(j Journey, current Step, input string) (Step, error) {
	seq, err := Steps(j)
	if err != nil {
		return "", err
	}
	for i, s := range seq {
		if s != current {
			continue
		}
		if i == len(seq)-1 {
			return "", fmt.Errorf("%w: %s is terminal in %s", ErrNoTransition, current, j)
		}
		if _, free := inputFree[s]; !free && input == "" {
			return "", fmt.Errorf("%w: %s", ErrInputRequired, current)
		}
		return seq[i+1], nil
	}
	return "", fmt.Errorf("%w: %s not in %s", ErrNoTransition, current, j)
}

// Back returns the previous step for screens with a back affordance.
func Back(j Journey, current Step) (Step, error) {
	if _, ok := backAllowed[current]; !ok {
		return "", fmt.Errorf("%w: %s", ErrNoBack, current)
	}
	seq, err := Steps(j)
	if err != nil {
		return "", err
	}
	for i, s := range seq {
		if s == current && i > 0 {
			return seq[i-1], nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNoBack, current)
}

// IsTerminal reports whether the step is the journey's last screen.
func IsTerminal(j Journey, s Step) bool {
	seq, ok := steps[j]
	if !ok || len(seq) == 0 {
		return false
	}
	return seq[len(seq)-1] == s
}

// NextJourney returns the phase that follows j. ok is false after the
// final phase: the flow then returns to the dashboard.
func NextJourney(j Journey) (Journey, bool) {
	for i, cur := range order {
		if cur == j && i < len(order)-1 {
			return order[i+1], true
		}
	}
	return "", false
}
