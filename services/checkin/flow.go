package checkin

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/neomind180-byte/neomind180-sub000/internal/httputil"
	"github.com/neomind180-byte/neomind180-sub000/internal/journey"
)

type flowStartResponse struct {
	Journey journey.Journey `json:"journey"`
	Step    journey.Step    `json:"step"`
	// Breathing schedule, present only when the first step is timed.
	Breathing *breathingSchedule `json:"breathing,omitempty"`
}

type breathingSchedule struct {
	PhaseSeconds    int `json:"phaseSeconds"`
	Cycles          int `json:"cycles"`
	DurationSeconds int `json:"durationSeconds"`
}

// handleFlowStart returns the entry step of a journey.
func (s *Service) handleFlowStart(w http.ResponseWriter, r *http.Request) {
	j := journey.Journey(mux.Vars(r)["journey"])
	first, err := journey.First(j)
	if err != nil {
		httputil.BadRequest(w, "unknown journey")
		return
	}

	resp := flowStartResponse{Journey: j, Step: first}
	if j == journey.Breathe {
		resp.Breathing = &breathingSchedule{
			PhaseSeconds:    int(journey.PhaseDuration.Seconds()),
			Cycles:          journey.BreathingCycles,
			DurationSeconds: int(journey.ExerciseDuration.Seconds()),
		}
	}
	httputil.WriteSuccess(w, resp)
}

type flowStepRequest struct {
	Journey string `json:"journey"`
	Step    string `json:"step"`
	Input   string `json:"input"`
	Back    bool   `json:"back"`
}

type flowStepResponse struct {
	Journey     journey.Journey `json:"journey"`
	Step        journey.Step    `json:"step"`
	Terminal    bool            `json:"terminal"`
	NextJourney journey.Journey `json:"nextJourney,omitempty"`
}

// handleFlowStep advances or rewinds one wizard step. The transition
// table lives server-side so clients cannot skip steps or go back where
// the flow forbids it.
func (s *Service) handleFlowStep(w http.ResponseWriter, r *http.Request) {
	var req flowStepRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}

	j := journey.Journey(req.Journey)
	cur := journey.Step(req.Step)

	var (
		next journey.Step
		err  error
	)
	if req.Back {
		next, err = journey.Back(j, cur)
	} else {
		next, err = journey.Next(j, cur, req.Input)
	}
	if err != nil {
		switch {
		case errors.Is(err, journey.ErrInputRequired):
			httputil.BadRequest(w, "this step requires input")
		case errors.Is(err, journey.ErrNoBack):
			httputil.BadRequest(w, "cannot go back from this step")
		default:
			httputil.BadRequest(w, "no such transition")
		}
		return
	}

	resp := flowStepResponse{Journey: j, Step: next, Terminal: journey.IsTerminal(j, next)}
	if resp.Terminal {
		if nj, ok := journey.NextJourney(j); ok {
			resp.NextJourney = nj
		}
	}
	httputil.WriteSuccess(w, resp)
}
