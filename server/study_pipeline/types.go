package studypipeline

import (
	"fmt"

	"github.com/qjs/studyhelper/server/prompts"
)

// State tracks where an invocation is in its fixed three-stage run.
// Complete and Failed are terminal; a new invocation always starts at Idle.
type State int

const (
	StateIdle State = iota
	StateReaderRunning
	StateExplainerRunning
	StateQuizRunning
	StateComplete
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateReaderRunning:
		return "reader-running"
	case StateExplainerRunning:
		return "explainer-running"
	case StateQuizRunning:
		return "quiz-running"
	case StateComplete:
		return "complete"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// StageResult is the outcome of one stage: either a text payload or a
// failure carrying the cause. Input records the exact text the stage was
// given so hand-off fidelity can be checked after the fact.
type StageResult struct {
	Stage  prompts.Stage
	Input  string
	Output string
	Err    error
}

// Failed reports whether the stage ended in a model error.
func (r StageResult) Failed() bool { return r.Err != nil }

// Result is the outcome of one invocation. Stages holds only the stages
// that actually ran, in execution order; construction halts at the first
// failure, so a failed run has no trailing entries.
type Result struct {
	RunID  string
	State  State
	Stages []StageResult
}

// Complete reports whether all three stages succeeded.
func (r *Result) Complete() bool { return r.State == StateComplete }

// FailedStage returns the stage that halted the run, if any.
func (r *Result) FailedStage() (StageResult, bool) {
	if r.State != StateFailed || len(r.Stages) == 0 {
		return StageResult{}, false
	}
	last := r.Stages[len(r.Stages)-1]
	if !last.Failed() {
		return StageResult{}, false
	}
	return last, true
}

// FinalOutput returns the last successful stage's payload. For a complete
// run that is the quiz text.
func (r *Result) FinalOutput() (string, bool) {
	for i := len(r.Stages) - 1; i >= 0; i-- {
		if !r.Stages[i].Failed() {
			return r.Stages[i].Output, true
		}
	}
	return "", false
}
