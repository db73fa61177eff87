// Package studypipeline runs the fixed Reader → Explainer → Quiz pipeline.
//
// Each stage's input is the previous stage's output, so stages execute
// strictly in order and the run halts at the first failure. Stage failures
// are returned as values inside Result, never thrown across component
// boundaries; only usage errors (empty input) surface as plain errors
// before any model call is made.
package studypipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/qjs/studyhelper/server/llm"
	"github.com/qjs/studyhelper/server/prompts"
)

// ErrEmptyInput rejects empty or whitespace-only study text before the
// pipeline starts. It is a usage error, not a model error.
var ErrEmptyInput = errors.New("pipeline: input text is empty")

// Orchestrator owns one client and one prompt builder. It holds no state
// between invocations: every Run gets a fresh Result, so concurrent
// invocations are independent.
type Orchestrator struct {
	Client  llm.Client
	Builder prompts.Builder
}

// New returns an orchestrator over the given client and prompt builder.
func New(client llm.Client, builder prompts.Builder) *Orchestrator {
	return &Orchestrator{Client: client, Builder: builder}
}

// Run executes one invocation. The returned error is non-nil only for
// usage errors detected before any stage runs; a stage failure is reported
// through Result.State and the failing StageResult.
func (o *Orchestrator) Run(ctx context.Context, input string) (*Result, error) {
	if strings.TrimSpace(input) == "" {
		return nil, ErrEmptyInput
	}

	res := &Result{
		RunID: uuid.NewString(),
		State: StateIdle,
	}

	text := input
	for _, stage := range prompts.Stages() {
		res.State = runningState(stage)
		sr := o.runStage(ctx, stage, text)
		res.Stages = append(res.Stages, sr)
		if sr.Failed() {
			res.State = StateFailed
			return res, nil
		}
		text = sr.Output
	}

	res.State = StateComplete
	return res, nil
}

// runStage builds the stage prompt and performs the single model call.
// Failures are wrapped into the StageResult so the caller decides whether
// to halt or, in a future extension, retry.
func (o *Orchestrator) runStage(ctx context.Context, stage prompts.Stage, input string) StageResult {
	sr := StageResult{Stage: stage, Input: input}

	prompt, err := o.Builder.Build(stage, input)
	if err != nil {
		sr.Err = fmt.Errorf("%s: %w", stage, err)
		return sr
	}

	out, err := o.Client.Generate(ctx, prompt)
	if err != nil {
		sr.Err = fmt.Errorf("%s stage: %w", stage, err)
		return sr
	}
	sr.Output = out
	return sr
}

func runningState(stage prompts.Stage) State {
	switch stage {
	case prompts.StageReader:
		return StateReaderRunning
	case prompts.StageExplainer:
		return StateExplainerRunning
	default:
		return StateQuizRunning
	}
}
