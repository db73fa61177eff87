// Package prompts turns a stage identifier plus the previous stage's text
// into a fully-formed instruction for the model service.
//
// Keeping prompt construction here decouples it from the pipeline layer, so
// phrasing can be iterated on without touching orchestration logic. Building
// is pure string assembly: the same (style, stage, input) always yields a
// byte-identical prompt.
package prompts

import (
	"fmt"
	"strings"

	"github.com/qjs/studyhelper/server/llm"
)

// Stage identifies one of the three fixed pipeline steps.
type Stage int

const (
	StageReader Stage = iota
	StageExplainer
	StageQuiz
)

// Stages returns the fixed execution order.
func Stages() [3]Stage {
	return [3]Stage{StageReader, StageExplainer, StageQuiz}
}

func (s Stage) String() string {
	switch s {
	case StageReader:
		return "reader"
	case StageExplainer:
		return "explainer"
	case StageQuiz:
		return "quiz"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Title is the human-facing heading used in the UI and exported documents.
func (s Stage) Title() string {
	switch s {
	case StageReader:
		return "Key Points Summary"
	case StageExplainer:
		return "Simple Explanations"
	case StageQuiz:
		return "Practice Questions"
	default:
		return s.String()
	}
}

// Style controls the verbosity / format of the prompt sent to the LLM.
//
//   - StyleCompact: shortest prompt, just enough to state the task.
//   - StyleStudy: full role + task phrasing tuned for study material.
//
// If you add a new style, extend the switch in Builder.Build; existing
// call-sites only need to swap the enum value.
type Style int

const (
	StyleStudy Style = iota
	StyleCompact
)

// ParseStyle maps a config string to a Style. Empty means StyleStudy.
func ParseStyle(name string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "study":
		return StyleStudy, nil
	case "compact":
		return StyleCompact, nil
	default:
		return 0, fmt.Errorf("prompts: unknown style %q", name)
	}
}

// Builder holds configuration for generating prompts.
type Builder struct {
	Style Style
	Model string // optional: model name for conditional phrasing
}

// Build returns the prompt for a stage with input interpolated in a single
// marked position. Input is not validated: an empty input yields a
// well-formed but low-value prompt, which is accepted behavior.
func (b Builder) Build(stage Stage, input string) (llm.Prompt, error) {
	switch b.Style {
	case StyleCompact:
		return b.buildCompact(stage, input)
	case StyleStudy:
		return b.buildStudy(stage, input)
	default:
		return llm.Prompt{}, fmt.Errorf("prompts: unknown style %d", int(b.Style))
	}
}

func (b Builder) buildCompact(stage Stage, input string) (llm.Prompt, error) {
	switch stage {
	case StageReader:
		return llm.Prompt{
			System: "You summarize study material into key points.",
			User:   fmt.Sprintf("Summarize the key points of the following text:\n\n%s", input),
		}, nil
	case StageExplainer:
		return llm.Prompt{
			System: "You explain concepts in simple terms.",
			User:   fmt.Sprintf("Explain the following key points simply:\n\n%s", input),
		}, nil
	case StageQuiz:
		return llm.Prompt{
			System: "You write practice questions with answers.",
			User:   fmt.Sprintf("Write 3-5 practice questions with answers for the following material:\n\n%s", input),
		}, nil
	default:
		return llm.Prompt{}, fmt.Errorf("prompts: unknown stage %d", int(stage))
	}
}

func (b Builder) buildStudy(stage Stage, input string) (llm.Prompt, error) {
	switch stage {
	case StageReader:
		return llm.Prompt{
			System: `You are a Text Reader and Summarizer. Your job is to:
1. Read the input text carefully
2. Identify the main topics and concepts
3. Extract the most important key points
4. Organize them in a clear, structured way
5. Focus on the most relevant information for learning`,
			User: fmt.Sprintf(`Read and analyze the following text carefully:

%s

Extract and summarize the key points. Focus on:
- Main topics and concepts
- Important details and facts
- Key relationships between ideas
- Most relevant information for learning

Provide a well-organized summary of the key points from the text, structured for easy understanding.`, input),
		}, nil

	case StageExplainer:
		return llm.Prompt{
			System: `You are a Concept Explainer, a master teacher who excels at explaining complex topics in simple terms. Your job is to:
1. Break down complex concepts into smaller parts
2. Use simple, clear language
3. Include analogies or examples where helpful
4. Make connections between different ideas
5. Help students truly understand the material`,
			User: fmt.Sprintf(`Take the following key points and explain them in simple, easy-to-understand terms:

%s

Your explanation should use everyday language, include analogies or examples where helpful, and make the content accessible and memorable. Provide clear, simple explanations of the key concepts.`, input),
		}, nil

	case StageQuiz:
		return llm.Prompt{
			System: `You are a Quiz Generator, an expert educator who creates excellent practice questions. Your job is to:
1. Review the explanations and create 3-5 high-quality practice questions
2. Include both multiple choice and short answer questions
3. Test different levels of understanding
4. Make questions clear and unambiguous`,
			User: fmt.Sprintf(`Based on the following explanations, create 3-5 practice questions:

%s

For each question, provide:
- The question text
- Multiple choice options (if applicable)
- The correct answer
- A brief explanation of why the answer is correct`, input),
		}, nil

	default:
		return llm.Prompt{}, fmt.Errorf("prompts: unknown stage %d", int(stage))
	}
}
