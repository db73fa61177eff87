package prompts

import (
	"strings"
	"testing"
)

func TestBuildIdempotent(t *testing.T) {
	for _, style := range []Style{StyleStudy, StyleCompact} {
		b := Builder{Style: style}
		for _, stage := range Stages() {
			first, err := b.Build(stage, "mitochondria are the powerhouse of the cell")
			if err != nil {
				t.Fatalf("build %s: %v", stage, err)
			}
			second, err := b.Build(stage, "mitochondria are the powerhouse of the cell")
			if err != nil {
				t.Fatalf("build %s again: %v", stage, err)
			}
			if first != second {
				t.Errorf("style %d stage %s: prompts differ between identical builds", style, stage)
			}
		}
	}
}

func TestBuildInterpolatesInput(t *testing.T) {
	const input = "UNIQUE-MARKER-42"
	b := Builder{Style: StyleStudy}
	for _, stage := range Stages() {
		p, err := b.Build(stage, input)
		if err != nil {
			t.Fatalf("build %s: %v", stage, err)
		}
		if !strings.Contains(p.User, input) {
			t.Errorf("stage %s: user prompt does not contain the input text", stage)
		}
		if strings.Contains(p.System, input) {
			t.Errorf("stage %s: input leaked into the system prompt", stage)
		}
	}
}

func TestBuildStagesDiffer(t *testing.T) {
	b := Builder{Style: StyleStudy}
	seen := map[string]Stage{}
	for _, stage := range Stages() {
		p, err := b.Build(stage, "same input")
		if err != nil {
			t.Fatalf("build %s: %v", stage, err)
		}
		if prev, dup := seen[p.User]; dup {
			t.Errorf("stages %s and %s produced identical prompts", prev, stage)
		}
		seen[p.User] = stage
	}
}

func TestBuildEmptyInputIsWellFormed(t *testing.T) {
	b := Builder{Style: StyleStudy}
	p, err := b.Build(StageReader, "")
	if err != nil {
		t.Fatalf("empty input must not be a build error: %v", err)
	}
	if strings.TrimSpace(p.User) == "" || strings.TrimSpace(p.System) == "" {
		t.Error("empty input should still produce a well-formed prompt")
	}
}

func TestBuildUnknownStage(t *testing.T) {
	b := Builder{Style: StyleStudy}
	if _, err := b.Build(Stage(99), "x"); err == nil {
		t.Error("expected error for unknown stage")
	}
	if _, err := (Builder{Style: Style(99)}).Build(StageReader, "x"); err == nil {
		t.Error("expected error for unknown style")
	}
}

func TestParseStyle(t *testing.T) {
	cases := []struct {
		in      string
		want    Style
		wantErr bool
	}{
		{"", StyleStudy, false},
		{"study", StyleStudy, false},
		{"Compact", StyleCompact, false},
		{" compact ", StyleCompact, false},
		{"haiku", 0, true},
	}
	for _, c := range cases {
		got, err := ParseStyle(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("ParseStyle(%q): expected error", c.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseStyle(%q): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseStyle(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestStageOrder(t *testing.T) {
	want := [3]Stage{StageReader, StageExplainer, StageQuiz}
	if Stages() != want {
		t.Errorf("stage order changed: %v", Stages())
	}
}
