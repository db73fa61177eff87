// Package export renders a completed pipeline run as a downloadable
// document, either plain markdown text or a printable PDF.
package export

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	studypipeline "github.com/qjs/studyhelper/server/study_pipeline"
)

// DocumentTitle is the fixed title line of every exported document.
const DocumentTitle = "Study Helper Analysis"

// ErrIncomplete is returned when a run that did not complete all three
// stages is exported. Placeholder output is never fabricated for failed or
// skipped stages.
var ErrIncomplete = errors.New("export: pipeline run is not complete")

var titleCaser = cases.Title(language.English)

// Heading names a stage in the exported document, e.g.
// "Reader: Key Points Summary".
func Heading(sr studypipeline.StageResult) string {
	return fmt.Sprintf("%s: %s", titleCaser.String(sr.Stage.String()), sr.Stage.Title())
}

// Text renders the run as markdown: a title line, then for each stage in
// fixed order a heading followed by its payload verbatim. The layout is
// deterministic; identical runs produce byte-identical documents.
func Text(res *studypipeline.Result) (string, error) {
	if !res.Complete() {
		return "", ErrIncomplete
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n", DocumentTitle)
	for _, sr := range res.Stages {
		fmt.Fprintf(&sb, "\n## %s\n\n%s\n", Heading(sr), sr.Output)
	}
	return sb.String(), nil
}
