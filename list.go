// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Pipevet Authors

package pipevet

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	v1 "github.com/pipevet/pipevet/schema/v1"
)

var (
	jobHeaderStyle = lipgloss.NewStyle().Bold(true)
	faintStyle     = lipgloss.NewStyle().Faint(true)
)

// NewStepList renders a terse per-job listing of a pipeline's steps
//
// One line per step: index, display name, and the uses reference or the
// first line of the run script (syntax highlighted when the terminal allows)
func NewStepList(p v1.Pipeline, jobs ...string) (string, error) {
	if len(jobs) == 0 {
		jobs = p.Jobs.OrderedJobNames()
	}

	var b strings.Builder

	for _, jobName := range jobs {
		job, ok := p.Jobs.Find(jobName)
		if !ok {
			return "", fmt.Errorf("job %q not found", jobName)
		}

		fmt.Fprintf(&b, "%s %s\n", jobHeaderStyle.Render(jobName), faintStyle.Render("("+job.RunsOn+")"))

		for idx, step := range job.Steps {
			payload := step.Uses
			if payload == "" {
				lang := step.Shell
				if lang == "" {
					lang = "bash"
				}
				payload = highlightLine(firstLine(step.Run), lang)
			}

			fmt.Fprintf(&b, "  %2d. %-30s %s\n", idx+1, step.Title(), payload)
		}
	}

	return strings.TrimRight(b.String(), "\n"), nil
}

func firstLine(script string) string {
	script = strings.TrimSpace(script)
	line, rest, found := strings.Cut(script, "\n")
	if found && rest != "" {
		return line + " …"
	}
	return line
}

func highlightLine(line, lang string) string {
	if termenv.EnvNoColor() {
		// this is essentially the same behavior/rendering as make
		return line
	}

	style := "tokyonight-day"
	if lipgloss.HasDarkBackground() {
		style = "tokyonight-moon"
	}

	var buf strings.Builder
	if err := quick.Highlight(&buf, line, lang, "terminal256", style); err != nil {
		return line
	}

	return strings.TrimRight(buf.String(), "\n")
}
