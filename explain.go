// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Pipevet Authors

package pipevet

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	v1 "github.com/pipevet/pipevet/schema/v1"
)

// Explain renders a human-readable report of a pipeline: what triggers it,
// which jobs and steps the runner will walk, which actions and secrets the
// document leans on
//
// With no job filter every job is explained
func Explain(p v1.Pipeline, jobs ...string) (string, error) {
	if len(jobs) == 0 {
		jobs = p.Jobs.OrderedJobNames()
	}

	var md strings.Builder

	title := p.Name
	if title == "" {
		title = "pipeline"
	}
	fmt.Fprintf(&md, "# %s\n\n", title)

	if branches := p.On.Branches(); len(branches) > 0 {
		fmt.Fprintf(&md, "Runs on pushes to %s.\n\n", strings.Join(branches, ", "))
	} else {
		fmt.Fprintf(&md, "Runs on every push.\n\n")
	}

	secrets, err := SecretNames(p)
	if err != nil {
		return "", err
	}
	if len(secrets) > 0 {
		fmt.Fprintf(&md, "Required secrets: `%s`.\n\n", strings.Join(secrets, "`, `"))
	}

	var refs []string
	for _, jobName := range p.Jobs.OrderedJobNames() {
		for _, step := range p.Jobs[jobName].Steps {
			if step.Uses == "" {
				continue
			}
			if !slices.Contains(refs, step.Uses) {
				refs = append(refs, step.Uses)
			}
		}
	}
	if len(refs) > 0 {
		fmt.Fprintf(&md, "Referenced actions: `%s`.\n\n", strings.Join(refs, "`, `"))
	}

	for _, jobName := range jobs {
		job, ok := p.Jobs.Find(jobName)
		if !ok {
			return "", fmt.Errorf("job %q not found", jobName)
		}

		fmt.Fprintf(&md, "## %s\n\n", jobName)
		fmt.Fprintf(&md, "Runs on `%s`, %d step(s).\n\n", job.RunsOn, len(job.Steps))

		for idx, step := range job.Steps {
			fmt.Fprintf(&md, "%d. **%s**", idx+1, step.Title())
			if step.If != "" {
				fmt.Fprintf(&md, " _(if: `%s`)_", step.If)
			}
			fmt.Fprintln(&md)

			if step.Run != "" {
				lang := step.Shell
				if lang == "" {
					lang = "bash"
				}
				fmt.Fprintf(&md, "\n   ```%s\n", lang)
				for line := range strings.SplitSeq(strings.TrimSpace(step.Run), "\n") {
					fmt.Fprintf(&md, "   %s\n", line)
				}
				fmt.Fprint(&md, "   ```\n")
			}
		}
		fmt.Fprintln(&md)
	}

	if termenv.EnvNoColor() {
		return strings.TrimSpace(md.String()), nil
	}

	width := 100
	if fd := int(os.Stdout.Fd()); term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			width = w
		}
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}

	out, err := r.Render(md.String())
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(out), nil
}
