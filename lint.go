// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Pipevet Authors

package pipevet

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cast"

	"github.com/pipevet/pipevet/actions"
	v1 "github.com/pipevet/pipevet/schema/v1"
)

// Severity grades a lint finding
type Severity string

const (
	// SeverityInfo findings are stylistic
	SeverityInfo Severity = "info"
	// SeverityWarning findings are likely mistakes the runner will not catch
	SeverityWarning Severity = "warning"
	// SeverityError findings make the document unfit to push
	SeverityError Severity = "error"
)

// Finding is a single lint result
type Finding struct {
	Severity Severity `json:"severity"`
	Rule     string   `json:"rule"`
	// Path locates the finding, e.g. .jobs.deploy.steps[2].uses
	Path    string `json:"path"`
	Message string `json:"message"`
}

// String implements fmt.Stringer
func (f Finding) String() string {
	return fmt.Sprintf("%s: %s: %s (%s)", f.Severity, f.Path, f.Message, f.Rule)
}

// HasErrors reports whether any finding is an error
func HasErrors(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Lint runs every rule against an already well-formed pipeline
//
// Lint assumes v1.Validate passed, it reports style and risk, not structure
func Lint(p v1.Pipeline) []Finding {
	var findings []Finding

	add := func(sev Severity, rule, path, format string, args ...any) {
		findings = append(findings, Finding{
			Severity: sev,
			Rule:     rule,
			Path:     path,
			Message:  fmt.Sprintf(format, args...),
		})
	}

	if len(p.On.Branches()) == 0 {
		add(SeverityInfo, "trigger-unscoped", ".on.push", "push trigger is not scoped to any branch, every push starts the pipeline")
	}

	for _, jobName := range p.Jobs.OrderedJobNames() {
		job := p.Jobs[jobName]
		base := ".jobs." + jobName

		if len(job.Steps) == 0 {
			add(SeverityError, "empty-job", base, "job has no steps")
			continue
		}

		for idx, step := range job.Steps {
			stepPath := fmt.Sprintf("%s.steps[%d]", base, idx)

			if step.Name == "" && step.ID == "" {
				add(SeverityInfo, "anonymous-step", stepPath, "step has neither name nor id")
			}

			if step.Uses != "" {
				ref, err := v1.ParseActionRef(step.Uses)
				if err == nil {
					switch {
					case ref.Floating():
						add(SeverityWarning, "floating-action", stepPath+".uses", "%s tracks a moving branch head, pin a tag or commit SHA", ref)
					case ref.Kind == v1.ActionRemote && !ref.Pinned():
						add(SeverityWarning, "unpinned-action", stepPath+".uses", "%s is pinned to a tag, not a commit SHA", ref)
					}

					for _, problem := range actions.Vet(ref, step.With) {
						add(SeverityWarning, "action-inputs", stepPath+".with", "%s", problem)
					}
				}
			}

			if step.Run != "" {
				for _, m := range secretSpan.FindAllStringSubmatch(step.Run, -1) {
					inner := strings.TrimSpace(m[1])
					if strings.HasPrefix(inner, "secrets.") {
						add(SeverityWarning, "secret-in-run", stepPath+".run", "%q is interpolated into the script text, pass it through env instead", "${{ "+inner+" }}")
					}
				}
			}

			if err := Expression(step.If).Check(); err != nil {
				add(SeverityError, "bad-if-expression", stepPath+".if", "does not compile: %v", err)
			} else if step.If != "" && neverRuns(Expression(step.If), p.On.Branches()) {
				add(SeverityWarning, "constant-false-if", stepPath+".if", "never evaluates to true for this pipeline's trigger, the step cannot run")
			}

			envNames := make([]string, 0, len(step.Env))
			for envName := range step.Env {
				envNames = append(envNames, envName)
			}
			slices.Sort(envNames)
			for _, envName := range envNames {
				jobVal, ok := job.Env[envName]
				if ok && cast.ToString(jobVal) != cast.ToString(step.Env[envName]) {
					add(SeverityInfo, "env-shadowing", stepPath+".env."+envName, "overrides the job-level value")
				}
			}
		}
	}

	if _, err := SecretRefs(p); err != nil {
		add(SeverityError, "malformed-secret", ".", "%v", err)
	}

	return findings
}

// neverRuns constant-folds the expression against every state the push
// trigger can produce
//
// Only expressions built from branch, always(), and failure() fold; anything
// referencing runner-provided data is left alone.
func neverRuns(e Expression, branches []string) bool {
	if !e.foldable() {
		return false
	}

	if len(branches) == 0 {
		branches = []string{""}
	}

	for _, branch := range branches {
		for _, hasFailed := range []bool{false, true} {
			ok, err := e.Evaluate(hasFailed, branch)
			if err != nil || ok {
				return false
			}
		}
	}
	return true
}
