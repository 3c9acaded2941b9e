// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Pipevet Authors

package v1

import (
	"github.com/invopop/jsonschema"

	"github.com/pipevet/pipevet/schema"
)

// Step is a single step in a job
//
// While a step can have any combination of `run`, and `uses` fields, only one
// of them should be set at a time.
//
// This is enforced by JSON schema validation.
type Step struct {
	// Run is the command/script to run
	Run string `json:"run,omitempty"`
	// Uses is a reference to an externally maintained action
	Uses string `json:"uses,omitempty"`
	// With is a map of parameters for the referenced action
	With schema.With `json:"with,omitempty"`
	// Env is a map of environment variables
	Env schema.Env `json:"env,omitempty"`
	// ID is a unique identifier for the step
	ID string `json:"id,omitempty"`
	// Name is a human-readable name for the step, pure sugar
	Name string `json:"name,omitempty"`
	// If controls whether the runner executes the step
	If string `json:"if,omitempty"`
	// WorkDir is the directory the step runs in
	WorkDir string `json:"working-directory,omitempty"`
	// Shell overrides the shell run is executed with (default: bash)
	Shell string `json:"shell,omitempty"`
	// Timeout caps how long the runner lets the step execute
	Timeout string `json:"timeout,omitempty"`
	// ContinueOnError lets the job proceed when this step fails
	ContinueOnError bool `json:"continue-on-error,omitempty"`
}

// KnownShells lists the shells the dialect accepts for run steps
func KnownShells() []string {
	return []string{"bash", "sh", "pwsh", "python"}
}

// JSONSchemaExtend extends the JSON schema for a step
func (Step) JSONSchemaExtend(s *jsonschema.Schema) {
	if run, ok := s.Properties.Get("run"); ok && run != nil {
		run.Description = "Command/script to run"
	}
	if uses, ok := s.Properties.Get("uses"); ok && uses != nil {
		uses.Description = "Reference to an externally maintained action"
		uses.Examples = []any{
			"actions/checkout@v4",
			"actions/setup-python@82c7e631bb3cdc910f68e0081d67478d79c6982d",
			"./.ci/actions/setup",
			"docker://alpine:3.20",
		}
	}
	if with, ok := s.Properties.Get("with"); ok && with != nil {
		with.Description = "Parameters passed to the referenced action"
		with.Type = "object"
	}
	if env, ok := s.Properties.Get("env"); ok && env != nil {
		env.Description = "Extra environment variables for this step"
		env.Type = "object"
		env.PropertyNames = &jsonschema.Schema{
			Pattern: EnvVariablePattern.String(),
		}
		env.AdditionalProperties = &jsonschema.Schema{
			OneOf: []*jsonschema.Schema{
				{Type: "string"},
				{Type: "boolean"},
				{Type: "integer"},
			},
		}
	}
	if id, ok := s.Properties.Get("id"); ok && id != nil {
		id.Description = "Unique identifier for the step"
		id.Pattern = JobNamePattern.String()
	}
	if name, ok := s.Properties.Get("name"); ok && name != nil {
		name.Description = "Human-readable name for the step, pure sugar"
	}
	if ifProp, ok := s.Properties.Get("if"); ok && ifProp != nil {
		ifProp.Description = "Expression that controls whether the runner executes the step"
	}
	if dir, ok := s.Properties.Get("working-directory"); ok && dir != nil {
		dir.Description = "Relative directory to run the step in"
	}
	if shell, ok := s.Properties.Get("shell"); ok && shell != nil {
		shell.Description = "Shell to execute run with (default: bash)"
		shells := KnownShells()
		enum := make([]any, len(shells))
		for i, sh := range shells {
			enum[i] = sh
		}
		shell.Enum = enum
	}
	if timeout, ok := s.Properties.Get("timeout"); ok && timeout != nil {
		timeout.Description = "How long the runner lets the step execute before cancelling it (e.g. 30m)"
	}
	if coe, ok := s.Properties.Get("continue-on-error"); ok && coe != nil {
		coe.Description = "Let the job proceed when this step fails"
	}

	// a step is either a run step or a uses step, never both
	s.OneOf = []*jsonschema.Schema{
		{Required: []string{"run"}, Not: &jsonschema.Schema{Required: []string{"uses"}}},
		{Required: []string{"uses"}, Not: &jsonschema.Schema{Required: []string{"run"}}},
	}
}

// Title returns the best display name for a step: name, then id, then the
// run/uses payload
func (s Step) Title() string {
	switch {
	case s.Name != "":
		return s.Name
	case s.ID != "":
		return s.ID
	case s.Uses != "":
		return s.Uses
	default:
		return s.Run
	}
}
